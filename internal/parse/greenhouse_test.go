package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobsift-engine/internal/domain"
)

var greenhouseReceived = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

const greenhouseAlertBody = `
<html><body>
<div>
  <a href="https://boards.greenhouse.io/acme-robotics/jobs/4567890">
    <strong>Platform Engineer</strong>
  </a>
  <p>Location: Remote - US</p>
</div>
</body></html>`

func TestGreenhouseParseCard(t *testing.T) {
	p := &GreenhouseParser{}

	jobs, err := p.Parse(greenhouseAlertBody, greenhouseReceived)
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	j := jobs[0]
	assert.Equal(t, "Platform Engineer", j.Title)
	assert.Equal(t, "Acme Robotics", j.Company)
	assert.Equal(t, "Remote - US", j.Location)
	assert.Equal(t, "https://boards.greenhouse.io/acme-robotics/jobs/4567890", j.URL)
	assert.Equal(t, domain.SourceGreenhouse, j.Source)
}

func TestGreenhouseParseIgnoresNonJobLinks(t *testing.T) {
	body := `
	<html><body>
	<a href="https://boards.greenhouse.io/acme-robotics">Careers at Acme</a>
	<a href="https://www.greenhouse.io/privacy-policy">Privacy Policy</a>
	</body></html>`

	p := &GreenhouseParser{}
	jobs, err := p.Parse(body, greenhouseReceived)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestGreenhouseBoardName(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"hyphenated slug", "https://boards.greenhouse.io/acme-robotics/jobs/123", "Acme Robotics"},
		{"single word", "https://boards.greenhouse.io/stripe/jobs/456", "Stripe"},
		{"underscored slug", "https://boards.greenhouse.io/initech_labs/jobs/789", "Initech Labs"},
		{"no slug", "https://boards.greenhouse.io/jobs/123", ""},
		{"unparseable", "://bad", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, greenhouseBoardName(tt.url))
		})
	}
}
