package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobsift-engine/internal/domain"
)

var wellfoundReceived = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

const wellfoundAlertBody = `
<html><body>
<div>
  <a href="https://wellfound.com/jobs/2900001-founding-engineer?utm_source=alert">Founding Engineer at Nimbus</a>
  <p>Location: San Francisco, CA</p>
</div>
</body></html>`

func TestWellfoundParseCard(t *testing.T) {
	p := &WellfoundParser{}

	jobs, err := p.Parse(wellfoundAlertBody, wellfoundReceived)
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	j := jobs[0]
	assert.Equal(t, "Founding Engineer", j.Title)
	assert.Equal(t, "Nimbus", j.Company)
	assert.Equal(t, "San Francisco, CA", j.Location)
	assert.Equal(t, "https://wellfound.com/jobs/2900001-founding-engineer", j.URL)
	assert.Equal(t, domain.SourceWellfound, j.Source)
}

func TestWellfoundParseLegacyAngelDomain(t *testing.T) {
	body := `
	<html><body>
	<a href="https://angel.co/company/nimbus/jobs/2900002-backend-engineer">Backend Engineer at Nimbus</a>
	</body></html>`

	p := &WellfoundParser{}
	jobs, err := p.Parse(body, wellfoundReceived)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Backend Engineer", jobs[0].Title)
	assert.Equal(t, "Nimbus", jobs[0].Company)
}

func TestWellfoundParseNoCompanyDefaultsUnknown(t *testing.T) {
	body := `
	<html><body>
	<a href="https://wellfound.com/jobs/2900003-devops-engineer">DevOps Engineer</a>
	</body></html>`

	p := &WellfoundParser{}
	jobs, err := p.Parse(body, wellfoundReceived)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Unknown", jobs[0].Company)
}

func TestSplitTitleAtCompany(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		wantTitle   string
		wantCompany string
	}{
		{"standard", "Founding Engineer at Nimbus", "Founding Engineer", "Nimbus"},
		{"no joint", "Founding Engineer", "Founding Engineer", ""},
		{"at inside words untouched", "Data Platform Lead", "Data Platform Lead", ""},
		{"first joint wins", "Engineer at Nimbus at Scale", "Engineer", "Nimbus at Scale"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, company := splitTitleAtCompany(tt.in)
			assert.Equal(t, tt.wantTitle, title)
			assert.Equal(t, tt.wantCompany, company)
		})
	}
}
