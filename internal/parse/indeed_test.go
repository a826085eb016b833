package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobsift-engine/internal/domain"
)

var indeedReceived = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

const indeedAlertBody = `
<html><body>
<table><tr><td>
  <a href="https://www.indeed.com/rc/clk?jk=0123abcd4567ef89&tk=track&from=ja">Senior Go Developer</a>
  <div>3.9 1,024 reviews</div>
  <div>Initech</div>
  <div>Austin, TX 78701</div>
  <div>$140,000 - $170,000 a year</div>
</td></tr></table>
</body></html>`

func TestIndeedParseCard(t *testing.T) {
	p := &IndeedParser{}

	jobs, err := p.Parse(indeedAlertBody, indeedReceived)
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	j := jobs[0]
	assert.Equal(t, "Senior Go Developer", j.Title)
	assert.Equal(t, "Initech", j.Company)
	assert.Equal(t, "Austin, TX 78701", j.Location)
	assert.Equal(t, "https://www.indeed.com/rc/clk?jk=0123abcd4567ef89", j.URL)
	assert.Equal(t, domain.SourceIndeed, j.Source)
	assert.NotEmpty(t, j.RawText)
}

func TestIndeedParseSkipsRatingAndSalaryLines(t *testing.T) {
	// rating directly under the title, salary between company and location
	body := `
	<html><body>
	<td>
	  <a href="https://www.indeed.com/viewjob?vjk=fedcba9876543210">Platform Engineer</a>
	  <div>4.5 88 reviews</div>
	  <div>$95 an hour</div>
	  <div>Globex LLC</div>
	  <div>Remote</div>
	</td>
	</body></html>`

	p := &IndeedParser{}
	jobs, err := p.Parse(body, indeedReceived)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Globex LLC", jobs[0].Company)
	assert.Equal(t, "Remote", jobs[0].Location)
}

func TestIndeedParseIgnoresNonJobAnchors(t *testing.T) {
	body := `
	<html><body>
	<a href="https://www.indeed.com/cmp/Initech">Initech company page</a>
	<a href="https://www.indeed.com/viewjob?jk=abc123def4567890">View job</a>
	</body></html>`

	p := &IndeedParser{}
	jobs, err := p.Parse(body, indeedReceived)
	require.NoError(t, err)
	assert.Empty(t, jobs, "company pages and boilerplate link text are skipped")
}

func TestIndeedParseDedupsByURL(t *testing.T) {
	body := `
	<html><body>
	<td><a href="https://www.indeed.com/viewjob?jk=aabbccdd&tk=one">Data Engineer</a></td>
	<td><a href="https://www.indeed.com/viewjob?jk=aabbccdd&tk=two">Data Engineer</a></td>
	</body></html>`

	p := &IndeedParser{}
	jobs, err := p.Parse(body, indeedReceived)
	require.NoError(t, err)
	assert.Len(t, jobs, 1, "tracking params differ but the cleaned URL is the same job")
}

func TestLooksLikeIndeedLocation(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Remote", true},
		{"Hybrid remote in Denver", true},
		{"Austin, TX", true},
		{"Seattle WA", true},
		{"Initech Solutions", false},
		{"Coordinator", false}, // OR inside a word is not a state code
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, looksLikeIndeedLocation(tt.line))
		})
	}
}

func TestScanIndeedLinesNoCompanyFound(t *testing.T) {
	company, location := scanIndeedLines([]string{"Senior Go Developer"}, "Senior Go Developer")
	assert.Empty(t, company)
	assert.Empty(t, location)
}
