package ingest

import (
	"context"
	"errors"
	"strings"
	"time"

	"jobsift-engine/internal/domain"
	"jobsift-engine/internal/jobid"
	"jobsift-engine/internal/parse/util"
)

// Capture is a pre-extracted job submitted directly (browser extension),
// bypassing the source parsers but not identity assignment or the merge
// contract.
type Capture struct {
	URL         string        `json:"url"`
	Title       string        `json:"title"`
	Company     string        `json:"company"`
	Location    string        `json:"location"`
	Description string        `json:"description"`
	Source      domain.Source `json:"source"`
}

// CaptureResult reports what the merge did with the submission.
type CaptureResult struct {
	JobID   string `json:"job_id"`
	Created bool   `json:"created"`
}

var ErrCaptureIncomplete = errors.New("capture requires url and title")

// captureDomains maps posting URLs back to a provenance tag when the
// extension didn't say where it was.
var captureDomains = []struct {
	marker string
	source domain.Source
}{
	{"linkedin.com", domain.SourceLinkedIn},
	{"indeed.com", domain.SourceIndeed},
	{"greenhouse.io", domain.SourceGreenhouse},
	{"wellfound.com", domain.SourceWellfound},
	{"angel.co", domain.SourceWellfound},
	{"weworkremotely.com", domain.SourceWeWorkRemotely},
}

// IngestCapture merges one captured job. New identities insert as usual;
// an existing record only gets its blank description/raw text filled in;
// status, score, analysis and cover letter stay untouched.
func (p *Pipeline) IngestCapture(ctx context.Context, c Capture) (CaptureResult, error) {
	url := util.CleanURL(strings.TrimSpace(c.URL))
	title := util.Truncate(util.CleanText(c.Title), domain.MaxTitleLen)
	if url == "" || title == "" {
		return CaptureResult{}, ErrCaptureIncomplete
	}

	src := c.Source
	if src == "" {
		src = domain.SourceExtension
	}
	low := strings.ToLower(url)
	for _, d := range captureDomains {
		if strings.Contains(low, d.marker) {
			src = d.source
			break
		}
	}

	// identity must match what a parser would assign for the same posting,
	// so the company defaults to Unknown before hashing
	company := util.Truncate(util.CleanText(c.Company), domain.MaxCompanyLen)
	if company == "" {
		company = "Unknown"
	}
	description := util.Truncate(strings.TrimSpace(c.Description), domain.MaxCaptureDescriptionLen)
	rawText := util.Truncate(util.CleanText(c.Description), domain.MaxRawTextLen)

	id := jobid.New(url, title, company)

	existing, err := p.Store.GetJob(ctx, id)
	if err != nil {
		return CaptureResult{}, err
	}
	if existing != nil {
		if err := p.Store.EnrichJob(ctx, id, description, rawText); err != nil {
			return CaptureResult{}, err
		}
		return CaptureResult{JobID: id, Created: false}, nil
	}

	location := c.Location
	if location == "" {
		location = "Remote"
	}

	job := domain.Job{
		ID:          id,
		Title:       title,
		Company:     company,
		Location:    util.Truncate(util.NormalizeLocation(location), domain.MaxLocationLen),
		URL:         url,
		Source:      src,
		RawText:     rawText,
		Description: description,
		ReceivedAt:  time.Now().UTC(),
	}

	created, err := p.Store.InsertJobIfAbsent(ctx, job)
	if err != nil {
		return CaptureResult{}, err
	}
	// created=false here means we raced another ingest; the loser is a no-op
	return CaptureResult{JobID: id, Created: created}, nil
}
