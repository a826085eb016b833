package domain

import "time"

// Source identifies the origin format a job was extracted from.
type Source string

const (
	SourceLinkedIn       Source = "linkedin"
	SourceIndeed         Source = "indeed"
	SourceGreenhouse     Source = "greenhouse"
	SourceWellfound      Source = "wellfound"
	SourceWeWorkRemotely Source = "weworkremotely"
	SourceExtension      Source = "extension"
)

// Status is the user-facing lifecycle of a tracked job.
type Status string

const (
	StatusNew          Status = "new"
	StatusInterested   Status = "interested"
	StatusApplied      Status = "applied"
	StatusInterviewing Status = "interviewing"
	StatusPassed       Status = "passed"
	StatusRejected     Status = "rejected"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusNew, StatusInterested, StatusApplied, StatusInterviewing, StatusPassed, StatusRejected:
		return true
	}
	return false
}

// Field length bounds enforced by every parser before a Job is constructed.
const (
	MaxTitleLen       = 200
	MaxCompanyLen     = 100
	MaxLocationLen    = 100
	MaxRawTextLen     = 1000
	MaxDescriptionLen = 2000
	// Capture submissions carry the full page description, so they get a
	// larger clamp than parsed email bodies.
	MaxCaptureDescriptionLen = 5000
)

// Job is the canonical record every parser produces. Parsers fill the
// extraction fields; Status/Score/CreatedAt/UpdatedAt belong to the store
// merge step and are never set during parsing.
type Job struct {
	ID          string    `json:"job_id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	URL         string    `json:"url"`
	Source      Source    `json:"source"`
	RawText     string    `json:"raw_text"`
	Description string    `json:"description,omitempty"`
	ReceivedAt  time.Time `json:"received_at"`

	Status      Status    `json:"status,omitempty"`
	Score       int       `json:"score"`
	Analysis    string    `json:"analysis,omitempty"` // JSON blob written by the downstream stage
	CoverLetter string    `json:"cover_letter,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}
