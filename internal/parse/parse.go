// Package parse turns raw source content (job-alert email HTML, RSS feed
// bodies) into canonical job records. One parser per source, all behind the
// same interface; the detector picks a parser when the caller has no hint.
package parse

import (
	"errors"
	"fmt"
	"time"

	"jobsift-engine/internal/domain"
)

// Parser extracts canonical jobs from one source format. Implementations are
// stateless with respect to data and safe to share across goroutines.
//
// Parse never fails on a malformed individual listing; it skips the item and
// keeps going. A non-nil error means the document itself was unreadable and
// no traversal happened, which callers must treat differently from an empty
// result.
type Parser interface {
	Source() domain.Source
	Parse(rawContent string, receivedAt time.Time) ([]domain.Job, error)
}

// ErrUnrecognizedSource is returned when neither the caller's hint nor the
// detector resolves to a registered parser.
var ErrUnrecognizedSource = errors.New("unrecognized source")

// SourceError wraps a parser-level failure with the source it came from, so a
// batch can report which sources broke without losing the others.
type SourceError struct {
	Source domain.Source
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// minTitleLen guards against icon-only and decorative links.
const minTitleLen = 3

// excludePhrases is boilerplate link text that never names a job. Literal
// substrings, checked case-insensitively, deliberately not a classifier.
var excludePhrases = []string{
	"unsubscribe",
	"view all",
	"see all",
	"see more jobs",
	"view job",
	"help center",
	"homepage",
	"messages",
	"notifications",
	"easily apply",
	"responsive employer",
	"manage your",
	"email preferences",
	"privacy policy",
	"sign in",
	"download the app",
}
