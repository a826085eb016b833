// Package fetch supplies the pipeline with already-fetched raw content:
// RSS feed bodies over HTTP and job-alert email bodies over IMAP. Fetchers
// tolerate partial failure; one dead feed or mailbox never aborts a scan.
package fetch

import (
	"context"

	"jobsift-engine/internal/ingest"
)

// Fetcher is one independent raw-content source for a scan run.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]ingest.RawContent, error)
}
