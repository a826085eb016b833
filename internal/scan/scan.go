// Package scan runs one ingestion pass: build the enabled fetchers from
// config, pull raw content concurrently, and push everything through the
// pipeline. A pass never hard-fails because one source did.
package scan

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"jobsift-engine/internal/config"
	"jobsift-engine/internal/fetch"
	"jobsift-engine/internal/ingest"
	"jobsift-engine/internal/secrets"
)

const (
	feedTimeout = 2 * time.Minute
	mailTimeout = 2 * time.Minute
)

// Status is the last-run snapshot surfaced by GET /scan/status.
type Status struct {
	Running   bool   `json:"running"`
	LastRunAt string `json:"last_run_at,omitempty"`
	LastOkAt  string `json:"last_ok_at,omitempty"`
	LastError string `json:"last_error,omitempty"`
	LastFound int    `json:"last_found"`
	LastNew   int    `json:"last_new"`
}

type Runner struct {
	Pipeline *ingest.Pipeline
	// Password resolves the IMAP password at run time so a secret rotated
	// mid-session is picked up without a restart.
	Password func(account string) (string, error)
}

// RunOnce executes one scan pass over the enabled sources and returns the
// aggregate report. Fetch failures are folded into the report.
func (r *Runner) RunOnce(ctx context.Context, cfg config.Config) ingest.Report {
	fetchers := r.buildFetchers(cfg)
	if len(fetchers) == 0 {
		log.Printf("[scan] no sources enabled, nothing to do")
		return ingest.Report{}
	}

	var (
		mu    sync.Mutex
		batch []ingest.RawContent
		rep   ingest.Report
	)

	var g errgroup.Group
	for _, f := range fetchers {
		f := f
		g.Go(func() error {
			timeout := feedTimeout
			if f.Name() == "mail" {
				timeout = mailTimeout
			}
			fctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			log.Printf("[scan:%s] running", f.Name())
			got, err := f.Fetch(fctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("[scan:%s] error: %v", f.Name(), err)
				rep.FailedSources = append(rep.FailedSources, ingest.SourceFailure{
					Source: "", Error: fmt.Sprintf("%s: %v", f.Name(), err),
				})
				return nil
			}
			batch = append(batch, got...)
			return nil
		})
	}
	_ = g.Wait()

	ingested := r.Pipeline.IngestBatch(ctx, batch)
	rep.Found += ingested.Found
	rep.New += ingested.New
	rep.FailedSources = append(rep.FailedSources, ingested.FailedSources...)

	log.Printf("[scan] done found=%d new=%d failed=%d", rep.Found, rep.New, len(rep.FailedSources))
	return rep
}

func (r *Runner) buildFetchers(cfg config.Config) []fetch.Fetcher {
	var fetchers []fetch.Fetcher

	if cfg.Feeds.Enabled && len(cfg.Feeds.URLs) > 0 {
		fetchers = append(fetchers, fetch.NewFeedFetcher(cfg.Feeds.URLs))
	}

	if cfg.Email.Enabled {
		password, err := r.Password(secrets.ResolveIMAPAccount(cfg))
		if err != nil {
			log.Printf("[scan:mail] password unavailable: %v", err)
		} else {
			fetchers = append(fetchers, &fetch.MailFetcher{
				Addr:       fmt.Sprintf("%s:%d", cfg.Email.IMAPHost, cfg.Email.IMAPPort),
				Username:   cfg.Email.Username,
				Password:   password,
				Mailbox:    cfg.Email.Mailbox,
				SubjectAny: cfg.Email.SearchSubjectAny,
			})
		}
	}

	return fetchers
}
