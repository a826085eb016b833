// Package ingest runs raw source content through detection, parsing and the
// insert-if-absent merge against the store. Re-running ingestion over the
// same or overlapping sources is idempotent with respect to user- and
// AI-assigned state: existing records are never clobbered.
package ingest

import (
	"context"
	"fmt"
	"log"
	"time"

	"jobsift-engine/internal/domain"
	"jobsift-engine/internal/parse"
)

// Store is the persistence contract the pipeline needs. *store.DB satisfies
// it; tests substitute an in-memory fake.
type Store interface {
	GetJob(ctx context.Context, id string) (*domain.Job, error)
	InsertJobIfAbsent(ctx context.Context, j domain.Job) (bool, error)
	EnrichJob(ctx context.Context, id, description, rawText string) error
}

type Pipeline struct {
	Registry *parse.Registry
	Store    Store
}

func NewPipeline(reg *parse.Registry, st Store) *Pipeline {
	return &Pipeline{Registry: reg, Store: st}
}

// RawContent is one unit of already-fetched source material.
type RawContent struct {
	Body       string
	ReceivedAt time.Time
	// Hint names the source when the fetcher knows it (an RSS fetcher
	// does, a mailbox scan usually doesn't). Empty means auto-detect.
	Hint domain.Source
}

// SourceFailure records a per-source parse failure inside a batch report.
type SourceFailure struct {
	Source domain.Source `json:"source"`
	Error  string        `json:"error"`
}

// Report is what a batch ingestion hands back: always counts, never a hard
// failure just because some sources misbehaved.
type Report struct {
	Found         int             `json:"found"`
	New           int             `json:"new"`
	FailedSources []SourceFailure `json:"failed_sources,omitempty"`
}

// Ingest parses one blob of raw content and merges the results into the
// store. It returns only the records actually inserted by this call.
//
// Resolution order: the caller's hint when it names a registered parser,
// otherwise detection; when both fail the blob is rejected with
// parse.ErrUnrecognizedSource. Parser-level failures come back as
// *parse.SourceError.
func (p *Pipeline) Ingest(ctx context.Context, rc RawContent) ([]domain.Job, error) {
	src, parser, err := p.resolve(rc)
	if err != nil {
		return nil, err
	}

	jobs, err := parser.Parse(rc.Body, rc.ReceivedAt)
	if err != nil {
		return nil, &parse.SourceError{Source: src, Err: err}
	}

	return p.merge(ctx, dedupeBatch(jobs))
}

func (p *Pipeline) resolve(rc RawContent) (domain.Source, parse.Parser, error) {
	if rc.Hint != "" {
		if parser, ok := p.Registry.Get(rc.Hint); ok {
			return rc.Hint, parser, nil
		}
		log.Printf("[ingest] hint %q not registered, falling back to detection", rc.Hint)
	}

	src, ok := parse.DetectSource(rc.Body)
	if !ok {
		return "", nil, parse.ErrUnrecognizedSource
	}
	parser, ok := p.Registry.Get(src)
	if !ok {
		return "", nil, fmt.Errorf("detected %s: %w", src, parse.ErrUnrecognizedSource)
	}
	return src, parser, nil
}

// dedupeBatch collapses in-batch duplicates by id, last wins. Records for
// the same id inside one batch are near-identical, so order barely matters.
func dedupeBatch(jobs []domain.Job) []domain.Job {
	idx := make(map[string]int, len(jobs))
	out := jobs[:0]
	for _, j := range jobs {
		if i, ok := idx[j.ID]; ok {
			out[i] = j
			continue
		}
		idx[j.ID] = len(out)
		out = append(out, j)
	}
	return out
}

func (p *Pipeline) merge(ctx context.Context, jobs []domain.Job) ([]domain.Job, error) {
	var inserted []domain.Job
	for _, j := range jobs {
		ok, err := p.Store.InsertJobIfAbsent(ctx, j)
		if err != nil {
			// one bad row must not sink the batch
			log.Printf("[ingest:%s] insert error id=%s url=%q err=%v", j.Source, j.ID, j.URL, err)
			continue
		}
		if ok {
			inserted = append(inserted, j)
		}
	}
	return inserted, nil
}

// IngestBatch runs several blobs and aggregates counts. Unrecognized or
// unreadable sources are reported, not fatal; the other blobs still land.
func (p *Pipeline) IngestBatch(ctx context.Context, batch []RawContent) Report {
	var rep Report
	for _, rc := range batch {
		src, parser, err := p.resolve(rc)
		if err != nil {
			log.Printf("[ingest] skipping blob: %v", err)
			rep.FailedSources = append(rep.FailedSources, SourceFailure{Source: rc.Hint, Error: err.Error()})
			continue
		}

		jobs, err := parser.Parse(rc.Body, rc.ReceivedAt)
		if err != nil {
			log.Printf("[ingest:%s] parse failure: %v", src, err)
			rep.FailedSources = append(rep.FailedSources, SourceFailure{Source: src, Error: err.Error()})
			continue
		}

		jobs = dedupeBatch(jobs)
		rep.Found += len(jobs)

		inserted, _ := p.merge(ctx, jobs)
		rep.New += len(inserted)
	}
	return rep
}
