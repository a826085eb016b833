package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"jobsift-engine/internal/domain"
	"jobsift-engine/internal/ingest"
)

const (
	feedFetchTimeout = 10 * time.Second
	feedMaxBody      = 4 << 20
	feedConcurrency  = 4
)

// FeedFetcher pulls a set of RSS feed bodies. Each body is handed to the
// pipeline with a source hint so the registry skips detection.
type FeedFetcher struct {
	URLs    []string
	Hint    domain.Source
	Client  *http.Client
	Limiter *HostLimiter
}

func NewFeedFetcher(urls []string) *FeedFetcher {
	return &FeedFetcher{
		URLs:    urls,
		Hint:    domain.SourceWeWorkRemotely,
		Client:  &http.Client{Timeout: feedFetchTimeout},
		Limiter: NewHostLimiter(1, 2),
	}
}

func (f *FeedFetcher) Name() string { return "feeds" }

// Fetch downloads every configured feed concurrently. Failing feeds are
// logged and skipped; an error comes back only when nothing was fetched at
// all, so transient trouble on one host never blanks a scan.
func (f *FeedFetcher) Fetch(ctx context.Context) ([]ingest.RawContent, error) {
	if len(f.URLs) == 0 {
		return nil, nil
	}

	var (
		mu     sync.Mutex
		out    []ingest.RawContent
		failed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(feedConcurrency)

	for _, u := range f.URLs {
		u := u
		g.Go(func() error {
			body, err := f.fetchOne(gctx, u)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("[fetch:feeds] %s: %v", u, err)
				failed++
				return nil
			}
			out = append(out, ingest.RawContent{
				Body:       body,
				ReceivedAt: time.Now().UTC(),
				Hint:       f.Hint,
			})
			return nil
		})
	}
	_ = g.Wait()

	if len(out) == 0 && failed > 0 {
		return nil, fmt.Errorf("all %d feeds failed", failed)
	}
	return out, nil
}

func (f *FeedFetcher) fetchOne(ctx context.Context, url string) (string, error) {
	if err := f.Limiter.WaitURL(ctx, url); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, feedFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "jobsift-engine/1.0")
	req.Header.Set("Accept", "application/rss+xml, application/xml, text/xml")

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, feedMaxBody))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
