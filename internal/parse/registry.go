package parse

import (
	"sync"
	"time"

	"jobsift-engine/internal/domain"
)

// Registry hands out one parser instance per source, built lazily and reused
// for the process lifetime. Construct it once at startup and pass it around;
// there is no package-level instance.
type Registry struct {
	mu        sync.Mutex
	instances map[domain.Source]Parser

	// WWRLookback bounds how old a feed item may be before the
	// WeWorkRemotely parser drops it.
	WWRLookback time.Duration
}

// DefaultWWRLookback matches the feed scan window of the alert emails.
const DefaultWWRLookback = 7 * 24 * time.Hour

func NewRegistry() *Registry {
	return &Registry{
		instances:   make(map[domain.Source]Parser),
		WWRLookback: DefaultWWRLookback,
	}
}

func (r *Registry) construct(src domain.Source) Parser {
	switch src {
	case domain.SourceLinkedIn:
		return &LinkedInParser{}
	case domain.SourceIndeed:
		return &IndeedParser{}
	case domain.SourceGreenhouse:
		return &GreenhouseParser{}
	case domain.SourceWellfound:
		return &WellfoundParser{}
	case domain.SourceWeWorkRemotely:
		return &WeWorkRemotelyParser{Lookback: r.WWRLookback}
	}
	return nil
}

// Get returns the parser for src, or false when the source has no parser
// (including the capture-only "extension" source).
func (r *Registry) Get(src domain.Source) (Parser, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.instances[src]; ok {
		return p, true
	}
	p := r.construct(src)
	if p == nil {
		return nil, false
	}
	r.instances[src] = p
	return p, true
}

// Sources lists every source a parser exists for, in detection-table order.
func (r *Registry) Sources() []domain.Source {
	return []domain.Source{
		domain.SourceLinkedIn,
		domain.SourceIndeed,
		domain.SourceGreenhouse,
		domain.SourceWellfound,
		domain.SourceWeWorkRemotely,
	}
}
