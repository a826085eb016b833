package scan

import (
	"sync"
	"time"

	"jobsift-engine/internal/ingest"
)

// Tracker serializes scan passes and holds the last-run snapshot. The
// scheduler loop and the manual /api/scan endpoint share one Tracker, so the
// running guard must be exclusive rather than a read-then-write race.
type Tracker struct {
	mu sync.Mutex
	st Status
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// TryBegin marks a pass as running and returns false when one is already in
// flight. Exactly one concurrent caller wins.
func (t *Tracker) TryBegin() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.st.Running {
		return false
	}
	t.st.Running = true
	t.st.LastRunAt = time.Now().Format(time.RFC3339)
	return true
}

// Finish records the pass outcome and clears the running flag.
func (t *Tracker) Finish(rep ingest.Report) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now().Format(time.RFC3339)
	t.st.Running = false
	t.st.LastRunAt = now
	t.st.LastFound = rep.Found
	t.st.LastNew = rep.New
	if len(rep.FailedSources) > 0 {
		t.st.LastError = rep.FailedSources[0].Error
	} else {
		t.st.LastError = ""
		t.st.LastOkAt = now
	}
}

// Current returns a copy of the snapshot.
func (t *Tracker) Current() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.st
}
