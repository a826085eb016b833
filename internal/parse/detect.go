package parse

import (
	"strings"

	"jobsift-engine/internal/domain"
)

// detection markers, checked in order; first hit wins. The LinkedIn and
// Indeed paths come before the bare ATS domains because alert emails often
// mention several boards in their footers.
var detectMarkers = []struct {
	marker string
	source domain.Source
}{
	{"linkedin.com/jobs/view", domain.SourceLinkedIn},
	{"linkedin.com/comm/jobs", domain.SourceLinkedIn},
	{"indeed.com/viewjob", domain.SourceIndeed},
	{"indeed.com/rc/clk", domain.SourceIndeed},
	{"indeed.com/pagead", domain.SourceIndeed},
	{"boards.greenhouse.io", domain.SourceGreenhouse},
	{"greenhouse.io", domain.SourceGreenhouse},
	{"wellfound.com", domain.SourceWellfound},
	{"angel.co", domain.SourceWellfound},
	{"weworkremotely.com", domain.SourceWeWorkRemotely},
}

// DetectSource inspects raw content for source markers. It is advisory:
// callers may override it with an explicit source hint. Returns false when
// nothing matches.
func DetectSource(rawContent string) (domain.Source, bool) {
	low := strings.ToLower(rawContent)
	for _, m := range detectMarkers {
		if strings.Contains(low, m.marker) {
			return m.source, true
		}
	}
	return "", false
}
