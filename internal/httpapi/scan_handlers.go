package httpapi

import (
	"context"
	"net/http"
	"sync/atomic"

	"jobsift-engine/internal/config"
	"jobsift-engine/internal/events"
	"jobsift-engine/internal/ingest"
	"jobsift-engine/internal/scan"
)

type ScanHandler struct {
	CfgVal     *atomic.Value // config.Config
	ScanStatus *scan.Tracker
	Hub        *events.Hub
	RunScan    func(ctx context.Context, cfg config.Config) ingest.Report
}

func (h ScanHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.ScanStatus.Current())
}

// Run kicks off one scan pass in the background. A second request while one
// is running is rejected rather than queued.
func (h ScanHandler) Run(w http.ResponseWriter, r *http.Request) {
	if !h.ScanStatus.TryBegin() {
		writeJSON(w, map[string]any{"ok": false, "msg": "already running"})
		return
	}

	go func() {
		cfg := h.CfgVal.Load().(config.Config)
		rep := h.RunScan(context.Background(), cfg)
		h.ScanStatus.Finish(rep)

		h.Hub.Publish(events.MakeEvent("", events.EventScanDone, 1, map[string]any{"found": rep.Found, "new": rep.New}))
	}()

	writeJSON(w, map[string]any{"ok": true})
}
