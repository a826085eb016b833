package httpapi

import (
	"context"
	"sync/atomic"

	"jobsift-engine/internal/config"
	"jobsift-engine/internal/events"
	"jobsift-engine/internal/ingest"
	"jobsift-engine/internal/scan"
	"jobsift-engine/internal/store"
)

type Deps struct {
	Store *store.DB

	Pipeline *ingest.Pipeline

	Hub *events.Hub

	// Shared with the scheduler loops.
	CfgVal     *atomic.Value // stores config.Config
	ScanStatus *scan.Tracker

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Scan entrypoint (injected for testability)
	RunScan func(ctx context.Context, cfg config.Config) ingest.Report
}
