package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"jobsift-engine/internal/config"
	"jobsift-engine/internal/events"
	"jobsift-engine/internal/httpapi"
	"jobsift-engine/internal/ingest"
	"jobsift-engine/internal/parse"
	"jobsift-engine/internal/scan"
	"jobsift-engine/internal/scheduler"
	"jobsift-engine/internal/secrets"
	"jobsift-engine/internal/store"
)

func main() {
	// Data dir: env wins (a desktop shell can pass one), else local folder.
	dataDir := os.Getenv("JOBSIFT_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	// One engine per data dir; a second instance would race the sqlite file.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("lock %s: %v", lock.Path(), err)
	}
	if !locked {
		log.Fatalf("another engine is already running on %s", dataDir)
	}
	defer func() { _ = lock.Unlock() }()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		return config.Load(userCfgPath)
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfg, vr := config.NormalizeAndValidate(cfg)
	for _, warning := range vr.Warnings {
		log.Printf("[config] warning: %s", warning)
	}
	if !vr.OK() {
		log.Fatalf("config invalid (%s): %v", userCfgPath, vr.Errors)
	}
	cfgVal.Store(cfg)

	db, err := store.Open(filepath.Join(dataDir, "jobsift.db"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := store.Migrate(db.Pool); err != nil {
		log.Fatal(err)
	}

	registry := parse.NewRegistry()
	if cfg.Feeds.LookbackDays > 0 {
		registry.WWRLookback = time.Duration(cfg.Feeds.LookbackDays) * 24 * time.Hour
	}
	pipeline := ingest.NewPipeline(registry, db)

	hub := events.NewHub()

	runner := &scan.Runner{
		Pipeline: pipeline,
		Password: secrets.GetIMAPPassword,
	}

	scanStatus := scan.NewTracker()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Background scan loop.
	scanEvery := time.Duration(cfg.Polling.ScanSeconds) * time.Second
	go scheduler.Every(ctx, scanEvery, "scan", func(ctx context.Context) error {
		cur := cfgVal.Load().(config.Config)
		if !cur.Feeds.Enabled && !cur.Email.Enabled {
			return nil
		}
		if !scanStatus.TryBegin() {
			return nil
		}

		rep := runner.RunOnce(ctx, cur)
		scanStatus.Finish(rep)

		hub.Publish(events.MakeEvent("", events.EventScanDone, 1, map[string]any{"found": rep.Found, "new": rep.New}))
		return nil
	})

	// Daily cleanup of untouched old jobs.
	if cfg.Polling.CleanupDays > 0 {
		go scheduler.Every(ctx, 24*time.Hour, "cleanup", func(ctx context.Context) error {
			cur := cfgVal.Load().(config.Config)
			n, err := db.CleanupOldJobs(ctx, time.Duration(cur.Polling.CleanupDays)*24*time.Hour)
			if err != nil {
				return err
			}
			if n > 0 {
				log.Printf("[cleanup] removed %d stale jobs", n)
			}
			return nil
		})
	}

	mux := httpapi.NewMux(httpapi.Deps{
		Store:       db,
		Pipeline:    pipeline,
		Hub:         hub,
		CfgVal:      &cfgVal,
		ScanStatus:  scanStatus,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
		RunScan:     runner.RunOnce,
	})

	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.App.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}

	srv := &http.Server{
		Handler: httpapi.Chain(mux,
			httpapi.Recover,
			httpapi.RequestID,
			httpapi.AccessLog,
			httpapi.Cors,
		),
		ReadHeaderTimeout: 5 * time.Second,
	}

	token, err := randomToken(16)
	if err != nil {
		log.Fatal(err)
	}
	mux.HandleFunc("/shutdown", shutdownHandler(&token, srv))
	log.Printf("engine listening on http://%s (data=%s) shutdown_token=%s", addr, dataDir, token)

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
	log.Printf("engine stopped")
}
