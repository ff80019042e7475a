package main

import (
	"fmt"

	"github.com/pders01/skim/internal/config"
	"github.com/pders01/skim/internal/debuglog"
	"github.com/pders01/skim/internal/feed"
	"github.com/pders01/skim/internal/media"
	"github.com/pders01/skim/internal/search"
	"github.com/pders01/skim/internal/storage"
	"github.com/pders01/skim/internal/syncer"
	"github.com/pders01/skim/internal/tui"
)

// runtime holds the opened backends shared by every subcommand.
type runtime struct {
	cfg     *config.Config
	store   *storage.Store
	index   *search.Index
	manager *feed.Manager
	syncer  *syncer.Syncer
}

func openRuntime() (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), cfg.Log.Path); err != nil {
		return nil, err
	}

	store, err := storage.NewStore(cfg.Database.Path, cfg.Database.Timeout)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	rt := &runtime{cfg: cfg, store: store}
	rt.manager = feed.NewManager(store, cfg)
	rt.syncer = syncer.New(rt.manager)

	idx, err := search.Open(store, cfg.Database.SearchIndex)
	if err != nil {
		debuglog.Warnf("search disabled: %v", err)
		return rt, nil
	}
	if n, countErr := idx.DocCount(); countErr == nil && n == 0 {
		if err := idx.Reindex(); err != nil {
			debuglog.Warnf("building search index: %v", err)
		}
	}
	rt.index = idx
	rt.manager.SetListener(idx)
	return rt, nil
}

// services returns the TUI backends. A missing index or opener stays a nil
// interface so the TUI can detect it.
func (rt *runtime) services() tui.Services {
	svc := tui.Services{
		Store:   rt.store,
		Manager: rt.manager,
		Syncer:  rt.syncer,
	}
	if rt.index != nil {
		svc.Search = rt.index
	}
	launcher, err := media.NewLauncher(rt.cfg)
	if err != nil {
		debuglog.Warnf("media launcher unavailable: %v", err)
	} else {
		svc.Opener = launcher
	}
	return svc
}

// docCount is the index size, or -1 without an index.
func (rt *runtime) docCount() int {
	if rt.index == nil {
		return -1
	}
	n, err := rt.index.DocCount()
	if err != nil {
		return -1
	}
	return n
}

func (rt *runtime) Close() {
	if rt.index != nil {
		if err := rt.index.Close(); err != nil {
			debuglog.Warnf("closing search index: %v", err)
		}
	}
	if err := rt.store.Close(); err != nil {
		debuglog.Warnf("closing database: %v", err)
	}
	_ = debuglog.Close()
}
