package league

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/aatrey56/bundesliga-fuenfjahr/internal/cache"
	"github.com/aatrey56/bundesliga-fuenfjahr/internal/config"
	"github.com/aatrey56/bundesliga-fuenfjahr/internal/extract"
	"github.com/aatrey56/bundesliga-fuenfjahr/internal/fetch"
	"github.com/aatrey56/bundesliga-fuenfjahr/internal/simulate"
	"github.com/aatrey56/bundesliga-fuenfjahr/internal/store"
)

// Runtime bundles a Service with the resources it was built on.
type Runtime struct {
	Service   *Service
	Client    *fetch.Client
	Extractor *extract.Extractor
	Raw       *store.RawStore // nil when the raw cache is disabled
	SQL       *store.SQLStore // nil when no store driver is configured
}

// Open wires sources, caches and stores from cfg.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Runtime, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	rt := &Runtime{}

	if cfg.Cache.RawEnabled && cfg.Cache.RawDir != "" {
		rt.Raw = store.NewRawStore(cfg.Cache.RawDir)
	}
	client := fetch.NewClient(rt.Raw)
	client.UserAgent = cfg.Source.UserAgent
	client.Timeout = cfg.Source.Timeout
	client.Logger = logger.Named("fetch")
	rt.Client = client

	ex := extract.New(client)
	ex.Templates = cfg.Source.Templates
	ex.Title = cfg.Source.Title
	ex.Logger = logger.Named("extract")
	rt.Extractor = ex

	web := cache.NewLoader(cache.NewMemory(cfg.Cache.Policy()), ex)
	web.Logger = logger.Named("cache")
	web.MaxAge = cfg.Cache.TTL
	if cfg.Store.Driver != "" {
		if err := ensureSQLiteDir(cfg.Store); err != nil {
			return nil, err
		}
		sqlStore, err := store.OpenSQLStore(ctx, cfg.Store.Driver, cfg.Store.DSN)
		if err != nil {
			return nil, err
		}
		rt.SQL = sqlStore
		web.Backing = sqlStore
	}

	sim := cache.NewLoader(cache.NewMemory(cache.Policy{}), simulate.New(cfg.Source.Seed))
	sim.Logger = logger.Named("cache")

	svc := New(cfg.Source.Mode, map[string]*cache.Loader{
		SourceWeb:       web,
		SourceSimulated: sim,
	})
	svc.MinYear = cfg.Source.MinYear
	svc.MaxYear = cfg.Source.MaxYear
	svc.Workers = cfg.Workers
	svc.Logger = logger.Named("league")
	rt.Service = svc
	return rt, nil
}

func ensureSQLiteDir(sc config.StoreConfig) error {
	if sc.Driver != store.DriverSQLite || sc.DSN == "" || sc.DSN == ":memory:" {
		return nil
	}
	dir := filepath.Dir(sc.DSN)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating database dir %s: %w", dir, err)
	}
	return nil
}

// Close releases the SQL store, if any.
func (r *Runtime) Close() error {
	if r.SQL == nil {
		return nil
	}
	return r.SQL.Close()
}
