package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mosca-iot/hub/internal/cache"
	"github.com/mosca-iot/hub/internal/config"
	"github.com/mosca-iot/hub/internal/database"
	"github.com/mosca-iot/hub/internal/repository"
	"github.com/mosca-iot/hub/internal/repository/memory"
	"github.com/mosca-iot/hub/internal/repository/postgres"
	"github.com/mosca-iot/hub/internal/repository/timescale"
	nuts "github.com/vaudience/go-nuts"
)

type pinger func(ctx context.Context) error

// storage is the set of repositories the hub runs on plus what is needed to
// check and release them.
type storage struct {
	thresholds  repository.ThresholdRepository
	samples     repository.SampleRepository
	components  repository.ComponentRepository
	alerts      repository.AlertRepository
	activations repository.ActivationRepository

	pingers map[string]pinger
	closers []io.Closer
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	var st *storage
	var err error
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		st = openMemory()
	case config.DriverPostgres:
		st, err = openPostgres(ctx, cfg)
	default:
		err = fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Redis.Enabled {
		rdb, err := cache.NewClient(ctx, cfg.Redis)
		if err != nil {
			st.close()
			return nil, err
		}
		st.thresholds = cache.NewThresholdCache(st.thresholds, rdb, cfg.Redis.TTL)
		st.samples = cache.NewSampleCache(st.samples, rdb)
		st.pingers["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		st.closers = append(st.closers, rdb)
	}
	return st, nil
}

func openMemory() *storage {
	nuts.L.Warnf("[Server] Using in-memory storage, data is lost on restart")
	m := memory.NewStore()
	return &storage{
		thresholds:  m.Thresholds,
		samples:     m.Samples,
		components:  m.Components,
		alerts:      m.Alerts,
		activations: m.Activations,
		pingers:     map[string]pinger{},
	}
}

func openPostgres(ctx context.Context, cfg *config.Config) (*storage, error) {
	tsdb, err := database.NewTimescaleDB(cfg.Database.TimescaleDB)
	if err != nil {
		return nil, err
	}
	appDB, err := database.NewPostgresDB(cfg.Database.AppDB)
	if err != nil {
		tsdb.Close()
		return nil, err
	}
	st := &storage{
		pingers: map[string]pinger{
			"timescaledb": tsdb.Ping,
			"postgres":    appDB.Ping,
		},
		closers: []io.Closer{tsdb, appDB},
	}

	if err := postgres.InitSchema(ctx, appDB); err != nil {
		st.close()
		return nil, err
	}
	samples, err := timescale.NewSampleRepository(tsdb)
	if err != nil {
		st.close()
		return nil, err
	}

	st.thresholds = postgres.NewThresholdRepository(appDB)
	st.components = postgres.NewComponentRepository(appDB)
	st.alerts = postgres.NewAlertRepository(appDB)
	st.activations = postgres.NewActivationRepository(appDB)
	st.samples = samples
	return st, nil
}

func (st *storage) ping(ctx context.Context) map[string]string {
	results := map[string]string{}
	for name, p := range st.pingers {
		if err := p(ctx); err != nil {
			results[name] = err.Error()
			continue
		}
		results[name] = "ok"
	}
	return results
}

func (st *storage) close() {
	for i := len(st.closers) - 1; i >= 0; i-- {
		if err := st.closers[i].Close(); err != nil {
			nuts.L.Warnf("[Server] Failed to close store: %v", err)
		}
	}
}

func writeJSON(w io.Writer, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		nuts.L.Errorf("[Server] Failed to encode response: %v", err)
	}
}
