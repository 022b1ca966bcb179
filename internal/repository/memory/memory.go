// Package memory holds process-local repositories used by the memory storage
// driver and by service tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mosca-iot/hub/internal/errors"
	"github.com/mosca-iot/hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// Store bundles the memory repositories so they can be built with one call.
type Store struct {
	Thresholds  *ThresholdRepo
	Samples     *SampleRepo
	Components  *ComponentRepo
	Alerts      *AlertRepo
	Activations *ActivationRepo
}

func NewStore() *Store {
	return &Store{
		Thresholds:  NewThresholdRepo(),
		Samples:     NewSampleRepo(),
		Components:  NewComponentRepo(),
		Alerts:      NewAlertRepo(),
		Activations: NewActivationRepo(),
	}
}

type ThresholdRepo struct {
	mu      sync.RWMutex
	configs map[int]models.ThresholdConfig
}

func NewThresholdRepo() *ThresholdRepo {
	return &ThresholdRepo{configs: map[int]models.ThresholdConfig{}}
}

func (r *ThresholdRepo) GetThreshold(_ context.Context, incubatorID int) (*models.ThresholdConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.configs[incubatorID]
	if !ok {
		return nil, errors.NewNotFoundError("threshold config not found", nil)
	}
	return &cfg, nil
}

func (r *ThresholdRepo) UpsertThreshold(_ context.Context, cfg *models.ThresholdConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.configs[cfg.IncubatorID] = *cfg
	return nil
}

type SampleRepo struct {
	mu      sync.RWMutex
	samples []models.Sample
}

func NewSampleRepo() *SampleRepo {
	return &SampleRepo{}
}

func (r *SampleRepo) InsertSample(_ context.Context, sample *models.Sample) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sample.ID == "" {
		sample.ID = nuts.NID("sm", 12)
	}
	r.samples = append(r.samples, *sample)
	return nil
}

func (r *SampleRepo) FindSamples(_ context.Context, q models.SampleQuery) ([]models.Sample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Sample{}
	for _, s := range r.samples {
		if s.IncubatorID != q.IncubatorID || s.Kind != q.Kind {
			continue
		}
		if q.ComponentID > 0 && s.ComponentID != q.ComponentID {
			continue
		}
		if s.Timestamp.Before(q.Start) || s.Timestamp.After(q.End) {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func (r *SampleRepo) LatestSamples(_ context.Context, incubatorID int, kind models.ReadingKind) ([]models.Sample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	latest := map[int]models.Sample{}
	for _, s := range r.samples {
		if s.IncubatorID != incubatorID || s.Kind != kind {
			continue
		}
		if cur, ok := latest[s.ComponentID]; !ok || !s.Timestamp.Before(cur.Timestamp) {
			latest[s.ComponentID] = s
		}
	}
	out := make([]models.Sample, 0, len(latest))
	for _, s := range latest {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ComponentID < out[j].ComponentID
	})
	return out, nil
}

type ComponentRepo struct {
	mu         sync.RWMutex
	components map[int]models.Component
}

func NewComponentRepo() *ComponentRepo {
	return &ComponentRepo{components: map[int]models.Component{}}
}

func (r *ComponentRepo) GetComponent(_ context.Context, id int) (*models.Component, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.components[id]
	if !ok {
		return nil, errors.NewNotFoundError("component not found", nil)
	}
	return &c, nil
}

func (r *ComponentRepo) ListComponents(_ context.Context, incubatorID int) ([]models.Component, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Component{}
	for _, c := range r.components {
		if incubatorID > 0 && c.IncubatorID != incubatorID {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *ComponentRepo) CreateComponent(_ context.Context, c *models.Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.components[c.ID]; exists {
		return nil
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = time.Now().UTC()
	}
	r.components[c.ID] = *c
	return nil
}

func (r *ComponentRepo) SwapState(_ context.Context, id int, state bool, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.components[id]
	if !ok {
		return false, errors.NewNotFoundError("component not found", nil)
	}
	previous := c.State
	c.State = state
	c.UpdatedAt = at
	r.components[id] = c
	return previous, nil
}

type AlertRepo struct {
	mu     sync.RWMutex
	alerts []models.AlertRecord
}

func NewAlertRepo() *AlertRepo {
	return &AlertRepo{}
}

func (r *AlertRepo) InsertAlert(_ context.Context, alert *models.AlertRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.alerts = append(r.alerts, *alert)
	return nil
}

func (r *AlertRepo) FindAlerts(_ context.Context, incubatorID int, start, end time.Time) ([]models.AlertRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.AlertRecord{}
	for _, a := range r.alerts {
		if a.IncubatorID == incubatorID && inWindow(a.Timestamp, start, end) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

type ActivationRepo struct {
	mu      sync.RWMutex
	records []models.ActivationRecord
}

func NewActivationRepo() *ActivationRepo {
	return &ActivationRepo{}
}

func (r *ActivationRepo) InsertActivation(_ context.Context, rec *models.ActivationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, *rec)
	return nil
}

func (r *ActivationRepo) FindActivations(_ context.Context, incubatorID int, start, end time.Time) ([]models.ActivationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.ActivationRecord{}
	for _, a := range r.records {
		if a.IncubatorID == incubatorID && inWindow(a.Timestamp, start, end) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

// Count returns the number of stored activation records.
func (r *ActivationRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

func inWindow(ts, start, end time.Time) bool {
	return !ts.Before(start) && !ts.After(end)
}
