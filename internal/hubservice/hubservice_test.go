package hubservice

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/mosca-iot/hub/internal/models"
	"github.com/mosca-iot/hub/internal/repository/memory"
)

var (
	errStoreDown = stderrors.New("store unreachable")
	testNow      = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
)

func f64(v float64) *float64 { return &v }

func newTestService() (*HubService, *memory.Store) {
	store := memory.NewStore()
	svc := New(store.Thresholds, store.Samples, store.Components, store.Alerts, store.Activations)
	svc.now = func() time.Time { return testNow }
	return svc, store
}

func seedIncubator(svc *HubService) {
	ctx := context.Background()
	_ = svc.Thresholds.UpsertThreshold(ctx, &models.ThresholdConfig{
		IncubatorID: 1, TempMin: 27, TempMax: 30, HumidityMin: 70, HumidityMax: 90,
	})
	for _, c := range []models.Component{
		{ID: 1, IncubatorID: 1, Name: "sensorDHT11 A", Kind: models.ComponentSensor, State: true},
		{ID: 2, IncubatorID: 1, Name: "sensorDHT11 B", Kind: models.ComponentSensor, State: true},
		{ID: 3, IncubatorID: 1, Name: "humificador", Kind: models.ComponentActuator},
		{ID: 4, IncubatorID: 1, Name: "ventilador", Kind: models.ComponentActuator},
		{ID: 5, IncubatorID: 1, Name: "heater", Kind: models.ComponentActuator},
	} {
		_ = svc.Components.CreateComponent(ctx, &c)
	}
}

// failingThresholds fails every write.
type failingThresholds struct {
	*memory.ThresholdRepo
}

func (f failingThresholds) UpsertThreshold(context.Context, *models.ThresholdConfig) error {
	return errStoreDown
}

type failingSamples struct {
	*memory.SampleRepo
}

func (f failingSamples) InsertSample(context.Context, *models.Sample) error {
	return errStoreDown
}

type failingAlerts struct {
	*memory.AlertRepo
}

func (f failingAlerts) InsertAlert(context.Context, *models.AlertRecord) error {
	return errStoreDown
}

type failingSwap struct {
	*memory.ComponentRepo
}

func (f failingSwap) SwapState(context.Context, int, bool, time.Time) (bool, error) {
	return false, errStoreDown
}

type failingList struct {
	*memory.ComponentRepo
}

func (f failingList) ListComponents(context.Context, int) ([]models.Component, error) {
	return nil, errStoreDown
}
