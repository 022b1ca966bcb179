package hubservice

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mosca-iot/hub/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetActuatorState_RisingEdgeOnce(t *testing.T) {
	svc, store := newTestService()
	seedIncubator(svc)
	ctx := context.Background()

	ack, err := svc.SetActuatorState(ctx, 4, 1, true, nil)
	require.NoError(t, err)
	assert.True(t, ack.State)
	assert.False(t, ack.Previous)
	require.NotNil(t, ack.Activation)
	assert.Equal(t, testNow, ack.Activation.Timestamp)

	ack, err = svc.SetActuatorState(ctx, 4, 1, true, nil)
	require.NoError(t, err)
	assert.True(t, ack.Previous)
	assert.Nil(t, ack.Activation)

	c, err := store.Components.GetComponent(ctx, 4)
	require.NoError(t, err)
	assert.True(t, c.State)
	assert.Equal(t, 1, store.Activations.Count())
}

func TestSetActuatorState_NonRisingTransitionsEmitNothing(t *testing.T) {
	svc, store := newTestService()
	seedIncubator(svc)
	ctx := context.Background()

	// off -> off
	_, err := svc.SetActuatorState(ctx, 5, 1, false, nil)
	require.NoError(t, err)
	// off -> on
	_, err = svc.SetActuatorState(ctx, 5, 1, true, nil)
	require.NoError(t, err)
	// on -> off
	ack, err := svc.SetActuatorState(ctx, 5, 1, false, nil)
	require.NoError(t, err)
	assert.Nil(t, ack.Activation)
	// off -> on again is a new edge
	_, err = svc.SetActuatorState(ctx, 5, 1, true, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, store.Activations.Count())
}

func TestSetActuatorState_UsesOccurredAt(t *testing.T) {
	svc, _ := newTestService()
	seedIncubator(svc)
	at := time.Date(2024, 4, 30, 22, 0, 0, 0, time.FixedZone("CET", 3600))

	ack, err := svc.SetActuatorState(context.Background(), 3, 0, true, &at)
	require.NoError(t, err)
	require.NotNil(t, ack.Activation)
	assert.True(t, ack.Activation.Timestamp.Equal(at))
	assert.Equal(t, 1, ack.IncubatorID)
}

func TestSetActuatorState_Errors(t *testing.T) {
	svc, _ := newTestService()
	seedIncubator(svc)
	ctx := context.Background()

	_, err := svc.SetActuatorState(ctx, 99, 1, true, nil)
	assert.True(t, errors.IsNotFound(err))

	_, err = svc.SetActuatorState(ctx, 1, 1, true, nil)
	assert.True(t, errors.IsValidation(err), "sensors carry no switchable state")

	_, err = svc.SetActuatorState(ctx, 0, 1, true, nil)
	assert.True(t, errors.IsValidation(err))
}

func TestSetActuatorState_ForeignIncubatorIsRejected(t *testing.T) {
	svc, store := newTestService()
	seedIncubator(svc)
	ctx := context.Background()

	_, err := svc.SetActuatorState(ctx, 4, 99, true, nil)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, 0, store.Activations.Count())

	c, err := store.Components.GetComponent(ctx, 4)
	require.NoError(t, err)
	assert.False(t, c.State)

	ack, err := svc.SetActuatorState(ctx, 4, 1, true, nil)
	require.NoError(t, err)
	require.NotNil(t, ack.Activation)
	assert.Equal(t, 1, ack.Activation.IncubatorID)
}

func TestSetActuatorState_PersistFailureEmitsNoActivation(t *testing.T) {
	svc, store := newTestService()
	seedIncubator(svc)
	svc.Components = failingSwap{store.Components}

	_, err := svc.SetActuatorState(context.Background(), 4, 1, true, nil)
	require.Error(t, err)
	assert.True(t, errors.IsPersistence(err))
	assert.Equal(t, 0, store.Activations.Count())
}

func TestSetActuatorState_ConcurrentTogglesEmitOneActivation(t *testing.T) {
	svc, store := newTestService()
	seedIncubator(svc)
	ctx := context.Background()

	const workers = 64
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.SetActuatorState(ctx, 4, 1, true, nil)
			assert.NoError(t, err)
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, store.Activations.Count())
	assert.Equal(t, 0, svc.locks.size())
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	k := newKeyedMutex()
	unlockA := k.Lock(1)

	done := make(chan struct{})
	go func() {
		unlockB := k.Lock(2)
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on another key blocked")
	}
	unlockA()
	assert.Equal(t, 0, k.size())
}
