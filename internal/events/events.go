package events

import (
	"github.com/mosca-iot/hub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

const (
	SampleIngested    = "sample.ingested"
	AlertEmitted      = "alert.emitted"
	ActuatorActivated = "actuator.activated"
)

// Bus fans hub decisions out to side channels (metrics, notifications). The
// records are already persisted when they are published. A nil *Bus drops
// everything.
type Bus struct {
	events *nuts.EventEmitter
}

func NewBus() *Bus {
	return &Bus{events: nuts.NewEventEmitter()}
}

func (b *Bus) PublishSample(sample models.Sample) {
	b.emit(SampleIngested, sample)
}

func (b *Bus) PublishAlert(alert models.AlertRecord) {
	b.emit(AlertEmitted, alert)
}

func (b *Bus) PublishActivation(rec models.ActivationRecord) {
	b.emit(ActuatorActivated, rec)
}

func (b *Bus) emit(event string, payload interface{}) {
	if b == nil {
		return
	}
	if err := b.events.Emit(event, payload); err != nil {
		nuts.L.Errorf("[Events] Failed to deliver %s: %v", event, err)
	}
}

// OnSample registers handler under handlerID. Handler IDs must be unique per
// event. Handlers run on the publishing goroutine and must not subscribe.
func (b *Bus) OnSample(handlerID string, handler func(models.Sample)) error {
	return b.on(SampleIngested, handlerID, handler)
}

func (b *Bus) OnAlert(handlerID string, handler func(models.AlertRecord)) error {
	return b.on(AlertEmitted, handlerID, handler)
}

func (b *Bus) OnActivation(handlerID string, handler func(models.ActivationRecord)) error {
	return b.on(ActuatorActivated, handlerID, handler)
}

// Listeners reports how many handlers are registered for event.
func (b *Bus) Listeners(event string) int {
	if b == nil {
		return 0
	}
	return b.events.ListenerCount(event)
}

func (b *Bus) on(event, handlerID string, handler interface{}) error {
	if _, err := b.events.On(event, handlerID, handler); err != nil {
		nuts.L.Errorf("[Events] Failed to register %s handler %q: %v", event, handlerID, err)
		return err
	}
	return nil
}
