// Package telemetry emits operational audit events into a telemetry store.
// Emission is best-effort infrastructure around game flows: a nil emitter or
// an unconfigured store silently drops events instead of failing the
// operation that produced them.
package telemetry

import (
	"context"
	"time"

	"github.com/louisbranch/airlock/internal/storage"
)

// Severity levels for emitted events.
const (
	SeverityInfo  = "info"
	SeverityWarn  = "warn"
	SeverityError = "error"
)

// Emitter appends telemetry events to a store, stamping missing timestamps.
type Emitter struct {
	store storage.TelemetryStore
	clock func() time.Time
}

// NewEmitter creates an emitter backed by the provided store. A nil store
// yields a no-op emitter.
func NewEmitter(store storage.TelemetryStore) *Emitter {
	return &Emitter{store: store, clock: time.Now}
}

// Emit appends one event. Nil emitters and nil stores are no-ops.
func (e *Emitter) Emit(ctx context.Context, evt storage.TelemetryEvent) error {
	if e == nil || e.store == nil {
		return nil
	}
	if evt.Timestamp.IsZero() {
		clock := e.clock
		if clock == nil {
			clock = time.Now
		}
		evt.Timestamp = clock().UTC()
	}
	return e.store.AppendTelemetryEvent(ctx, evt)
}

// EmitAction records a processed game action.
func (e *Emitter) EmitAction(ctx context.Context, gameID, actor, action string, success bool) error {
	severity := SeverityInfo
	if !success {
		severity = SeverityWarn
	}
	return e.Emit(ctx, storage.TelemetryEvent{
		EventName: "action.processed",
		Severity:  severity,
		GameID:    gameID,
		Actor:     actor,
		Attributes: map[string]string{
			"action": action,
		},
	})
}
