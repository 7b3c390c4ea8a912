package events

import (
	"context"

	"ea-licensing-be/internal/pkg/logger"
)

// Publisher is satisfied by the NATS JetStream publisher.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Emitter is what services use. Emitting never fails the caller.
type Emitter interface {
	Emit(ctx context.Context, eventType string, data map[string]interface{})
}

type BusEmitter struct {
	publisher Publisher
	logger    logger.ILogger
}

// NewBusEmitter accepts a nil publisher; Emit then becomes a no-op.
func NewBusEmitter(publisher Publisher, log logger.ILogger) *BusEmitter {
	return &BusEmitter{publisher: publisher, logger: log}
}

func (e *BusEmitter) Emit(ctx context.Context, eventType string, data map[string]interface{}) {
	if e == nil || e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, New(eventType, data)); err != nil {
		e.logger.Error("EVENTS", "Failed to publish "+eventType+" event", map[string]interface{}{"error": err.Error()})
	}
}

// NopEmitter drops events.
type NopEmitter struct{}

func (NopEmitter) Emit(context.Context, string, map[string]interface{}) {}
