package events

import (
	"context"
	"errors"
	"testing"

	"ea-licensing-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
)

type fakePublisher struct {
	published []Event
	err       error
}

func (p *fakePublisher) Publish(_ context.Context, e Event) error {
	p.published = append(p.published, e)
	return p.err
}

func TestBusEmitter(t *testing.T) {
	pub := &fakePublisher{}
	e := NewBusEmitter(pub, logger.NewNopLogger())

	e.Emit(context.Background(), LicenseIssued, map[string]interface{}{"license_id": "42"})

	if assert.Len(t, pub.published, 1) {
		ev := pub.published[0]
		assert.Equal(t, LicenseIssued, ev.EventType())
		assert.Equal(t, "42", ev.Payload()["license_id"])
		assert.False(t, ev.Timestamp().IsZero())
	}

	// Publish failures are logged, never returned.
	pub.err = errors.New("nats down")
	assert.NotPanics(t, func() { e.Emit(context.Background(), PaymentFailed, nil) })
}

func TestBusEmitter_NilPublisher(t *testing.T) {
	assert.NotPanics(t, func() {
		NewBusEmitter(nil, logger.NewNopLogger()).Emit(context.Background(), UserRegistered, nil)
		NopEmitter{}.Emit(context.Background(), UserRegistered, nil)
	})
}
