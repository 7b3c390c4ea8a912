package service

import (
	"context"

	"ea-licensing-be/internal/entity"

	"github.com/google/uuid"
)

// Outbound is one user-facing message produced by a committed change. It becomes an inbox
// row, an optional email, a realtime push and a domain event.
type Outbound struct {
	UserId   uuid.UUID               `json:"user_id"`
	Email    string                  `json:"email,omitempty"`
	Type     entity.NotificationType `json:"type"`
	Title    string                  `json:"title"`
	Message  string                  `json:"message"`
	Event    string                  `json:"event,omitempty"`
	Metadata map[string]interface{}  `json:"metadata,omitempty"`
}

// INotifier delivers messages after the transaction that produced them has committed.
// Delivery is best effort: failures are logged, never returned.
type INotifier interface {
	Dispatch(ctx context.Context, msgs ...Outbound)
}

// outbox collects messages during a transaction.
type outbox struct {
	msgs []Outbound
}

func (o *outbox) add(msg Outbound) {
	o.msgs = append(o.msgs, msg)
}

func (o *outbox) flush(ctx context.Context, n INotifier) {
	if n == nil || len(o.msgs) == 0 {
		return
	}
	n.Dispatch(ctx, o.msgs...)
	o.msgs = nil
}
