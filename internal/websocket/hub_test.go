package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_LocalDelivery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil, logger.NewNopLogger())
	go hub.Run(ctx)

	userID := uuid.New()
	phone := &Client{Hub: hub, UserID: userID, Send: make(chan []byte, 1)}
	laptop := &Client{Hub: hub, UserID: userID, Send: make(chan []byte, 1)}
	hub.register <- phone
	hub.register <- laptop
	require.Eventually(t, func() bool { return hub.ConnectedClients(userID) == 2 }, time.Second, 5*time.Millisecond)

	hub.Send(userID, &entity.Notification{Id: uuid.New(), UserId: userID, Title: "License Issued"})
	hub.Send(uuid.New(), &entity.Notification{Title: "someone else"})

	for _, c := range []*Client{phone, laptop} {
		select {
		case raw := <-c.Send:
			var msg struct {
				Type string          `json:"type"`
				Data json.RawMessage `json:"data"`
			}
			require.NoError(t, json.Unmarshal(raw, &msg))
			assert.Equal(t, "notification", msg.Type)
			assert.Contains(t, string(msg.Data), "License Issued")
		case <-time.After(time.Second):
			t.Fatal("notification not delivered")
		}
	}

	// A full buffer drops the message instead of blocking the sender.
	hub.Send(userID, &entity.Notification{Title: "one"})
	hub.Send(userID, &entity.Notification{Title: "two"})
	assert.Len(t, phone.Send, 1)

	hub.unregister <- phone
	require.Eventually(t, func() bool { return hub.ConnectedClients(userID) == 1 }, time.Second, 5*time.Millisecond)
	<-phone.Send
	_, open := <-phone.Send
	assert.False(t, open)
}
