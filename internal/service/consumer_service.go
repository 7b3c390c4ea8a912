// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"

	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/pkg/logger"
	"ea-licensing-be/internal/pkg/mailer"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService delivers committed notifications by email and websocket. Delivery is
// attempted once; every message is acked.
type consumerService struct {
	subscriber   message.Subscriber
	topicName    string
	emailService mailer.IEmailService
	delivery     NotificationDelivery
	logger       logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	emailService mailer.IEmailService,
	delivery NotificationDelivery,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:   subscriber,
		topicName:    topicName,
		emailService: emailService,
		delivery:     delivery,
		logger:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	defer msg.Ack()

	var payload deliveryMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal delivery message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	if payload.Email != "" && cs.emailService != nil {
		if err := cs.emailService.Send(payload.Email, payload.Title, payload.Message); err != nil {
			cs.logger.Warn("CONSUMER", "Email delivery failed", map[string]interface{}{
				"user_id": payload.UserId.String(),
				"title":   payload.Title,
				"error":   err.Error(),
			})
		} else {
			cs.logger.Info("CONSUMER", "Email sent", map[string]interface{}{
				"user_id": payload.UserId.String(),
				"title":   payload.Title,
			})
		}
	}

	if cs.delivery != nil {
		cs.delivery.Send(payload.UserId, &entity.Notification{
			Id:        payload.NotificationId,
			UserId:    payload.UserId,
			Type:      payload.Type,
			Title:     payload.Title,
			Message:   payload.Message,
			Metadata:  payload.Metadata,
			CreatedAt: payload.CreatedAt,
		})
	}
}
