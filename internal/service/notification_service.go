package service

import (
	"context"
	"encoding/json"
	"time"

	"ea-licensing-be/internal/dto"
	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/pkg/apperror"
	"ea-licensing-be/internal/pkg/logger"
	"ea-licensing-be/internal/repository/specification"
	"ea-licensing-be/internal/repository/unitofwork"
	"ea-licensing-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// NotificationTopic carries committed Outbound messages to the delivery consumer.
const NotificationTopic = "notifications.outbound"

const defaultNotificationLimit = 20

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification *entity.Notification)
}

// deliveryMessage is the payload published on NotificationTopic.
type deliveryMessage struct {
	Outbound
	NotificationId uuid.UUID `json:"notification_id"`
	CreatedAt      time.Time `json:"created_at"`
}

type INotificationService interface {
	INotifier
	List(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.NotificationListResponse, error)
	MarkAsRead(ctx context.Context, id, userId uuid.UUID) error
}

type notificationService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  message.Publisher
	emitter    events.Emitter
	clock      Clock
	logger     logger.ILogger
}

// NewNotificationService accepts a nil publisher or emitter; that leg of delivery is then
// skipped.
func NewNotificationService(
	uowFactory unitofwork.RepositoryFactory,
	publisher message.Publisher,
	emitter events.Emitter,
	clock Clock,
	log logger.ILogger,
) INotificationService {
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	return &notificationService{
		uowFactory: uowFactory,
		publisher:  publisher,
		emitter:    emitter,
		clock:      clock,
		logger:     log,
	}
}

// Dispatch stores the inbox row, hands the message to the delivery consumer and emits the
// domain event. Every failure is logged and swallowed.
func (s *notificationService) Dispatch(ctx context.Context, msgs ...Outbound) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	for _, msg := range msgs {
		notif := &entity.Notification{
			UserId:    msg.UserId,
			Type:      msg.Type,
			Title:     msg.Title,
			Message:   msg.Message,
			Metadata:  msg.Metadata,
			CreatedAt: s.clock(),
		}
		if err := uow.NotificationRepository().Create(ctx, notif); err != nil {
			s.logger.Error("NOTIFICATION", "Failed to save notification", map[string]interface{}{
				"user_id": msg.UserId.String(),
				"title":   msg.Title,
				"error":   err.Error(),
			})
			continue
		}

		s.publish(msg, notif)

		if msg.Event != "" {
			data := map[string]interface{}{
				"user_id": msg.UserId.String(),
				"title":   msg.Title,
				"message": msg.Message,
			}
			for k, v := range msg.Metadata {
				data[k] = v
			}
			s.emitter.Emit(ctx, msg.Event, data)
		}
	}
}

func (s *notificationService) publish(msg Outbound, notif *entity.Notification) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(deliveryMessage{
		Outbound:       msg,
		NotificationId: notif.Id,
		CreatedAt:      notif.CreatedAt,
	})
	if err != nil {
		s.logger.Error("NOTIFICATION", "Failed to encode delivery message", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := s.publisher.Publish(NotificationTopic, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		s.logger.Error("NOTIFICATION", "Failed to publish delivery message", map[string]interface{}{
			"notification_id": notif.Id.String(),
			"error":           err.Error(),
		})
	}
}

// List fetches notifications for a user, newest first.
func (s *notificationService) List(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.NotificationListResponse, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	if offset < 0 {
		offset = 0
	}
	repo := s.uowFactory.NewUnitOfWork(ctx).NotificationRepository()
	owned := specification.UserOwnedBy{UserID: userId}

	items, err := repo.FindAll(ctx, owned,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}
	total, err := repo.Count(ctx, owned)
	if err != nil {
		return nil, err
	}
	unread, err := repo.Count(ctx, owned, specification.FilterBy{Field: "is_read", Value: false})
	if err != nil {
		return nil, err
	}

	res := &dto.NotificationListResponse{
		Data:   make([]dto.NotificationResponse, 0, len(items)),
		Total:  total,
		Unread: unread,
	}
	for _, n := range items {
		res.Data = append(res.Data, dto.NotificationResponse{
			Id:        n.Id,
			Type:      string(n.Type),
			Title:     n.Title,
			Message:   n.Message,
			Metadata:  n.Metadata,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	return res, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, id, userId uuid.UUID) error {
	ok, err := s.uowFactory.NewUnitOfWork(ctx).NotificationRepository().MarkAsRead(ctx, id, userId)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("notification not found")
	}
	return nil
}
