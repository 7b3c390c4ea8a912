package contract

import (
	"context"

	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SubscriptionRepository interface {
	// Plans
	CreatePlan(ctx context.Context, plan *entity.SubscriptionPlan) error
	FindOnePlan(ctx context.Context, specs ...specification.Specification) (*entity.SubscriptionPlan, error)
	FindAllPlans(ctx context.Context, specs ...specification.Specification) ([]*entity.SubscriptionPlan, error)

	// Subscriptions
	Create(ctx context.Context, sub *entity.Subscription) error
	Update(ctx context.Context, sub *entity.Subscription) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error)
	// DeactivateIfActive flips one subscription to inactive. Reports whether this call did it.
	DeactivateIfActive(ctx context.Context, id uuid.UUID) (bool, error)

	// Payments
	CreatePayment(ctx context.Context, payment *entity.Payment) error
	FindOnePayment(ctx context.Context, specs ...specification.Specification) (*entity.Payment, error)
	FindAllPayments(ctx context.Context, specs ...specification.Specification) ([]*entity.Payment, error)
	CountPayments(ctx context.Context, specs ...specification.Specification) (int64, error)
	// TransitionPayment moves a payment out of from into to. Reports false when the row was
	// not in from.
	TransitionPayment(ctx context.Context, id uuid.UUID, from, to entity.PaymentStatus, fields map[string]interface{}) (bool, error)
	CountConfirmedPayments(ctx context.Context, userID uuid.UUID) (int64, error)
}
