package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string
type PaymentMethod string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusConfirmed PaymentStatus = "confirmed"
	PaymentStatusFailed    PaymentStatus = "failed"

	PaymentMethodManual PaymentMethod = "manual"
	PaymentMethodCrypto PaymentMethod = "crypto"
	PaymentMethodCard   PaymentMethod = "card"
)

type SubscriptionPlan struct {
	Id           uuid.UUID
	Name         string
	Tier         Tier
	Price        float64
	DurationDays int // 0 = indefinite
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PeriodEnd computes the end date of a period that starts at start.
func (p *SubscriptionPlan) PeriodEnd(start time.Time) *time.Time {
	if p.DurationDays <= 0 {
		return nil
	}
	end := start.AddDate(0, 0, p.DurationDays)
	return &end
}

type Subscription struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	PlanId    uuid.UUID
	Plan      *SubscriptionPlan
	IsActive  bool
	StartDate time.Time
	EndDate   *time.Time // nil = indefinite
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Lapsed reports an end date in the past.
func (s *Subscription) Lapsed(now time.Time) bool {
	return s.EndDate != nil && !s.EndDate.After(now)
}

func (s *Subscription) DaysLeft(now time.Time) int {
	if s.EndDate == nil {
		return -1
	}
	return int(s.EndDate.Sub(now).Hours() / 24)
}

type Payment struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	PlanId         uuid.UUID
	Plan           *SubscriptionPlan
	Amount         float64
	Method         PaymentMethod
	Status         PaymentStatus
	TransactionId  string
	ProofOfPayment string
	FailureReason  string
	ConfirmedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
