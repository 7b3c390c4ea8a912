package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionResponse struct {
	Id        uuid.UUID  `json:"id"`
	PlanId    uuid.UUID  `json:"plan_id"`
	Plan      string     `json:"plan"`
	Tier      string     `json:"tier"`
	IsActive  bool       `json:"is_active"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	DaysLeft  *int       `json:"days_left,omitempty"`
}

// --- Payments ---

type SubmitPaymentRequest struct {
	PlanId         uuid.UUID `json:"plan_id" validate:"required"`
	Method         string    `json:"method" validate:"required,oneof=manual crypto card"`
	Amount         *float64  `json:"amount" validate:"omitempty,gte=0"`
	TransactionId  string    `json:"transaction_id" validate:"omitempty,max=255"`
	ProofOfPayment string    `json:"proof_of_payment"`
}

type FailPaymentRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type PaymentResponse struct {
	Id            uuid.UUID  `json:"id"`
	PlanId        uuid.UUID  `json:"plan_id"`
	Plan          string     `json:"plan,omitempty"`
	Amount        float64    `json:"amount"`
	Method        string     `json:"method"`
	Status        string     `json:"status"`
	TransactionId string     `json:"transaction_id,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	ConfirmedAt   *time.Time `json:"confirmed_at,omitempty"`
}

type SweepResponse struct {
	Processed int `json:"processed"`
}
