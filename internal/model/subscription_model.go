package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionPlan struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Tier         string    `gorm:"type:varchar(20);not null;default:'free'"`
	Price        float64   `gorm:"type:decimal(10,2);not null"`
	DurationDays int       `gorm:"default:30"` // 0 = indefinite
	IsActive     bool      `gorm:"default:true"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}

func (m *SubscriptionPlan) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.Id)
	return nil
}

// Subscription rows are history: a user may hold several over time for the same plan.
type Subscription struct {
	Id        uuid.UUID         `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID         `gorm:"type:uuid;not null;index:idx_subscriptions_user_active,priority:1"`
	User      *User             `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
	PlanId    uuid.UUID         `gorm:"type:uuid;not null;index"`
	Plan      *SubscriptionPlan `gorm:"foreignKey:PlanId"`
	IsActive  bool              `gorm:"default:false;index:idx_subscriptions_user_active,priority:2"`
	StartDate time.Time         `gorm:"not null"`
	EndDate   *time.Time        `gorm:"index"`
	CreatedAt time.Time         `gorm:"autoCreateTime"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

func (m *Subscription) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.Id)
	return nil
}

// Payment keeps its own amount; later plan price changes do not touch history.
type Payment struct {
	Id             uuid.UUID         `gorm:"type:uuid;primaryKey"`
	UserId         uuid.UUID         `gorm:"type:uuid;not null;index"`
	User           *User             `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
	PlanId         uuid.UUID         `gorm:"type:uuid;not null;index"`
	Plan           *SubscriptionPlan `gorm:"foreignKey:PlanId"`
	Amount         float64           `gorm:"type:decimal(10,2);not null"`
	Method         string            `gorm:"type:varchar(20);not null"`
	Status         string            `gorm:"type:varchar(20);not null;default:'pending';index"`
	TransactionId  string            `gorm:"type:varchar(255)"`
	ProofOfPayment string            `gorm:"type:text"`
	FailureReason  string            `gorm:"type:text"`
	ConfirmedAt    *time.Time
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (Payment) TableName() string {
	return "payments"
}

func (m *Payment) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.Id)
	return nil
}
