package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ForPlan struct {
	PlanID uuid.UUID
}

func (s ForPlan) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("plan_id = ?", s.PlanID)
}

type ActiveOnly struct{}

func (s ActiveOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// EndingBetween selects rows whose end_date falls in [From, To].
type EndingBetween struct {
	From time.Time
	To   time.Time
}

func (s EndingBetween) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("end_date IS NOT NULL AND end_date >= ? AND end_date <= ?", s.From, s.To)
}

type EndedBefore struct {
	Now time.Time
}

func (s EndedBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("end_date IS NOT NULL AND end_date < ?", s.Now)
}

// ActiveSubscriptionOrder puts indefinite subscriptions first, then the latest end date,
// then the most recently created row.
type ActiveSubscriptionOrder struct{}

func (s ActiveSubscriptionOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("CASE WHEN end_date IS NULL THEN 0 ELSE 1 END").
		Order("end_date DESC").
		Order("created_at DESC")
}

type WithPlan struct{}

func (s WithPlan) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("Plan")
}

type CreatedSince struct {
	Since time.Time
}

func (s CreatedSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at >= ?", s.Since)
}

type EndDateSet struct{}

func (s EndDateSet) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("end_date IS NOT NULL")
}
