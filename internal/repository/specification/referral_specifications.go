package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByCode struct {
	Code string
}

func (s ByCode) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("code = ?", s.Code)
}

type ReferredBy struct {
	ReferrerID uuid.UUID
}

func (s ReferredBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("referrer_id = ?", s.ReferrerID)
}

// Consumed keeps referrals whose code has been used by a new account.
type Consumed struct{}

func (s Consumed) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("referred_user_id IS NOT NULL")
}

type Unconsumed struct{}

func (s Unconsumed) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("referred_user_id IS NULL")
}
