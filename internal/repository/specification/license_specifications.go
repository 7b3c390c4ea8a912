package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ByKey struct {
	Key string
}

// key is a keyword in some dialects, so the column goes through gorm's quoting.
func (s ByKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(clause.Eq{Column: clause.Column{Name: "key"}, Value: s.Key})
}

type ByName struct {
	Name string
}

func (s ByName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name = ?", s.Name)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

type ForExpertAdvisor struct {
	ExpertAdvisorID uuid.UUID
}

func (s ForExpertAdvisor) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("expert_advisor_id = ?", s.ExpertAdvisorID)
}

// ExpiredAsOf selects active licenses whose expiry has been reached.
type ExpiredAsOf struct {
	Now time.Time
}

func (s ExpiredAsOf) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", "active", s.Now)
}

// WithLicenseRelations preloads the user, expert advisor and plan of a license.
type WithLicenseRelations struct{}

func (s WithLicenseRelations) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("ExpertAdvisor").Preload("Plan")
}
