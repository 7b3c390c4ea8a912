package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ExpertAdvisor struct {
	Id            uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Name          string              `gorm:"type:varchar(150);uniqueIndex;not null"`
	Description   string              `gorm:"type:text"`
	IsPremium     bool                `gorm:"default:false"`
	EligiblePlans []*SubscriptionPlan `gorm:"many2many:expert_advisor_plans;joinForeignKey:expert_advisor_id;joinReferences:plan_id"`
	CreatedAt     time.Time           `gorm:"autoCreateTime"`
}

func (ExpertAdvisor) TableName() string {
	return "expert_advisors"
}

func (m *ExpertAdvisor) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.Id)
	return nil
}

type EAFile struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ExpertAdvisorId uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_ea_files_version,priority:1"`
	ExpertAdvisor   *ExpertAdvisor `gorm:"foreignKey:ExpertAdvisorId;constraint:OnDelete:CASCADE"`
	Version         string         `gorm:"type:varchar(50);not null;uniqueIndex:idx_ea_files_version,priority:2"`
	FilePath        string         `gorm:"type:text;not null"`
	Checksum        string         `gorm:"type:varchar(128)"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
}

func (EAFile) TableName() string {
	return "ea_files"
}

func (m *EAFile) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.Id)
	return nil
}

// LicenseKey is unique per (user, expert advisor); issuance relies on that index.
type LicenseKey struct {
	Id              uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Key             string            `gorm:"type:varchar(64);uniqueIndex;not null"`
	UserId          uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_license_user_ea,priority:1"`
	User            *User             `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
	ExpertAdvisorId uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_license_user_ea,priority:2"`
	ExpertAdvisor   *ExpertAdvisor    `gorm:"foreignKey:ExpertAdvisorId;constraint:OnDelete:CASCADE"`
	PlanId          uuid.UUID         `gorm:"type:uuid;not null"`
	Plan            *SubscriptionPlan `gorm:"foreignKey:PlanId"`
	Status          string            `gorm:"type:varchar(20);not null;default:'active';index:idx_license_status_expiry,priority:1"`
	CreatedAt       time.Time         `gorm:"autoCreateTime"`
	ActivatedAt     *time.Time
	DeactivatedAt   *time.Time
	ExpiresAt       *time.Time `gorm:"index:idx_license_status_expiry,priority:2"`
	LastUsedAt      *time.Time
	LastUsedIp      string `gorm:"type:varchar(64)"`
}

func (LicenseKey) TableName() string {
	return "license_keys"
}

func (m *LicenseKey) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.Id)
	return nil
}

type LicenseUsage struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	LicenseId uuid.UUID      `gorm:"type:uuid;not null;index"`
	License   *LicenseKey    `gorm:"foreignKey:LicenseId;constraint:OnDelete:CASCADE"`
	Ip        string         `gorm:"type:varchar(64)"`
	Payload   datatypes.JSON
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (LicenseUsage) TableName() string {
	return "license_usages"
}

func (m *LicenseUsage) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.Id)
	return nil
}
