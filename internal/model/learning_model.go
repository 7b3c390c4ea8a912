package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LearningResource struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title       string    `gorm:"type:varchar(200);not null"`
	Description string    `gorm:"type:text"`
	Url         string    `gorm:"type:text"`
	AccessLevel string    `gorm:"type:varchar(20);not null;default:'free'"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (LearningResource) TableName() string {
	return "learning_resources"
}

func (m *LearningResource) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.Id)
	return nil
}

type UserProgress struct {
	Id         uuid.UUID         `gorm:"type:uuid;primaryKey"`
	UserId     uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_user_progress,priority:1"`
	User       *User             `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
	ResourceId uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_user_progress,priority:2"`
	Resource   *LearningResource `gorm:"foreignKey:ResourceId;constraint:OnDelete:CASCADE"`
	Percent    int               `gorm:"not null;default:0"`
	Completed  bool              `gorm:"default:false"`
	UpdatedAt  time.Time         `gorm:"autoUpdateTime"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}

func (m *UserProgress) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.Id)
	return nil
}
