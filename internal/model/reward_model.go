package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserLevel.Version guards concurrent XP updates (compare-and-swap).
type UserLevel struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	User         *User     `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
	Level        int       `gorm:"not null;default:1"`
	Xp           int       `gorm:"not null;default:0"`
	Streak       int       `gorm:"not null;default:0"`
	LastActivity *time.Time
	Version      int       `gorm:"not null;default:0"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (UserLevel) TableName() string {
	return "user_levels"
}

func (m *UserLevel) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.Id)
	return nil
}

type Badge struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Description string    `gorm:"type:text"`
	Icon        string    `gorm:"type:varchar(100)"`
}

func (Badge) TableName() string {
	return "badges"
}

func (m *Badge) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.Id)
	return nil
}

type UserBadge struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_badge,priority:1"`
	User      *User     `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
	BadgeId   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_badge,priority:2"`
	Badge     *Badge    `gorm:"foreignKey:BadgeId;constraint:OnDelete:CASCADE"`
	AwardedAt time.Time `gorm:"autoCreateTime"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}

func (m *UserBadge) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.Id)
	return nil
}

type AnalyticsEvent struct {
	Id         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserId     *uuid.UUID `gorm:"type:uuid;index"`
	User       *User      `gorm:"foreignKey:UserId;constraint:OnDelete:SET NULL"`
	EventType  string     `gorm:"type:varchar(50);not null;index"`
	EventValue string     `gorm:"type:varchar(255)"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;index"`
}

func (AnalyticsEvent) TableName() string {
	return "analytics_events"
}

func (m *AnalyticsEvent) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.Id)
	return nil
}

type SocialShareEvent struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	User      *User     `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
	Platform  string    `gorm:"type:varchar(30);not null"`
	Url       string    `gorm:"type:text;not null"`
	Rewarded  bool      `gorm:"default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (SocialShareEvent) TableName() string {
	return "social_share_events"
}

func (m *SocialShareEvent) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.Id)
	return nil
}
