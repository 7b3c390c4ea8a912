package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Username     string    `gorm:"type:varchar(150);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	FullName     string    `gorm:"type:varchar(255)"`
	Role         string    `gorm:"type:varchar(50);not null;default:'user'"`
	IsStaff      bool      `gorm:"default:false"`
	Status       string    `gorm:"type:varchar(50);not null;default:'active'"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

func (m *User) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.Id)
	return nil
}

type ApiKey struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId     uuid.UUID `gorm:"type:uuid;not null;index"`
	User       *User     `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
	Name       string    `gorm:"type:varchar(100);not null"`
	KeyHash    string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	Prefix     string    `gorm:"type:varchar(12);not null"`
	IsActive   bool      `gorm:"default:true"`
	LastUsedAt *time.Time
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (ApiKey) TableName() string {
	return "api_keys"
}

func (m *ApiKey) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.Id)
	return nil
}
