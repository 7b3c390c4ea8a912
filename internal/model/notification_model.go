package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification is the in-app inbox row.
type Notification struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index:idx_notifications_user_created,priority:1" json:"user_id"`
	User      *User          `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE" json:"-"`
	Type      string         `gorm:"type:varchar(20);not null;default:'info'" json:"type"`
	Title     string         `gorm:"type:varchar(200);not null" json:"title"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	Metadata  datatypes.JSON `json:"metadata,omitempty"`
	IsRead    bool           `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index:idx_notifications_user_created,priority:2" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (m *Notification) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.Id)
	return nil
}
