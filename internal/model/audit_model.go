package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog survives user deletion (SET NULL).
type AuditLog struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserId     *uuid.UUID     `gorm:"type:uuid;index:idx_audit_user_created,priority:1"`
	User       *User          `gorm:"foreignKey:UserId;constraint:OnDelete:SET NULL"`
	Action     string         `gorm:"type:varchar(50);not null;index"`
	ObjectType string         `gorm:"type:varchar(50)"`
	ObjectId   string         `gorm:"type:varchar(64)"`
	ExtraData  datatypes.JSON
	IpAddress  string    `gorm:"type:varchar(64)"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index:idx_audit_user_created,priority:2"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

func (m *AuditLog) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.Id)
	return nil
}

var ErrAuditAppendOnly = errors.New("audit log is append-only")

func (m *AuditLog) BeforeUpdate(tx *gorm.DB) error {
	return ErrAuditAppendOnly
}

func (m *AuditLog) BeforeDelete(tx *gorm.DB) error {
	return ErrAuditAppendOnly
}
