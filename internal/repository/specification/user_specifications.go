package specification

import (
	"gorm.io/gorm"

	"github.com/google/uuid"
)

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

type ByUsername struct {
	Username string
}

func (s ByUsername) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("username = ?", s.Username)
}

// ByLogin matches either the username or the email, for credential checks.
type ByLogin struct {
	Login string
}

func (s ByLogin) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("username = ? OR email = ?", s.Login, s.Login)
}

type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

type ActiveUsers struct{}

func (s ActiveUsers) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", "active")
}

type ByKeyHash struct {
	Hash string
}

func (s ByKeyHash) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("key_hash = ?", s.Hash)
}
