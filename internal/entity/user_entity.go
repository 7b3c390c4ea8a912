package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string
type UserStatus string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"

	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

type User struct {
	Id           uuid.UUID
	Email        string
	Username     string
	PasswordHash string
	FullName     string
	Role         UserRole
	IsStaff      bool
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the resolved caller of an operation. A nil *Principal means anonymous.
type Principal struct {
	UserId   uuid.UUID
	Username string
	Email    string
	Role     UserRole
	IsStaff  bool
}

func (u *User) Principal() *Principal {
	return &Principal{
		UserId:   u.Id,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		IsStaff:  u.IsStaff,
	}
}

// IsPrivileged reports staff or admin; both bypass tier checks.
func (p *Principal) IsPrivileged() bool {
	return p != nil && (p.IsStaff || p.Role == UserRoleAdmin)
}

type ApiKey struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	Name       string
	KeyHash    string
	Prefix     string
	IsActive   bool
	LastUsedAt *time.Time
	CreatedAt  time.Time
}
