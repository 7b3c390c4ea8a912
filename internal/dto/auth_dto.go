// FILE: internal/dto/auth_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Username     string `json:"username" validate:"required,min=3,max=150"`
	Password     string `json:"password" validate:"required,min=8"`
	FullName     string `json:"full_name" validate:"omitempty,max=255"`
	ReferralCode string `json:"referral_code" validate:"omitempty,max=32"`
}

type RegisterResponse struct {
	Id           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	ReferralCode string    `json:"referral_code"`
}

// LoginRequest accepts either the username or the email in Login.
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UserDTO struct {
	Id       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	FullName string    `json:"full_name"`
	Role     string    `json:"role"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserDTO   `json:"user"`
}

// --- API keys ---

type CreateApiKeyRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// ApiKeyResponse carries the plaintext Key only on creation.
type ApiKeyResponse struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Prefix    string    `json:"prefix"`
	Key       string    `json:"key,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
