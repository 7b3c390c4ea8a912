package dto

import (
	"time"

	"github.com/google/uuid"
)

type IssueLicenseRequest struct {
	ExpertAdvisorId uuid.UUID `json:"ea_id" validate:"required"`
}

type LicenseKeyRequest struct {
	Key string `json:"key" validate:"required"`
}

type LicenseResponse struct {
	Id              uuid.UUID  `json:"id"`
	Key             string     `json:"key"`
	ExpertAdvisorId uuid.UUID  `json:"ea_id"`
	ExpertAdvisor   string     `json:"ea"`
	Plan            string     `json:"plan"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	ActivatedAt     *time.Time `json:"activated_at,omitempty"`
	ExpiresAt       *time.Time `json:"expires_at"`
}

type LicenseValidationResponse struct {
	Valid         bool       `json:"valid"`
	Status        string     `json:"status"`
	User          string     `json:"user"`
	ExpertAdvisor string     `json:"ea"`
	Plan          string     `json:"plan"`
	ExpiresAt     *time.Time `json:"expires_at"`
}

type RuntimeSettings struct {
	MaxTrades int    `json:"max_trades"`
	RiskLevel string `json:"risk_level"`
}

type LicenseConfigResponse struct {
	ExpertAdvisor string          `json:"ea_name"`
	Plan          string          `json:"plan"`
	User          string          `json:"user"`
	Settings      RuntimeSettings `json:"settings"`
}

type UsageRequest struct {
	Key     string                 `json:"key" validate:"required"`
	Payload map[string]interface{} `json:"payload"`
}

type UsageResponse struct {
	Received bool `json:"received"`
}
