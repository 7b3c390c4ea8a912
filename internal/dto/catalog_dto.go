package dto

import (
	"time"

	"github.com/google/uuid"
)

type PlanResponse struct {
	Id           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Tier         string    `json:"tier"`
	Price        float64   `json:"price"`
	DurationDays int       `json:"duration_days"`
}

type ExpertAdvisorResponse struct {
	Id            uuid.UUID      `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	IsPremium     bool           `json:"is_premium"`
	EligiblePlans []PlanResponse `json:"eligible_plans"`
	CreatedAt     time.Time      `json:"created_at"`
}

// --- Admin catalog DTOs ---

type CreatePlanRequest struct {
	Name         string  `json:"name" validate:"required,max=100"`
	Tier         string  `json:"tier" validate:"required,oneof=free basic premium pro"`
	Price        float64 `json:"price" validate:"gte=0"`
	DurationDays int     `json:"duration_days" validate:"gte=0"`
}

type CreateExpertAdvisorRequest struct {
	Name          string      `json:"name" validate:"required,max=150"`
	Description   string      `json:"description"`
	IsPremium     bool        `json:"is_premium"`
	EligiblePlans []uuid.UUID `json:"eligible_plans" validate:"dive,required"`
}

type CreateEAFileRequest struct {
	Version  string `json:"version" validate:"required,max=50"`
	FilePath string `json:"file_path" validate:"required"`
	Checksum string `json:"checksum" validate:"omitempty,max=128"`
}

type UpdateUserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active blocked"`
}

type CreateLearningResourceRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	Url         string `json:"url" validate:"required,url"`
	AccessLevel string `json:"access_level" validate:"required,oneof=free basic premium pro"`
}

type AdminDashboardStats struct {
	TotalUsers        int64 `json:"total_users"`
	ActiveUsers       int64 `json:"active_users"`
	PendingPayments   int64 `json:"pending_payments"`
	ConfirmedPayments int64 `json:"confirmed_payments"`
}
