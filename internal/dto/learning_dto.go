package dto

import (
	"time"

	"github.com/google/uuid"
)

type LearningResourceResponse struct {
	Id          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Url         string    `json:"url,omitempty"`
	AccessLevel string    `json:"access_level"`
	Accessible  bool      `json:"accessible"`
	Percent     int       `json:"percent"`
	Completed   bool      `json:"completed"`
}

// Percent is a pointer so a missing value is rejected instead of read as 0.
type UpdateProgressRequest struct {
	Percent *int `json:"percent" validate:"required"`
}

type ProgressUpdateResponse struct {
	ResourceId uuid.UUID `json:"resource_id"`
	Percent    int       `json:"percent"`
	Completed  bool      `json:"completed"`
	UpdatedAt  time.Time `json:"updated_at"`
}
