package dto

import (
	"time"

	"github.com/google/uuid"
)

type AuditLogResponse struct {
	Id         uuid.UUID              `json:"id"`
	Action     string                 `json:"action"`
	ObjectType string                 `json:"object_type"`
	ObjectId   string                 `json:"object_id"`
	ExtraData  map[string]interface{} `json:"extra_data,omitempty"`
	IpAddress  string                 `json:"ip_address,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// --- System Log DTOs ---

type LogListResponse struct {
	Id        string `json:"id"` // MD5 of the raw line, not a UUID
	Level     string `json:"level"`
	Module    string `json:"module"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type LogDetailResponse struct {
	LogListResponse
	Details map[string]interface{} `json:"details"`
}
