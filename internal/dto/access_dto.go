package dto

import "github.com/google/uuid"

type AccessResponse struct {
	Required string `json:"required"`
	Tier     string `json:"tier"`
	Allowed  bool   `json:"allowed"`
}

// DownloadResponse describes the artifact; the bytes are served by the file server.
type DownloadResponse struct {
	FileId        uuid.UUID `json:"file_id"`
	ExpertAdvisor string    `json:"ea"`
	Version       string    `json:"version"`
	FilePath      string    `json:"file_path"`
	Checksum      string    `json:"checksum,omitempty"`
}
