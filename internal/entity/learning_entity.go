package entity

import (
	"time"

	"github.com/google/uuid"
)

type LearningResource struct {
	Id          uuid.UUID
	Title       string
	Description string
	Url         string
	AccessLevel Tier
	CreatedAt   time.Time
}

type UserProgress struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	ResourceId uuid.UUID
	Percent    int
	Completed  bool
	UpdatedAt  time.Time
}
