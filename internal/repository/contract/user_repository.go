package contract

import (
	"context"
	"time"

	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.UserStatus) error

	// API keys
	CreateApiKey(ctx context.Context, key *entity.ApiKey) error
	FindApiKey(ctx context.Context, specs ...specification.Specification) (*entity.ApiKey, error)
	TouchApiKey(ctx context.Context, id uuid.UUID, at time.Time) error
}
