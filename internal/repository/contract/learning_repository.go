package contract

import (
	"context"

	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/repository/specification"
)

type LearningRepository interface {
	CreateResource(ctx context.Context, resource *entity.LearningResource) error
	FindResource(ctx context.Context, specs ...specification.Specification) (*entity.LearningResource, error)
	FindAllResources(ctx context.Context, specs ...specification.Specification) ([]*entity.LearningResource, error)
	// UpsertProgress writes the (user, resource) progress row.
	UpsertProgress(ctx context.Context, progress *entity.UserProgress) error
	FindProgress(ctx context.Context, specs ...specification.Specification) ([]*entity.UserProgress, error)
}
