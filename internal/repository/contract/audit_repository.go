package contract

import (
	"context"

	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/repository/specification"
)

// AuditRepository has no update or delete; the trail is append-only.
type AuditRepository interface {
	Create(ctx context.Context, entry *entity.AuditLog) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditLog, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
