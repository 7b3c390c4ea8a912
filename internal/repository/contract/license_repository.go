package contract

import (
	"context"
	"time"

	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/repository/specification"

	"github.com/google/uuid"
)

type LicenseRepository interface {
	// CreateIfAbsent inserts the license unless the (user, expert advisor) pair already has
	// one. Reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, license *entity.LicenseKey) (bool, error)
	Update(ctx context.Context, license *entity.LicenseKey) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LicenseKey, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LicenseKey, error)
	FindExpiredIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error)
	// ExpireIfActive revokes one license only if it is still active.
	ExpireIfActive(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
	RenewActiveForUser(ctx context.Context, userID uuid.UUID, expiresAt *time.Time) (int64, error)
	Touch(ctx context.Context, id uuid.UUID, at time.Time, ip string) error
	CreateUsage(ctx context.Context, usage *entity.LicenseUsage) error

	// Expert advisors and their files
	CreateExpertAdvisor(ctx context.Context, ea *entity.ExpertAdvisor) error
	FindExpertAdvisor(ctx context.Context, specs ...specification.Specification) (*entity.ExpertAdvisor, error)
	FindAllExpertAdvisors(ctx context.Context, specs ...specification.Specification) ([]*entity.ExpertAdvisor, error)
	CreateFile(ctx context.Context, file *entity.EAFile) error
	FindFile(ctx context.Context, specs ...specification.Specification) (*entity.EAFile, error)
}
