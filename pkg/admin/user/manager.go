package user

import (
	"context"

	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/pkg/apperror"
	"ea-licensing-be/internal/pkg/logger"
	"ea-licensing-be/internal/repository/specification"
	"ea-licensing-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Manager handles user-related admin operations
type Manager struct {
	logger logger.ILogger
}

func NewManager(logger logger.ILogger) *Manager {
	return &Manager{logger: logger}
}

// FindAll retrieves users with pagination, newest first.
func (m *Manager) FindAll(ctx context.Context, uow unitofwork.UnitOfWork, page, limit int) ([]*entity.User, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return uow.UserRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
}

// UpdateStatus blocks or unblocks a user. Admins cannot block themselves.
func (m *Manager) UpdateStatus(ctx context.Context, uow unitofwork.UnitOfWork, adminId, userId uuid.UUID, status entity.UserStatus) (*entity.User, error) {
	if status != entity.UserStatusActive && status != entity.UserStatusBlocked {
		return nil, apperror.Validation("unknown user status")
	}
	if adminId == userId && status == entity.UserStatusBlocked {
		return nil, apperror.Validation("admins cannot block themselves")
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}
	if err := uow.UserRepository().UpdateStatus(ctx, userId, status); err != nil {
		return nil, err
	}
	user.Status = status

	m.logger.Info("ADMIN", "Updated user status", map[string]interface{}{
		"userId": userId.String(),
		"status": string(status),
		"admin":  adminId.String(),
	})
	return user, nil
}
