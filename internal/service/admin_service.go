package service

import (
	"context"
	"time"

	"ea-licensing-be/internal/dto"
	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/pkg/logger"
	"ea-licensing-be/internal/repository/unitofwork"
	"ea-licensing-be/pkg/admin/catalog"
	"ea-licensing-be/pkg/admin/dashboard"
	"ea-licensing-be/pkg/admin/user"
	"ea-licensing-be/pkg/events"

	"github.com/google/uuid"
)

type IAdminService interface {
	// Dashboard
	GetDashboardStats(ctx context.Context) (*dto.AdminDashboardStats, error)
	GetSystemLogs(ctx context.Context, page, limit int, level string) ([]*dto.LogListResponse, error)
	GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error)

	// Users
	GetAllUsers(ctx context.Context, page, limit int) ([]*dto.UserDTO, error)
	UpdateUserStatus(ctx context.Context, adminId, userId uuid.UUID, status string) error

	// Catalog
	CreatePlan(ctx context.Context, adminId uuid.UUID, req dto.CreatePlanRequest) (*dto.PlanResponse, error)
	CreateExpertAdvisor(ctx context.Context, adminId uuid.UUID, req dto.CreateExpertAdvisorRequest) (*dto.ExpertAdvisorResponse, error)
	AddEAFile(ctx context.Context, adminId, eaId uuid.UUID, req dto.CreateEAFileRequest) (*dto.DownloadResponse, error)
	CreateLearningResource(ctx context.Context, adminId uuid.UUID, req dto.CreateLearningResourceRequest) (*dto.LearningResourceResponse, error)
}

type adminService struct {
	uowFactory          unitofwork.RepositoryFactory
	logger              logger.ILogger
	clock               Clock
	emitter             events.Emitter
	dashboardAggregator *dashboard.Aggregator
	userManager         *user.Manager
	catalogManager      *catalog.Manager
}

// NewAdminService accepts a nil emitter; status changes are then not broadcast.
func NewAdminService(uowFactory unitofwork.RepositoryFactory, emitter events.Emitter, clock Clock, logger logger.ILogger) IAdminService {
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	return &adminService{
		uowFactory:          uowFactory,
		logger:              logger,
		clock:               clock,
		emitter:             emitter,
		dashboardAggregator: dashboard.NewAggregator(logger),
		userManager:         user.NewManager(logger),
		catalogManager:      catalog.NewManager(),
	}
}

// ============================================================================
// Dashboard
// ============================================================================

func (s *adminService) GetDashboardStats(ctx context.Context) (*dto.AdminDashboardStats, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.dashboardAggregator.GetStats(ctx, uow)
}

func (s *adminService) GetSystemLogs(ctx context.Context, page, limit int, level string) ([]*dto.LogListResponse, error) {
	return s.dashboardAggregator.GetSystemLogs(s.logger, page, limit, level)
}

func (s *adminService) GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error) {
	return s.dashboardAggregator.GetLogDetail(s.logger, logId)
}

// ============================================================================
// User Management
// ============================================================================

func (s *adminService) GetAllUsers(ctx context.Context, page, limit int) ([]*dto.UserDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	users, err := s.userManager.FindAll(ctx, uow, page, limit)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.UserDTO, 0, len(users))
	for _, u := range users {
		res = append(res, &dto.UserDTO{
			Id:       u.Id,
			Email:    u.Email,
			Username: u.Username,
			FullName: u.FullName,
			Role:     string(u.Role),
		})
	}
	return res, nil
}

// UpdateUserStatus broadcasts the change after commit so every instance drops cached API
// key principals.
func (s *adminService) UpdateUserStatus(ctx context.Context, adminId, userId uuid.UUID, status string) error {
	err := s.inTx(ctx, func(uow unitofwork.UnitOfWork, now time.Time) error {
		u, err := s.userManager.UpdateStatus(ctx, uow, adminId, userId, entity.UserStatus(status))
		if err != nil {
			return err
		}
		return s.audit(ctx, uow, adminId, "User", u.Id.String(), map[string]interface{}{
			"change": "status",
			"status": status,
		})
	})
	if err != nil {
		return err
	}

	s.emitter.Emit(ctx, events.UserStatusChanged, map[string]interface{}{
		"user_id": userId.String(),
		"status":  status,
	})
	return nil
}

// ============================================================================
// Catalog
// ============================================================================

func (s *adminService) CreatePlan(ctx context.Context, adminId uuid.UUID, req dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	var res *dto.PlanResponse
	err := s.inTx(ctx, func(uow unitofwork.UnitOfWork, now time.Time) error {
		plan, err := s.catalogManager.CreatePlan(ctx, uow, req, now)
		if err != nil {
			return err
		}
		res = toPlanResponse(plan)
		return s.audit(ctx, uow, adminId, "SubscriptionPlan", plan.Id.String(), map[string]interface{}{
			"change": "create",
			"name":   plan.Name,
			"tier":   string(plan.Tier),
		})
	})
	return res, err
}

func (s *adminService) CreateExpertAdvisor(ctx context.Context, adminId uuid.UUID, req dto.CreateExpertAdvisorRequest) (*dto.ExpertAdvisorResponse, error) {
	var res *dto.ExpertAdvisorResponse
	err := s.inTx(ctx, func(uow unitofwork.UnitOfWork, now time.Time) error {
		ea, err := s.catalogManager.CreateExpertAdvisor(ctx, uow, req, now)
		if err != nil {
			return err
		}
		res = toExpertAdvisorResponse(ea)
		return s.audit(ctx, uow, adminId, "ExpertAdvisor", ea.Id.String(), map[string]interface{}{
			"change":     "create",
			"name":       ea.Name,
			"is_premium": ea.IsPremium,
		})
	})
	return res, err
}

func (s *adminService) AddEAFile(ctx context.Context, adminId, eaId uuid.UUID, req dto.CreateEAFileRequest) (*dto.DownloadResponse, error) {
	var res *dto.DownloadResponse
	err := s.inTx(ctx, func(uow unitofwork.UnitOfWork, now time.Time) error {
		file, err := s.catalogManager.AddFile(ctx, uow, eaId, req, now)
		if err != nil {
			return err
		}
		res = toDownloadResponse(file)
		return s.audit(ctx, uow, adminId, "EAFile", file.Id.String(), map[string]interface{}{
			"change":  "create",
			"ea":      file.ExpertAdvisor.Name,
			"version": file.Version,
		})
	})
	return res, err
}

func (s *adminService) CreateLearningResource(ctx context.Context, adminId uuid.UUID, req dto.CreateLearningResourceRequest) (*dto.LearningResourceResponse, error) {
	var res *dto.LearningResourceResponse
	err := s.inTx(ctx, func(uow unitofwork.UnitOfWork, now time.Time) error {
		resource, err := s.catalogManager.CreateLearningResource(ctx, uow, req, now)
		if err != nil {
			return err
		}
		res = toResourceResponse(resource, true, nil)
		return s.audit(ctx, uow, adminId, "LearningResource", resource.Id.String(), map[string]interface{}{
			"change": "create",
			"title":  resource.Title,
		})
	})
	return res, err
}

func (s *adminService) inTx(ctx context.Context, fn func(uow unitofwork.UnitOfWork, now time.Time) error) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := fn(uow, s.clock()); err != nil {
		return err
	}
	return uow.Commit()
}

func (s *adminService) audit(ctx context.Context, uow unitofwork.UnitOfWork, adminId uuid.UUID, objectType, objectId string, extra map[string]interface{}) error {
	return recordAudit(ctx, uow, s.clock, AuditEntry{
		UserId:     userRef(adminId),
		Action:     entity.AuditAdminChange,
		ObjectType: objectType,
		ObjectId:   objectId,
		Extra:      extra,
	})
}
