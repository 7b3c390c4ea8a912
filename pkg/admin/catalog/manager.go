package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ea-licensing-be/internal/dto"
	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/pkg/apperror"
	"ea-licensing-be/internal/repository/specification"
	"ea-licensing-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Manager handles catalog admin operations: plans, expert advisors, their files and the
// learning library.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) CreatePlan(ctx context.Context, uow unitofwork.UnitOfWork, req dto.CreatePlanRequest, now time.Time) (*entity.SubscriptionPlan, error) {
	tier, ok := entity.ParseTier(req.Tier)
	if !ok {
		return nil, apperror.Validation("unknown tier")
	}
	existing, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByName{Name: strings.TrimSpace(req.Name)})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Conflict("plan name already exists")
	}

	plan := &entity.SubscriptionPlan{
		Name:         strings.TrimSpace(req.Name),
		Tier:         tier,
		Price:        req.Price,
		DurationDays: req.DurationDays,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uow.SubscriptionRepository().CreatePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}
	return plan, nil
}

// CreateExpertAdvisor requires every eligible plan to exist.
func (m *Manager) CreateExpertAdvisor(ctx context.Context, uow unitofwork.UnitOfWork, req dto.CreateExpertAdvisorRequest, now time.Time) (*entity.ExpertAdvisor, error) {
	var plans []*entity.SubscriptionPlan
	if len(req.EligiblePlans) > 0 {
		found, err := uow.SubscriptionRepository().FindAllPlans(ctx, specification.ByIDs{IDs: req.EligiblePlans})
		if err != nil {
			return nil, err
		}
		if len(found) != len(uniqueIDs(req.EligiblePlans)) {
			return nil, apperror.Validation("unknown eligible plan")
		}
		plans = found
	}

	ea := &entity.ExpertAdvisor{
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		IsPremium:     req.IsPremium,
		EligiblePlans: plans,
		CreatedAt:     now,
	}
	if err := uow.LicenseRepository().CreateExpertAdvisor(ctx, ea); err != nil {
		return nil, fmt.Errorf("create expert advisor: %w", err)
	}
	return ea, nil
}

func (m *Manager) AddFile(ctx context.Context, uow unitofwork.UnitOfWork, eaId uuid.UUID, req dto.CreateEAFileRequest, now time.Time) (*entity.EAFile, error) {
	ea, err := uow.LicenseRepository().FindExpertAdvisor(ctx, specification.ByID{ID: eaId})
	if err != nil {
		return nil, err
	}
	if ea == nil {
		return nil, apperror.NotFound("expert advisor not found")
	}

	file := &entity.EAFile{
		ExpertAdvisorId: ea.Id,
		Version:         req.Version,
		FilePath:        req.FilePath,
		Checksum:        req.Checksum,
		CreatedAt:       now,
	}
	if err := uow.LicenseRepository().CreateFile(ctx, file); err != nil {
		return nil, fmt.Errorf("create ea file: %w", err)
	}
	file.ExpertAdvisor = ea
	return file, nil
}

func (m *Manager) CreateLearningResource(ctx context.Context, uow unitofwork.UnitOfWork, req dto.CreateLearningResourceRequest, now time.Time) (*entity.LearningResource, error) {
	tier, ok := entity.ParseTier(req.AccessLevel)
	if !ok {
		return nil, apperror.Validation("unknown access level")
	}
	resource := &entity.LearningResource{
		Title:       req.Title,
		Description: req.Description,
		Url:         req.Url,
		AccessLevel: tier,
		CreatedAt:   now,
	}
	if err := uow.LearningRepository().CreateResource(ctx, resource); err != nil {
		return nil, fmt.Errorf("create learning resource: %w", err)
	}
	return resource, nil
}

func uniqueIDs(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
