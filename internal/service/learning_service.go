package service

import (
	"context"

	"ea-licensing-be/internal/dto"
	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/pkg/apperror"
	"ea-licensing-be/internal/repository/specification"
	"ea-licensing-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type ILearningService interface {
	ListResources(ctx context.Context, principal *entity.Principal) ([]*dto.LearningResourceResponse, error)
	GetResource(ctx context.Context, principal *entity.Principal, resourceId uuid.UUID) (*dto.LearningResourceResponse, error)
	UpdateProgress(ctx context.Context, principal *entity.Principal, resourceId uuid.UUID, percent int) (*dto.ProgressUpdateResponse, error)
}

type learningService struct {
	uowFactory unitofwork.RepositoryFactory
	clock      Clock
}

func NewLearningService(uowFactory unitofwork.RepositoryFactory, clock Clock) ILearningService {
	return &learningService{uowFactory: uowFactory, clock: clock}
}

func (s *learningService) progressByResource(ctx context.Context, uow unitofwork.UnitOfWork, principal *entity.Principal) (map[uuid.UUID]*entity.UserProgress, error) {
	out := map[uuid.UUID]*entity.UserProgress{}
	if principal == nil {
		return out, nil
	}
	rows, err := uow.LearningRepository().FindProgress(ctx, specification.UserOwnedBy{UserID: principal.UserId})
	if err != nil {
		return nil, err
	}
	for _, p := range rows {
		out[p.ResourceId] = p
	}
	return out, nil
}

func toResourceResponse(r *entity.LearningResource, accessible bool, progress *entity.UserProgress) *dto.LearningResourceResponse {
	res := &dto.LearningResourceResponse{
		Id:          r.Id,
		Title:       r.Title,
		Description: r.Description,
		AccessLevel: string(r.AccessLevel),
		Accessible:  accessible,
	}
	// Locked resources do not leak their link.
	if accessible {
		res.Url = r.Url
	}
	if progress != nil {
		res.Percent = progress.Percent
		res.Completed = progress.Completed
	}
	return res
}

func (s *learningService) ListResources(ctx context.Context, principal *entity.Principal) ([]*dto.LearningResourceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	resources, err := uow.LearningRepository().FindAllResources(ctx, specification.OrderBy{Field: "created_at", Desc: true})
	if err != nil {
		return nil, err
	}
	progress, err := s.progressByResource(ctx, uow, principal)
	if err != nil {
		return nil, err
	}

	// One tier lookup serves every resource.
	var tier entity.Tier = entity.TierFree
	privileged := principal.IsPrivileged()
	if principal != nil && !privileged {
		if tier, err = resolveTier(ctx, uow, principal.UserId); err != nil {
			return nil, err
		}
	}

	res := make([]*dto.LearningResourceResponse, 0, len(resources))
	for _, r := range resources {
		accessible := privileged || tier.Covers(r.AccessLevel)
		res = append(res, toResourceResponse(r, accessible, progress[r.Id]))
	}
	return res, nil
}

func (s *learningService) findAccessible(ctx context.Context, uow unitofwork.UnitOfWork, principal *entity.Principal, resourceId uuid.UUID) (*entity.LearningResource, error) {
	resource, err := uow.LearningRepository().FindResource(ctx, specification.ByID{ID: resourceId})
	if err != nil {
		return nil, err
	}
	if resource == nil {
		return nil, apperror.NotFound("learning resource not found")
	}
	ok, err := canAccess(ctx, uow, principal, resource.AccessLevel)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.Forbidden("upgrade your plan to access this resource")
	}
	return resource, nil
}

func (s *learningService) GetResource(ctx context.Context, principal *entity.Principal, resourceId uuid.UUID) (*dto.LearningResourceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	resource, err := s.findAccessible(ctx, uow, principal, resourceId)
	if err != nil {
		return nil, err
	}
	progress, err := s.progressByResource(ctx, uow, principal)
	if err != nil {
		return nil, err
	}
	return toResourceResponse(resource, true, progress[resource.Id]), nil
}

// UpdateProgress stores the caller's percentage; 100 marks the resource completed.
func (s *learningService) UpdateProgress(ctx context.Context, principal *entity.Principal, resourceId uuid.UUID, percent int) (*dto.ProgressUpdateResponse, error) {
	if principal == nil {
		return nil, apperror.Unauthorized("authentication required")
	}
	if percent < 0 || percent > 100 {
		return nil, apperror.Validation("percent must be between 0 and 100")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	resource, err := s.findAccessible(ctx, uow, principal, resourceId)
	if err != nil {
		return nil, err
	}

	progress := &entity.UserProgress{
		UserId:     principal.UserId,
		ResourceId: resource.Id,
		Percent:    percent,
		Completed:  percent == 100,
		UpdatedAt:  s.clock(),
	}
	if err := uow.LearningRepository().UpsertProgress(ctx, progress); err != nil {
		return nil, err
	}
	return &dto.ProgressUpdateResponse{
		ResourceId: resource.Id,
		Percent:    progress.Percent,
		Completed:  progress.Completed,
		UpdatedAt:  progress.UpdatedAt,
	}, nil
}
