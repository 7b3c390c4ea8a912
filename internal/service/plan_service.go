// FILE: internal/service/plan_service.go
// Public catalog: plans and expert advisors
package service

import (
	"context"

	"ea-licensing-be/internal/dto"
	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/repository/specification"
	"ea-licensing-be/internal/repository/unitofwork"
)

type IPlanService interface {
	ListPlans(ctx context.Context) ([]*dto.PlanResponse, error)
	ListExpertAdvisors(ctx context.Context) ([]*dto.ExpertAdvisorResponse, error)
}

type planService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewPlanService(uowFactory unitofwork.RepositoryFactory) IPlanService {
	return &planService{
		uowFactory: uowFactory,
	}
}

func toPlanResponse(p *entity.SubscriptionPlan) *dto.PlanResponse {
	return &dto.PlanResponse{
		Id:           p.Id,
		Name:         p.Name,
		Tier:         string(p.Tier),
		Price:        p.Price,
		DurationDays: p.DurationDays,
	}
}

func toExpertAdvisorResponse(ea *entity.ExpertAdvisor) *dto.ExpertAdvisorResponse {
	res := &dto.ExpertAdvisorResponse{
		Id:            ea.Id,
		Name:          ea.Name,
		Description:   ea.Description,
		IsPremium:     ea.IsPremium,
		EligiblePlans: make([]dto.PlanResponse, 0, len(ea.EligiblePlans)),
		CreatedAt:     ea.CreatedAt,
	}
	for _, p := range ea.EligiblePlans {
		res.EligiblePlans = append(res.EligiblePlans, *toPlanResponse(p))
	}
	return res
}

func toDownloadResponse(f *entity.EAFile) *dto.DownloadResponse {
	res := &dto.DownloadResponse{
		FileId:   f.Id,
		Version:  f.Version,
		FilePath: f.FilePath,
		Checksum: f.Checksum,
	}
	if f.ExpertAdvisor != nil {
		res.ExpertAdvisor = f.ExpertAdvisor.Name
	}
	return res
}

// ListPlans returns active plans, cheapest first.
func (s *planService) ListPlans(ctx context.Context) ([]*dto.PlanResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	plans, err := uow.SubscriptionRepository().FindAllPlans(ctx,
		specification.FilterBy{Field: "is_active", Value: true},
		specification.OrderBy{Field: "price"},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.PlanResponse, 0, len(plans))
	for _, p := range plans {
		res = append(res, toPlanResponse(p))
	}
	return res, nil
}

func (s *planService) ListExpertAdvisors(ctx context.Context) ([]*dto.ExpertAdvisorResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	eas, err := uow.LicenseRepository().FindAllExpertAdvisors(ctx, specification.OrderBy{Field: "name"})
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ExpertAdvisorResponse, 0, len(eas))
	for _, ea := range eas {
		res = append(res, toExpertAdvisorResponse(ea))
	}
	return res, nil
}
