package mapper

import (
	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/model"
)

type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{}
}

func (m *SubscriptionMapper) PlanToEntity(p *model.SubscriptionPlan) *entity.SubscriptionPlan {
	if p == nil {
		return nil
	}
	return &entity.SubscriptionPlan{
		Id:           p.Id,
		Name:         p.Name,
		Tier:         entity.Tier(p.Tier),
		Price:        p.Price,
		DurationDays: p.DurationDays,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (m *SubscriptionMapper) PlanToModel(p *entity.SubscriptionPlan) *model.SubscriptionPlan {
	if p == nil {
		return nil
	}
	return &model.SubscriptionPlan{
		Id:           p.Id,
		Name:         p.Name,
		Tier:         string(p.Tier),
		Price:        p.Price,
		DurationDays: p.DurationDays,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (m *SubscriptionMapper) PlansToEntities(plans []*model.SubscriptionPlan) []*entity.SubscriptionPlan {
	res := make([]*entity.SubscriptionPlan, 0, len(plans))
	for _, p := range plans {
		res = append(res, m.PlanToEntity(p))
	}
	return res
}

func (m *SubscriptionMapper) SubscriptionToEntity(s *model.Subscription) *entity.Subscription {
	if s == nil {
		return nil
	}
	return &entity.Subscription{
		Id:        s.Id,
		UserId:    s.UserId,
		PlanId:    s.PlanId,
		Plan:      m.PlanToEntity(s.Plan),
		IsActive:  s.IsActive,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// SubscriptionToModel leaves the Plan association empty so Save never touches plans.
func (m *SubscriptionMapper) SubscriptionToModel(s *entity.Subscription) *model.Subscription {
	if s == nil {
		return nil
	}
	return &model.Subscription{
		Id:        s.Id,
		UserId:    s.UserId,
		PlanId:    s.PlanId,
		IsActive:  s.IsActive,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (m *SubscriptionMapper) PaymentToEntity(p *model.Payment) *entity.Payment {
	if p == nil {
		return nil
	}
	return &entity.Payment{
		Id:             p.Id,
		UserId:         p.UserId,
		PlanId:         p.PlanId,
		Plan:           m.PlanToEntity(p.Plan),
		Amount:         p.Amount,
		Method:         entity.PaymentMethod(p.Method),
		Status:         entity.PaymentStatus(p.Status),
		TransactionId:  p.TransactionId,
		ProofOfPayment: p.ProofOfPayment,
		FailureReason:  p.FailureReason,
		ConfirmedAt:    p.ConfirmedAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (m *SubscriptionMapper) PaymentToModel(p *entity.Payment) *model.Payment {
	if p == nil {
		return nil
	}
	return &model.Payment{
		Id:             p.Id,
		UserId:         p.UserId,
		PlanId:         p.PlanId,
		Amount:         p.Amount,
		Method:         string(p.Method),
		Status:         string(p.Status),
		TransactionId:  p.TransactionId,
		ProofOfPayment: p.ProofOfPayment,
		FailureReason:  p.FailureReason,
		ConfirmedAt:    p.ConfirmedAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
