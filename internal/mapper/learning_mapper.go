package mapper

import (
	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/model"
)

type LearningMapper struct{}

func NewLearningMapper() *LearningMapper {
	return &LearningMapper{}
}

func (m *LearningMapper) ResourceToEntity(r *model.LearningResource) *entity.LearningResource {
	if r == nil {
		return nil
	}
	return &entity.LearningResource{
		Id:          r.Id,
		Title:       r.Title,
		Description: r.Description,
		Url:         r.Url,
		AccessLevel: entity.Tier(r.AccessLevel),
		CreatedAt:   r.CreatedAt,
	}
}

func (m *LearningMapper) ResourceToModel(r *entity.LearningResource) *model.LearningResource {
	if r == nil {
		return nil
	}
	return &model.LearningResource{
		Id:          r.Id,
		Title:       r.Title,
		Description: r.Description,
		Url:         r.Url,
		AccessLevel: string(r.AccessLevel),
		CreatedAt:   r.CreatedAt,
	}
}

func (m *LearningMapper) ProgressToEntity(p *model.UserProgress) *entity.UserProgress {
	if p == nil {
		return nil
	}
	return &entity.UserProgress{
		Id:         p.Id,
		UserId:     p.UserId,
		ResourceId: p.ResourceId,
		Percent:    p.Percent,
		Completed:  p.Completed,
		UpdatedAt:  p.UpdatedAt,
	}
}

func (m *LearningMapper) ProgressToModel(p *entity.UserProgress) *model.UserProgress {
	if p == nil {
		return nil
	}
	return &model.UserProgress{
		Id:         p.Id,
		UserId:     p.UserId,
		ResourceId: p.ResourceId,
		Percent:    p.Percent,
		Completed:  p.Completed,
		UpdatedAt:  p.UpdatedAt,
	}
}
