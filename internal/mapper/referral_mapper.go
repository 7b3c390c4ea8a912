package mapper

import (
	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/model"
)

type ReferralMapper struct{}

func NewReferralMapper() *ReferralMapper {
	return &ReferralMapper{}
}

func (m *ReferralMapper) ToEntity(r *model.Referral) *entity.Referral {
	if r == nil {
		return nil
	}
	return &entity.Referral{
		Id:             r.Id,
		ReferrerId:     r.ReferrerId,
		Code:           r.Code,
		ReferredUserId: r.ReferredUserId,
		RewardGranted:  r.RewardGranted,
		CreatedAt:      r.CreatedAt,
	}
}

func (m *ReferralMapper) ToModel(r *entity.Referral) *model.Referral {
	if r == nil {
		return nil
	}
	return &model.Referral{
		Id:             r.Id,
		ReferrerId:     r.ReferrerId,
		Code:           r.Code,
		ReferredUserId: r.ReferredUserId,
		RewardGranted:  r.RewardGranted,
		CreatedAt:      r.CreatedAt,
	}
}

func (m *ReferralMapper) ConfigToEntity(c *model.ReferralConfig) *entity.ReferralConfig {
	if c == nil {
		return nil
	}
	return &entity.ReferralConfig{
		Id:              c.Id,
		RewardThreshold: c.RewardThreshold,
		RewardType:      entity.RewardType(c.RewardType),
		RewardValue:     c.RewardValue,
		Active:          c.Active,
	}
}

func (m *ReferralMapper) ConfigToModel(c *entity.ReferralConfig) *model.ReferralConfig {
	if c == nil {
		return nil
	}
	return &model.ReferralConfig{
		Id:              c.Id,
		RewardThreshold: c.RewardThreshold,
		RewardType:      string(c.RewardType),
		RewardValue:     c.RewardValue,
		Active:          c.Active,
	}
}

func (m *ReferralMapper) RewardToEntity(r *model.ReferralReward) *entity.ReferralReward {
	if r == nil {
		return nil
	}
	return &entity.ReferralReward{
		Id:          r.Id,
		UserId:      r.UserId,
		ReferralId:  r.ReferralId,
		RewardType:  entity.RewardType(r.RewardType),
		RewardValue: r.RewardValue,
		Sequence:    r.Sequence,
		CreatedAt:   r.CreatedAt,
	}
}

func (m *ReferralMapper) RewardToModel(r *entity.ReferralReward) *model.ReferralReward {
	if r == nil {
		return nil
	}
	return &model.ReferralReward{
		Id:          r.Id,
		UserId:      r.UserId,
		ReferralId:  r.ReferralId,
		RewardType:  string(r.RewardType),
		RewardValue: r.RewardValue,
		Sequence:    r.Sequence,
		CreatedAt:   r.CreatedAt,
	}
}
