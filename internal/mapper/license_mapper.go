package mapper

import (
	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/model"
)

type LicenseMapper struct {
	userMapper         *UserMapper
	subscriptionMapper *SubscriptionMapper
}

func NewLicenseMapper() *LicenseMapper {
	return &LicenseMapper{
		userMapper:         NewUserMapper(),
		subscriptionMapper: NewSubscriptionMapper(),
	}
}

func (m *LicenseMapper) ExpertAdvisorToEntity(ea *model.ExpertAdvisor) *entity.ExpertAdvisor {
	if ea == nil {
		return nil
	}
	return &entity.ExpertAdvisor{
		Id:            ea.Id,
		Name:          ea.Name,
		Description:   ea.Description,
		IsPremium:     ea.IsPremium,
		EligiblePlans: m.subscriptionMapper.PlansToEntities(ea.EligiblePlans),
		CreatedAt:     ea.CreatedAt,
	}
}

func (m *LicenseMapper) ExpertAdvisorToModel(ea *entity.ExpertAdvisor) *model.ExpertAdvisor {
	if ea == nil {
		return nil
	}
	plans := make([]*model.SubscriptionPlan, 0, len(ea.EligiblePlans))
	for _, p := range ea.EligiblePlans {
		plans = append(plans, m.subscriptionMapper.PlanToModel(p))
	}
	return &model.ExpertAdvisor{
		Id:            ea.Id,
		Name:          ea.Name,
		Description:   ea.Description,
		IsPremium:     ea.IsPremium,
		EligiblePlans: plans,
		CreatedAt:     ea.CreatedAt,
	}
}

func (m *LicenseMapper) FileToEntity(f *model.EAFile) *entity.EAFile {
	if f == nil {
		return nil
	}
	return &entity.EAFile{
		Id:              f.Id,
		ExpertAdvisorId: f.ExpertAdvisorId,
		ExpertAdvisor:   m.ExpertAdvisorToEntity(f.ExpertAdvisor),
		Version:         f.Version,
		FilePath:        f.FilePath,
		Checksum:        f.Checksum,
		CreatedAt:       f.CreatedAt,
	}
}

func (m *LicenseMapper) FileToModel(f *entity.EAFile) *model.EAFile {
	if f == nil {
		return nil
	}
	return &model.EAFile{
		Id:              f.Id,
		ExpertAdvisorId: f.ExpertAdvisorId,
		Version:         f.Version,
		FilePath:        f.FilePath,
		Checksum:        f.Checksum,
		CreatedAt:       f.CreatedAt,
	}
}

func (m *LicenseMapper) ToEntity(l *model.LicenseKey) *entity.LicenseKey {
	if l == nil {
		return nil
	}
	return &entity.LicenseKey{
		Id:              l.Id,
		Key:             l.Key,
		UserId:          l.UserId,
		ExpertAdvisorId: l.ExpertAdvisorId,
		PlanId:          l.PlanId,
		Status:          entity.LicenseStatus(l.Status),
		CreatedAt:       l.CreatedAt,
		ActivatedAt:     l.ActivatedAt,
		DeactivatedAt:   l.DeactivatedAt,
		ExpiresAt:       l.ExpiresAt,
		LastUsedAt:      l.LastUsedAt,
		LastUsedIp:      l.LastUsedIp,
		User:            m.userMapper.ToEntity(l.User),
		ExpertAdvisor:   m.ExpertAdvisorToEntity(l.ExpertAdvisor),
		Plan:            m.subscriptionMapper.PlanToEntity(l.Plan),
	}
}

func (m *LicenseMapper) ToModel(l *entity.LicenseKey) *model.LicenseKey {
	if l == nil {
		return nil
	}
	return &model.LicenseKey{
		Id:              l.Id,
		Key:             l.Key,
		UserId:          l.UserId,
		ExpertAdvisorId: l.ExpertAdvisorId,
		PlanId:          l.PlanId,
		Status:          string(l.Status),
		CreatedAt:       l.CreatedAt,
		ActivatedAt:     l.ActivatedAt,
		DeactivatedAt:   l.DeactivatedAt,
		ExpiresAt:       l.ExpiresAt,
		LastUsedAt:      l.LastUsedAt,
		LastUsedIp:      l.LastUsedIp,
	}
}

func (m *LicenseMapper) UsageToModel(u *entity.LicenseUsage) *model.LicenseUsage {
	if u == nil {
		return nil
	}
	return &model.LicenseUsage{
		Id:        u.Id,
		LicenseId: u.LicenseId,
		Ip:        u.Ip,
		Payload:   toJSON(u.Payload),
		CreatedAt: u.CreatedAt,
	}
}

func (m *LicenseMapper) UsageToEntity(u *model.LicenseUsage) *entity.LicenseUsage {
	if u == nil {
		return nil
	}
	return &entity.LicenseUsage{
		Id:        u.Id,
		LicenseId: u.LicenseId,
		Ip:        u.Ip,
		Payload:   fromJSON(u.Payload),
		CreatedAt: u.CreatedAt,
	}
}
