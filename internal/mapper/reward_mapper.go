package mapper

import (
	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/model"
)

type RewardMapper struct{}

func NewRewardMapper() *RewardMapper {
	return &RewardMapper{}
}

func (m *RewardMapper) LevelToEntity(l *model.UserLevel) *entity.UserLevel {
	if l == nil {
		return nil
	}
	return &entity.UserLevel{
		Id:           l.Id,
		UserId:       l.UserId,
		Level:        l.Level,
		Xp:           l.Xp,
		Streak:       l.Streak,
		LastActivity: l.LastActivity,
		Version:      l.Version,
		UpdatedAt:    l.UpdatedAt,
	}
}

func (m *RewardMapper) LevelToModel(l *entity.UserLevel) *model.UserLevel {
	if l == nil {
		return nil
	}
	return &model.UserLevel{
		Id:           l.Id,
		UserId:       l.UserId,
		Level:        l.Level,
		Xp:           l.Xp,
		Streak:       l.Streak,
		LastActivity: l.LastActivity,
		Version:      l.Version,
		UpdatedAt:    l.UpdatedAt,
	}
}

func (m *RewardMapper) BadgeToEntity(b *model.Badge) *entity.Badge {
	if b == nil {
		return nil
	}
	return &entity.Badge{Id: b.Id, Name: b.Name, Description: b.Description, Icon: b.Icon}
}

func (m *RewardMapper) BadgeToModel(b *entity.Badge) *model.Badge {
	if b == nil {
		return nil
	}
	return &model.Badge{Id: b.Id, Name: b.Name, Description: b.Description, Icon: b.Icon}
}

func (m *RewardMapper) UserBadgeToEntity(b *model.UserBadge) *entity.UserBadge {
	if b == nil {
		return nil
	}
	return &entity.UserBadge{
		Id:        b.Id,
		UserId:    b.UserId,
		BadgeId:   b.BadgeId,
		Badge:     m.BadgeToEntity(b.Badge),
		AwardedAt: b.AwardedAt,
	}
}

func (m *RewardMapper) AnalyticsToModel(e *entity.AnalyticsEvent) *model.AnalyticsEvent {
	if e == nil {
		return nil
	}
	return &model.AnalyticsEvent{
		Id:         e.Id,
		UserId:     e.UserId,
		EventType:  e.EventType,
		EventValue: e.EventValue,
		CreatedAt:  e.CreatedAt,
	}
}

func (m *RewardMapper) AnalyticsToEntity(e *model.AnalyticsEvent) *entity.AnalyticsEvent {
	if e == nil {
		return nil
	}
	return &entity.AnalyticsEvent{
		Id:         e.Id,
		UserId:     e.UserId,
		EventType:  e.EventType,
		EventValue: e.EventValue,
		CreatedAt:  e.CreatedAt,
	}
}

func (m *RewardMapper) ShareToModel(s *entity.SocialShareEvent) *model.SocialShareEvent {
	if s == nil {
		return nil
	}
	return &model.SocialShareEvent{
		Id:        s.Id,
		UserId:    s.UserId,
		Platform:  s.Platform,
		Url:       s.Url,
		Rewarded:  s.Rewarded,
		CreatedAt: s.CreatedAt,
	}
}

func (m *RewardMapper) ShareToEntity(s *model.SocialShareEvent) *entity.SocialShareEvent {
	if s == nil {
		return nil
	}
	return &entity.SocialShareEvent{
		Id:        s.Id,
		UserId:    s.UserId,
		Platform:  s.Platform,
		Url:       s.Url,
		Rewarded:  s.Rewarded,
		CreatedAt: s.CreatedAt,
	}
}
