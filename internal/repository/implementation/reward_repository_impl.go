package implementation

import (
	"context"
	"errors"
	"time"

	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/mapper"
	"ea-licensing-be/internal/model"
	"ea-licensing-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RewardRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RewardMapper
}

func NewRewardRepository(db *gorm.DB) contract.RewardRepository {
	return &RewardRepositoryImpl{
		db:     db,
		mapper: mapper.NewRewardMapper(),
	}
}

func (r *RewardRepositoryImpl) FindOrCreateLevel(ctx context.Context, userID uuid.UUID) (*entity.UserLevel, error) {
	seed := &model.UserLevel{UserId: userID, Level: 1}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(seed).Error
	if err != nil {
		return nil, err
	}

	var m model.UserLevel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		return nil, err
	}
	return r.mapper.LevelToEntity(&m), nil
}

func (r *RewardRepositoryImpl) SaveLevel(ctx context.Context, level *entity.UserLevel, expectedVersion int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.UserLevel{}).
		Where("id = ? AND version = ?", level.Id, expectedVersion).
		Updates(map[string]interface{}{
			"level":         level.Level,
			"xp":            level.Xp,
			"streak":        level.Streak,
			"last_activity": level.LastActivity,
			"version":       expectedVersion + 1,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected != 1 {
		return false, nil
	}
	level.Version = expectedVersion + 1
	return true, nil
}

func (r *RewardRepositoryImpl) CreateBadge(ctx context.Context, badge *entity.Badge) error {
	m := r.mapper.BadgeToModel(badge)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	badge.Id = m.Id
	return nil
}

func (r *RewardRepositoryImpl) FindBadge(ctx context.Context, name string) (*entity.Badge, error) {
	var m model.Badge
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.BadgeToEntity(&m), nil
}

func (r *RewardRepositoryImpl) FindOrCreateBadge(ctx context.Context, badge *entity.Badge) (*entity.Badge, error) {
	m := r.mapper.BadgeToModel(badge)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(m).Error
	if err != nil {
		return nil, err
	}
	return r.FindBadge(ctx, badge.Name)
}

func (r *RewardRepositoryImpl) AwardBadge(ctx context.Context, userID, badgeID uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
			DoNothing: true,
		}).
		Create(&model.UserBadge{UserId: userID, BadgeId: badgeID, AwardedAt: at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *RewardRepositoryImpl) FindUserBadges(ctx context.Context, userID uuid.UUID) ([]*entity.UserBadge, error) {
	var models []*model.UserBadge
	err := r.db.WithContext(ctx).
		Preload("Badge").
		Where("user_id = ?", userID).
		Order("awarded_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	badges := make([]*entity.UserBadge, 0, len(models))
	for _, m := range models {
		badges = append(badges, r.mapper.UserBadgeToEntity(m))
	}
	return badges, nil
}

func (r *RewardRepositoryImpl) CreateAnalytics(ctx context.Context, event *entity.AnalyticsEvent) error {
	m := r.mapper.AnalyticsToModel(event)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*event = *r.mapper.AnalyticsToEntity(m)
	return nil
}

func (r *RewardRepositoryImpl) CountAnalytics(ctx context.Context, userID uuid.UUID, eventType string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.AnalyticsEvent{}).
		Where("user_id = ? AND event_type = ?", userID, eventType).
		Count(&count).Error
	return count, err
}

func (r *RewardRepositoryImpl) CreateShare(ctx context.Context, share *entity.SocialShareEvent) error {
	m := r.mapper.ShareToModel(share)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*share = *r.mapper.ShareToEntity(m)
	return nil
}

func (r *RewardRepositoryImpl) CountShares(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SocialShareEvent{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *RewardRepositoryImpl) CountRewardedSharesSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SocialShareEvent{}).
		Where("user_id = ? AND rewarded = ? AND created_at >= ?", userID, true, since).
		Count(&count).Error
	return count, err
}
