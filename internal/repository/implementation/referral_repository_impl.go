package implementation

import (
	"context"
	"errors"

	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/mapper"
	"ea-licensing-be/internal/model"
	"ea-licensing-be/internal/repository/contract"
	"ea-licensing-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReferralRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ReferralMapper
}

func NewReferralRepository(db *gorm.DB) contract.ReferralRepository {
	return &ReferralRepositoryImpl{
		db:     db,
		mapper: mapper.NewReferralMapper(),
	}
}

func (r *ReferralRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ReferralRepositoryImpl) Create(ctx context.Context, referral *entity.Referral) error {
	m := r.mapper.ToModel(referral)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*referral = *r.mapper.ToEntity(m)
	return nil
}

func (r *ReferralRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Referral, error) {
	var m model.Referral
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ReferralRepositoryImpl) Consume(ctx context.Context, code string, referredUserID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Referral{}).
		Where("code = ? AND referred_user_id IS NULL", code).
		Update("referred_user_id", referredUserID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *ReferralRepositoryImpl) CountReferred(ctx context.Context, referrerID uuid.UUID) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Referral{}),
		specification.ReferredBy{ReferrerID: referrerID},
		specification.Consumed{},
	)
	err := query.Count(&count).Error
	return count, err
}

func (r *ReferralRepositoryImpl) MarkRewarded(ctx context.Context, referrerID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Referral{}).
		Where("referrer_id = ? AND referred_user_id IS NOT NULL AND reward_granted = ?", referrerID, false).
		Update("reward_granted", true).Error
}

func (r *ReferralRepositoryImpl) TopReferrers(ctx context.Context, limit int) ([]*entity.ReferrerStanding, error) {
	var rows []struct {
		ReferrerId uuid.UUID
		Username   string
		Referred   int64
	}
	err := r.db.WithContext(ctx).Model(&model.Referral{}).
		Select("referrals.referrer_id, users.username, COUNT(referrals.referred_user_id) AS referred").
		Joins("JOIN users ON users.id = referrals.referrer_id").
		Where("referrals.referred_user_id IS NOT NULL").
		Group("referrals.referrer_id, users.username").
		Order("referred DESC, users.username ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	standings := make([]*entity.ReferrerStanding, 0, len(rows))
	for _, row := range rows {
		standings = append(standings, &entity.ReferrerStanding{
			UserId:   row.ReferrerId,
			Username: row.Username,
			Referred: row.Referred,
		})
	}
	return standings, nil
}

func (r *ReferralRepositoryImpl) CreateConfig(ctx context.Context, cfg *entity.ReferralConfig) error {
	m := r.mapper.ConfigToModel(cfg)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	cfg.Id = m.Id
	return nil
}

func (r *ReferralRepositoryImpl) ActiveConfig(ctx context.Context) (*entity.ReferralConfig, error) {
	var m model.ReferralConfig
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("reward_threshold DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ConfigToEntity(&m), nil
}

func (r *ReferralRepositoryImpl) CountRewards(ctx context.Context, userID uuid.UUID, rewardType entity.RewardType, rewardValue string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ReferralReward{}).
		Where("user_id = ? AND reward_type = ? AND reward_value = ?", userID, string(rewardType), rewardValue).
		Count(&count).Error
	return count, err
}

func (r *ReferralRepositoryImpl) CreateReward(ctx context.Context, reward *entity.ReferralReward) (bool, error) {
	m := r.mapper.RewardToModel(reward)
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"}, {Name: "reward_type"}, {Name: "reward_value"}, {Name: "sequence"},
			},
			DoNothing: true,
		}).
		Create(m)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected != 1 {
		return false, nil
	}
	*reward = *r.mapper.RewardToEntity(m)
	return true, nil
}

func (r *ReferralRepositoryImpl) FindRewards(ctx context.Context, userID uuid.UUID) ([]*entity.ReferralReward, error) {
	var models []*model.ReferralReward
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	rewards := make([]*entity.ReferralReward, 0, len(models))
	for _, m := range models {
		rewards = append(rewards, r.mapper.RewardToEntity(m))
	}
	return rewards, nil
}
