package contract

import (
	"context"

	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ReferralRepository interface {
	Create(ctx context.Context, referral *entity.Referral) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Referral, error)
	// Consume attaches the referred user to an unused code. Reports false when the code is
	// missing or already used.
	Consume(ctx context.Context, code string, referredUserID uuid.UUID) (bool, error)
	CountReferred(ctx context.Context, referrerID uuid.UUID) (int64, error)
	MarkRewarded(ctx context.Context, referrerID uuid.UUID) error
	// TopReferrers orders referrers by consumed codes, most first.
	TopReferrers(ctx context.Context, limit int) ([]*entity.ReferrerStanding, error)

	CreateConfig(ctx context.Context, cfg *entity.ReferralConfig) error
	// ActiveConfig returns the active config with the highest threshold, or nil.
	ActiveConfig(ctx context.Context) (*entity.ReferralConfig, error)

	CountRewards(ctx context.Context, userID uuid.UUID, rewardType entity.RewardType, rewardValue string) (int64, error)
	// CreateReward inserts unless the same sequence was already granted.
	CreateReward(ctx context.Context, reward *entity.ReferralReward) (bool, error)
	FindRewards(ctx context.Context, userID uuid.UUID) ([]*entity.ReferralReward, error)
}
