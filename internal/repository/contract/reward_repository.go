package contract

import (
	"context"
	"time"

	"ea-licensing-be/internal/entity"

	"github.com/google/uuid"
)

type RewardRepository interface {
	// FindOrCreateLevel returns the user's level row, creating the starting row on first use.
	FindOrCreateLevel(ctx context.Context, userID uuid.UUID) (*entity.UserLevel, error)
	// SaveLevel writes the level only if its version still equals expectedVersion.
	SaveLevel(ctx context.Context, level *entity.UserLevel, expectedVersion int) (bool, error)

	CreateBadge(ctx context.Context, badge *entity.Badge) error
	FindBadge(ctx context.Context, name string) (*entity.Badge, error)
	FindOrCreateBadge(ctx context.Context, badge *entity.Badge) (*entity.Badge, error)
	// AwardBadge reports false when the user already holds the badge.
	AwardBadge(ctx context.Context, userID, badgeID uuid.UUID, at time.Time) (bool, error)
	FindUserBadges(ctx context.Context, userID uuid.UUID) ([]*entity.UserBadge, error)

	CreateAnalytics(ctx context.Context, event *entity.AnalyticsEvent) error
	CountAnalytics(ctx context.Context, userID uuid.UUID, eventType string) (int64, error)

	CreateShare(ctx context.Context, share *entity.SocialShareEvent) error
	CountShares(ctx context.Context, userID uuid.UUID) (int64, error)
	CountRewardedSharesSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error)
}
