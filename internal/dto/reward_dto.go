package dto

import (
	"time"

	"github.com/google/uuid"
)

type BadgeDTO struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	AwardedAt   time.Time `json:"awarded_at"`
}

type ReferralRewardDTO struct {
	RewardType  string    `json:"reward_type"`
	RewardValue string    `json:"reward_value"`
	Sequence    int       `json:"sequence"`
	CreatedAt   time.Time `json:"created_at"`
}

type ProgressResponse struct {
	UserId        uuid.UUID           `json:"user_id"`
	Level         int                 `json:"level"`
	Xp            int                 `json:"xp"`
	NextLevelXp   int                 `json:"next_level_xp"`
	Streak        int                 `json:"streak"`
	Badges        []BadgeDTO          `json:"badges"`
	ReferralCode  string              `json:"referral_code,omitempty"`
	ReferredCount int64               `json:"referred_count"`
	Rewards       []ReferralRewardDTO `json:"rewards"`
}

type ShareRequest struct {
	Platform string `json:"platform" validate:"required,oneof=twitter facebook linkedin telegram whatsapp reddit"`
	Url      string `json:"url" validate:"required,url"`
}

type ShareResponse struct {
	Rewarded    bool  `json:"rewarded"`
	TotalShares int64 `json:"total_shares"`
}

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Referred int64  `json:"referred"`
}
