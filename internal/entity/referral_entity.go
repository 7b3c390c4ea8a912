package entity

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

type RewardType string

const (
	RewardTypeFreeMonth RewardType = "free_month"
	RewardTypeDiscount  RewardType = "discount"
	RewardTypeOther     RewardType = "other"
)

type Referral struct {
	Id             uuid.UUID
	ReferrerId     uuid.UUID
	Code           string
	ReferredUserId *uuid.UUID
	RewardGranted  bool
	CreatedAt      time.Time
}

type ReferralConfig struct {
	Id              uuid.UUID
	RewardThreshold int
	RewardType      RewardType
	RewardValue     string
	Active          bool
}

// Months parses RewardValue for free_month rewards; anything unparseable counts as 1.
func (c *ReferralConfig) Months() int {
	n, err := strconv.Atoi(c.RewardValue)
	if err != nil || n <= 0 {
		return 1
	}
	return n
}

type ReferralReward struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	ReferralId  *uuid.UUID
	RewardType  RewardType
	RewardValue string
	Sequence    int
	CreatedAt   time.Time
}

// ReferrerStanding is one leaderboard row.
type ReferrerStanding struct {
	UserId   uuid.UUID
	Username string
	Referred int64
}
