package entity

import (
	"time"

	"github.com/google/uuid"
)

const XPPerLevel = 100

type UserLevel struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	Level        int
	Xp           int
	Streak       int
	LastActivity *time.Time
	Version      int
	UpdatedAt    time.Time
}

func (l *UserLevel) XPForNextLevel() int {
	return XPPerLevel * l.Level
}

type Badge struct {
	Id          uuid.UUID
	Name        string
	Description string
	Icon        string
}

type UserBadge struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	BadgeId   uuid.UUID
	Badge     *Badge
	AwardedAt time.Time
}

// Analytics event codes.
const (
	AnalyticsXPGain           = "xp_gain"
	AnalyticsBadgeAwarded     = "badge_awarded"
	AnalyticsReferralReward   = "referral_reward"
	AnalyticsPaymentConfirmed = "payment_confirmed"
	AnalyticsSocialShare      = "social_share"
)

type AnalyticsEvent struct {
	Id         uuid.UUID
	UserId     *uuid.UUID
	EventType  string
	EventValue string
	CreatedAt  time.Time
}

type SocialShareEvent struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Platform  string
	Url       string
	Rewarded  bool
	CreatedAt time.Time
}
