package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Referral struct {
	Id             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ReferrerId     uuid.UUID  `gorm:"type:uuid;not null;index"`
	Referrer       *User      `gorm:"foreignKey:ReferrerId;constraint:OnDelete:CASCADE"`
	Code           string     `gorm:"type:varchar(32);uniqueIndex;not null"`
	ReferredUserId *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	RewardGranted  bool       `gorm:"default:false"`
	CreatedAt      time.Time  `gorm:"autoCreateTime"`
}

func (Referral) TableName() string {
	return "referrals"
}

func (m *Referral) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.Id)
	return nil
}

type ReferralConfig struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey"`
	RewardThreshold int       `gorm:"not null;default:3"`
	RewardType      string    `gorm:"type:varchar(20);not null;default:'free_month'"`
	RewardValue     string    `gorm:"type:varchar(50)"`
	Active          bool      `gorm:"default:true"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

func (ReferralConfig) TableName() string {
	return "referral_configs"
}

func (m *ReferralConfig) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.Id)
	return nil
}

// ReferralReward: Sequence is the n-th reward of one (type, value) policy for a user. The
// unique index makes a concurrent second grant of the same multiple fail.
type ReferralReward struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserId      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_referral_reward_seq,priority:1"`
	User        *User      `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE"`
	ReferralId  *uuid.UUID `gorm:"type:uuid"`
	Referral    *Referral  `gorm:"foreignKey:ReferralId;constraint:OnDelete:SET NULL"`
	RewardType  string     `gorm:"type:varchar(20);not null;uniqueIndex:idx_referral_reward_seq,priority:2"`
	RewardValue string     `gorm:"type:varchar(50);not null;default:'';uniqueIndex:idx_referral_reward_seq,priority:3"`
	Sequence    int        `gorm:"not null;uniqueIndex:idx_referral_reward_seq,priority:4"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
}

func (ReferralReward) TableName() string {
	return "referral_rewards"
}

func (m *ReferralReward) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.Id)
	return nil
}
