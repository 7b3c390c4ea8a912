package entity

import (
	"time"

	"github.com/google/uuid"
)

type LicenseStatus string

const (
	LicenseStatusActive  LicenseStatus = "active"
	LicenseStatusRevoked LicenseStatus = "revoked"
)

type LicenseKey struct {
	Id              uuid.UUID
	Key             string
	UserId          uuid.UUID
	ExpertAdvisorId uuid.UUID
	PlanId          uuid.UUID
	Status          LicenseStatus
	CreatedAt       time.Time
	ActivatedAt     *time.Time
	DeactivatedAt   *time.Time
	ExpiresAt       *time.Time
	LastUsedAt      *time.Time
	LastUsedIp      string

	User          *User
	ExpertAdvisor *ExpertAdvisor
	Plan          *SubscriptionPlan
}

// IsExpired is informational only; status flips happen in the expiry sweep.
func (l *LicenseKey) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && !l.ExpiresAt.After(now)
}

func (l *LicenseKey) IsActive() bool {
	return l.Status == LicenseStatusActive
}

type LicenseUsage struct {
	Id        uuid.UUID
	LicenseId uuid.UUID
	Ip        string
	Payload   map[string]interface{}
	CreatedAt time.Time
}

type ExpertAdvisor struct {
	Id            uuid.UUID
	Name          string
	Description   string
	IsPremium     bool
	EligiblePlans []*SubscriptionPlan
	CreatedAt     time.Time
}

func (ea *ExpertAdvisor) IsEligiblePlan(planId uuid.UUID) bool {
	for _, p := range ea.EligiblePlans {
		if p.Id == planId {
			return true
		}
	}
	return false
}

type EAFile struct {
	Id              uuid.UUID
	ExpertAdvisorId uuid.UUID
	ExpertAdvisor   *ExpertAdvisor
	Version         string
	FilePath        string
	Checksum        string
	CreatedAt       time.Time
}
