package unitofwork

import (
	"context"

	"ea-licensing-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	SubscriptionRepository() contract.SubscriptionRepository
	LicenseRepository() contract.LicenseRepository
	ReferralRepository() contract.ReferralRepository
	RewardRepository() contract.RewardRepository
	AuditRepository() contract.AuditRepository
	NotificationRepository() contract.NotificationRepository
	LearningRepository() contract.LearningRepository
}
