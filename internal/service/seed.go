package service

import (
	"context"

	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/repository/unitofwork"
)

var defaultBadges = []entity.Badge{
	{Name: BadgeFirstLogin, Description: "Visited the dashboard for the first time", Icon: "login"},
	{Name: BadgeSocialSharer, Description: "Shared us on social media", Icon: "share"},
	{Name: BadgeFirstReferral, Description: "Referred your first trader", Icon: "referral"},
	{Name: BadgeFiveReferrals, Description: "Referred five traders", Icon: "referral"},
	{Name: BadgeReferralChampion, Description: "Referred ten or more traders", Icon: "trophy"},
	{Name: BadgeFirstPayment, Description: "Completed your first payment", Icon: "payment"},
	{Name: BadgeFivePayments, Description: "Completed five payments", Icon: "payment"},
}

// SeedRewardCatalog installs the badge catalog and a referral policy when none is active.
// Safe to run repeatedly.
func SeedRewardCatalog(ctx context.Context, uowFactory unitofwork.RepositoryFactory) error {
	uow := uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	for _, b := range defaultBadges {
		badge := b
		if _, err := uow.RewardRepository().FindOrCreateBadge(ctx, &badge); err != nil {
			return err
		}
	}

	cfg, err := uow.ReferralRepository().ActiveConfig(ctx)
	if err != nil {
		return err
	}
	if cfg == nil {
		err = uow.ReferralRepository().CreateConfig(ctx, &entity.ReferralConfig{
			RewardThreshold: 3,
			RewardType:      entity.RewardTypeFreeMonth,
			RewardValue:     "1",
			Active:          true,
		})
		if err != nil {
			return err
		}
	}
	return uow.Commit()
}
