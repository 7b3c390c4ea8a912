package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/pkg/apperror"
	"ea-licensing-be/internal/pkg/logger"
	"ea-licensing-be/internal/repository/specification"
	"ea-licensing-be/internal/repository/unitofwork"
	"ea-licensing-be/pkg/events"

	"github.com/google/uuid"
)

const (
	maxXPAttempts = 5

	xpReferral     = 20
	xpPayment      = 15
	xpSocialShare  = 10
	xpDashboard    = 5
	freeMonthDays  = 30
	levelBadgeName = "Level "
)

// Badge names used by the reward rules.
const (
	BadgeFirstLogin       = "First Login"
	BadgeSocialSharer     = "Social Sharer"
	BadgeFirstReferral    = "First Referral"
	BadgeFiveReferrals    = "5 Referrals"
	BadgeReferralChampion = "Referral Champion"
	BadgeFirstPayment     = "First Payment"
	BadgeFivePayments     = "5 Payments"
)

// rewardEngine holds the progression rules. Every method works inside the caller's unit
// of work so rewards commit together with the change that earned them.
type rewardEngine struct {
	clock   Clock
	windows []XPWindow
	logger  logger.ILogger
}

func newRewardEngine(clock Clock, windows []XPWindow, log logger.ILogger) *rewardEngine {
	return &rewardEngine{clock: clock, windows: windows, logger: log}
}

func (e *rewardEngine) addXP(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, amount int, reason string) (*entity.UserLevel, error) {
	if amount < 0 {
		return nil, apperror.Validation("xp amount must not be negative")
	}
	now := e.clock()
	gained := amount * XPMultiplier(now, e.windows)
	repo := uow.RewardRepository()

	var saved *entity.UserLevel
	var reached []int
	for attempt := 0; attempt < maxXPAttempts && saved == nil; attempt++ {
		current, err := repo.FindOrCreateLevel(ctx, userId)
		if err != nil {
			return nil, err
		}
		expected := current.Version
		current.Streak = NextStreak(current.LastActivity, now, current.Streak)
		current.LastActivity = &now
		current.Level, current.Xp, reached = ApplyXP(current.Level, current.Xp, gained)

		ok, err := repo.SaveLevel(ctx, current, expected)
		if err != nil {
			return nil, err
		}
		if ok {
			saved = current
		}
	}
	if saved == nil {
		return nil, apperror.Conflict("level update conflicted too many times")
	}

	for _, lvl := range reached {
		if _, err := e.awardBadge(ctx, uow, userId, fmt.Sprintf("%s%d", levelBadgeName, lvl)); err != nil {
			return nil, err
		}
	}

	if err := e.track(ctx, uow, userId, entity.AnalyticsXPGain, fmt.Sprintf("%d:%s", gained, reason)); err != nil {
		return nil, err
	}
	return saved, nil
}

// awardBadge is a no-op for unknown badges and badges already held. Level badges are
// added to the catalog the first time someone reaches that level.
func (e *rewardEngine) awardBadge(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, name string) (bool, error) {
	repo := uow.RewardRepository()

	var badge *entity.Badge
	var err error
	if strings.HasPrefix(name, levelBadgeName) {
		badge, err = repo.FindOrCreateBadge(ctx, &entity.Badge{
			Name:        name,
			Description: "Reached " + strings.ToLower(name),
			Icon:        "level",
		})
	} else {
		badge, err = repo.FindBadge(ctx, name)
	}
	if err != nil {
		return false, err
	}
	if badge == nil {
		return false, nil
	}

	awarded, err := repo.AwardBadge(ctx, userId, badge.Id, e.clock())
	if err != nil || !awarded {
		return false, err
	}
	if err := e.track(ctx, uow, userId, entity.AnalyticsBadgeAwarded, name); err != nil {
		return false, err
	}
	return true, nil
}

func (e *rewardEngine) track(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, eventType, value string) error {
	return uow.RewardRepository().CreateAnalytics(ctx, &entity.AnalyticsEvent{
		UserId:     &userId,
		EventType:  eventType,
		EventValue: value,
		CreatedAt:  e.clock(),
	})
}

// grantReferralReward grants at most one reward per call: the next threshold multiple the
// referrer has reached and not yet been paid for. Callers hold the per-referrer lock.
func (e *rewardEngine) grantReferralReward(ctx context.Context, uow unitofwork.UnitOfWork, referrerId uuid.UUID) (*entity.ReferralReward, []Outbound, error) {
	refRepo := uow.ReferralRepository()

	cfg, err := refRepo.ActiveConfig(ctx)
	if err != nil || cfg == nil || cfg.RewardThreshold <= 0 {
		return nil, nil, err
	}

	count, err := refRepo.CountReferred(ctx, referrerId)
	if err != nil {
		return nil, nil, err
	}
	threshold := int64(cfg.RewardThreshold)
	if count < threshold {
		return nil, nil, nil
	}

	already, err := refRepo.CountRewards(ctx, referrerId, cfg.RewardType, cfg.RewardValue)
	if err != nil {
		return nil, nil, err
	}
	if already >= count/threshold {
		return nil, nil, nil
	}

	trigger, err := refRepo.FindOne(ctx,
		specification.ReferredBy{ReferrerID: referrerId},
		specification.Consumed{},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, nil, err
	}

	reward := &entity.ReferralReward{
		UserId:      referrerId,
		RewardType:  cfg.RewardType,
		RewardValue: cfg.RewardValue,
		Sequence:    int(already) + 1,
		CreatedAt:   e.clock(),
	}
	if trigger != nil {
		reward.ReferralId = &trigger.Id
	}
	created, err := refRepo.CreateReward(ctx, reward)
	if err != nil || !created {
		return nil, nil, err
	}

	referrer, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: referrerId})
	if err != nil {
		return nil, nil, err
	}

	msg := Outbound{
		UserId: referrerId,
		Type:   entity.NotificationSuccess,
		Title:  "Referral Reward",
		Event:  events.ReferralRewarded,
		Metadata: map[string]interface{}{
			"reward_type":  string(cfg.RewardType),
			"reward_value": cfg.RewardValue,
			"sequence":     reward.Sequence,
			"referred":     count,
		},
	}
	if referrer != nil {
		msg.Email = referrer.Email
	}

	switch cfg.RewardType {
	case entity.RewardTypeFreeMonth:
		months := cfg.Months()
		extended, err := e.extendLatestSubscription(ctx, uow, referrerId, months*freeMonthDays)
		if err != nil {
			return nil, nil, err
		}
		if extended {
			msg.Message = fmt.Sprintf("Congratulations! You earned %d free month(s) for your referrals.", months)
		} else {
			msg.Message = fmt.Sprintf("Congratulations! You earned %d free month(s). It will apply once you hold a time-limited subscription.", months)
		}
	case entity.RewardTypeDiscount:
		msg.Message = fmt.Sprintf("Congratulations! You earned a %s discount for your referrals.", cfg.RewardValue)
	default:
		msg.Message = "Congratulations! You earned a referral reward."
	}

	var badges []string
	if count == 1 {
		badges = append(badges, BadgeFirstReferral)
	}
	if count >= 5 {
		badges = append(badges, BadgeFiveReferrals)
	}
	if count >= 10 {
		badges = append(badges, BadgeReferralChampion)
	}
	for _, name := range badges {
		if _, err := e.awardBadge(ctx, uow, referrerId, name); err != nil {
			return nil, nil, err
		}
	}

	if _, err := e.addXP(ctx, uow, referrerId, xpReferral, "referral"); err != nil {
		return nil, nil, err
	}
	if err := e.track(ctx, uow, referrerId, entity.AnalyticsReferralReward, strconv.FormatInt(count, 10)); err != nil {
		return nil, nil, err
	}
	if err := refRepo.MarkRewarded(ctx, referrerId); err != nil {
		return nil, nil, err
	}

	return reward, []Outbound{msg}, nil
}

// extendLatestSubscription pushes the end date of the active subscription that ends last.
// Indefinite subscriptions have nothing to extend.
func (e *rewardEngine) extendLatestSubscription(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, days int) (bool, error) {
	repo := uow.SubscriptionRepository()
	sub, err := repo.FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ActiveOnly{},
		specification.EndDateSet{},
		specification.OrderBy{Field: "end_date", Desc: true},
	)
	if err != nil || sub == nil {
		return false, err
	}
	end := sub.EndDate.AddDate(0, 0, days)
	sub.EndDate = &end
	sub.UpdatedAt = e.clock()
	if err := repo.Update(ctx, sub); err != nil {
		return false, err
	}
	if _, err := uow.LicenseRepository().RenewActiveForUser(ctx, userId, sub.EndDate); err != nil {
		return false, err
	}
	return true, nil
}

func (e *rewardEngine) confirmPaymentRewards(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) error {
	count, err := uow.SubscriptionRepository().CountConfirmedPayments(ctx, userId)
	if err != nil {
		return err
	}
	switch {
	case count >= 5:
		_, err = e.awardBadge(ctx, uow, userId, BadgeFivePayments)
	case count == 1:
		_, err = e.awardBadge(ctx, uow, userId, BadgeFirstPayment)
	}
	if err != nil {
		return err
	}
	if _, err := e.addXP(ctx, uow, userId, xpPayment, "payment"); err != nil {
		return err
	}
	return e.track(ctx, uow, userId, entity.AnalyticsPaymentConfirmed, strconv.FormatInt(count, 10))
}
