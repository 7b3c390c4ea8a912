package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"ea-licensing-be/internal/dto"
	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/pkg/apperror"
	"ea-licensing-be/internal/pkg/logger"
	"ea-licensing-be/internal/repository/specification"
	"ea-licensing-be/internal/repository/unitofwork"
	"ea-licensing-be/pkg/events"
	"ea-licensing-be/pkg/lock"

	"github.com/google/uuid"
)

const (
	shareMilestoneEvery = 5
	leaderboardSize     = 10
)

var sharePlatforms = map[string]bool{
	"twitter":  true,
	"facebook": true,
	"linkedin": true,
	"telegram": true,
	"whatsapp": true,
	"reddit":   true,
}

type IRewardService interface {
	AddXP(ctx context.Context, userId uuid.UUID, amount int, reason string) (*entity.UserLevel, error)
	AwardBadge(ctx context.Context, userId uuid.UUID, name string) (bool, error)
	CheckAndGrantReferralReward(ctx context.Context, referrerId uuid.UUID) (*entity.ReferralReward, error)
	RecordShare(ctx context.Context, userId uuid.UUID, platform, link string) (*dto.ShareResponse, error)
	RecordDashboardVisit(ctx context.Context, userId uuid.UUID) error
	GetProgress(ctx context.Context, userId uuid.UUID) (*dto.ProgressResponse, error)
	Leaderboard(ctx context.Context) ([]*dto.LeaderboardEntry, error)
}

type rewardService struct {
	uowFactory unitofwork.RepositoryFactory
	engine     *rewardEngine
	locker     lock.Locker
	notifier   INotifier
	clock      Clock
	logger     logger.ILogger
}

func NewRewardService(
	uowFactory unitofwork.RepositoryFactory,
	locker lock.Locker,
	notifier INotifier,
	windows []XPWindow,
	clock Clock,
	log logger.ILogger,
) IRewardService {
	return &rewardService{
		uowFactory: uowFactory,
		engine:     newRewardEngine(clock, windows, log),
		locker:     locker,
		notifier:   notifier,
		clock:      clock,
		logger:     log,
	}
}

func (s *rewardService) AddXP(ctx context.Context, userId uuid.UUID, amount int, reason string) (*entity.UserLevel, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	level, err := s.engine.addXP(ctx, uow, userId, amount, reason)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return level, nil
}

func (s *rewardService) AwardBadge(ctx context.Context, userId uuid.UUID, name string) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}
	defer uow.Rollback()

	awarded, err := s.engine.awardBadge(ctx, uow, userId, name)
	if err != nil {
		return false, err
	}
	if err := uow.Commit(); err != nil {
		return false, err
	}
	return awarded, nil
}

func (s *rewardService) CheckAndGrantReferralReward(ctx context.Context, referrerId uuid.UUID) (*entity.ReferralReward, error) {
	release, err := s.locker.Acquire(ctx, "referral-reward:"+referrerId.String())
	if err != nil {
		return nil, err
	}
	defer release()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	reward, msgs, err := s.engine.grantReferralReward(ctx, uow, referrerId)
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if reward != nil {
		s.logger.Info("REWARD", "Referral reward granted", map[string]interface{}{
			"user_id":  referrerId.String(),
			"type":     string(reward.RewardType),
			"sequence": reward.Sequence,
		})
	}
	box := outbox{msgs: msgs}
	box.flush(ctx, s.notifier)
	return reward, nil
}

// RecordShare logs every share; only the first share of a calendar day earns rewards.
func (s *rewardService) RecordShare(ctx context.Context, userId uuid.UUID, platform, link string) (*dto.ShareResponse, error) {
	platform = strings.ToLower(strings.TrimSpace(platform))
	if !sharePlatforms[platform] {
		return nil, apperror.Validation("unsupported share platform")
	}
	if u, err := url.ParseRequestURI(link); err != nil || u.Host == "" {
		return nil, apperror.Validation("invalid share url")
	}

	// The daily reward check and the insert must not interleave for one user.
	release, err := s.locker.Acquire(ctx, "share:"+userId.String())
	if err != nil {
		return nil, err
	}
	defer release()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	now := s.clock()
	repo := uow.RewardRepository()
	rewardedToday, err := repo.CountRewardedSharesSince(ctx, userId, startOfDay(now))
	if err != nil {
		return nil, err
	}

	share := &entity.SocialShareEvent{
		UserId:    userId,
		Platform:  platform,
		Url:       link,
		Rewarded:  rewardedToday == 0,
		CreatedAt: now,
	}
	if err := repo.CreateShare(ctx, share); err != nil {
		return nil, err
	}
	if err := s.engine.track(ctx, uow, userId, entity.AnalyticsSocialShare, platform); err != nil {
		return nil, err
	}

	if share.Rewarded {
		if _, err := s.engine.addXP(ctx, uow, userId, xpSocialShare, "social_share"); err != nil {
			return nil, err
		}
		if _, err := s.engine.awardBadge(ctx, uow, userId, BadgeSocialSharer); err != nil {
			return nil, err
		}
	}

	total, err := repo.CountShares(ctx, userId)
	if err != nil {
		return nil, err
	}

	var box outbox
	if total%shareMilestoneEvery == 0 {
		box.add(Outbound{
			UserId:   userId,
			Type:     entity.NotificationSuccess,
			Title:    "Sharing Milestone",
			Message:  fmt.Sprintf("Thanks for spreading the word! You have shared %d times.", total),
			Event:    events.ShareMilestone,
			Metadata: map[string]interface{}{"shares": total},
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	box.flush(ctx, s.notifier)

	return &dto.ShareResponse{Rewarded: share.Rewarded, TotalShares: total}, nil
}

func (s *rewardService) RecordDashboardVisit(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if _, err := s.engine.awardBadge(ctx, uow, userId, BadgeFirstLogin); err != nil {
		return err
	}
	if _, err := s.engine.addXP(ctx, uow, userId, xpDashboard, "dashboard_view"); err != nil {
		return err
	}
	return uow.Commit()
}

func (s *rewardService) GetProgress(ctx context.Context, userId uuid.UUID) (*dto.ProgressResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rewardRepo := uow.RewardRepository()
	refRepo := uow.ReferralRepository()

	level, err := rewardRepo.FindOrCreateLevel(ctx, userId)
	if err != nil {
		return nil, err
	}
	badges, err := rewardRepo.FindUserBadges(ctx, userId)
	if err != nil {
		return nil, err
	}
	code, err := refRepo.FindOne(ctx,
		specification.ReferredBy{ReferrerID: userId},
		specification.Unconsumed{},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	referred, err := refRepo.CountReferred(ctx, userId)
	if err != nil {
		return nil, err
	}
	rewards, err := refRepo.FindRewards(ctx, userId)
	if err != nil {
		return nil, err
	}

	res := &dto.ProgressResponse{
		UserId:        userId,
		Level:         level.Level,
		Xp:            level.Xp,
		NextLevelXp:   level.XPForNextLevel(),
		Streak:        level.Streak,
		Badges:        make([]dto.BadgeDTO, 0, len(badges)),
		ReferredCount: referred,
		Rewards:       make([]dto.ReferralRewardDTO, 0, len(rewards)),
	}
	if code != nil {
		res.ReferralCode = code.Code
	}
	for _, b := range badges {
		item := dto.BadgeDTO{AwardedAt: b.AwardedAt}
		if b.Badge != nil {
			item.Name = b.Badge.Name
			item.Description = b.Badge.Description
			item.Icon = b.Badge.Icon
		}
		res.Badges = append(res.Badges, item)
	}
	for _, r := range rewards {
		res.Rewards = append(res.Rewards, dto.ReferralRewardDTO{
			RewardType:  string(r.RewardType),
			RewardValue: r.RewardValue,
			Sequence:    r.Sequence,
			CreatedAt:   r.CreatedAt,
		})
	}
	return res, nil
}

// Leaderboard ranks referrers by how many of their codes have been used.
func (s *rewardService) Leaderboard(ctx context.Context) ([]*dto.LeaderboardEntry, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	standings, err := uow.ReferralRepository().TopReferrers(ctx, leaderboardSize)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.LeaderboardEntry, 0, len(standings))
	for i, st := range standings {
		res = append(res, &dto.LeaderboardEntry{
			Rank:     i + 1,
			Username: st.Username,
			Referred: st.Referred,
		})
	}
	return res, nil
}
