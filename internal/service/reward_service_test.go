package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/model"
	"ea-licensing-be/internal/pkg/apperror"
	"ea-licensing-be/internal/repository/contract"
	"ea-licensing-be/internal/repository/specification"
	"ea-licensing-be/internal/repository/unitofwork"
	"ea-licensing-be/pkg/lock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func badgeNames(t *testing.T, env *testEnv, userId uuid.UUID) []string {
	t.Helper()
	badges, err := env.uow.NewUnitOfWork(env.ctx()).RewardRepository().FindUserBadges(env.ctx(), userId)
	require.NoError(t, err)
	names := make([]string, 0, len(badges))
	for _, b := range badges {
		require.NotNil(t, b.Badge)
		names = append(names, b.Badge.Name)
	}
	return names
}

// addReferral records a consumed referral for referrer, as registration would.
func addReferral(t *testing.T, env *testEnv, referrer uuid.UUID, n int) *entity.User {
	t.Helper()
	referred := env.createUser(t, fmt.Sprintf("referred%d", n))
	err := env.uow.NewUnitOfWork(env.ctx()).ReferralRepository().Create(env.ctx(), &entity.Referral{
		ReferrerId:     referrer,
		Code:           fmt.Sprintf("CODE%04d", n),
		ReferredUserId: &referred.Id,
		CreatedAt:      env.now.Add(time.Duration(n) * time.Second),
	})
	require.NoError(t, err)
	return referred
}

func TestAddXP_LevelUpAwardsBadgeOnce(t *testing.T) {
	env := newTestEnv(t)
	svc := env.rewardService()
	user := env.createUser(t, "leveler")

	_, err := svc.AddXP(env.ctx(), user.Id, 20, "test")
	require.NoError(t, err)
	level, err := svc.AddXP(env.ctx(), user.Id, 90, "test")
	require.NoError(t, err)

	assert.Equal(t, 2, level.Level)
	assert.Equal(t, 10, level.Xp)
	assert.Equal(t, 1, level.Streak)

	_, err = svc.AddXP(env.ctx(), user.Id, 5, "test")
	require.NoError(t, err)
	assert.Equal(t, []string{"Level 2"}, badgeNames(t, env, user.Id))
}

func TestAddXP_WeekendDoubles(t *testing.T) {
	env := newTestEnv(t)
	env.now = time.Date(2025, time.June, 14, 12, 0, 0, 0, time.UTC)
	svc := env.rewardService()
	user := env.createUser(t, "weekender")

	level, err := svc.AddXP(env.ctx(), user.Id, 30, "test")
	require.NoError(t, err)
	assert.Equal(t, 60, level.Xp)

	var events []model.AnalyticsEvent
	require.NoError(t, env.db.Where("user_id = ? AND event_type = ?", user.Id, entity.AnalyticsXPGain).Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, "60:test", events[0].EventValue)
}

func TestAddXP_PromoWindowDoubles(t *testing.T) {
	env := newTestEnv(t)
	svc := NewRewardService(env.uow, lock.NewLocalLocker(), env.notifier, []XPWindow{{Start: testNow, End: testNow}}, env.clock, env.log)
	user := env.createUser(t, "promo")

	level, err := svc.AddXP(env.ctx(), user.Id, 10, "test")
	require.NoError(t, err)
	assert.Equal(t, 20, level.Xp)
}

func TestAddXP_StreakAcrossDays(t *testing.T) {
	env := newTestEnv(t)
	svc := env.rewardService()
	user := env.createUser(t, "streaker")

	_, err := svc.AddXP(env.ctx(), user.Id, 1, "test")
	require.NoError(t, err)
	env.advance(24 * time.Hour)
	level, err := svc.AddXP(env.ctx(), user.Id, 1, "test")
	require.NoError(t, err)
	assert.Equal(t, 2, level.Streak)

	env.advance(72 * time.Hour)
	level, err = svc.AddXP(env.ctx(), user.Id, 1, "test")
	require.NoError(t, err)
	assert.Equal(t, 1, level.Streak)
}

func TestAddXP_RejectsNegative(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.rewardService().AddXP(env.ctx(), uuid.New(), -1, "test")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestAwardBadge(t *testing.T) {
	env := newTestEnv(t)
	svc := env.rewardService()
	user := env.createUser(t, "collector")

	awarded, err := svc.AwardBadge(env.ctx(), user.Id, BadgeFirstLogin)
	require.NoError(t, err)
	assert.True(t, awarded)

	awarded, err = svc.AwardBadge(env.ctx(), user.Id, BadgeFirstLogin)
	require.NoError(t, err)
	assert.False(t, awarded)

	awarded, err = svc.AwardBadge(env.ctx(), user.Id, "Does Not Exist")
	require.NoError(t, err)
	assert.False(t, awarded)

	assert.Equal(t, []string{BadgeFirstLogin}, badgeNames(t, env, user.Id))
}

func TestReferralReward_GrantedPerThresholdMultiple(t *testing.T) {
	env := newTestEnv(t)
	svc := env.rewardService()
	referrer := env.createUser(t, "referrer")
	plan := env.createPlan(t, "Basic Monthly", entity.TierBasic, 9, 30)
	sub := env.subscribe(t, referrer.Id, plan.Id)
	originalEnd := *sub.EndDate

	expect := map[int]int{3: 1, 6: 2}
	for n := 1; n <= 6; n++ {
		addReferral(t, env, referrer.Id, n)
		reward, err := svc.CheckAndGrantReferralReward(env.ctx(), referrer.Id)
		require.NoError(t, err)

		seq, ok := expect[n]
		if !ok {
			assert.Nil(t, reward, "no reward expected at %d referrals", n)
			continue
		}
		require.NotNil(t, reward, "reward expected at %d referrals", n)
		assert.Equal(t, seq, reward.Sequence)
		assert.Equal(t, entity.RewardTypeFreeMonth, reward.RewardType)
	}

	// A repeated check with nothing new grants nothing.
	reward, err := svc.CheckAndGrantReferralReward(env.ctx(), referrer.Id)
	require.NoError(t, err)
	assert.Nil(t, reward)

	assert.Len(t, env.notifier.titled("Referral Reward"), 2)

	stored, err := env.uow.NewUnitOfWork(env.ctx()).SubscriptionRepository().FindOne(env.ctx(), specification.ByID{ID: sub.Id})
	require.NoError(t, err)
	require.NotNil(t, stored.EndDate)
	assert.True(t, stored.EndDate.Equal(originalEnd.AddDate(0, 0, 2*freeMonthDays)))

	progress, err := svc.GetProgress(env.ctx(), referrer.Id)
	require.NoError(t, err)
	assert.EqualValues(t, 6, progress.ReferredCount)
	assert.Len(t, progress.Rewards, 2)
	assert.Contains(t, badgeNames(t, env, referrer.Id), BadgeFiveReferrals)
}

func TestReferralReward_HighThresholdLinksReferralAndBadges(t *testing.T) {
	env := newTestEnv(t)
	svc := env.rewardService()
	ctx := env.ctx()
	require.NoError(t, env.uow.NewUnitOfWork(ctx).ReferralRepository().CreateConfig(ctx, &entity.ReferralConfig{
		RewardThreshold: 10,
		RewardType:      entity.RewardTypeDiscount,
		RewardValue:     "20%",
		Active:          true,
	}))
	referrer := env.createUser(t, "champion")

	var last *entity.User
	for n := 1; n <= 10; n++ {
		last = addReferral(t, env, referrer.Id, n)
	}
	reward, err := svc.CheckAndGrantReferralReward(ctx, referrer.Id)
	require.NoError(t, err)
	require.NotNil(t, reward)
	assert.Equal(t, entity.RewardTypeDiscount, reward.RewardType)

	require.NotNil(t, reward.ReferralId)
	trigger, err := env.uow.NewUnitOfWork(ctx).ReferralRepository().FindOne(ctx, specification.ByID{ID: *reward.ReferralId})
	require.NoError(t, err)
	require.NotNil(t, trigger)
	require.NotNil(t, trigger.ReferredUserId)
	assert.Equal(t, last.Id, *trigger.ReferredUserId)

	badges := badgeNames(t, env, referrer.Id)
	assert.Contains(t, badges, BadgeFiveReferrals)
	assert.Contains(t, badges, BadgeReferralChampion)
	assert.NotContains(t, badges, BadgeFirstReferral)
}

func TestReferralReward_BelowThreshold(t *testing.T) {
	env := newTestEnv(t)
	svc := env.rewardService()
	referrer := env.createUser(t, "referrer")

	addReferral(t, env, referrer.Id, 1)
	addReferral(t, env, referrer.Id, 2)

	reward, err := svc.CheckAndGrantReferralReward(env.ctx(), referrer.Id)
	require.NoError(t, err)
	assert.Nil(t, reward)
	assert.Empty(t, env.notifier.titled("Referral Reward"))
}

func TestRecordShare(t *testing.T) {
	env := newTestEnv(t)
	svc := env.rewardService()
	user := env.createUser(t, "sharer")
	ctx := env.ctx()

	_, err := svc.RecordShare(ctx, user.Id, "myspace", "https://example.com/ea")
	assert.ErrorIs(t, err, apperror.ErrValidation)
	_, err = svc.RecordShare(ctx, user.Id, "twitter", "not a url")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	res, err := svc.RecordShare(ctx, user.Id, " Twitter ", "https://example.com/ea")
	require.NoError(t, err)
	assert.True(t, res.Rewarded)
	assert.EqualValues(t, 1, res.TotalShares)

	res, err = svc.RecordShare(ctx, user.Id, "facebook", "https://example.com/ea")
	require.NoError(t, err)
	assert.False(t, res.Rewarded)

	env.advance(24 * time.Hour)
	res, err = svc.RecordShare(ctx, user.Id, "linkedin", "https://example.com/ea")
	require.NoError(t, err)
	assert.True(t, res.Rewarded)

	progress, err := svc.GetProgress(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, 2*xpSocialShare, progress.Xp)
	assert.Equal(t, []string{BadgeSocialSharer}, badgeNames(t, env, user.Id))

	for i := 0; i < 2; i++ {
		_, err = svc.RecordShare(ctx, user.Id, "telegram", "https://example.com/ea")
		require.NoError(t, err)
	}
	assert.Len(t, env.notifier.titled("Sharing Milestone"), 1)
}

func TestRecordDashboardVisit(t *testing.T) {
	env := newTestEnv(t)
	svc := env.rewardService()
	user := env.createUser(t, "visitor")

	require.NoError(t, svc.RecordDashboardVisit(env.ctx(), user.Id))
	require.NoError(t, svc.RecordDashboardVisit(env.ctx(), user.Id))

	progress, err := svc.GetProgress(env.ctx(), user.Id)
	require.NoError(t, err)
	assert.Equal(t, 2*xpDashboard, progress.Xp)
	assert.Equal(t, 1, progress.Level)
	assert.Equal(t, 100, progress.NextLevelXp)
	assert.Equal(t, []string{BadgeFirstLogin}, badgeNames(t, env, user.Id))
}

type recordingLocker struct {
	inner lock.Locker
	keys  []string
}

func (l *recordingLocker) Acquire(ctx context.Context, key string) (func(), error) {
	release, err := l.inner.Acquire(ctx, key)
	if err == nil {
		l.keys = append(l.keys, key)
	}
	return release, err
}

func TestRecordShare_SerializedPerUser(t *testing.T) {
	env := newTestEnv(t)
	local := lock.NewLocalLocker()
	locker := &recordingLocker{inner: local}
	svc := NewRewardService(env.uow, locker, env.notifier, nil, env.clock, env.log)
	user := env.createUser(t, "eager")

	_, err := svc.RecordShare(env.ctx(), user.Id, "twitter", "https://example.com/ea")
	require.NoError(t, err)
	assert.Equal(t, []string{"share:" + user.Id.String()}, locker.keys)

	// While another request holds the user's share lock, a second one waits and gives up
	// with its context instead of racing the daily check.
	release, err := local.Acquire(env.ctx(), "share:"+user.Id.String())
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(env.ctx(), 20*time.Millisecond)
	defer cancel()
	_, err = svc.RecordShare(ctx, user.Id, "reddit", "https://example.com/ea")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	release()

	shares, err := env.uow.NewUnitOfWork(env.ctx()).RewardRepository().CountShares(env.ctx(), user.Id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, shares)
}

// contendedFactory simulates another writer that bumps a user's level row right before
// each of the next `bumps` saves.
type contendedFactory struct {
	unitofwork.RepositoryFactory
	bumps int
	rival int
}

func (f *contendedFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &contendedUnitOfWork{UnitOfWork: f.RepositoryFactory.NewUnitOfWork(ctx), factory: f}
}

type contendedUnitOfWork struct {
	unitofwork.UnitOfWork
	factory *contendedFactory
}

func (u *contendedUnitOfWork) RewardRepository() contract.RewardRepository {
	return &contendedRewardRepository{RewardRepository: u.UnitOfWork.RewardRepository(), factory: u.factory}
}

type contendedRewardRepository struct {
	contract.RewardRepository
	factory *contendedFactory
}

func (r *contendedRewardRepository) SaveLevel(ctx context.Context, level *entity.UserLevel, expectedVersion int) (bool, error) {
	if r.factory.bumps > 0 {
		r.factory.bumps--
		other, err := r.RewardRepository.FindOrCreateLevel(ctx, level.UserId)
		if err != nil {
			return false, err
		}
		other.Xp += r.factory.rival
		if _, err := r.RewardRepository.SaveLevel(ctx, other, other.Version); err != nil {
			return false, err
		}
	}
	return r.RewardRepository.SaveLevel(ctx, level, expectedVersion)
}

func TestAddXP_RetriesOnStaleVersion(t *testing.T) {
	env := newTestEnv(t)
	factory := &contendedFactory{RepositoryFactory: env.uow, bumps: 2, rival: 7}
	svc := NewRewardService(factory, lock.NewLocalLocker(), env.notifier, nil, env.clock, env.log)
	user := env.createUser(t, "contended")

	level, err := svc.AddXP(env.ctx(), user.Id, 10, "test")
	require.NoError(t, err)
	assert.Equal(t, 0, factory.bumps)
	// Both rival increments and ours survive.
	assert.Equal(t, 2*7+10, level.Xp)
	assert.Equal(t, 3, level.Version)

	progress, err := env.rewardService().GetProgress(env.ctx(), user.Id)
	require.NoError(t, err)
	assert.Equal(t, 24, progress.Xp)
}

func TestAddXP_GivesUpAfterRepeatedConflicts(t *testing.T) {
	env := newTestEnv(t)
	factory := &contendedFactory{RepositoryFactory: env.uow, bumps: maxXPAttempts, rival: 1}
	svc := NewRewardService(factory, lock.NewLocalLocker(), env.notifier, nil, env.clock, env.log)
	user := env.createUser(t, "starved")

	_, err := svc.AddXP(env.ctx(), user.Id, 10, "test")
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, 0, factory.bumps)

	progress, err := env.rewardService().GetProgress(env.ctx(), user.Id)
	require.NoError(t, err)
	assert.Equal(t, 0, progress.Xp)
}

func TestLeaderboard(t *testing.T) {
	env := newTestEnv(t)
	svc := env.rewardService()

	top := env.createUser(t, "topdog")
	runnerUp := env.createUser(t, "runnerup")
	idle := env.createUser(t, "idle")
	for n := 1; n <= 3; n++ {
		addReferral(t, env, top.Id, n)
	}
	addReferral(t, env, runnerUp.Id, 10)
	require.NoError(t, env.uow.NewUnitOfWork(env.ctx()).ReferralRepository().Create(env.ctx(), &entity.Referral{
		ReferrerId: idle.Id,
		Code:       "UNUSED01",
		CreatedAt:  env.now,
	}))

	board, err := svc.Leaderboard(env.ctx())
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, "topdog", board[0].Username)
	assert.EqualValues(t, 3, board[0].Referred)
	assert.Equal(t, "runnerup", board[1].Username)
	assert.EqualValues(t, 1, board[1].Referred)
}
