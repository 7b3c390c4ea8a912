package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/model"
	"ea-licensing-be/internal/pkg/logger"
	"ea-licensing-be/internal/repository/memory"
	"ea-licensing-be/internal/repository/specification"
	"ea-licensing-be/internal/repository/unitofwork"
	"ea-licensing-be/pkg/database"
	"ea-licensing-be/pkg/lock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// A Wednesday outside the default promo window, so XP is never doubled unless a test moves
// the clock.
var testNow = time.Date(2025, time.June, 11, 10, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []Outbound
}

func (n *recordingNotifier) Dispatch(_ context.Context, msgs ...Outbound) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msgs...)
}

func (n *recordingNotifier) titled(title string) []Outbound {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []Outbound
	for _, m := range n.msgs {
		if m.Title == title {
			out = append(out, m)
		}
	}
	return out
}

type testEnv struct {
	db       *gorm.DB
	uow      unitofwork.RepositoryFactory
	notifier *recordingNotifier
	log      logger.ILogger
	now      time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.NewSQLiteDB("file::memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	env := &testEnv{
		db:       db,
		uow:      unitofwork.NewRepositoryFactory(db),
		notifier: &recordingNotifier{},
		log:      logger.NewNopLogger(),
		now:      testNow,
	}
	require.NoError(t, SeedRewardCatalog(context.Background(), env.uow))
	return env
}

func (e *testEnv) clock() time.Time {
	return e.now
}

func (e *testEnv) advance(d time.Duration) {
	e.now = e.now.Add(d)
}

func (e *testEnv) ctx() context.Context {
	return context.Background()
}

func (e *testEnv) rewardService() IRewardService {
	return NewRewardService(e.uow, lock.NewLocalLocker(), e.notifier, nil, e.clock, e.log)
}

func (e *testEnv) subscriptionService() ISubscriptionService {
	return NewSubscriptionService(e.uow, e.notifier, defaultReminderWindowDays, e.clock, e.log)
}

func (e *testEnv) licenseService() ILicenseService {
	return NewLicenseService(e.uow, e.notifier, e.clock, e.log)
}

func (e *testEnv) paymentService() IPaymentService {
	return NewPaymentService(e.uow, e.notifier, nil, e.clock, e.log)
}

func (e *testEnv) authService() IAuthService {
	return NewAuthService(e.uow, e.rewardService(), e.notifier, memory.NewCredentialCache(time.Minute), "test-secret", time.Hour, e.clock, e.log)
}

func (e *testEnv) createUser(t *testing.T, username string) *entity.User {
	t.Helper()
	u := &entity.User{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "not-a-real-hash",
		Role:         entity.UserRoleUser,
		Status:       entity.UserStatusActive,
		CreatedAt:    e.now,
		UpdatedAt:    e.now,
	}
	require.NoError(t, e.uow.NewUnitOfWork(e.ctx()).UserRepository().Create(e.ctx(), u))
	return u
}

func (e *testEnv) createPlan(t *testing.T, name string, tier entity.Tier, price float64, days int) *entity.SubscriptionPlan {
	t.Helper()
	p := &entity.SubscriptionPlan{
		Name:         name,
		Tier:         tier,
		Price:        price,
		DurationDays: days,
		IsActive:     true,
		CreatedAt:    e.now,
		UpdatedAt:    e.now,
	}
	require.NoError(t, e.uow.NewUnitOfWork(e.ctx()).SubscriptionRepository().CreatePlan(e.ctx(), p))
	return p
}

func (e *testEnv) createEA(t *testing.T, name string, premium bool, plans ...*entity.SubscriptionPlan) *entity.ExpertAdvisor {
	t.Helper()
	ea := &entity.ExpertAdvisor{
		Name:          name,
		IsPremium:     premium,
		EligiblePlans: plans,
		CreatedAt:     e.now,
	}
	require.NoError(t, e.uow.NewUnitOfWork(e.ctx()).LicenseRepository().CreateExpertAdvisor(e.ctx(), ea))
	return ea
}

func (e *testEnv) subscribe(t *testing.T, userId, planId uuid.UUID) *entity.Subscription {
	t.Helper()
	sub, err := e.subscriptionService().ActivateSubscription(e.ctx(), userId, planId)
	require.NoError(t, err)
	return sub
}

func (e *testEnv) auditCount(t *testing.T, action entity.AuditAction) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&model.AuditLog{}).Where("action = ?", string(action)).Count(&n).Error)
	return n
}

func (e *testEnv) license(t *testing.T, id uuid.UUID) *entity.LicenseKey {
	t.Helper()
	l, err := e.uow.NewUnitOfWork(e.ctx()).LicenseRepository().FindOne(e.ctx(), specification.ByID{ID: id})
	require.NoError(t, err)
	require.NotNil(t, l)
	return l
}
