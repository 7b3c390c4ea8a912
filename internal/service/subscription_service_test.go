package service

import (
	"testing"
	"time"

	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/pkg/apperror"
	"ea-licensing-be/internal/repository/specification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCancelAndRenew(t *testing.T) {
	env := newTestEnv(t)
	svc := env.subscriptionService()
	ctx := env.ctx()

	plan := env.createPlan(t, "Basic", entity.TierBasic, 9, 90)
	user := env.createUser(t, "subscriber")
	sub := env.subscribe(t, user.Id, plan.Id)

	stranger := env.createUser(t, "stranger")
	_, err := svc.Cancel(ctx, stranger.Id, sub.Id)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	canceled, err := svc.Cancel(ctx, user.Id, sub.Id)
	require.NoError(t, err)
	assert.False(t, canceled.IsActive)
	require.NotNil(t, canceled.EndDate)
	assert.True(t, canceled.EndDate.Equal(testNow))
	assert.Len(t, env.notifier.titled("Subscription Canceled"), 1)

	env.advance(48 * time.Hour)
	renewed, err := svc.Renew(ctx, user.Id, sub.Id)
	require.NoError(t, err)
	assert.True(t, renewed.IsActive)
	require.NotNil(t, renewed.DaysLeft)
	assert.Equal(t, renewalDays, *renewed.DaysLeft)
	assert.True(t, renewed.EndDate.Equal(env.now.AddDate(0, 0, renewalDays)))

	// Renewing an active subscription changes nothing.
	_, err = svc.Renew(ctx, user.Id, sub.Id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, env.auditCount(t, entity.AuditSubscriptionRenew))
	assert.Len(t, env.notifier.titled("Subscription Renewed"), 1)

	list, err := svc.ListForUser(ctx, user.Id)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "basic", list[0].Tier)
}

func TestCancel_AlreadyCanceledKeepsHistory(t *testing.T) {
	env := newTestEnv(t)
	svc := env.subscriptionService()
	ctx := env.ctx()

	plan := env.createPlan(t, "Basic", entity.TierBasic, 9, 30)
	user := env.createUser(t, "quitter")
	sub := env.subscribe(t, user.Id, plan.Id)

	_, err := svc.Cancel(ctx, user.Id, sub.Id)
	require.NoError(t, err)

	env.advance(48 * time.Hour)
	_, err = svc.Cancel(ctx, user.Id, sub.Id)
	assert.ErrorIs(t, err, apperror.ErrInvalidState)

	stored, err := env.uow.NewUnitOfWork(ctx).SubscriptionRepository().FindOne(ctx, specification.ByID{ID: sub.Id})
	require.NoError(t, err)
	require.NotNil(t, stored.EndDate)
	assert.True(t, stored.EndDate.Equal(testNow))
	assert.EqualValues(t, 1, env.auditCount(t, entity.AuditSubscriptionCancel))
	assert.Len(t, env.notifier.titled("Subscription Canceled"), 1)
}

func TestActivateSubscription_ReusesRow(t *testing.T) {
	env := newTestEnv(t)
	plan := env.createPlan(t, "Pro", entity.TierPro, 99, 30)
	user := env.createUser(t, "loyal")

	first := env.subscribe(t, user.Id, plan.Id)
	env.advance(10 * 24 * time.Hour)
	second := env.subscribe(t, user.Id, plan.Id)

	assert.Equal(t, first.Id, second.Id)
	// Still inside the period, so the end date is kept.
	assert.True(t, second.EndDate.Equal(*first.EndDate))

	_, err := env.subscriptionService().ActivateSubscription(env.ctx(), user.Id, user.Id)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestRenewalReminderSweep(t *testing.T) {
	env := newTestEnv(t)
	svc := env.subscriptionService()

	short := env.createPlan(t, "Weekly", entity.TierBasic, 3, 5)
	long := env.createPlan(t, "Quarterly", entity.TierBasic, 25, 90)
	forever := env.createPlan(t, "Lifetime", entity.TierPro, 999, 0)

	env.subscribe(t, env.createUser(t, "soon").Id, short.Id)
	env.subscribe(t, env.createUser(t, "later").Id, long.Id)
	env.subscribe(t, env.createUser(t, "never").Id, forever.Id)

	n, err := svc.RenewalReminderSweep(env.ctx(), env.now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	reminders := env.notifier.titled("Subscription Expiring Soon")
	require.Len(t, reminders, 1)
	assert.Equal(t, "soon@example.com", reminders[0].Email)
}

func TestExpireSubscriptionsSweep(t *testing.T) {
	env := newTestEnv(t)
	svc := env.subscriptionService()

	plan := env.createPlan(t, "Monthly", entity.TierBasic, 9, 30)
	user := env.createUser(t, "lapsing")
	env.subscribe(t, user.Id, plan.Id)

	n, err := svc.ExpireSubscriptionsSweep(env.ctx(), env.now)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	later := env.now.AddDate(0, 0, 31)
	n, err = svc.ExpireSubscriptionsSweep(env.ctx(), later)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = svc.ExpireSubscriptionsSweep(env.ctx(), later)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	active, err := svc.ResolveActive(env.ctx(), user.Id)
	require.NoError(t, err)
	assert.Nil(t, active)
	assert.Len(t, env.notifier.titled("Subscription Expired"), 1)
}
