package service

import (
	"testing"

	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanAccess(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAccessService(env.uow, env.clock)
	ctx := env.ctx()

	premium := env.createPlan(t, "Premium", entity.TierPremium, 49, 30)
	subscriber := env.createUser(t, "subscriber")
	env.subscribe(t, subscriber.Id, premium.Id)
	nobody := env.createUser(t, "nobody")

	admin := &entity.Principal{UserId: uuid.New(), Role: entity.UserRoleAdmin}
	staff := &entity.Principal{UserId: uuid.New(), Role: entity.UserRoleUser, IsStaff: true}

	tests := []struct {
		name      string
		principal *entity.Principal
		required  entity.Tier
		want      bool
	}{
		{"anonymous free", nil, entity.TierFree, true},
		{"anonymous premium", nil, entity.TierPremium, false},
		{"no subscription free", nobody.Principal(), entity.TierFree, true},
		{"no subscription basic", nobody.Principal(), entity.TierBasic, false},
		{"premium covers basic", subscriber.Principal(), entity.TierBasic, true},
		{"premium covers premium", subscriber.Principal(), entity.TierPremium, true},
		{"premium below pro", subscriber.Principal(), entity.TierPro, false},
		{"admin bypass", admin, entity.TierPro, true},
		{"staff bypass", staff, entity.TierPro, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.CanAccess(ctx, tt.principal, tt.required)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := svc.CanAccess(ctx, nil, entity.Tier("platinum"))
	assert.ErrorIs(t, err, apperror.ErrValidation)

	tier, err := svc.ResolveTier(ctx, subscriber.Id)
	require.NoError(t, err)
	assert.Equal(t, entity.TierPremium, tier)

	tier, err = svc.ResolveTier(ctx, nobody.Id)
	require.NoError(t, err)
	assert.Equal(t, entity.TierFree, tier)
}

func TestCanAccess_CanceledSubscriptionFallsBackToFree(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAccessService(env.uow, env.clock)
	plan := env.createPlan(t, "Pro", entity.TierPro, 99, 30)
	user := env.createUser(t, "quitter")
	sub := env.subscribe(t, user.Id, plan.Id)

	_, err := env.subscriptionService().Cancel(env.ctx(), user.Id, sub.Id)
	require.NoError(t, err)

	ok, err := svc.CanAccess(env.ctx(), user.Principal(), entity.TierBasic)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthorizeDownload(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAccessService(env.uow, env.clock)
	ctx := env.ctx()

	paid := env.createPlan(t, "Basic", entity.TierBasic, 9, 30)
	free := env.createPlan(t, "Starter", entity.TierFree, 0, 0)
	premiumEA := env.createEA(t, "Gold Scalper", true)
	openEA := env.createEA(t, "Trend Rider", false, free)

	newFile := func(ea *entity.ExpertAdvisor) *entity.EAFile {
		f := &entity.EAFile{ExpertAdvisorId: ea.Id, Version: "1.0.0", FilePath: "/files/" + ea.Name + ".ex5", CreatedAt: env.now}
		require.NoError(t, env.uow.NewUnitOfWork(ctx).LicenseRepository().CreateFile(ctx, f))
		return f
	}
	premiumFile := newFile(premiumEA)
	openFile := newFile(openEA)

	payer := env.createUser(t, "payer")
	env.subscribe(t, payer.Id, paid.Id)
	freeloader := env.createUser(t, "freeloader")
	env.subscribe(t, freeloader.Id, free.Id)

	file, err := svc.AuthorizeDownload(ctx, payer.Principal(), premiumFile.Id, "10.0.0.2")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", file.Version)

	_, err = svc.AuthorizeDownload(ctx, freeloader.Principal(), premiumFile.Id, "")
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	// Non-premium files only need a signed-in user, whatever the plan list says.
	_, err = svc.AuthorizeDownload(ctx, freeloader.Principal(), openFile.Id, "")
	require.NoError(t, err)

	_, err = svc.AuthorizeDownload(ctx, payer.Principal(), openFile.Id, "")
	require.NoError(t, err)

	walkIn := env.createUser(t, "walkin")
	_, err = svc.AuthorizeDownload(ctx, walkIn.Principal(), openFile.Id, "")
	require.NoError(t, err)

	_, err = svc.AuthorizeDownload(ctx, walkIn.Principal(), premiumFile.Id, "")
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = svc.AuthorizeDownload(ctx, nil, openFile.Id, "")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = svc.AuthorizeDownload(ctx, nil, premiumFile.Id, "")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = svc.AuthorizeDownload(ctx, payer.Principal(), uuid.New(), "")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	assert.EqualValues(t, 4, env.auditCount(t, entity.AuditEADownload))
}
