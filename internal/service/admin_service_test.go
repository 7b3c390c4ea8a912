package service

import (
	"testing"

	"ea-licensing-be/internal/dto"
	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/pkg/apperror"
	"ea-licensing-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminCatalog(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAdminService(env.uow, nil, env.clock, env.log)
	ctx := env.ctx()
	admin := env.createUser(t, "admin")

	plan, err := svc.CreatePlan(ctx, admin.Id, dto.CreatePlanRequest{Name: "Premium", Tier: "premium", Price: 49, DurationDays: 30})
	require.NoError(t, err)
	assert.Equal(t, "premium", plan.Tier)

	_, err = svc.CreatePlan(ctx, admin.Id, dto.CreatePlanRequest{Name: "Premium", Tier: "premium"})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = svc.CreateExpertAdvisor(ctx, admin.Id, dto.CreateExpertAdvisorRequest{Name: "Broken", EligiblePlans: []uuid.UUID{uuid.New()}})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	ea, err := svc.CreateExpertAdvisor(ctx, admin.Id, dto.CreateExpertAdvisorRequest{
		Name:          "Gold Scalper",
		IsPremium:     true,
		EligiblePlans: []uuid.UUID{plan.Id, plan.Id},
	})
	require.NoError(t, err)
	require.Len(t, ea.EligiblePlans, 1)
	assert.Equal(t, plan.Id, ea.EligiblePlans[0].Id)

	file, err := svc.AddEAFile(ctx, admin.Id, ea.Id, dto.CreateEAFileRequest{Version: "2.1", FilePath: "/ea/gold.ex5"})
	require.NoError(t, err)
	assert.Equal(t, "Gold Scalper", file.ExpertAdvisor)

	_, err = svc.AddEAFile(ctx, admin.Id, uuid.New(), dto.CreateEAFileRequest{Version: "1", FilePath: "/x"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	resource, err := svc.CreateLearningResource(ctx, admin.Id, dto.CreateLearningResourceRequest{
		Title: "Intro", Url: "https://learn.example.com/intro", AccessLevel: "free",
	})
	require.NoError(t, err)
	assert.True(t, resource.Accessible)

	// Every successful catalog change is audited once.
	assert.EqualValues(t, 4, env.auditCount(t, entity.AuditAdminChange))
}

func TestAdminUserStatus(t *testing.T) {
	env := newTestEnv(t)
	emitter := &recordingEmitter{}
	svc := NewAdminService(env.uow, emitter, env.clock, env.log)
	ctx := env.ctx()

	admin := env.createUser(t, "admin")
	target := env.createUser(t, "target")

	require.NoError(t, svc.UpdateUserStatus(ctx, admin.Id, target.Id, "blocked"))
	assert.Equal(t, []string{events.UserStatusChanged}, emitter.types)

	err := svc.UpdateUserStatus(ctx, admin.Id, admin.Id, "blocked")
	assert.ErrorIs(t, err, apperror.ErrValidation)
	err = svc.UpdateUserStatus(ctx, admin.Id, target.Id, "suspended")
	assert.ErrorIs(t, err, apperror.ErrValidation)
	err = svc.UpdateUserStatus(ctx, admin.Id, uuid.New(), "active")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Len(t, emitter.types, 1)

	stats, err := svc.GetDashboardStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalUsers)
	assert.EqualValues(t, 1, stats.ActiveUsers)

	users, err := svc.GetAllUsers(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
