package service

import (
	"testing"

	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLearningResources(t *testing.T) {
	env := newTestEnv(t)
	svc := NewLearningService(env.uow, env.clock)
	ctx := env.ctx()

	resource := &entity.LearningResource{
		Title:       "Risk management",
		Url:         "https://learn.example.com/risk",
		AccessLevel: entity.TierPremium,
		CreatedAt:   env.now,
	}
	require.NoError(t, env.uow.NewUnitOfWork(ctx).LearningRepository().CreateResource(ctx, resource))

	premium := env.createPlan(t, "Premium", entity.TierPremium, 49, 30)
	basic := env.createPlan(t, "Basic", entity.TierBasic, 9, 30)
	student := env.createUser(t, "student")
	env.subscribe(t, student.Id, premium.Id)
	casual := env.createUser(t, "casual")
	env.subscribe(t, casual.Id, basic.Id)

	list, err := svc.ListResources(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].Accessible)
	assert.Empty(t, list[0].Url)

	_, err = svc.GetResource(ctx, casual.Principal(), resource.Id)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	got, err := svc.GetResource(ctx, student.Principal(), resource.Id)
	require.NoError(t, err)
	assert.Equal(t, resource.Url, got.Url)

	_, err = svc.UpdateProgress(ctx, student.Principal(), resource.Id, 101)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	_, err = svc.UpdateProgress(ctx, nil, resource.Id, 50)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	_, err = svc.UpdateProgress(ctx, casual.Principal(), resource.Id, 50)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	res, err := svc.UpdateProgress(ctx, student.Principal(), resource.Id, 40)
	require.NoError(t, err)
	assert.False(t, res.Completed)

	res, err = svc.UpdateProgress(ctx, student.Principal(), resource.Id, 100)
	require.NoError(t, err)
	assert.True(t, res.Completed)

	list, err = svc.ListResources(ctx, student.Principal())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Accessible)
	assert.Equal(t, 100, list[0].Percent)
	assert.True(t, list[0].Completed)
}
