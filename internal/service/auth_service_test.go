package service

import (
	"testing"

	"ea-licensing-be/internal/dto"
	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/model"
	"ea-licensing-be/internal/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func register(t *testing.T, svc IAuthService, env *testEnv, username, code string) (*dto.RegisterResponse, error) {
	t.Helper()
	return svc.Register(env.ctx(), &dto.RegisterRequest{
		Email:        username + "@example.com",
		Username:     username,
		Password:     "correct-horse",
		ReferralCode: code,
	})
}

func TestRegister_ReferralCodeIsSingleUse(t *testing.T) {
	env := newTestEnv(t)
	svc := env.authService()

	alice, err := register(t, svc, env, "alice", "")
	require.NoError(t, err)
	require.NotEmpty(t, alice.ReferralCode)

	_, err = register(t, svc, env, "bob", alice.ReferralCode)
	require.NoError(t, err)

	_, err = register(t, svc, env, "carol", alice.ReferralCode)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = register(t, svc, env, "dave", "NOSUCHCODE")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	progress, err := env.rewardService().GetProgress(env.ctx(), alice.Id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, progress.ReferredCount)
	assert.NotEmpty(t, progress.ReferralCode)
	assert.NotEqual(t, alice.ReferralCode, progress.ReferralCode)

	// The rejected registrations rolled back completely.
	var users int64
	require.NoError(t, env.db.Model(&model.User{}).Count(&users).Error)
	assert.EqualValues(t, 2, users)
	assert.Len(t, env.notifier.titled("Welcome"), 2)
}

func TestRegister_DuplicateIdentity(t *testing.T) {
	env := newTestEnv(t)
	svc := env.authService()

	_, err := register(t, svc, env, "alice", "")
	require.NoError(t, err)

	_, err = svc.Register(env.ctx(), &dto.RegisterRequest{Email: "ALICE@example.com", Username: "alice2", Password: "correct-horse"})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = svc.Register(env.ctx(), &dto.RegisterRequest{Email: "other@example.com", Username: "alice", Password: "correct-horse"})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	svc := env.authService()

	reg, err := register(t, svc, env, "alice", "")
	require.NoError(t, err)

	res, err := svc.Login(env.ctx(), &dto.LoginRequest{Login: "alice@example.com", Password: "correct-horse"}, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, reg.Id, res.User.Id)
	assert.True(t, res.ExpiresAt.After(env.now))

	parsed, err := jwt.Parse(res.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithoutClaimsValidation())
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, reg.Id.String(), claims["user_id"])
	assert.Equal(t, "user", claims["role"])
	assert.EqualValues(t, 1, env.auditCount(t, entity.AuditUserLogin))

	_, err = svc.Login(env.ctx(), &dto.LoginRequest{Login: "alice", Password: "wrong-password"}, "")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestResolveCredentials(t *testing.T) {
	env := newTestEnv(t)
	svc := env.authService()
	ctx := env.ctx()

	reg, err := register(t, svc, env, "alice", "")
	require.NoError(t, err)

	key, err := svc.CreateApiKey(ctx, reg.Id, "mt5 terminal")
	require.NoError(t, err)
	assert.Contains(t, key.Key, key.Prefix)

	principal, err := svc.ResolveCredentials(ctx, key.Key, "", "")
	require.NoError(t, err)
	assert.Equal(t, reg.Id, principal.UserId)

	principal, err = svc.ResolveCredentials(ctx, "", "alice", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, reg.Id, principal.UserId)

	_, err = svc.ResolveCredentials(ctx, "bogus-key", "", "")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	_, err = svc.ResolveCredentials(ctx, "", "", "")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	// Blocked users are rejected with the same error as a wrong password.
	require.NoError(t, env.db.Model(&model.User{}).Where("id = ?", reg.Id).Update("status", "blocked").Error)
	_, err = svc.ResolveCredentials(ctx, "", "alice", "correct-horse")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}
