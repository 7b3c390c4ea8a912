package service

import (
	"testing"
	"time"

	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/model"
	"ea-licensing-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type licenseFixture struct {
	env  *testEnv
	svc  ILicenseService
	user *entity.User
	plan *entity.SubscriptionPlan
	ea   *entity.ExpertAdvisor
}

func newLicenseFixture(t *testing.T) *licenseFixture {
	env := newTestEnv(t)
	f := &licenseFixture{env: env, svc: env.licenseService()}
	f.user = env.createUser(t, "trader")
	f.plan = env.createPlan(t, "Premium Monthly", entity.TierPremium, 49, 30)
	f.ea = env.createEA(t, "Gold Scalper", true, f.plan)
	env.subscribe(t, f.user.Id, f.plan.Id)
	return f
}

func TestIssueLicense_IsIdempotent(t *testing.T) {
	f := newLicenseFixture(t)
	ctx := f.env.ctx()

	first, err := f.svc.IssueLicense(ctx, f.user.Id, f.ea.Id)
	require.NoError(t, err)
	second, err := f.svc.IssueLicense(ctx, f.user.Id, f.ea.Id)
	require.NoError(t, err)

	assert.Equal(t, first.Id, second.Id)
	assert.Equal(t, first.Key, second.Key)
	assert.Equal(t, entity.LicenseStatusActive, first.Status)
	require.NotNil(t, first.ExpiresAt)
	assert.True(t, first.ExpiresAt.Equal(testNow.AddDate(0, 0, 30)))

	assert.EqualValues(t, 1, f.env.auditCount(t, entity.AuditLicenseRequest))
	assert.Len(t, f.env.notifier.titled("License Issued"), 1)
}

func TestIssueLicense_Eligibility(t *testing.T) {
	f := newLicenseFixture(t)
	ctx := f.env.ctx()

	t.Run("no subscription", func(t *testing.T) {
		other := f.env.createUser(t, "nosub")
		_, err := f.svc.IssueLicense(ctx, other.Id, f.ea.Id)
		assert.ErrorIs(t, err, apperror.ErrEligibilityDenied)
	})

	t.Run("plan not eligible for advisor", func(t *testing.T) {
		basic := f.env.createPlan(t, "Basic", entity.TierBasic, 9, 30)
		other := f.env.createUser(t, "basicuser")
		f.env.subscribe(t, other.Id, basic.Id)
		_, err := f.svc.IssueLicense(ctx, other.Id, f.ea.Id)
		assert.ErrorIs(t, err, apperror.ErrEligibilityDenied)
	})

	t.Run("unknown advisor", func(t *testing.T) {
		_, err := f.svc.IssueLicense(ctx, f.user.Id, uuid.New())
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	assert.EqualValues(t, 0, f.env.auditCount(t, entity.AuditLicenseRequest))
}

func TestValidate(t *testing.T) {
	f := newLicenseFixture(t)
	ctx := f.env.ctx()

	license, err := f.svc.IssueLicense(ctx, f.user.Id, f.ea.Id)
	require.NoError(t, err)

	res, err := f.svc.Validate(ctx, license.Key, f.ea.Id, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, "trader", res.User)
	assert.Equal(t, "Gold Scalper", res.ExpertAdvisor)
	assert.Equal(t, "Premium Monthly", res.Plan)

	stored := f.env.license(t, license.Id)
	require.NotNil(t, stored.LastUsedAt)
	assert.Equal(t, "10.0.0.1", stored.LastUsedIp)

	_, err = f.svc.Validate(ctx, license.Key, uuid.New(), "10.0.0.1")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.svc.Validate(ctx, "no-such-key", f.ea.Id, "")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestActivateDeactivate_AuditOncePerTransition(t *testing.T) {
	f := newLicenseFixture(t)
	ctx := f.env.ctx()

	license, err := f.svc.IssueLicense(ctx, f.user.Id, f.ea.Id)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		got, err := f.svc.Deactivate(ctx, license.Key)
		require.NoError(t, err)
		assert.Equal(t, entity.LicenseStatusRevoked, got.Status)
	}
	assert.EqualValues(t, 1, f.env.auditCount(t, entity.AuditLicenseDeactivate))

	res, err := f.svc.Validate(ctx, license.Key, f.ea.Id, "")
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, "revoked", res.Status)

	got, err := f.svc.Activate(ctx, license.Key)
	require.NoError(t, err)
	assert.Equal(t, entity.LicenseStatusActive, got.Status)
	require.NotNil(t, got.ActivatedAt)
	assert.EqualValues(t, 1, f.env.auditCount(t, entity.AuditLicenseActivate))
}

func TestRevokeByUser(t *testing.T) {
	f := newLicenseFixture(t)
	ctx := f.env.ctx()

	license, err := f.svc.IssueLicense(ctx, f.user.Id, f.ea.Id)
	require.NoError(t, err)

	stranger := f.env.createUser(t, "stranger")
	err = f.svc.RevokeByUser(ctx, stranger.Id, license.Id, "")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, entity.LicenseStatusActive, f.env.license(t, license.Id).Status)

	require.NoError(t, f.svc.RevokeByUser(ctx, f.user.Id, license.Id, "192.168.1.9"))
	stored := f.env.license(t, license.Id)
	assert.Equal(t, entity.LicenseStatusRevoked, stored.Status)
	assert.NotNil(t, stored.DeactivatedAt)
	assert.EqualValues(t, 1, f.env.auditCount(t, entity.AuditLicenseRevoke))
	assert.Len(t, f.env.notifier.titled("License Revoked"), 1)
}

func TestExpireSweep_FlipsOnce(t *testing.T) {
	f := newLicenseFixture(t)
	ctx := f.env.ctx()

	license, err := f.svc.IssueLicense(ctx, f.user.Id, f.ea.Id)
	require.NoError(t, err)

	n, err := f.svc.ExpireSweep(ctx, testNow.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	later := testNow.AddDate(0, 0, 31)
	n, err = f.svc.ExpireSweep(ctx, later)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = f.svc.ExpireSweep(ctx, later)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	assert.Equal(t, entity.LicenseStatusRevoked, f.env.license(t, license.Id).Status)
	assert.EqualValues(t, 1, f.env.auditCount(t, entity.AuditLicenseExpire))
	assert.Len(t, f.env.notifier.titled("Your License Has Expired"), 1)
}

func TestRuntimeConfigAndUsage(t *testing.T) {
	f := newLicenseFixture(t)
	ctx := f.env.ctx()

	license, err := f.svc.IssueLicense(ctx, f.user.Id, f.ea.Id)
	require.NoError(t, err)

	cfg, err := f.svc.GetRuntimeConfig(ctx, license.Key)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Settings.MaxTrades)
	assert.Equal(t, "medium", cfg.Settings.RiskLevel)
	assert.Equal(t, "Gold Scalper", cfg.ExpertAdvisor)

	usage, err := f.svc.RecordUsage(ctx, license.Key, "10.1.1.1", map[string]interface{}{"trades": 3})
	require.NoError(t, err)
	assert.True(t, usage.Received)

	_, err = f.svc.Deactivate(ctx, license.Key)
	require.NoError(t, err)
	_, err = f.svc.GetRuntimeConfig(ctx, license.Key)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	_, err = f.svc.RecordUsage(ctx, license.Key, "10.1.1.1", map[string]interface{}{"trades": 4})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	var stored int64
	require.NoError(t, f.env.db.Model(&model.LicenseUsage{}).Where("license_id = ?", license.Id).Count(&stored).Error)
	assert.EqualValues(t, 1, stored)

	_, err = f.svc.RecordUsage(ctx, "missing", "", nil)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListForUser(t *testing.T) {
	f := newLicenseFixture(t)
	ctx := f.env.ctx()

	_, err := f.svc.IssueLicense(ctx, f.user.Id, f.ea.Id)
	require.NoError(t, err)

	list, err := f.svc.ListForUser(ctx, f.user.Id)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Gold Scalper", list[0].ExpertAdvisor)
	assert.Equal(t, "Premium Monthly", list[0].Plan)

	other, err := f.svc.ListForUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}
