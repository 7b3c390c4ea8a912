package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ea-licensing-be/internal/dto"
	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/model"
	"ea-licensing-be/internal/pkg/logger"
	"ea-licensing-be/internal/pkg/serverutils"
	"ea-licensing-be/internal/repository/memory"
	"ea-licensing-be/internal/repository/unitofwork"
	"ea-licensing-be/internal/service"
	"ea-licensing-be/pkg/database"
	"ea-licensing-be/pkg/lock"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "controller-test-secret"

type nopNotifier struct{}

func (nopNotifier) Dispatch(context.Context, ...service.Outbound) {}

type apiEnv struct {
	app    *fiber.App
	uow    unitofwork.RepositoryFactory
	subSvc service.ISubscriptionService
}

func newAPI(t *testing.T) *apiEnv {
	t.Helper()
	db, err := database.NewSQLiteDB("file::memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	uow := unitofwork.NewRepositoryFactory(db)
	require.NoError(t, service.SeedRewardCatalog(context.Background(), uow))

	log := logger.NewNopLogger()
	clock := service.Clock(time.Now)
	notifier := nopNotifier{}

	rewardSvc := service.NewRewardService(uow, lock.NewLocalLocker(), notifier, nil, clock, log)
	authSvc := service.NewAuthService(uow, rewardSvc, notifier, memory.NewCredentialCache(time.Minute), testSecret, time.Hour, clock, log)
	subSvc := service.NewSubscriptionService(uow, notifier, 7, clock, log)
	licenseSvc := service.NewLicenseService(uow, notifier, clock, log)
	paymentSvc := service.NewPaymentService(uow, notifier, nil, clock, log)
	accessSvc := service.NewAccessService(uow, clock)
	learningSvc := service.NewLearningService(uow, clock)
	adminSvc := service.NewAdminService(uow, nil, clock, log)

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware(log))
	api := app.Group("/api")
	NewAuthController(authSvc, testSecret).RegisterRoutes(api)
	NewLicenseController(licenseSvc, authSvc, testSecret).RegisterRoutes(api)
	NewAccessController(accessSvc, learningSvc, testSecret).RegisterRoutes(api)
	NewAdminController(adminSvc, paymentSvc, licenseSvc, subSvc, clock, testSecret).RegisterRoutes(api)
	NewRewardController(rewardSvc, service.NewAuditService(uow, clock), testSecret).RegisterRoutes(api)

	return &apiEnv{app: app, uow: uow, subSvc: subSvc}
}

type reqOpt func(*http.Request)

func bearer(token string) reqOpt {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func header(k, v string) reqOpt {
	return func(r *http.Request) { r.Header.Set(k, v) }
}

func (e *apiEnv) call(t *testing.T, method, path string, body interface{}, opts ...reqOpt) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp.StatusCode, out
}

func data(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %v", body)
	return d
}

func (e *apiEnv) registerAndLogin(t *testing.T, username string) (string, string) {
	t.Helper()
	status, body := e.call(t, "POST", "/api/auth/register", dto.RegisterRequest{
		Email: username + "@example.com", Username: username, Password: "correct-horse",
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	userId := data(t, body)["id"].(string)

	status, body = e.call(t, "POST", "/api/auth/login", dto.LoginRequest{Login: username, Password: "correct-horse"})
	require.Equal(t, fiber.StatusOK, status, body)
	return userId, data(t, body)["access_token"].(string)
}

func TestAccessEndpoint(t *testing.T) {
	e := newAPI(t)

	status, body := e.call(t, "GET", "/api/access?tier=premium", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, data(t, body)["allowed"])

	status, body = e.call(t, "GET", "/api/access", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, data(t, body)["allowed"])

	status, _ = e.call(t, "GET", "/api/access?tier=platinum", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestRegisterValidation(t *testing.T) {
	e := newAPI(t)

	status, _ := e.call(t, "POST", "/api/auth/register", dto.RegisterRequest{Email: "bad", Username: "x", Password: "short"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	e.registerAndLogin(t, "alice")
	status, _ = e.call(t, "POST", "/api/auth/register", dto.RegisterRequest{Email: "alice@example.com", Username: "alice9", Password: "correct-horse"})
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = e.call(t, "POST", "/api/auth/login", dto.LoginRequest{Login: "alice", Password: "wrong-horse"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestLicenseFlow(t *testing.T) {
	e := newAPI(t)
	ctx := context.Background()
	userIdStr, token := e.registerAndLogin(t, "trader")

	plan := &entity.SubscriptionPlan{Name: "Premium", Tier: entity.TierPremium, Price: 49, DurationDays: 30, IsActive: true, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, e.uow.NewUnitOfWork(ctx).SubscriptionRepository().CreatePlan(ctx, plan))
	ea := &entity.ExpertAdvisor{Name: "Gold Scalper", IsPremium: true, EligiblePlans: []*entity.SubscriptionPlan{plan}, CreatedAt: time.Now()}
	require.NoError(t, e.uow.NewUnitOfWork(ctx).LicenseRepository().CreateExpertAdvisor(ctx, ea))

	// No subscription yet.
	status, _ := e.call(t, "POST", "/api/licenses/request", dto.IssueLicenseRequest{ExpertAdvisorId: ea.Id}, bearer(token))
	assert.Equal(t, fiber.StatusForbidden, status)

	_, err := e.subSvc.ActivateSubscription(ctx, uuid.MustParse(userIdStr), plan.Id)
	require.NoError(t, err)

	status, body := e.call(t, "POST", "/api/licenses/request", dto.IssueLicenseRequest{ExpertAdvisorId: ea.Id}, bearer(token))
	require.Equal(t, fiber.StatusOK, status, body)
	issued := data(t, body)
	key := issued["key"].(string)
	assert.Equal(t, "Gold Scalper", issued["ea"])
	assert.Equal(t, "Premium", issued["plan"])

	status, _ = e.call(t, "GET", "/api/licenses/validate?key="+key+"&ea_id="+ea.Id.String(), nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body = e.call(t, "POST", "/api/auth/api-keys", dto.CreateApiKeyRequest{Name: "terminal"}, bearer(token))
	require.Equal(t, fiber.StatusCreated, status, body)
	apiKey := data(t, body)["key"].(string)

	status, body = e.call(t, "GET", "/api/licenses/validate?key="+key+"&ea_id="+ea.Id.String(), nil, header(apiKeyHeader, apiKey))
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, true, data(t, body)["valid"])

	status, body = e.call(t, "GET", "/api/licenses/config?key="+key, nil)
	require.Equal(t, fiber.StatusOK, status, body)

	req := func(r *http.Request) { r.SetBasicAuth("trader", "correct-horse") }
	status, body = e.call(t, "POST", "/api/licenses/deactivate", dto.LicenseKeyRequest{Key: key}, req)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, "revoked", data(t, body)["status"])

	status, _ = e.call(t, "GET", "/api/licenses/config?key="+key, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = e.call(t, "GET", "/api/licenses?username=trader&password=nope", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	status, body = e.call(t, "GET", "/api/licenses?username=trader&password=correct-horse", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, body["data"], 1)
	listed := body["data"].([]interface{})[0].(map[string]interface{})
	for _, field := range []string{"id", "key", "ea_id", "ea", "plan", "created_at"} {
		assert.Equal(t, issued[field], listed[field], field)
	}
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	e := newAPI(t)
	_, token := e.registerAndLogin(t, "mallory")

	status, _ := e.call(t, "GET", "/api/admin/dashboard", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = e.call(t, "GET", "/api/admin/dashboard", nil, bearer(token))
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestLeaderboardIsPublic(t *testing.T) {
	e := newAPI(t)

	status, body := e.call(t, "GET", "/api/rewards/leaderboard", nil)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Empty(t, body["data"])

	status, _ = e.call(t, "GET", "/api/rewards/me", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}
