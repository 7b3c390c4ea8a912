package serverutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/pkg/apperror"
	"ea-licensing-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperror.NotFound("x"), fiber.StatusNotFound},
		{apperror.Unauthorized("x"), fiber.StatusUnauthorized},
		{apperror.Forbidden("x"), fiber.StatusForbidden},
		{apperror.New(apperror.ErrEligibilityDenied, "x"), fiber.StatusForbidden},
		{apperror.Validation("x"), fiber.StatusBadRequest},
		{apperror.Conflict("x"), fiber.StatusConflict},
		{apperror.InvalidState("x"), fiber.StatusConflict},
		{fmt.Errorf("wrapped: %w", apperror.NotFound("x")), fiber.StatusNotFound},
		{fiber.NewError(fiber.StatusTeapot, "tea"), fiber.StatusTeapot},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestValidateRequest(t *testing.T) {
	type request struct {
		Email string `validate:"required,email"`
		Age   int    `validate:"gte=18"`
	}

	assert.NoError(t, ValidateRequest(&request{Email: "a@example.com", Age: 30}))

	err := ValidateRequest(&request{Email: "nope", Age: 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Contains(t, err.Error(), "Email failed on email")
	assert.Contains(t, err.Error(), "Age failed on gte=18")
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(logger.NewNopLogger()))
	app.Get("/missing", func(*fiber.Ctx) error { return apperror.NotFound("license not found") })
	app.Get("/boom", func(*fiber.Ctx) error { return errors.New("database on fire") })

	resp, err := app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	var body BaseResponse[any]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "license not found", body.Message)

	resp, err = app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(raw), "database on fire")
}

func TestJwtMiddleware(t *testing.T) {
	userId := uuid.New()
	app := fiber.New()
	app.Get("/me", JwtMiddleware(testSecret), func(ctx *fiber.Ctx) error {
		p := CurrentPrincipal(ctx)
		return ctx.JSON(fiber.Map{"user_id": p.UserId.String(), "role": string(p.Role), "staff": p.IsStaff})
	})
	app.Get("/admin", JwtMiddleware(testSecret), AdminOnly, func(ctx *fiber.Ctx) error {
		return ctx.SendString("ok")
	})
	app.Get("/maybe", OptionalJwtMiddleware(testSecret), func(ctx *fiber.Ctx) error {
		if CurrentPrincipal(ctx) == nil {
			return ctx.SendString("anonymous")
		}
		return ctx.SendString("known")
	})

	userToken := signToken(t, testSecret, jwt.MapClaims{
		"user_id": userId.String(), "role": "user", "staff": true, "exp": time.Now().Add(time.Hour).Unix(),
	})
	adminToken := signToken(t, testSecret, jwt.MapClaims{
		"user_id": uuid.NewString(), "role": "admin", "exp": time.Now().Add(time.Hour).Unix(),
	})
	forged := signToken(t, "other-secret", jwt.MapClaims{"user_id": userId.String(), "role": "admin"})

	do := func(path, token string) (int, string) {
		req := httptest.NewRequest("GET", path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		raw, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(raw)
	}

	status, body := do("/me", userToken)
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, fmt.Sprintf(`{"user_id":%q,"role":"user","staff":true}`, userId), body)

	status, _ = do("/me", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	status, _ = do("/me", forged)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = do("/admin", userToken)
	assert.Equal(t, fiber.StatusForbidden, status)
	status, _ = do("/admin", adminToken)
	assert.Equal(t, fiber.StatusOK, status)

	_, body = do("/maybe", "")
	assert.Equal(t, "anonymous", body)
	_, body = do("/maybe", forged)
	assert.Equal(t, "anonymous", body)
	_, body = do("/maybe", userToken)
	assert.Equal(t, "known", body)
}

func TestParseUserToken(t *testing.T) {
	userId := uuid.New()
	token := signToken(t, testSecret, jwt.MapClaims{"user_id": userId.String(), "exp": time.Now().Add(time.Minute).Unix()})

	got, err := ParseUserToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, userId, got)

	_, err = ParseUserToken(testSecret, signToken(t, testSecret, jwt.MapClaims{"role": "user"}))
	assert.Error(t, err)

	expired := signToken(t, testSecret, jwt.MapClaims{"user_id": userId.String(), "exp": time.Now().Add(-time.Minute).Unix()})
	_, err = ParseUserToken(testSecret, expired)
	assert.Error(t, err)
}

func TestCurrentPrincipal_PrefersResolvedPrincipal(t *testing.T) {
	resolved := &entity.Principal{UserId: uuid.New(), Role: entity.UserRoleAdmin}
	app := fiber.New()
	app.Get("/", func(ctx *fiber.Ctx) error {
		ctx.Locals(LocalPrincipal, resolved)
		ctx.Locals(LocalUserID, uuid.NewString())
		return ctx.SendString(CurrentPrincipal(ctx).UserId.String())
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, resolved.UserId.String(), string(raw))
}
