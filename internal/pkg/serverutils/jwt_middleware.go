package serverutils

import (
	"fmt"
	"strings"

	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	LocalUserID = "user_id"
	LocalRole   = "role"
	LocalStaff  = "staff"

	// LocalPrincipal holds a *entity.Principal resolved from an API key or credentials.
	LocalPrincipal = "principal"
)

func parseToken(secret, tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims")
	}
	return claims, nil
}

func storeClaims(ctx *fiber.Ctx, claims jwt.MapClaims) {
	ctx.Locals(LocalUserID, claims["user_id"])
	ctx.Locals(LocalRole, claims["role"])
	ctx.Locals(LocalStaff, claims["staff"])
}

// ParseUserToken validates a raw token outside the middleware chain, e.g. on a websocket
// handshake where the token arrives as a query parameter.
func ParseUserToken(secret, tokenStr string) (uuid.UUID, error) {
	claims, err := parseToken(secret, tokenStr)
	if err != nil {
		return uuid.Nil, err
	}
	userIdStr, _ := claims["user_id"].(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("token missing user_id")
	}
	return userId, nil
}

func bearerToken(ctx *fiber.Ctx) string {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}
	return authHeader[7:]
}

// JwtMiddleware rejects requests without a valid bearer token and stores user_id and role
// in Locals.
func JwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := bearerToken(ctx)
		if tokenStr == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
		}

		claims, err := parseToken(secret, tokenStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
		}

		storeClaims(ctx, claims)
		return ctx.Next()
	}
}

// OptionalJwtMiddleware populates Locals when a valid token is present and lets anonymous
// requests through otherwise.
func OptionalJwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if tokenStr := bearerToken(ctx); tokenStr != "" {
			if claims, err := parseToken(secret, tokenStr); err == nil {
				storeClaims(ctx, claims)
			}
		}
		return ctx.Next()
	}
}

// AdminOnly must run after JwtMiddleware.
func AdminOnly(ctx *fiber.Ctx) error {
	role, _ := ctx.Locals(LocalRole).(string)
	if role != "admin" {
		return ctx.Status(fiber.StatusForbidden).JSON(ErrorResponse(fiber.StatusForbidden, "Admin access required"))
	}
	return ctx.Next()
}

// CurrentUserID reads the authenticated user set by the JWT middlewares.
func CurrentUserID(ctx *fiber.Ctx) (uuid.UUID, bool) {
	userIdStr, ok := ctx.Locals(LocalUserID).(string)
	if !ok || userIdStr == "" {
		return uuid.Nil, false
	}
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, false
	}
	return userId, true
}

func RequireUserID(ctx *fiber.Ctx) (uuid.UUID, error) {
	userId, ok := CurrentUserID(ctx)
	if !ok {
		return uuid.Nil, apperror.New(apperror.ErrUnauthorized, "authentication required")
	}
	return userId, nil
}

// CurrentPrincipal returns the caller resolved by a credential middleware or a JWT, or nil
// for an anonymous request.
func CurrentPrincipal(ctx *fiber.Ctx) *entity.Principal {
	if p, ok := ctx.Locals(LocalPrincipal).(*entity.Principal); ok && p != nil {
		return p
	}
	userId, ok := CurrentUserID(ctx)
	if !ok {
		return nil
	}
	role, _ := ctx.Locals(LocalRole).(string)
	staff, _ := ctx.Locals(LocalStaff).(bool)
	return &entity.Principal{UserId: userId, Role: entity.UserRole(role), IsStaff: staff}
}
