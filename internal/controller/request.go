package controller

import (
	"ea-licensing-be/internal/pkg/apperror"
	"ea-licensing-be/internal/pkg/serverutils"
	"ea-licensing-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const apiKeyHeader = "X-API-KEY"

func parseBody(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return apperror.Validation("invalid request body")
	}
	return serverutils.ValidateRequest(req)
}

func uuidParam(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, apperror.Validation("invalid " + name)
	}
	return id, nil
}

// credentialsMiddleware resolves the EA-facing credentials: an API key from the X-API-KEY
// header or the api_key query parameter, otherwise HTTP basic auth or username/password query
// parameters.
func credentialsMiddleware(auth service.IAuthService) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		apiKey := ctx.Get(apiKeyHeader)
		if apiKey == "" {
			apiKey = ctx.Query("api_key")
		}

		username, password := basicAuth(ctx)
		if username == "" {
			username = ctx.Query("username")
			password = ctx.Query("password")
		}

		principal, err := auth.ResolveCredentials(ctx.UserContext(), apiKey, username, password)
		if err != nil {
			return err
		}
		ctx.Locals(serverutils.LocalPrincipal, principal)
		ctx.Locals(serverutils.LocalUserID, principal.UserId.String())
		return ctx.Next()
	}
}
