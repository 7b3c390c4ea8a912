package controller

import (
	"context"

	"ea-licensing-be/internal/dto"
	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/pkg/apperror"
	"ea-licensing-be/internal/pkg/serverutils"
	"ea-licensing-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ILicenseController interface {
	RegisterRoutes(r fiber.Router)
	Validate(ctx *fiber.Ctx) error
	Activate(ctx *fiber.Ctx) error
	Deactivate(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Config(ctx *fiber.Ctx) error
	Usage(ctx *fiber.Ctx) error
	Request(ctx *fiber.Ctx) error
	Revoke(ctx *fiber.Ctx) error
}

type licenseController struct {
	service     service.ILicenseService
	authService service.IAuthService
	jwtSecret   string
}

func NewLicenseController(service service.ILicenseService, authService service.IAuthService, jwtSecret string) ILicenseController {
	return &licenseController{service: service, authService: authService, jwtSecret: jwtSecret}
}

func (c *licenseController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/licenses")
	creds := credentialsMiddleware(c.authService)
	jwt := serverutils.JwtMiddleware(c.jwtSecret)

	// Called by the EA runtime; the license key is the credential.
	h.Get("/config", c.Config)
	h.Post("/usage", c.Usage)

	h.Get("/validate", creds, c.Validate)
	h.Post("/activate", creds, c.Activate)
	h.Post("/deactivate", creds, c.Deactivate)
	h.Get("/", creds, c.List)

	h.Post("/request", jwt, c.Request)
	h.Post("/:id/revoke", jwt, c.Revoke)
}

func (c *licenseController) Validate(ctx *fiber.Ctx) error {
	key := ctx.Query("key")
	eaId, err := uuid.Parse(ctx.Query("ea_id"))
	if key == "" || err != nil {
		return apperror.Validation("key and ea_id are required")
	}

	res, err := c.service.Validate(ctx.UserContext(), key, eaId, ctx.IP())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("License validated", res))
}

func (c *licenseController) Activate(ctx *fiber.Ctx) error {
	return c.transition(ctx, c.service.Activate, "License activated")
}

func (c *licenseController) Deactivate(ctx *fiber.Ctx) error {
	return c.transition(ctx, c.service.Deactivate, "License deactivated")
}

func (c *licenseController) transition(ctx *fiber.Ctx, fn func(ctx context.Context, key string) (*entity.LicenseKey, error), message string) error {
	var req dto.LicenseKeyRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	license, err := fn(ctx.UserContext(), req.Key)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse(message, fiber.Map{
		"key":    license.Key,
		"status": string(license.Status),
	}))
}

func (c *licenseController) List(ctx *fiber.Ctx) error {
	principal := serverutils.CurrentPrincipal(ctx)
	if principal == nil {
		return apperror.New(apperror.ErrUnauthorized, "authentication required")
	}

	res, err := c.service.ListForUser(ctx.UserContext(), principal.UserId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Licenses", res))
}

func (c *licenseController) Config(ctx *fiber.Ctx) error {
	key := ctx.Query("key")
	if key == "" {
		return apperror.Validation("key is required")
	}

	res, err := c.service.GetRuntimeConfig(ctx.UserContext(), key)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("License config", res))
}

func (c *licenseController) Usage(ctx *fiber.Ctx) error {
	var req dto.UsageRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.RecordUsage(ctx.UserContext(), req.Key, ctx.IP(), req.Payload)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Usage recorded", res))
}

func (c *licenseController) Request(ctx *fiber.Ctx) error {
	userId, err := serverutils.RequireUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.IssueLicenseRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	license, err := c.service.IssueLicense(ctx.UserContext(), userId, req.ExpertAdvisorId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("License issued", service.ToLicenseResponse(license)))
}

func (c *licenseController) Revoke(ctx *fiber.Ctx) error {
	userId, err := serverutils.RequireUserID(ctx)
	if err != nil {
		return err
	}
	licenseId, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.service.RevokeByUser(ctx.UserContext(), userId, licenseId, ctx.IP()); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("License revoked", nil))
}
