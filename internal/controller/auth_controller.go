// FILE: internal/controller/auth_controller.go
package controller

import (
	"ea-licensing-be/internal/dto"
	"ea-licensing-be/internal/pkg/serverutils"
	"ea-licensing-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	CreateApiKey(ctx *fiber.Ctx) error
}

type authController struct {
	service   service.IAuthService
	jwtSecret string
}

func NewAuthController(service service.IAuthService, jwtSecret string) IAuthController {
	return &authController{service: service, jwtSecret: jwtSecret}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/register", c.Register)
	h.Post("/login", c.Login)
	h.Post("/api-keys", serverutils.JwtMiddleware(c.jwtSecret), c.CreateApiKey)
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Register(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("User registered successfully", res))
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.UserContext(), &req, ctx.IP())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}

func (c *authController) CreateApiKey(ctx *fiber.Ctx) error {
	userId, err := serverutils.RequireUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateApiKeyRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.CreateApiKey(ctx.UserContext(), userId, req.Name)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("API key created. Store it now, it will not be shown again", res))
}
