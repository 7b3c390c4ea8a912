// FILE: internal/controller/payment_controller.go
package controller

import (
	"ea-licensing-be/internal/dto"
	"ea-licensing-be/internal/pkg/serverutils"
	"ea-licensing-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router)
	ListPayments(ctx *fiber.Ctx) error
	Submit(ctx *fiber.Ctx) error
	ListSubscriptions(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	Renew(ctx *fiber.Ctx) error
}

type paymentController struct {
	service             service.IPaymentService
	subscriptionService service.ISubscriptionService
	authService         service.IAuthService
	jwtSecret           string
}

func NewPaymentController(
	service service.IPaymentService,
	subscriptionService service.ISubscriptionService,
	authService service.IAuthService,
	jwtSecret string,
) IPaymentController {
	return &paymentController{
		service:             service,
		subscriptionService: subscriptionService,
		authService:         authService,
		jwtSecret:           jwtSecret,
	}
}

func (c *paymentController) RegisterRoutes(r fiber.Router) {
	creds := credentialsMiddleware(c.authService)
	jwt := serverutils.JwtMiddleware(c.jwtSecret)

	p := r.Group("/payments")
	p.Get("/", creds, c.ListPayments)
	p.Post("/", jwt, c.Submit)

	s := r.Group("/subscriptions")
	s.Get("/", creds, c.ListSubscriptions)
	s.Post("/:id/cancel", jwt, c.Cancel)
	s.Post("/:id/renew", jwt, c.Renew)
}

func (c *paymentController) ListPayments(ctx *fiber.Ctx) error {
	userId, err := serverutils.RequireUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListForUser(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Payments", res))
}

func (c *paymentController) Submit(ctx *fiber.Ctx) error {
	userId, err := serverutils.RequireUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.SubmitPaymentRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Submit(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Payment submitted and awaiting confirmation", res))
}

func (c *paymentController) ListSubscriptions(ctx *fiber.Ctx) error {
	userId, err := serverutils.RequireUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.subscriptionService.ListForUser(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscriptions", res))
}

func (c *paymentController) Cancel(ctx *fiber.Ctx) error {
	userId, err := serverutils.RequireUserID(ctx)
	if err != nil {
		return err
	}
	subId, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.subscriptionService.Cancel(ctx.UserContext(), userId, subId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription cancelled", res))
}

func (c *paymentController) Renew(ctx *fiber.Ctx) error {
	userId, err := serverutils.RequireUserID(ctx)
	if err != nil {
		return err
	}
	subId, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.subscriptionService.Renew(ctx.UserContext(), userId, subId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription renewed", res))
}
