// FILE: internal/controller/admin_controller.go
package controller

import (
	"strconv"

	"ea-licensing-be/internal/dto"
	"ea-licensing-be/internal/pkg/serverutils"
	"ea-licensing-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	GetDashboardStats(ctx *fiber.Ctx) error
	GetAllUsers(ctx *fiber.Ctx) error
	UpdateUserStatus(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
	GetLogDetail(ctx *fiber.Ctx) error

	ConfirmPayment(ctx *fiber.Ctx) error
	FailPayment(ctx *fiber.Ctx) error

	// Batch sweeps, normally driven by cmd/scheduler
	SweepLicenses(ctx *fiber.Ctx) error
	SweepReminders(ctx *fiber.Ctx) error
	SweepSubscriptions(ctx *fiber.Ctx) error

	// Catalog Management
	CreatePlan(ctx *fiber.Ctx) error
	CreateExpertAdvisor(ctx *fiber.Ctx) error
	AddEAFile(ctx *fiber.Ctx) error
	CreateLearningResource(ctx *fiber.Ctx) error
}

type adminController struct {
	service             service.IAdminService
	paymentService      service.IPaymentService
	licenseService      service.ILicenseService
	subscriptionService service.ISubscriptionService
	clock               service.Clock
	jwtSecret           string
}

func NewAdminController(
	service service.IAdminService,
	paymentService service.IPaymentService,
	licenseService service.ILicenseService,
	subscriptionService service.ISubscriptionService,
	clock service.Clock,
	jwtSecret string,
) IAdminController {
	return &adminController{
		service:             service,
		paymentService:      paymentService,
		licenseService:      licenseService,
		subscriptionService: subscriptionService,
		clock:               clock,
		jwtSecret:           jwtSecret,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin", serverutils.JwtMiddleware(c.jwtSecret), serverutils.AdminOnly)

	h.Get("/dashboard", c.GetDashboardStats)
	h.Get("/users", c.GetAllUsers)
	h.Put("/users/:id/status", c.UpdateUserStatus)
	h.Get("/logs", c.GetLogs)
	h.Get("/logs/:id", c.GetLogDetail)

	h.Post("/payments/:id/confirm", c.ConfirmPayment)
	h.Post("/payments/:id/fail", c.FailPayment)

	h.Post("/sweeps/licenses", c.SweepLicenses)
	h.Post("/sweeps/reminders", c.SweepReminders)
	h.Post("/sweeps/subscriptions", c.SweepSubscriptions)

	h.Post("/plans", c.CreatePlan)
	h.Post("/expert-advisors", c.CreateExpertAdvisor)
	h.Post("/expert-advisors/:id/files", c.AddEAFile)
	h.Post("/learning", c.CreateLearningResource)
}

func (c *adminController) GetDashboardStats(ctx *fiber.Ctx) error {
	stats, err := c.service.GetDashboardStats(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Dashboard stats", stats))
}

func (c *adminController) GetAllUsers(ctx *fiber.Ctx) error {
	page, _ := strconv.Atoi(ctx.Query("page", "1"))
	limit, _ := strconv.Atoi(ctx.Query("limit", "10"))

	users, err := c.service.GetAllUsers(ctx.UserContext(), page, limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User list", users))
}

func (c *adminController) UpdateUserStatus(ctx *fiber.Ctx) error {
	adminId, err := serverutils.RequireUserID(ctx)
	if err != nil {
		return err
	}
	userId, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateUserStatusRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	if err := c.service.UpdateUserStatus(ctx.UserContext(), adminId, userId, req.Status); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("User status updated", nil))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	page, _ := strconv.Atoi(ctx.Query("page", "1"))
	limit, _ := strconv.Atoi(ctx.Query("limit", "10"))
	level := ctx.Query("level", "")

	logs, err := c.service.GetSystemLogs(ctx.UserContext(), page, limit, level)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("System logs", logs))
}

func (c *adminController) GetLogDetail(ctx *fiber.Ctx) error {
	logId := ctx.Params("id") // MD5 of the line, not a UUID

	l, err := c.service.GetLogDetail(ctx.UserContext(), logId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Log detail", l))
}

func (c *adminController) ConfirmPayment(ctx *fiber.Ctx) error {
	adminId, err := serverutils.RequireUserID(ctx)
	if err != nil {
		return err
	}
	paymentId, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.paymentService.Confirm(ctx.UserContext(), paymentId, adminId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Payment confirmed", res))
}

func (c *adminController) FailPayment(ctx *fiber.Ctx) error {
	adminId, err := serverutils.RequireUserID(ctx)
	if err != nil {
		return err
	}
	paymentId, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.FailPaymentRequest
	if len(ctx.Body()) > 0 {
		if err := parseBody(ctx, &req); err != nil {
			return err
		}
	}

	res, err := c.paymentService.Fail(ctx.UserContext(), paymentId, adminId, req.Reason)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Payment marked as failed", res))
}

func (c *adminController) SweepLicenses(ctx *fiber.Ctx) error {
	n, err := c.licenseService.ExpireSweep(ctx.UserContext(), c.clock())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("License expiry sweep finished", dto.SweepResponse{Processed: n}))
}

func (c *adminController) SweepReminders(ctx *fiber.Ctx) error {
	n, err := c.subscriptionService.RenewalReminderSweep(ctx.UserContext(), c.clock())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Renewal reminder sweep finished", dto.SweepResponse{Processed: n}))
}

func (c *adminController) SweepSubscriptions(ctx *fiber.Ctx) error {
	n, err := c.subscriptionService.ExpireSubscriptionsSweep(ctx.UserContext(), c.clock())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription expiry sweep finished", dto.SweepResponse{Processed: n}))
}

func (c *adminController) CreatePlan(ctx *fiber.Ctx) error {
	adminId, err := serverutils.RequireUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreatePlanRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	plan, err := c.service.CreatePlan(ctx.UserContext(), adminId, req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Plan created", plan))
}

func (c *adminController) CreateExpertAdvisor(ctx *fiber.Ctx) error {
	adminId, err := serverutils.RequireUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateExpertAdvisorRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	ea, err := c.service.CreateExpertAdvisor(ctx.UserContext(), adminId, req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Expert advisor created", ea))
}

func (c *adminController) AddEAFile(ctx *fiber.Ctx) error {
	adminId, err := serverutils.RequireUserID(ctx)
	if err != nil {
		return err
	}
	eaId, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.CreateEAFileRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	file, err := c.service.AddEAFile(ctx.UserContext(), adminId, eaId, req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("File published", file))
}

func (c *adminController) CreateLearningResource(ctx *fiber.Ctx) error {
	adminId, err := serverutils.RequireUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateLearningResourceRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.CreateLearningResource(ctx.UserContext(), adminId, req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Learning resource created", res))
}
