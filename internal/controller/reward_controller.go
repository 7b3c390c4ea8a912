package controller

import (
	"bytes"
	"strconv"

	"ea-licensing-be/internal/dto"
	"ea-licensing-be/internal/pkg/serverutils"
	"ea-licensing-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IRewardController interface {
	RegisterRoutes(r fiber.Router)
	GetProgress(ctx *fiber.Ctx) error
	Leaderboard(ctx *fiber.Ctx) error
	Share(ctx *fiber.Ctx) error
	DashboardVisit(ctx *fiber.Ctx) error
	AuditHistory(ctx *fiber.Ctx) error
	AuditExport(ctx *fiber.Ctx) error
}

type rewardController struct {
	rewardService service.IRewardService
	auditService  service.IAuditService
	jwtSecret     string
}

func NewRewardController(rewardService service.IRewardService, auditService service.IAuditService, jwtSecret string) IRewardController {
	return &rewardController{
		rewardService: rewardService,
		auditService:  auditService,
		jwtSecret:     jwtSecret,
	}
}

func (c *rewardController) RegisterRoutes(r fiber.Router) {
	jwt := serverutils.JwtMiddleware(c.jwtSecret)

	rw := r.Group("/rewards")
	rw.Get("/leaderboard", c.Leaderboard)
	rw.Get("/me", jwt, c.GetProgress)
	rw.Post("/share", jwt, c.Share)
	rw.Post("/dashboard", jwt, c.DashboardVisit)

	a := r.Group("/audit", jwt)
	a.Get("/", c.AuditHistory)
	a.Get("/export", c.AuditExport)
}

func (c *rewardController) GetProgress(ctx *fiber.Ctx) error {
	userId, err := serverutils.RequireUserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.rewardService.GetProgress(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Progress", res))
}

func (c *rewardController) Leaderboard(ctx *fiber.Ctx) error {
	res, err := c.rewardService.Leaderboard(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Leaderboard", res))
}

func (c *rewardController) Share(ctx *fiber.Ctx) error {
	userId, err := serverutils.RequireUserID(ctx)
	if err != nil {
		return err
	}

	var req dto.ShareRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.rewardService.RecordShare(ctx.UserContext(), userId, req.Platform, req.Url)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Share recorded", res))
}

func (c *rewardController) DashboardVisit(ctx *fiber.Ctx) error {
	userId, err := serverutils.RequireUserID(ctx)
	if err != nil {
		return err
	}

	if err := c.rewardService.RecordDashboardVisit(ctx.UserContext(), userId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Visit recorded", nil))
}

func (c *rewardController) AuditHistory(ctx *fiber.Ctx) error {
	userId, err := serverutils.RequireUserID(ctx)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(ctx.Query("limit", "0"))

	res, err := c.auditService.ListForUser(ctx.UserContext(), userId, limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Audit history", res))
}

func (c *rewardController) AuditExport(ctx *fiber.Ctx) error {
	userId, err := serverutils.RequireUserID(ctx)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := c.auditService.ExportCSV(ctx.UserContext(), userId, &buf); err != nil {
		return err
	}
	ctx.Set(fiber.HeaderContentType, "text/csv")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="audit_log.csv"`)
	return ctx.Send(buf.Bytes())
}
