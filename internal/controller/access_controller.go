package controller

import (
	"ea-licensing-be/internal/dto"
	"ea-licensing-be/internal/entity"
	"ea-licensing-be/internal/pkg/serverutils"
	"ea-licensing-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// IAccessController serves everything behind the tier gate: access checks, EA downloads and
// the learning library.
type IAccessController interface {
	RegisterRoutes(r fiber.Router)
	CheckAccess(ctx *fiber.Ctx) error
	Download(ctx *fiber.Ctx) error
	ListLearning(ctx *fiber.Ctx) error
	GetLearning(ctx *fiber.Ctx) error
	UpdateProgress(ctx *fiber.Ctx) error
}

type accessController struct {
	accessService   service.IAccessService
	learningService service.ILearningService
	jwtSecret       string
}

func NewAccessController(accessService service.IAccessService, learningService service.ILearningService, jwtSecret string) IAccessController {
	return &accessController{
		accessService:   accessService,
		learningService: learningService,
		jwtSecret:       jwtSecret,
	}
}

func (c *accessController) RegisterRoutes(r fiber.Router) {
	optional := serverutils.OptionalJwtMiddleware(c.jwtSecret)
	jwt := serverutils.JwtMiddleware(c.jwtSecret)

	r.Get("/access", optional, c.CheckAccess)
	r.Get("/downloads/:fileId", jwt, c.Download)

	l := r.Group("/learning")
	l.Get("/", optional, c.ListLearning)
	l.Get("/:id", optional, c.GetLearning)
	l.Put("/:id/progress", jwt, c.UpdateProgress)
}

func (c *accessController) CheckAccess(ctx *fiber.Ctx) error {
	required := entity.Tier(ctx.Query("tier", string(entity.TierFree)))
	principal := serverutils.CurrentPrincipal(ctx)

	allowed, err := c.accessService.CanAccess(ctx.UserContext(), principal, required)
	if err != nil {
		return err
	}

	tier := entity.TierFree
	if principal != nil {
		if tier, err = c.accessService.ResolveTier(ctx.UserContext(), principal.UserId); err != nil {
			return err
		}
	}
	return ctx.JSON(serverutils.SuccessResponse("Access evaluated", dto.AccessResponse{
		Required: string(required),
		Tier:     string(tier),
		Allowed:  allowed,
	}))
}

func (c *accessController) Download(ctx *fiber.Ctx) error {
	fileId, err := uuidParam(ctx, "fileId")
	if err != nil {
		return err
	}

	file, err := c.accessService.AuthorizeDownload(ctx.UserContext(), serverutils.CurrentPrincipal(ctx), fileId, ctx.IP())
	if err != nil {
		return err
	}

	res := dto.DownloadResponse{
		FileId:   file.Id,
		Version:  file.Version,
		FilePath: file.FilePath,
		Checksum: file.Checksum,
	}
	if file.ExpertAdvisor != nil {
		res.ExpertAdvisor = file.ExpertAdvisor.Name
	}
	return ctx.JSON(serverutils.SuccessResponse("Download authorized", res))
}

func (c *accessController) ListLearning(ctx *fiber.Ctx) error {
	res, err := c.learningService.ListResources(ctx.UserContext(), serverutils.CurrentPrincipal(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Learning resources", res))
}

func (c *accessController) GetLearning(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.learningService.GetResource(ctx.UserContext(), serverutils.CurrentPrincipal(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Learning resource", res))
}

func (c *accessController) UpdateProgress(ctx *fiber.Ctx) error {
	id, err := uuidParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateProgressRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.learningService.UpdateProgress(ctx.UserContext(), serverutils.CurrentPrincipal(ctx), id, *req.Percent)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Progress updated", res))
}
