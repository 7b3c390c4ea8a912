// FILE: internal/controller/plan_controller.go
// Controller for the public catalog: plans and expert advisors
package controller

import (
	"ea-licensing-be/internal/pkg/serverutils"
	"ea-licensing-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PlanController interface {
	RegisterRoutes(api fiber.Router)
}

type planController struct {
	planService service.IPlanService
}

func NewPlanController(planService service.IPlanService) PlanController {
	return &planController{
		planService: planService,
	}
}

func (c *planController) RegisterRoutes(api fiber.Router) {
	api.Get("/plans", c.GetAllPlans)
	api.Get("/expert-advisors", c.GetExpertAdvisors)
}

// GetAllPlans returns the active plans ordered by price.
func (c *planController) GetAllPlans(ctx *fiber.Ctx) error {
	plans, err := c.planService.ListPlans(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Plans retrieved successfully", plans))
}

// GetExpertAdvisors returns the EA catalog with eligible plans and published files.
func (c *planController) GetExpertAdvisors(ctx *fiber.Ctx) error {
	eas, err := c.planService.ListExpertAdvisors(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Expert advisors retrieved successfully", eas))
}
