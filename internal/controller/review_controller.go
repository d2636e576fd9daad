package controller

import (
	"ai-triage-be/internal/dto"
	"ai-triage-be/internal/entity"
	"ai-triage-be/internal/pkg/serverutils"
	"ai-triage-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IReviewController interface {
	RegisterRoutes(r fiber.Router)
	Queue(ctx *fiber.Ctx) error
	Review(ctx *fiber.Ctx) error
}

type reviewController struct {
	service service.IReviewService
}

func NewReviewController(service service.IReviewService) IReviewController {
	return &reviewController{service: service}
}

func (c *reviewController) RegisterRoutes(r fiber.Router) {
	staff := serverutils.RequireRole(
		string(entity.UserRoleNurse), string(entity.UserRoleDoctor))

	h := r.Group("/review", serverutils.JwtMiddleware, staff)
	h.Get("/queue", c.Queue)
	h.Post("/:id", c.Review)
}

func (c *reviewController) Queue(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.service.Queue(ctx.Context(), limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Review queue fetched",
		"data":    res,
	})
}

func (c *reviewController) Review(ctx *fiber.Ctx) error {
	triageId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid triage id")
	}

	reviewerId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.ReviewRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res, err := c.service.Review(ctx.Context(), triageId, reviewerId, &req)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"code":    400,
			"message": err.Error(),
		})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Review recorded",
		"data":    res,
	})
}
