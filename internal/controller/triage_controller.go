package controller

import (
	"ai-triage-be/internal/dto"
	"ai-triage-be/internal/entity"
	"ai-triage-be/internal/pkg/serverutils"
	"ai-triage-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITriageController interface {
	RegisterRoutes(r fiber.Router)
	Submit(ctx *fiber.Ctx) error
	GetById(ctx *fiber.Ctx) error
	GetByCode(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	GetAnalyses(ctx *fiber.Ctx) error
	GetMessages(ctx *fiber.Ctx) error
	AddMessage(ctx *fiber.Ctx) error
}

type triageController struct {
	service service.ITriageService
}

func NewTriageController(service service.ITriageService) ITriageController {
	return &triageController{service: service}
}

func (c *triageController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/triage")
	h.Post("/", c.Submit)
	h.Get("/code/:code", c.GetByCode)

	staff := serverutils.RequireRole(
		string(entity.UserRoleNurse), string(entity.UserRoleDoctor), string(entity.UserRoleAdmin))
	h.Get("/", serverutils.JwtMiddleware, staff, c.List)
	h.Get("/:id", serverutils.JwtMiddleware, staff, c.GetById)
	h.Get("/:id/analyses", serverutils.JwtMiddleware, staff, c.GetAnalyses)
	h.Get("/:id/messages", serverutils.JwtMiddleware, staff, c.GetMessages)
	h.Post("/:id/message", serverutils.JwtMiddleware, staff, c.AddMessage)
}

func (c *triageController) Submit(ctx *fiber.Ctx) error {
	var req dto.IntakeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res, err := c.service.Submit(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Triage completed",
		"data":    res,
	})
}

func (c *triageController) GetById(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid triage id")
	}

	res, err := c.service.GetById(ctx.Context(), id)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"code":    404,
			"message": err.Error(),
		})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Triage fetched",
		"data":    res,
	})
}

func (c *triageController) GetByCode(ctx *fiber.Ctx) error {
	res, err := c.service.GetByCode(ctx.Context(), ctx.Params("code"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"code":    404,
			"message": err.Error(),
		})
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Triage fetched",
		"data":    res,
	})
}

func (c *triageController) List(ctx *fiber.Ctx) error {
	status := ctx.Query("status")
	riskLevel := ctx.Query("risk_level")
	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.service.List(ctx.Context(), status, riskLevel, limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Triage list fetched",
		"data":    res,
	})
}

func (c *triageController) GetMessages(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid triage id")
	}

	res, err := c.service.GetMessages(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Messages fetched",
		"data":    res,
	})
}

func (c *triageController) AddMessage(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid triage id")
	}

	var req dto.AddMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res, err := c.service.AddMessage(ctx.Context(), id, &req)
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
		"message": "Message added",
		"data":    res,
	})
}

func (c *triageController) GetAnalyses(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid triage id")
	}

	res, err := c.service.GetAnalyses(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Analyses fetched",
		"data":    res,
	})
}
