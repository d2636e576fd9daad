package controller

import (
	"ai-triage-be/internal/dto"
	"ai-triage-be/internal/pkg/serverutils"
	"ai-triage-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// WebhookController receives inbound patient messages from the messaging
// gateway and relays the next dialogue step back.
type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	InboundMessage(ctx *fiber.Ctx) error
}

type webhookController struct {
	service service.IConversationService
}

func NewWebhookController(service service.IConversationService) IWebhookController {
	return &webhookController{service: service}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/webhook")
	h.Post("/message", c.InboundMessage)
}

func (c *webhookController) InboundMessage(ctx *fiber.Ctx) error {
	var req dto.InboundMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res, err := c.service.HandleInbound(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Message processed",
		"data":    res,
	})
}
