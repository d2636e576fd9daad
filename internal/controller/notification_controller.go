package controller

import (
	"ai-triage-be/internal/pkg/serverutils"
	"ai-triage-be/internal/service"
	ws "ai-triage-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type INotificationController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	MarkRead(ctx *fiber.Ctx) error
	MarkAllRead(ctx *fiber.Ctx) error
}

type notificationController struct {
	service service.INotificationService
	hub     *ws.Hub
}

func NewNotificationController(service service.INotificationService, hub *ws.Hub) INotificationController {
	return &notificationController{service: service, hub: hub}
}

func (c *notificationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notification")
	h.Get("/", serverutils.JwtMiddleware, c.List)
	h.Patch("/read-all", serverutils.JwtMiddleware, c.MarkAllRead)
	h.Patch("/:id/read", serverutils.JwtMiddleware, c.MarkRead)

	// Websocket upgrade carries the token as a query param since browsers
	// cannot set headers on the upgrade request.
	h.Get("/ws", serverutils.WsJwtMiddleware, websocket.New(func(conn *websocket.Conn) {
		raw, _ := conn.Locals("user_id").(string)
		userId, err := uuid.Parse(raw)
		if err != nil {
			conn.Close()
			return
		}
		ws.ServeWs(c.hub, conn, userId)
	}))
}

func (c *notificationController) List(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.service.List(ctx.Context(), userId, limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Notifications fetched",
		"data":    res,
	})
}

func (c *notificationController) MarkRead(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid notification id")
	}

	if err := c.service.MarkRead(ctx.Context(), userId, id); err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "Notification marked read",
		"data":    nil,
	})
}

func (c *notificationController) MarkAllRead(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	if err := c.service.MarkAllRead(ctx.Context(), userId); err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{
		"success": true,
		"code":    200,
		"message": "All notifications marked read",
		"data":    nil,
	})
}
