package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"ai-triage-be/pkg/triage"
)

// ErrorHandlerMiddleware converts errors escaping the handlers into the
// shared JSON envelope, mapping the triage domain errors to their statuses.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, triage.ErrInvalidIntake):
			status = fiber.StatusBadRequest
		case errors.Is(err, triage.ErrSessionConflict):
			status = fiber.StatusConflict
		case errors.Is(err, triage.ErrSessionClosed):
			status = fiber.StatusGone
		default:
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
			}
		}

		return ctx.Status(status).JSON(fiber.Map{
			"success": false,
			"code":    status,
			"message": err.Error(),
		})
	}
}
