package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"docqa-be/internal/pkg/apperr"
	"docqa-be/internal/pkg/logger"
)

// ErrorHandlerMiddleware translates errors escaping the controllers into
// the JSON envelope. AppErrors carry their own status; fiber errors keep
// theirs; anything else is a 500.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		if appErr, ok := apperr.From(err); ok {
			return ctx.Status(appErr.Status).JSON(ErrorResponse(appErr.Message))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		log.Error("Server", "Unhandled error", map[string]interface{}{
			"error": err.Error(),
			"path":  ctx.Path(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("internal server error"))
	}
}
