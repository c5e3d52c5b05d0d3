package serverutils

import (
	"errors"

	"document-search-be/internal/pkg/apperrors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts returned errors into the error payload
// contract: {"error": "..."} with the taxonomy's HTTP status.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := apperrors.StatusOf(err)
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
		}

		return ctx.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
}
