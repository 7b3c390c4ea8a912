package serverutils

import (
	"errors"

	"ea-licensing-be/internal/pkg/apperror"
	"ea-licensing-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps the error taxonomy onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperror.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, apperror.ErrForbidden), errors.Is(err, apperror.ErrEligibilityDenied):
		return fiber.StatusForbidden
	case errors.Is(err, apperror.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, apperror.ErrConflict), errors.Is(err, apperror.ErrInvalidState):
		return fiber.StatusConflict
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := StatusFor(err)
		message := err.Error()
		if status == fiber.StatusInternalServerError {
			if log != nil {
				log.Error("HTTP", "Unhandled error", map[string]interface{}{
					"error":  err.Error(),
					"method": ctx.Method(),
					"path":   ctx.Path(),
				})
			}
			message = "internal server error"
		}
		return ctx.Status(status).JSON(ErrorResponse(status, message))
	}
}
