package serverutils

import (
	"errors"

	"sitebuilder-be/internal/builder/document"
	"sitebuilder-be/internal/builder/session"
	"sitebuilder-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ErrorHandlerMiddleware maps domain errors onto HTTP statuses so
// controllers can just return them. Structural errors are never fatal.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		switch {
		case errors.Is(err, document.ErrNotFound),
			errors.Is(err, document.ErrParentNotFound),
			errors.Is(err, service.ErrSessionNotFound),
			errors.Is(err, gorm.ErrRecordNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, document.ErrWouldCycle),
			errors.Is(err, document.ErrDuplicateID):
			return ctx.Status(fiber.StatusConflict).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, session.ErrClipboardEmpty):
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, service.ErrGenerationFailed):
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse(err.Error()))
		default:
			return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(err.Error()))
		}
	}
}
