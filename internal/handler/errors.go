package handler

import (
	"context"
	"errors"

	"go-ppm-dashboard/internal/service"
	"go-ppm-dashboard/internal/transfer"

	"github.com/gofiber/fiber/v2"
)

func errorStatus(err error) int {
	var verr *transfer.ValidationError
	switch {
	case errors.As(err, &verr):
		return 400
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrAltNodeNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrSuggestionNotFound),
		errors.Is(err, service.ErrPartNotFound):
		return 404
	case errors.Is(err, service.ErrProductExists):
		return 409
	case errors.Is(err, service.ErrSessionClosed):
		return 410
	case errors.Is(err, service.ErrProductIDRequired),
		errors.Is(err, service.ErrAltNodeDeprecated),
		errors.Is(err, transfer.ErrUnsupportedFormat):
		return 400
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return 503
	}
	return 500
}

// respondError writes {"error": msg}; import validation failures also carry
// the full list under "errors".
func respondError(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	var verr *transfer.ValidationError
	if errors.As(err, &verr) {
		return c.Status(status).JSON(fiber.Map{"error": "Import rejected", "errors": verr.Errors})
	}
	if status == 500 {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
