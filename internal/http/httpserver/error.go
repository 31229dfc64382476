package httpserver

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"estatehub/internal/apperr"
)

// ErrorHandler renders every failure as {"message": ...} with the matching status.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		e := log.Warn()
		if ae.Status >= fiber.StatusInternalServerError {
			e = log.Error().Stack()
		}
		e.Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", ae.Status).
			Msg(ae.Message)
		return c.Status(ae.Status).JSON(fiber.Map{"message": ae.Message})
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}

	log.Error().
		Stack().
		Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("Internal Server Error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": apperr.ErrInternal.Message})
}
