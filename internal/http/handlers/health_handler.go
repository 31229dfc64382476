package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "estatehub/internal/log"
	"estatehub/internal/repos"
)

type HealthHandler struct {
	Repo repos.PropertyRepo
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if err := h.Repo.Ping(c.UserContext()); err != nil {
		applog.Error(c, "health.store.unreachable", err, nil)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false})
	}
	return c.JSON(fiber.Map{"ok": true})
}
