package web

import (
	"github.com/gofiber/fiber/v2"
)

// Dashboard renders the home summary. Upstream failures show up as empty sections.
func (h *Handlers) Dashboard(c *fiber.Ctx) error {
	view := h.aggregator.Build(c.UserContext(), token(c))
	return h.render(c, "dashboard/index", "Dashboard", fiber.Map{"View": view})
}
