package web

import (
	"github.com/gofiber/fiber/v2"
)

const configAPIPrefix = "/api/config"

// configRoutes are relayed 1:1 to the same path under /api/config
var configRoutes = []struct {
	method string
	path   string
}{
	{fiber.MethodGet, "/sla"},
	{fiber.MethodPut, "/sla"},
	{fiber.MethodGet, "/notification-window"},
	{fiber.MethodPut, "/notification-window"},
	{fiber.MethodGet, "/flags"},
	{fiber.MethodPut, "/flags"},
	{fiber.MethodGet, "/pricing"},
	{fiber.MethodPut, "/pricing/:case_type"},
	{fiber.MethodGet, "/fx"},
	{fiber.MethodPost, "/fx"},
	{fiber.MethodDelete, "/fx/:fx_id"},
	{fiber.MethodGet, "/settings"},
	{fiber.MethodGet, "/settings/:key"},
	{fiber.MethodPut, "/settings/:key"},
	{fiber.MethodPut, "/settings-bulk"},
}

// ConfigIndex renders the configuration page; its script talks to /config/api
func (h *Handlers) ConfigIndex(c *fiber.Ctx) error {
	return h.render(c, "config/index", "Configuración", nil)
}

func (h *Handlers) registerConfigAPI(r fiber.Router) {
	for _, route := range configRoutes {
		r.Add(route.method, route.path, h.forwarder.To(configAPIPrefix+route.path))
	}
}
