package web

import (
	"github.com/gofiber/fiber/v2"

	"github.com/simplyzetax/selva/internal/models"
)

const (
	slaBreachesPath = "/api/cases/sla-breaches"
	notifyPath      = "/api/wa/notify"
)

type notifyRequest struct {
	Simulate bool `json:"simulate"`
}

// ListBreaches renders the cases past their SLA
func (h *Handlers) ListBreaches(c *fiber.Ctx) error {
	list, err := fetchView[models.SLABreachList](c, h.client, slaBreachesPath)
	if err != nil {
		return err
	}
	return h.render(c, "sla/list", "SLA", fiber.Map{"Items": list.Items})
}

// Notify triggers a simulated WhatsApp notification run
func (h *Handlers) Notify(c *fiber.Ctx) error {
	return h.relayJSON(c, fiber.MethodPost, notifyPath, notifyRequest{Simulate: true})
}
