// Package web holds the browser-facing routes. Views render HTML from upstream
// reads; action endpoints relay JSON to the upstream API.
package web

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/simplyzetax/selva/internal/dashboard"
	"github.com/simplyzetax/selva/internal/models"
	"github.com/simplyzetax/selva/internal/proxy"
	"github.com/simplyzetax/selva/internal/relay"
	"github.com/simplyzetax/selva/internal/upstream"
	"github.com/simplyzetax/selva/internal/views"
)

// Handlers serves every browser route
type Handlers struct {
	client     *upstream.Client
	forwarder  *proxy.Forwarder
	aggregator *dashboard.Aggregator
	info       models.Info
}

// New wires the handlers to their collaborators
func New(client *upstream.Client, forwarder *proxy.Forwarder, aggregator *dashboard.Aggregator, info models.Info) *Handlers {
	return &Handlers{
		client:     client,
		forwarder:  forwarder,
		aggregator: aggregator,
		info:       info,
	}
}

// Register mounts all routes on r
func (h *Handlers) Register(r fiber.Router) {
	r.Get("/", h.Dashboard)
	r.Get("/info", h.Info)

	c := r.Group("/cases")
	c.Get("/", h.ListCases)
	c.Get("/new", h.NewCase)
	c.Post("/quote", h.Quote)
	c.Post("/create", h.CreateCase)
	c.Get("/customers/:id<int>", h.GetCustomer)
	c.Post("/customers", h.CreateCustomer)
	c.Get("/:id<int>", h.CaseDetail)
	c.Patch("/:id<int>", h.UpdateCase)
	c.Delete("/:id<int>", h.DeleteCase)
	c.Post("/:id<int>/transition", h.TransitionCase)
	c.Get("/:id<int>/events", h.ListEvents)
	c.Post("/:id<int>/event", h.AddEvent)
	c.Post("/:id<int>/attachments/presign", h.PresignAttachment)
	c.Post("/:id<int>/attachments/commit", h.CommitAttachment)

	s := r.Group("/sla")
	s.Get("/", h.ListBreaches)
	s.Post("/notify", h.Notify)

	cfg := r.Group("/config")
	cfg.Get("/", h.ConfigIndex)
	h.registerConfigAPI(cfg.Group("/api"))

	ch := r.Group("/chat")
	ch.Get("/", h.ChatIndex)
	ch.Post("/api/send", h.ChatSend)
}

// Info returns the application name and version
func (h *Handlers) Info(c *fiber.Ctx) error {
	return c.JSON(h.info)
}

func token(c *fiber.Ctx) string {
	return c.Cookies(proxy.TokenCookie)
}

func (h *Handlers) render(c *fiber.Ctx, name, title string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["Title"] = title
	data["AppName"] = h.info.Name
	data["Version"] = h.info.Version
	return c.Render(name, data, views.Layout)
}

// relayJSON performs one upstream call and sends its answer back unchanged
func (h *Handlers) relayJSON(c *fiber.Ctx, method, path string, body any) error {
	resp, err := h.client.Do(c.UserContext(), method, path, body, token(c))
	return relay.Send(c, relay.FromResponse(resp, err, relay.FallbackRaw))
}

// jsonBody returns the request body, rejecting anything that is not JSON.
// An empty body is returned as nil.
func jsonBody(c *fiber.Ctx) (json.RawMessage, error) {
	body := c.Body()
	if len(body) == 0 {
		return nil, nil
	}
	if !json.Valid(body) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}
	return json.RawMessage(body), nil
}

// decodeBody unmarshals the request body into v. An empty body leaves v untouched.
func decodeBody(c *fiber.Ctx, v any) error {
	body := c.Body()
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}
	return nil
}

// fetchView reads path for an HTML view. Unlike the JSON relays, a failed read
// aborts with a fiber error that the error handler renders as a page.
func fetchView[T any](c *fiber.Ctx, client *upstream.Client, path string) (T, error) {
	var out T
	resp, err := client.Get(c.UserContext(), path, token(c))
	if err != nil {
		return out, fiber.NewError(fiber.StatusBadGateway, "No se pudo contactar al backend")
	}
	if !resp.OK() {
		if msg := resp.Text(200); msg != "" {
			return out, fiber.NewError(resp.StatusCode, msg)
		}
		return out, fiber.NewError(resp.StatusCode)
	}
	if err := resp.Decode(&out); err != nil {
		return out, fiber.NewError(fiber.StatusBadGateway, "Respuesta inválida del backend")
	}
	return out, nil
}
