package web

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/simplyzetax/selva/internal/models"
	"github.com/simplyzetax/selva/internal/relay"
)

const (
	chatPath = "/api/assistant/chat"

	usernameCookie  = "username"
	defaultUsername = "Usuario Web"
	defaultChannel  = "WEB_CHAT"
	chatFailed      = "Error en backend assistant/chat"
)

// ChatIndex renders the assistant chat page
func (h *Handlers) ChatIndex(c *fiber.Ctx) error {
	username := c.Cookies(usernameCookie)
	if username == "" {
		username = defaultUsername
	}
	return h.render(c, "chat/index", "Chat", fiber.Map{"Username": username})
}

// ChatSend forwards one message to the assistant. Once the backend answered
// with JSON the browser always gets a 200; failures travel in the ok flag.
func (h *Handlers) ChatSend(c *fiber.Ctx) error {
	var in models.ChatSend
	if err := decodeBody(c, &in); err != nil {
		return err
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return relay.Send(c, relay.Failure(fiber.StatusBadRequest, "Texto vacío"))
	}

	req := models.ChatRequest{
		Text:           text,
		Username:       orDefault(in.Username, defaultUsername),
		IdentityID:     in.IdentityID,
		IdentityRol:    in.IdentityRol,
		AttachmentsRaw: in.AttachmentsRaw,
		HasVoice:       false,
		Channel:        orDefault(in.Channel, defaultChannel),
	}
	req.ExternalID = orDefault(in.ExternalID, "WEB-"+req.Username)

	resp, err := h.client.Post(c.UserContext(), chatPath, req, token(c))
	if err != nil || !resp.IsJSON() {
		return relay.Send(c, relay.FromResponse(resp, err, relay.FallbackWrap))
	}

	var reply models.ChatReply
	if err := resp.Decode(&reply); err != nil || !reply.OK {
		body := &models.ErrorBody{
			OK:            false,
			Error:         orDefault(reply.Error, chatFailed),
			BackendStatus: resp.StatusCode,
		}
		if err == nil {
			body.BackendRaw = resp.Body
		} else {
			body.BackendText = resp.Text(200)
		}
		return relay.Send(c, relay.Result{Status: fiber.StatusOK, Error: body})
	}

	return relay.Send(c, relay.OK(fiber.StatusOK, models.ChatResult{
		OK:            true,
		ReplyText:     reply.ReplyText,
		ReplyVoice:    reply.ReplyVoice,
		AudioFilename: reply.AudioFilename,
		MediaURL:      reply.MediaURL,
		BackendStatus: resp.StatusCode,
		BackendRaw:    reply.Raw,
	}))
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
