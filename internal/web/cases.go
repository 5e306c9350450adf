package web

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"

	"github.com/simplyzetax/selva/internal/cases"
	"github.com/simplyzetax/selva/internal/models"
	"github.com/simplyzetax/selva/internal/relay"
)

const (
	casesPath     = "/api/cases"
	casePath      = "/api/cases/%d"
	customersPath = "/api/customers"
	customerPath  = "/api/customers/%d"

	defaultAttachmentType = "application/octet-stream"
)

// ListCases renders the case list
func (h *Handlers) ListCases(c *fiber.Ctx) error {
	list, err := fetchView[models.CaseList](c, h.client, casesPath)
	if err != nil {
		return err
	}
	return h.render(c, "cases/list", "Casos", fiber.Map{"Items": list.Items})
}

// NewCase renders the creation wizard
func (h *Handlers) NewCase(c *fiber.Ctx) error {
	return h.render(c, "cases/create_wizard", "Nuevo caso", nil)
}

// CaseDetail renders a single case
func (h *Handlers) CaseDetail(c *fiber.Ctx) error {
	id, err := caseID(c)
	if err != nil {
		return err
	}

	item, err := fetchView[models.Case](c, h.client, fmt.Sprintf(casePath, id))
	if err != nil {
		return err
	}

	var meta *models.CaseMeta
	if len(item.Meta) > 0 {
		m := &models.CaseMeta{}
		if err := json.Unmarshal(item.Meta, m); err == nil {
			meta = m
		} else {
			log.Debugf("Case %d meta is not in the items shape: %v", id, err)
		}
	}

	return h.render(c, "cases/detail", "Caso "+item.Code, fiber.Map{"Case": item, "Meta": meta})
}

// UpdateCase relays a partial update
func (h *Handlers) UpdateCase(c *fiber.Ctx) error {
	return h.relayCaseCall(c, fiber.MethodPatch, "")
}

// DeleteCase relays a deletion
func (h *Handlers) DeleteCase(c *fiber.Ctx) error {
	return h.relayCaseCall(c, fiber.MethodDelete, "")
}

// TransitionCase relays a state transition request
func (h *Handlers) TransitionCase(c *fiber.Ctx) error {
	return h.relayCaseCall(c, fiber.MethodPost, "/transition")
}

// ListEvents relays the case timeline
func (h *Handlers) ListEvents(c *fiber.Ctx) error {
	return h.relayCaseCall(c, fiber.MethodGet, "/events")
}

// AddEvent relays a new timeline event
func (h *Handlers) AddEvent(c *fiber.Ctx) error {
	return h.relayCaseCall(c, fiber.MethodPost, "/events")
}

func (h *Handlers) relayCaseCall(c *fiber.Ctx, method, suffix string) error {
	id, err := caseID(c)
	if err != nil {
		return err
	}

	var body any
	if method != fiber.MethodGet && method != fiber.MethodDelete {
		raw, err := jsonBody(c)
		if err != nil {
			return err
		}
		body = raw
	}
	return h.relayJSON(c, method, fmt.Sprintf(casePath, id)+suffix, body)
}

// Quote routes the draft to the goods or remit quote. The kind field is stripped.
func (h *Handlers) Quote(c *fiber.Ctx) error {
	var req models.QuoteRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}

	path := cases.QuotePath(req.Kind)
	log.Debugf("Quote routed to %s", path)

	resp, err := h.client.Post(c.UserContext(), path, req, token(c))
	return relay.Send(c, relay.FromResponse(resp, err, relay.FallbackWrap))
}

// CreateCase adapts the wizard draft and creates the case upstream
func (h *Handlers) CreateCase(c *fiber.Ctx) error {
	var draft models.CaseDraft
	if err := decodeBody(c, &draft); err != nil {
		return err
	}

	req, err := cases.BuildCreateRequest(draft)
	if err != nil {
		return relay.Send(c, relay.Failure(fiber.StatusBadRequest, err.Error()))
	}

	resp, err := h.client.Post(c.UserContext(), casesPath, req, token(c))
	return relay.Send(c, relay.FromResponse(resp, err, relay.FallbackText))
}

// GetCustomer relays a customer lookup
func (h *Handlers) GetCustomer(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid customer id")
	}
	return h.relayJSON(c, fiber.MethodGet, fmt.Sprintf(customerPath, id), nil)
}

// CreateCustomer relays a new customer
func (h *Handlers) CreateCustomer(c *fiber.Ctx) error {
	body, err := jsonBody(c)
	if err != nil {
		return err
	}
	return h.relayJSON(c, fiber.MethodPost, customersPath, body)
}

// PresignAttachment issues a storage key and asks the upstream for an upload URL.
// The browser uploads to that URL itself and then calls CommitAttachment.
func (h *Handlers) PresignAttachment(c *fiber.Ctx) error {
	id, err := caseID(c)
	if err != nil {
		return err
	}

	var in models.PresignInput
	if err := decodeBody(c, &in); err != nil {
		return err
	}

	key, err := cases.AttachmentKey(id, in.Filename)
	if err != nil {
		return relay.Send(c, relay.Failure(fiber.StatusBadRequest, "filename requerido"))
	}

	contentType := strings.TrimSpace(in.ContentType)
	if contentType == "" {
		contentType = defaultAttachmentType
	}

	resp, err := h.client.Post(c.UserContext(), fmt.Sprintf(casePath, id)+"/attachments/presign", models.PresignRequest{
		Key:         key,
		Filename:    in.Filename,
		ContentType: contentType,
	}, token(c))
	if err != nil || !resp.OK() {
		return relay.Send(c, relay.FromResponse(resp, err, relay.FallbackWrap))
	}

	var reply models.PresignReply
	if err := resp.Decode(&reply); err != nil || reply.UploadURL == "" {
		log.Warnf("Presign for case %d returned no upload_url", id)
		return relay.Send(c, relay.Failure(fiber.StatusBadGateway, "El backend no devolvió upload_url"))
	}

	return relay.Send(c, relay.OK(fiber.StatusOK, models.PresignResponse{
		UploadURL: reply.UploadURL,
		FinalKey:  key,
	}))
}

// CommitAttachment registers an uploaded object against the case
func (h *Handlers) CommitAttachment(c *fiber.Ctx) error {
	id, err := caseID(c)
	if err != nil {
		return err
	}

	var req models.CommitRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	req.Key = strings.TrimSpace(req.Key)
	if req.Key == "" {
		return relay.Send(c, relay.Failure(fiber.StatusBadRequest, "key requerido"))
	}
	if !cases.OwnsKey(id, req.Key) {
		return relay.Send(c, relay.Failure(fiber.StatusBadRequest, "key no pertenece al caso"))
	}

	return h.relayJSON(c, fiber.MethodPost, fmt.Sprintf(casePath, id)+"/attachments/commit", req)
}

func caseID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid case id")
	}
	return int64(id), nil
}
