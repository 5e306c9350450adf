// Package relay turns upstream answers into browser responses. Every route
// builds a Result and hands it to Send, so error shapes stay uniform.
package relay

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/simplyzetax/selva/internal/models"
	"github.com/simplyzetax/selva/internal/upstream"
)

// backendTextLimit bounds the raw upstream text echoed inside a wrapped error.
const backendTextLimit = 500

// Fallback decides what happens when the upstream answers with something that is not JSON
type Fallback int

const (
	// FallbackRaw relays the body as-is with the upstream content type
	FallbackRaw Fallback = iota
	// FallbackWrap synthesizes {ok:false, error, backend_status, backend_text}
	FallbackWrap
	// FallbackText relays the body as-is, defaulting the content type to text/plain
	FallbackText
)

// Result is the outcome of one proxied call. Exactly one of Data, Error or raw is set.
type Result struct {
	Status int
	Data   json.RawMessage
	Error  *models.ErrorBody

	raw         []byte
	contentType string
}

// OK builds a successful JSON result from any encodable value
func OK(status int, v any) Result {
	data, err := json.Marshal(v)
	if err != nil {
		return Failure(fiber.StatusInternalServerError, fmt.Sprintf("failed to encode response: %v", err))
	}
	return Result{Status: status, Data: data}
}

// Failure builds an error result with the given status
func Failure(status int, message string) Result {
	return Result{
		Status: status,
		Error:  &models.ErrorBody{OK: false, Error: message},
	}
}

// Unreachable builds the result for a call that never got an answer
func Unreachable(err error) Result {
	return Failure(fiber.StatusInternalServerError, err.Error())
}

// FromResponse converts an upstream call into a Result.
// A transport error becomes a 500 {ok:false}. A JSON body is relayed with the
// upstream status; anything else is handled according to fallback.
func FromResponse(resp *upstream.Response, err error, fallback Fallback) Result {
	if err != nil {
		return Unreachable(err)
	}

	if resp.IsJSON() {
		return Result{Status: resp.StatusCode, Data: resp.Body}
	}

	switch fallback {
	case FallbackText:
		r := Raw(resp)
		r.contentType = resp.ContentType(fiber.MIMETextPlain)
		return r
	case FallbackWrap:
		return Result{
			Status: resp.StatusCode,
			Error: &models.ErrorBody{
				OK:            false,
				Error:         fmt.Sprintf("Backend devolvió %d sin JSON", resp.StatusCode),
				BackendStatus: resp.StatusCode,
				BackendText:   resp.Text(backendTextLimit),
			},
		}
	default:
		return Raw(resp)
	}
}

// Raw relays the upstream body untouched, defaulting the content type to JSON
func Raw(resp *upstream.Response) Result {
	return Result{
		Status:      resp.StatusCode,
		raw:         resp.Body,
		contentType: resp.ContentType(fiber.MIMEApplicationJSON),
	}
}

// Send writes r to the browser
func Send(c *fiber.Ctx, r Result) error {
	status := r.Status
	if status == 0 {
		status = fiber.StatusInternalServerError
	}
	c.Status(status)

	switch {
	case r.Error != nil:
		return c.JSON(r.Error)
	case r.Data != nil:
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(r.Data)
	default:
		c.Set(fiber.HeaderContentType, r.contentType)
		return c.Send(r.raw)
	}
}
