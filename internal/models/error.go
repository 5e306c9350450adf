package models

import "encoding/json"

type (
	// ErrorBody represents any erroneous response sent to the browser
	ErrorBody struct {
		OK            bool            `json:"ok"`
		Error         string          `json:"error"`
		BackendStatus int             `json:"backend_status,omitempty"`
		BackendText   string          `json:"backend_text,omitempty"`
		BackendRaw    json.RawMessage `json:"backend_raw,omitempty"`
	}
)
