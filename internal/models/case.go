package models

import "encoding/json"

type (
	// CustomerRef is the customer object some case payloads embed
	CustomerRef struct {
		ID   int64  `json:"id,omitempty"`
		Name string `json:"name"`
	}

	// Case represents an item of the upstream GET /api/cases response
	// It does not represent the full response, just what the views use.
	// Decoding is lenient, see lenient.go
	Case struct {
		ID             int64           `json:"id"`
		Code           string          `json:"code,omitempty"`
		CaseType       string          `json:"case_type,omitempty"`
		Type           string          `json:"type,omitempty"`
		State          string          `json:"state,omitempty"`
		Title          string          `json:"title,omitempty"`
		CustomerID     int64           `json:"customer_id,omitempty"`
		Customer       *CustomerRef    `json:"customer,omitempty"`
		CustomerNombre string          `json:"customer_nombre,omitempty"`
		Meta           json.RawMessage `json:"meta,omitempty"`
		CreatedAt      string          `json:"created_at,omitempty"`
		UpdatedAt      string          `json:"updated_at,omitempty"`
	}

	// CaseList represents the upstream GET /api/cases response
	CaseList struct {
		Items []Case `json:"items"`
	}

	// SLABreach represents an item of GET /api/cases/sla-breaches
	SLABreach struct {
		CaseID   int64  `json:"case_id,omitempty"`
		Code     string `json:"code,omitempty"`
		CaseType string `json:"case_type,omitempty"`
		State    string `json:"state,omitempty"`
		Title    string `json:"title,omitempty"`
		DueAt    string `json:"due_at,omitempty"`
	}

	// SLABreachList represents the upstream GET /api/cases/sla-breaches response
	SLABreachList struct {
		Items []SLABreach `json:"items"`
	}

	// Customer represents the upstream GET /api/customers/{id} response
	// The backend answers either flat or wrapped in a "customer" key
	Customer struct {
		ID       int64        `json:"id,omitempty"`
		Name     string       `json:"name,omitempty"`
		Customer *CustomerRef `json:"customer,omitempty"`
	}
)

// DisplayName returns the customer name from whichever shape the backend used
func (c Customer) DisplayName() string {
	if c.Customer != nil && c.Customer.Name != "" {
		return c.Customer.Name
	}
	return c.Name
}
