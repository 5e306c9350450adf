package models

import "encoding/json"

type (
	// QuoteRequest represents the body posted to /cases/quote. Kind selects the
	// upstream route and every other field is forwarded untouched.
	QuoteRequest struct {
		Kind   json.RawMessage
		Fields map[string]json.RawMessage
	}
)

// UnmarshalJSON implements json.Unmarshaler
func (q *QuoteRequest) UnmarshalJSON(data []byte) error {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	q.Kind = fields["kind"]
	delete(fields, "kind")
	q.Fields = fields
	return nil
}

// MarshalJSON encodes the forwarded body, which never carries kind
func (q QuoteRequest) MarshalJSON() ([]byte, error) {
	if q.Fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(q.Fields)
}
