package upstream

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is a fully read upstream answer
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status code is 2xx
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// ContentType returns the upstream content type, or def when none was sent
func (r *Response) ContentType(def string) string {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return def
}

// IsJSON reports whether the body parses as a JSON document, whatever the content type claims
func (r *Response) IsJSON() bool {
	return len(r.Body) > 0 && json.Valid(r.Body)
}

// Decode unmarshals the body into v
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode upstream response (status %d): %w", r.StatusCode, err)
	}
	return nil
}

// Text returns at most limit characters of the body as a string
func (r *Response) Text(limit int) string {
	s := string(r.Body)
	if limit <= 0 || len(s) <= limit {
		return s
	}
	if runes := []rune(s); len(runes) > limit {
		return string(runes[:limit])
	}
	return s
}
