package models

import (
	"errors"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Upstream entities are loosely typed: ids arrive as numbers or numeric
// strings, and embedded objects are sometimes plain strings. Each field is
// read on its own so one odd value never discards the rest of the entity.

var errInvalidJSON = errors.New("invalid JSON")

// UnmarshalJSON implements json.Unmarshaler
func (c *Case) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return errInvalidJSON
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return errors.New("case is not a JSON object")
	}
	*c = caseFrom(root)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler. Items that are not objects are skipped.
func (l *CaseList) UnmarshalJSON(data []byte) error {
	items, err := objectItems(data)
	if err != nil {
		return err
	}
	l.Items = make([]Case, 0, len(items))
	for _, it := range items {
		l.Items = append(l.Items, caseFrom(it))
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler. Items that are not objects are skipped.
func (l *SLABreachList) UnmarshalJSON(data []byte) error {
	items, err := objectItems(data)
	if err != nil {
		return err
	}
	l.Items = make([]SLABreach, 0, len(items))
	for _, it := range items {
		l.Items = append(l.Items, SLABreach{
			CaseID:   lenientInt(it.Get("case_id")),
			Code:     lenientString(it.Get("code")),
			CaseType: lenientString(it.Get("case_type")),
			State:    lenientString(it.Get("state")),
			Title:    lenientString(it.Get("title")),
			DueAt:    lenientString(it.Get("due_at")),
		})
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler
func (c *Customer) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return errInvalidJSON
	}
	root := gjson.ParseBytes(data)
	*c = Customer{
		ID:       lenientInt(root.Get("id")),
		Name:     lenientString(root.Get("name")),
		Customer: customerRef(root.Get("customer")),
	}
	return nil
}

func caseFrom(r gjson.Result) Case {
	c := Case{
		ID:             lenientInt(r.Get("id")),
		Code:           lenientString(r.Get("code")),
		CaseType:       lenientString(r.Get("case_type")),
		Type:           lenientString(r.Get("type")),
		State:          lenientString(r.Get("state")),
		Title:          lenientString(r.Get("title")),
		CustomerID:     lenientInt(r.Get("customer_id")),
		Customer:       customerRef(r.Get("customer")),
		CustomerNombre: lenientString(r.Get("customer_nombre")),
		CreatedAt:      lenientString(r.Get("created_at")),
		UpdatedAt:      lenientString(r.Get("updated_at")),
	}
	if meta := r.Get("meta"); meta.Exists() && meta.Type != gjson.Null {
		c.Meta = []byte(meta.Raw)
	}
	return c
}

// customerRef returns nil unless r is an object
func customerRef(r gjson.Result) *CustomerRef {
	if !r.IsObject() {
		return nil
	}
	return &CustomerRef{
		ID:   lenientInt(r.Get("id")),
		Name: lenientString(r.Get("name")),
	}
}

func objectItems(data []byte) ([]gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return nil, errInvalidJSON
	}
	items := gjson.GetBytes(data, "items")
	if !items.IsArray() {
		return nil, nil
	}

	var out []gjson.Result
	for _, it := range items.Array() {
		if it.IsObject() {
			out = append(out, it)
		}
	}
	return out, nil
}

// lenientInt reads numbers and numeric strings; anything else is 0
func lenientInt(r gjson.Result) int64 {
	switch r.Type {
	case gjson.Number:
		return int64(r.Num)
	case gjson.String:
		n, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return 0
		}
		return int64(n)
	default:
		return 0
	}
}

// lenientString reads strings and renders numbers; anything else is ""
func lenientString(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return r.Raw
	default:
		return ""
	}
}

// UnmarshalJSON implements json.Unmarshaler. ok is read by truthiness and an
// error that is neither a string nor a number is dropped.
func (r *ChatReply) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return errInvalidJSON
	}
	root := gjson.ParseBytes(data)
	*r = ChatReply{
		OK:            truthy(root.Get("ok")),
		Error:         lenientString(root.Get("error")),
		ReplyText:     rawField(root.Get("reply_text")),
		ReplyVoice:    rawField(root.Get("reply_voice")),
		AudioFilename: rawField(root.Get("audio_filename")),
		MediaURL:      rawField(root.Get("media_url")),
		Raw:           rawField(root.Get("raw")),
	}
	return nil
}

func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	case gjson.JSON:
		if r.IsArray() {
			return len(r.Array()) > 0
		}
		return len(r.Map()) > 0
	default:
		return false
	}
}

func rawField(r gjson.Result) []byte {
	if !r.Exists() {
		return nil
	}
	return []byte(r.Raw)
}
