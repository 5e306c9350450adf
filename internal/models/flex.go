package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FlexInt is an optional integer that accepts JSON numbers, numeric strings and null.
// Browsers post form values as strings, so "2" and 2 decode the same way.
type FlexInt struct {
	Value int64
	Set   bool
}

// NewFlexInt returns a FlexInt holding v
func NewFlexInt(v int64) FlexInt {
	return FlexInt{Value: v, Set: true}
}

// Or returns the value, or def when the field is missing or zero
func (f FlexInt) Or(def int64) int64 {
	if !f.Set || f.Value == 0 {
		return def
	}
	return f.Value
}

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	n, ok, err := parseFlexNumber(data)
	if err != nil {
		return err
	}
	if !ok {
		*f = FlexInt{}
		return nil
	}
	*f = FlexInt{Value: int64(math.Trunc(n)), Set: true}
	return nil
}

// MarshalJSON implements json.Marshaler
func (f FlexInt) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(f.Value, 10)), nil
}

// FlexFloat is an optional float with the same decoding rules as FlexInt.
type FlexFloat struct {
	Value float64
	Set   bool
}

// NewFlexFloat returns a FlexFloat holding v
func NewFlexFloat(v float64) FlexFloat {
	return FlexFloat{Value: v, Set: true}
}

// Truthy reports whether the field is present and non-zero
func (f FlexFloat) Truthy() bool {
	return f.Set && f.Value != 0
}

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	n, ok, err := parseFlexNumber(data)
	if err != nil {
		return err
	}
	if !ok {
		*f = FlexFloat{}
		return nil
	}
	*f = FlexFloat{Value: n, Set: true}
	return nil
}

// MarshalJSON implements json.Marshaler
func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// parseFlexNumber returns ok=false for null, false and empty strings.
func parseFlexNumber(data []byte) (float64, bool, error) {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "null", "false", `""`:
		return 0, false, nil
	case "true":
		return 1, true, nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, false, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false, nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false, fmt.Errorf("invalid number %q", s)
		}
		return n, true, nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return 0, false, fmt.Errorf("invalid number %s", data)
	}
	return n, true, nil
}

// PartyID references a customer or contact. Numbers and numeric strings are
// sent upstream as numbers; any other non-empty value is forwarded verbatim.
type PartyID struct {
	FlexInt
	verbatim json.RawMessage
}

// NewPartyID returns a numeric PartyID
func NewPartyID(v int64) PartyID {
	return PartyID{FlexInt: NewFlexInt(v)}
}

// Or returns p, or the numeric def when p is missing or zero
func (p PartyID) Or(def int64) PartyID {
	if len(p.verbatim) > 0 || (p.Set && p.Value != 0) {
		return p
	}
	return NewPartyID(def)
}

// UnmarshalJSON implements json.Unmarshaler
func (p *PartyID) UnmarshalJSON(data []byte) error {
	var n FlexInt
	if err := n.UnmarshalJSON(data); err == nil {
		*p = PartyID{FlexInt: n}
		return nil
	}
	*p = PartyID{verbatim: append(json.RawMessage(nil), data...)}
	return nil
}

// MarshalJSON implements json.Marshaler
func (p PartyID) MarshalJSON() ([]byte, error) {
	if len(p.verbatim) > 0 {
		return p.verbatim, nil
	}
	return p.FlexInt.MarshalJSON()
}
