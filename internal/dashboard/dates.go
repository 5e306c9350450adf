package dashboard

import (
	"strings"
	"time"
)

const (
	dayLayout      = "02/01/2006"
	dateTimeLayout = "2006-01-02 15:04"
)

// zonedLayouts carry their own offset; naiveLayouts are read as UTC.
var (
	zonedLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999Z07:00",
		"2006-01-02T15:04Z07:00",
	}
	naiveLayouts = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
		"2006-01-02",
	}
)

// ParseTimestamp reads the ISO-8601 variants the backend emits. Values without
// an offset are taken as UTC.
func ParseTimestamp(src string) (time.Time, bool) {
	src = strings.TrimSpace(src)
	if src == "" {
		return time.Time{}, false
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, src); err == nil {
			return t, true
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, src, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDay renders src as dd/mm/yyyy in loc. Unparsable input is returned as-is.
func FormatDay(src string, loc *time.Location) string {
	t, ok := ParseTimestamp(src)
	if !ok {
		return src
	}
	return t.In(loc).Format(dayLayout)
}

// FormatLocal renders src as "yyyy-mm-dd hh:mm" in loc, or "-" when src is empty.
func FormatLocal(src string, loc *time.Location) string {
	if strings.TrimSpace(src) == "" {
		return "-"
	}
	t, ok := ParseTimestamp(src)
	if !ok {
		return src
	}
	return t.In(loc).Format(dateTimeLayout)
}
