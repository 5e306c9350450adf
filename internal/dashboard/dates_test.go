package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDay(t *testing.T) {
	loc := time.FixedZone("PYT", -3*60*60)

	tests := []struct {
		src  string
		want string
	}{
		{"2025-11-06T12:34:56Z", "06/11/2025"},
		{"2025-11-06T01:00:00Z", "05/11/2025"},
		{"2025-11-06T01:00:00+00:00", "05/11/2025"},
		{"2025-11-06T01:00:00.123456+00:00", "05/11/2025"},
		{"2025-11-06T01:00:00-05:00", "06/11/2025"},
		{"2025-11-06 01:00:00", "05/11/2025"},
		{"2025-11-06T01:00:00.5", "05/11/2025"},
		{"2025-11-06", "05/11/2025"},
		{"yesterday", "yesterday"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDay(tt.src, loc), tt.src)
	}
}

func TestFormatLocal(t *testing.T) {
	loc := time.FixedZone("PYT", -3*60*60)

	assert.Equal(t, "-", FormatLocal("", loc))
	assert.Equal(t, "-", FormatLocal("  ", loc))
	assert.Equal(t, "2025-11-06 09:34", FormatLocal("2025-11-06T12:34:56Z", loc))
	assert.Equal(t, "2025-11-06 09:34", FormatLocal("2025-11-06 12:34:56", loc))
	assert.Equal(t, "garbage", FormatLocal("garbage", loc))
}

func TestParseTimestampKeepsOffset(t *testing.T) {
	ts, ok := ParseTimestamp("2025-11-06T12:00:00+02:00")

	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, 11, 6, 10, 0, 0, 0, time.UTC), ts.UTC())
}
