package cases

import (
	"encoding/json"
	"strings"
)

const (
	GoodsQuotePath = "/api/quotes/goods"
	RemitQuotePath = "/api/quotes/remit"

	defaultQuoteKind = "GOODS"
)

// QuotePath picks the upstream quote route for a raw kind value.
// A missing or null kind counts as GOODS; anything that is not GOODS
// (compared case-insensitively) goes to the remit quote.
func QuotePath(kind json.RawMessage) string {
	k := defaultQuoteKind
	if len(kind) > 0 && string(kind) != "null" {
		var s string
		if err := json.Unmarshal(kind, &s); err != nil {
			return RemitQuotePath
		}
		k = s
	}

	if strings.EqualFold(strings.TrimSpace(k), defaultQuoteKind) {
		return GoodsQuotePath
	}
	return RemitQuotePath
}
