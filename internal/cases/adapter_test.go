package cases

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplyzetax/selva/internal/models"
)

func decodeDraft(t *testing.T, body string) models.CaseDraft {
	t.Helper()
	var d models.CaseDraft
	require.NoError(t, json.Unmarshal([]byte(body), &d))
	return d
}

func build(t *testing.T, body string) (models.CreateCaseRequest, map[string]any) {
	t.Helper()
	req, err := BuildCreateRequest(decodeDraft(t, body))
	require.NoError(t, err)

	encoded, err := json.Marshal(req)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(encoded, &out))
	return req, out
}

func TestExplicitMetaIsForwardedUnchanged(t *testing.T) {
	req, out := build(t, `{
		"case_type": "REMIT",
		"customer_id": 9,
		"contact_id": 4,
		"title": "Giro",
		"fee_mode": "NONE",
		"items": [{"description": "ignored"}],
		"meta": {"amount_usd": 1500, "beneficiary": {"name": "Ana"}},
		"fee_override_json": {"fee_pct": 2.5, "fee_flat": 10}
	}`)

	assert.JSONEq(t, `{"amount_usd": 1500, "beneficiary": {"name": "Ana"}}`, string(req.Meta))
	assert.JSONEq(t, `{"fee_pct": 2.5, "fee_flat": 10}`, string(req.FeeOverride))
	assert.Equal(t, "REMIT", req.CaseType)
	assert.Equal(t, 9.0, out["customer_id"])
	assert.Equal(t, 4.0, out["contact_id"])
	assert.Equal(t, "Giro", req.Title)
}

func TestExplicitMetaWithoutOverrideNeverSynthesizesOne(t *testing.T) {
	_, out := build(t, `{"meta": {"x": 1}, "fee_mode": "NONE"}`)

	_, ok := out["fee_override_json"]
	assert.False(t, ok)
	assert.Equal(t, map[string]any{"x": 1.0}, out["meta"])
}

func TestLegacyItemsAreMapped(t *testing.T) {
	_, out := build(t, `{"items": [{"description": "iPhone 15", "qty": 2, "price_usd": 900}]}`)

	meta := out["meta"].(map[string]any)
	assert.Equal(t, []any{
		map[string]any{"sku": "iphone-15", "qty": 2.0, "usd": 900.0},
	}, meta["items"])
	assert.Equal(t, "iPhone 15", out["title"])
}

func TestLegacyDefaults(t *testing.T) {
	req, out := build(t, `{"items": [{"description": "", "cost_usd": "45.5"}, {"description": null, "qty": "0", "price_usd": 0, "cost_usd": 0}]}`)

	assert.Equal(t, "GOODS", req.CaseType)
	assert.Equal(t, 1.0, out["customer_id"])
	assert.Equal(t, 1.0, out["contact_id"])
	assert.Equal(t, "GOODS Selva", req.Title)

	meta := out["meta"].(map[string]any)
	assert.Equal(t, []any{
		map[string]any{"sku": "item-1", "qty": 1.0, "usd": 45.5},
		map[string]any{"sku": "item-2", "qty": 1.0, "usd": 0.0},
	}, meta["items"])
}

func TestFalsyPartyIDsDefaultToOne(t *testing.T) {
	_, out := build(t, `{"customer_id": 0, "contact_id": null}`)

	assert.Equal(t, 1.0, out["customer_id"])
	assert.Equal(t, 1.0, out["contact_id"])
}

func TestPartyIDs(t *testing.T) {
	_, out := build(t, `{"customer_id": "17", "contact_id": "C-17"}`)

	assert.Equal(t, 17.0, out["customer_id"])
	assert.Equal(t, "C-17", out["contact_id"])

	_, out = build(t, `{"customer_id": "", "contact_id": false}`)

	assert.Equal(t, 1.0, out["customer_id"])
	assert.Equal(t, 1.0, out["contact_id"])
}

func TestTitleUsesCaseTypeWhenNoItems(t *testing.T) {
	req, out := build(t, `{"case_type": "REMIT"}`)

	assert.Equal(t, "REMIT Selva", req.Title)
	assert.Equal(t, map[string]any{"items": []any{}}, out["meta"])
}

func TestShippingOnlyWhenPositive(t *testing.T) {
	_, out := build(t, `{"items": [], "shipping": {"amount": 0}}`)
	meta := out["meta"].(map[string]any)
	_, ok := meta["shipping_usd"]
	assert.False(t, ok)

	_, out = build(t, `{"items": [], "shipping": {"amount": 80}}`)
	meta = out["meta"].(map[string]any)
	assert.Equal(t, 80.0, meta["shipping_usd"])
}

func TestFeeModeNoneAddsZeroOverride(t *testing.T) {
	_, out := build(t, `{"fee_mode": "NONE"}`)
	assert.Equal(t, map[string]any{"fee_pct": 0.0, "fee_flat": 0.0}, out["fee_override_json"])

	for _, mode := range []string{"STANDARD", "none", ""} {
		_, out = build(t, `{"fee_mode": "`+mode+`"}`)
		_, ok := out["fee_override_json"]
		assert.False(t, ok, "fee_mode %q", mode)
	}
}

func TestLegacyExplicitOverrideWins(t *testing.T) {
	req, _ := build(t, `{"fee_mode": "NONE", "fee_override_json": {"fee_pct": 3, "fee_flat": 0}}`)

	assert.JSONEq(t, `{"fee_pct": 3, "fee_flat": 0}`, string(req.FeeOverride))
}

func TestAdapterIsDeterministic(t *testing.T) {
	body := `{"items": [{"description": "Dron DJI / Mini 4", "qty": 1, "price_usd": 750}], "shipping": {"amount": 35}, "fee_mode": "NONE"}`
	first, err := BuildCreateRequest(decodeDraft(t, body))
	require.NoError(t, err)
	second, err := BuildCreateRequest(decodeDraft(t, body))
	require.NoError(t, err)

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	assert.Equal(t, string(a), string(b))
}

func TestSKU(t *testing.T) {
	tests := []struct {
		desc  string
		index int
		want  string
	}{
		{"iPhone 15", 1, "iphone-15"},
		{"Dron DJI / Mini 4", 1, "dron-dji--mini-4"},
		{"USB-C  cable", 3, "usb-c-cable"},
		{"", 2, "item-2"},
		{"   ", 4, "item-4"},
		{strings.Repeat("a", 70), 1, strings.Repeat("a", 60)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SKU(tt.desc, tt.index), tt.desc)
	}
}

func TestDraftRejectsNonNumericQty(t *testing.T) {
	var d models.CaseDraft
	err := json.Unmarshal([]byte(`{"items": [{"qty": "two"}]}`), &d)

	assert.Error(t, err)
}
