package models

import "encoding/json"

type (
	// DraftItem is one line of the legacy wizard's item table
	DraftItem struct {
		Description *string   `json:"description,omitempty"`
		Qty         FlexInt   `json:"qty"`
		PriceUSD    FlexFloat `json:"price_usd"`
		CostUSD     FlexFloat `json:"cost_usd"`
	}

	// DraftShipping is the wizard's shipping toggle
	DraftShipping struct {
		Amount FlexFloat `json:"amount"`
	}

	// CaseDraft represents the body the case wizard posts to /cases/create.
	// Meta and FeeOverride are kept raw so an explicit caller payload is
	// forwarded byte for byte.
	CaseDraft struct {
		CaseType    string          `json:"case_type,omitempty"`
		CustomerID  PartyID         `json:"customer_id"`
		ContactID   PartyID         `json:"contact_id"`
		Title       string          `json:"title,omitempty"`
		Items       []DraftItem     `json:"items,omitempty"`
		Shipping    *DraftShipping  `json:"shipping,omitempty"`
		FeeMode     string          `json:"fee_mode,omitempty"`
		Meta        json.RawMessage `json:"meta,omitempty"`
		FeeOverride json.RawMessage `json:"fee_override_json,omitempty"`
	}

	// MetaItem is the backend's canonical line item
	MetaItem struct {
		SKU string  `json:"sku"`
		Qty int64   `json:"qty"`
		USD float64 `json:"usd"`
	}

	// CaseMeta is the meta object built from a legacy draft
	CaseMeta struct {
		Items       []MetaItem `json:"items"`
		ShippingUSD *float64   `json:"shipping_usd,omitempty"`
	}

	// FeeOverride is the backend's fee override object
	FeeOverride struct {
		FeePct  float64 `json:"fee_pct"`
		FeeFlat float64 `json:"fee_flat"`
	}

	// CreateCaseRequest represents the body of the upstream POST /api/cases
	CreateCaseRequest struct {
		CaseType    string          `json:"case_type"`
		CustomerID  PartyID         `json:"customer_id"`
		ContactID   PartyID         `json:"contact_id"`
		Title       string          `json:"title"`
		Meta        json.RawMessage `json:"meta"`
		FeeOverride json.RawMessage `json:"fee_override_json,omitempty"`
	}
)

// HasMeta reports whether the caller supplied an explicit meta object
func (d CaseDraft) HasMeta() bool {
	return len(d.Meta) > 0 && string(d.Meta) != "null"
}

// HasFeeOverride reports whether the caller supplied an explicit fee override
func (d CaseDraft) HasFeeOverride() bool {
	return len(d.FeeOverride) > 0 && string(d.FeeOverride) != "null"
}
