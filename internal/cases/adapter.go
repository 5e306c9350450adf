// Package cases holds the payload reshaping done before case requests reach the upstream API.
package cases

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/simplyzetax/selva/internal/models"
)

const (
	defaultCaseType  = "GOODS"
	defaultPartyID   = 1
	maxSKULength     = 60
	feeModeNone      = "NONE"
	titleSuffix      = "Selva"
	fallbackItemName = "item-%d"
)

// BuildCreateRequest translates a wizard draft into the backend's creation contract.
//
// When the draft carries an explicit meta object, meta and fee_override_json are
// forwarded unchanged. Otherwise meta is built from the legacy items/shipping
// fields and fee_mode NONE implies a zero fee override.
func BuildCreateRequest(draft models.CaseDraft) (models.CreateCaseRequest, error) {
	caseType := draft.CaseType
	if caseType == "" {
		caseType = defaultCaseType
	}

	req := models.CreateCaseRequest{
		CaseType:   caseType,
		CustomerID: draft.CustomerID.Or(defaultPartyID),
		ContactID:  draft.ContactID.Or(defaultPartyID),
		Title:      draft.Title,
	}

	if req.Title == "" {
		req.Title = defaultTitle(caseType, draft.Items)
	}

	if draft.HasMeta() {
		req.Meta = draft.Meta
		if draft.HasFeeOverride() {
			req.FeeOverride = draft.FeeOverride
		}
		return req, nil
	}

	meta, err := json.Marshal(legacyMeta(draft))
	if err != nil {
		return models.CreateCaseRequest{}, fmt.Errorf("failed to encode case meta: %w", err)
	}
	req.Meta = meta

	switch {
	case draft.HasFeeOverride():
		req.FeeOverride = draft.FeeOverride
	case draft.FeeMode == feeModeNone:
		fee, err := json.Marshal(models.FeeOverride{FeePct: 0, FeeFlat: 0})
		if err != nil {
			return models.CreateCaseRequest{}, fmt.Errorf("failed to encode fee override: %w", err)
		}
		req.FeeOverride = fee
	}

	return req, nil
}

func defaultTitle(caseType string, items []models.DraftItem) string {
	if len(items) > 0 {
		if desc := description(items[0]); desc != "" {
			return desc
		}
	}
	return caseType + " " + titleSuffix
}

func legacyMeta(draft models.CaseDraft) models.CaseMeta {
	meta := models.CaseMeta{Items: make([]models.MetaItem, 0, len(draft.Items))}

	for i, it := range draft.Items {
		index := i + 1
		meta.Items = append(meta.Items, models.MetaItem{
			SKU: SKU(description(it), index),
			Qty: it.Qty.Or(1),
			USD: itemUSD(it),
		})
	}

	if draft.Shipping != nil && draft.Shipping.Amount.Value > 0 {
		amount := draft.Shipping.Amount.Value
		meta.ShippingUSD = &amount
	}

	return meta
}

func itemUSD(it models.DraftItem) float64 {
	switch {
	case it.PriceUSD.Truthy():
		return it.PriceUSD.Value
	case it.CostUSD.Truthy():
		return it.CostUSD.Value
	default:
		return 0
	}
}

func description(it models.DraftItem) string {
	if it.Description == nil {
		return ""
	}
	return strings.TrimSpace(*it.Description)
}

// SKU derives a slug from an item description: lowercased, spaces and slashes
// turned into hyphens, double hyphens collapsed, at most 60 characters.
// index is 1-based and names the item when the description is empty.
func SKU(desc string, index int) string {
	fallback := fmt.Sprintf(fallbackItemName, index)

	desc = strings.TrimSpace(desc)
	if desc == "" {
		desc = fallback
	}

	sku := strings.ToLower(desc)
	sku = strings.ReplaceAll(sku, " ", "-")
	sku = strings.ReplaceAll(sku, "/", "-")
	sku = strings.ReplaceAll(sku, "--", "-")

	if runes := []rune(sku); len(runes) > maxSKULength {
		sku = string(runes[:maxSKULength])
	}

	if sku == "" {
		return fallback
	}
	return sku
}
