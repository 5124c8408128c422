package meta

import (
	"math"

	"github.com/ignite/adlens/internal/domain"
	"github.com/ignite/adlens/internal/metrics"
)

// Action types summed into each canonical counter. Anything else in the
// platform's action lists is ignored.
var (
	purchaseActions  = []string{"purchase", "onsite_conversion.purchase"}
	addToCartActions = []string{"add_to_cart", "onsite_conversion.add_to_cart"}
	checkoutActions  = []string{"initiate_checkout", "onsite_conversion.initiate_checkout"}
	viewActions      = []string{"view_content", "onsite_conversion.view_content", "landing_page_view"}
)

// actionLookup sums action values by type; duplicate types accumulate.
func actionLookup(actions []rawAction) map[string]float64 {
	out := make(map[string]float64, len(actions))
	for _, a := range actions {
		if a.ActionType == "" {
			continue
		}
		out[a.ActionType] += metrics.ParseNumber(string(a.Value))
	}
	return out
}

func sumOf(lookup map[string]float64, types []string) float64 {
	var total float64
	for _, t := range types {
		total += lookup[t]
	}
	return total
}

func toCount(v float64) int64 {
	if v <= 0 {
		return 0
	}
	return int64(math.Round(v))
}

// normalizeRow converts a raw Graph row into the canonical shape. Missing
// fields and action lists read as zero.
func normalizeRow(raw rawInsightRow) domain.InsightRow {
	actions := actionLookup(raw.Actions)
	values := actionLookup(raw.ActionValues)

	return domain.InsightRow{
		CampaignID:   raw.CampaignID,
		CampaignName: raw.CampaignName,
		AdsetID:      raw.AdsetID,
		AdsetName:    raw.AdsetName,
		AdID:         raw.AdID,
		AdName:       raw.AdName,
		DateStart:    raw.DateStart,
		DateStop:     raw.DateStop,

		Spend:       metrics.ParseNumber(string(raw.Spend)),
		Impressions: metrics.ParseCount(string(raw.Impressions)),
		Clicks:      metrics.ParseCount(string(raw.Clicks)),
		CTR:         metrics.ParseNumber(string(raw.CTR)),
		CPC:         metrics.ParseNumber(string(raw.CPC)),
		CPM:         metrics.ParseNumber(string(raw.CPM)),

		Purchases:         toCount(sumOf(actions, purchaseActions)),
		Revenue:           metrics.Finite(sumOf(values, purchaseActions)),
		AddToCarts:        toCount(sumOf(actions, addToCartActions)),
		InitiateCheckouts: toCount(sumOf(actions, checkoutActions)),
		ViewContent:       toCount(sumOf(actions, viewActions)),
	}
}

// Summarize sums every row into totals.
func Summarize(rows []domain.InsightRow) domain.InsightTotals {
	var t domain.InsightTotals
	for _, r := range rows {
		t.Add(r)
	}
	return t
}
