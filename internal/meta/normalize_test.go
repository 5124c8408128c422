package meta

import (
	"encoding/json"
	"testing"

	"github.com/ignite/adlens/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeRow(t *testing.T, body string) domain.InsightRow {
	t.Helper()
	var raw rawInsightRow
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return normalizeRow(raw)
}

func TestNormalizeRow_SumsPurchaseAliases(t *testing.T) {
	row := decodeRow(t, `{
		"actions": [
			{"action_type": "purchase", "value": "3"},
			{"action_type": "onsite_conversion.purchase", "value": "2"}
		]
	}`)

	assert.Equal(t, int64(5), row.Purchases)
}

func TestNormalizeRow_FullRow(t *testing.T) {
	row := decodeRow(t, `{
		"campaign_id": "120",
		"campaign_name": "Prospecting",
		"date_start": "2024-01-01",
		"date_stop": "2024-01-31",
		"spend": "250.75",
		"impressions": "10000",
		"inline_link_clicks": "150",
		"inline_link_click_ctr": "1.5",
		"cpc": "1.67",
		"cpm": 25.07,
		"actions": [
			{"action_type": "add_to_cart", "value": "10"},
			{"action_type": "onsite_conversion.add_to_cart", "value": "2"},
			{"action_type": "initiate_checkout", "value": "6"},
			{"action_type": "landing_page_view", "value": "120"},
			{"action_type": "view_content", "value": "20"},
			{"action_type": "link_click", "value": "180"},
			{"action_type": "purchase", "value": "4"},
			{"action_type": "purchase", "value": "1"}
		],
		"action_values": [
			{"action_type": "purchase", "value": "300.50"},
			{"action_type": "onsite_conversion.purchase", "value": "99.50"},
			{"action_type": "add_to_cart", "value": "900"}
		]
	}`)

	assert.Equal(t, "120", row.CampaignID)
	assert.Equal(t, "Prospecting", row.CampaignName)
	assert.Equal(t, "2024-01-31", row.DateStop)
	assert.InDelta(t, 250.75, row.Spend, 1e-9)
	assert.Equal(t, int64(10000), row.Impressions)
	assert.Equal(t, int64(150), row.Clicks)
	assert.InDelta(t, 25.07, row.CPM, 1e-9)
	assert.Equal(t, int64(12), row.AddToCarts)
	assert.Equal(t, int64(6), row.InitiateCheckouts)
	assert.Equal(t, int64(140), row.ViewContent)
	assert.Equal(t, int64(5), row.Purchases)
	assert.InDelta(t, 400.0, row.Revenue, 1e-9)
}

func TestNormalizeRow_MissingAndMalformed(t *testing.T) {
	row := decodeRow(t, `{"spend": "n/a", "impressions": null, "inline_link_clicks": "12"}`)

	assert.Equal(t, 0.0, row.Spend)
	assert.Equal(t, int64(0), row.Impressions)
	assert.Equal(t, int64(12), row.Clicks)
	assert.Equal(t, int64(0), row.Purchases)
	assert.Equal(t, 0.0, row.Revenue)
}

func TestSummarize(t *testing.T) {
	rows := []domain.InsightRow{
		{Spend: 10, Impressions: 100, Clicks: 5, Purchases: 1, Revenue: 40, AddToCarts: 2, InitiateCheckouts: 1, ViewContent: 4},
		{Spend: 15.5, Impressions: 200, Clicks: 7, Purchases: 2, Revenue: 60, AddToCarts: 3, InitiateCheckouts: 2, ViewContent: 6},
	}

	got := Summarize(rows)

	assert.InDelta(t, 25.5, got.Spend, 1e-9)
	assert.Equal(t, int64(300), got.Impressions)
	assert.Equal(t, int64(12), got.Clicks)
	assert.Equal(t, int64(3), got.Purchases)
	assert.InDelta(t, 100.0, got.Revenue, 1e-9)
	assert.Equal(t, int64(5), got.AddToCarts)
	assert.Equal(t, int64(3), got.InitiateCheckouts)
	assert.Equal(t, int64(10), got.ViewContent)
}
