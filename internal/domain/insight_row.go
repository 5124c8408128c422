package domain

// InsightLevel is the aggregation level of an insights request.
type InsightLevel string

const (
	LevelAccount  InsightLevel = "account"
	LevelCampaign InsightLevel = "campaign"
	LevelAdset    InsightLevel = "adset"
	LevelAd       InsightLevel = "ad"
)

// Valid reports whether l is a supported level.
func (l InsightLevel) Valid() bool {
	switch l {
	case LevelAccount, LevelCampaign, LevelAdset, LevelAd:
		return true
	}
	return false
}

// InsightRow is one normalized row of platform metrics. Rows are built once
// per fetch and never mutated afterwards.
type InsightRow struct {
	CampaignID   string `json:"campaign_id,omitempty"`
	CampaignName string `json:"campaign_name,omitempty"`
	AdsetID      string `json:"adset_id,omitempty"`
	AdsetName    string `json:"adset_name,omitempty"`
	AdID         string `json:"ad_id,omitempty"`
	AdName       string `json:"ad_name,omitempty"`
	DateStart    string `json:"date_start,omitempty"`
	DateStop     string `json:"date_stop,omitempty"`

	Spend       float64 `json:"spend"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	CTR         float64 `json:"ctr"`
	CPC         float64 `json:"cpc"`
	CPM         float64 `json:"cpm"`

	Purchases         int64   `json:"purchases"`
	Revenue           float64 `json:"revenue"`
	AddToCarts        int64   `json:"addToCarts"`
	InitiateCheckouts int64   `json:"initiateCheckouts"`
	ViewContent       int64   `json:"viewContent"`
}

// InsightTotals is the per-field sum over a set of normalized rows.
type InsightTotals struct {
	Spend             float64 `json:"spend"`
	Impressions       int64   `json:"impressions"`
	Clicks            int64   `json:"clicks"`
	Purchases         int64   `json:"purchases"`
	Revenue           float64 `json:"revenue"`
	AddToCarts        int64   `json:"addToCarts"`
	InitiateCheckouts int64   `json:"initiateCheckouts"`
	ViewContent       int64   `json:"viewContent"`
}

// Add accumulates a row into the totals.
func (t *InsightTotals) Add(r InsightRow) {
	t.Spend += r.Spend
	t.Impressions += r.Impressions
	t.Clicks += r.Clicks
	t.Purchases += r.Purchases
	t.Revenue += r.Revenue
	t.AddToCarts += r.AddToCarts
	t.InitiateCheckouts += r.InitiateCheckouts
	t.ViewContent += r.ViewContent
}
