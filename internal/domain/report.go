package domain

import "time"

// ReportTypeAccountOverview is the only report type generated today.
const ReportTypeAccountOverview = "account_overview"

// ReportSummary is the headline metrics block of a snapshot.
type ReportSummary struct {
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Spend       float64 `json:"spend"`
	Revenue     float64 `json:"revenue"`
	Purchases   int64   `json:"purchases"`
	CTR         float64 `json:"ctr"`
	CPM         float64 `json:"cpm"`
	CPC         float64 `json:"cpc"`
	ROAS        float64 `json:"roas"`
	CPA         float64 `json:"cpa"`
}

// ProfitabilitySnapshot is the subset of the profile frozen into a report.
type ProfitabilitySnapshot struct {
	BreakEvenCPA float64 `json:"breakEvenCPA"`
	TargetCPA    float64 `json:"targetCPA"`
	TargetROAS   float64 `json:"targetROAS"`
	MinimumROAS  float64 `json:"minimumROAS"`
	IsProfitable bool    `json:"isProfitable"`
}

// ReportData is the data snapshot persisted with a report.
type ReportData struct {
	Summary         ReportSummary         `json:"summary"`
	Totals          InsightTotals         `json:"totals"`
	Funnel          FunnelModel           `json:"funnel"`
	ConversionRates ConversionRateSet     `json:"conversionRates"`
	Profitability   ProfitabilitySnapshot `json:"profitability"`
	Analysis        FunnelAnalysis        `json:"analysis"`
	Campaigns       []InsightRow          `json:"campaigns"`
	Adsets          []InsightRow          `json:"adsets"`
	Truncated       bool                  `json:"truncated"`
}

// CalculatedMetrics mirrors the headline derived values for quick listing.
type CalculatedMetrics struct {
	ConversionRates ConversionRateSet `json:"conversionRates"`
	ROAS            float64           `json:"roas"`
	CPA             float64           `json:"cpa"`
}

// ReportSnapshot is an immutable generated report. Regeneration always
// creates a new snapshot.
type ReportSnapshot struct {
	ID                string            `json:"id" db:"id"`
	AdAccountID       string            `json:"ad_account_id" db:"ad_account_id"`
	ReportType        string            `json:"report_type" db:"report_type"`
	DateRangeStart    string            `json:"date_range_start" db:"date_range_start"`
	DateRangeEnd      string            `json:"date_range_end" db:"date_range_end"`
	Data              ReportData        `json:"data" db:"data_snapshot"`
	CalculatedMetrics CalculatedMetrics `json:"calculated_metrics" db:"calculated_metrics"`
	Insights          []Insight         `json:"insights" db:"insights"`
	InsightSource     InsightSource     `json:"insight_source" db:"insight_source"`
	GenerationTimeMs  int64             `json:"generation_time_ms" db:"generation_time_ms"`
	CreatedAt         time.Time         `json:"created_at" db:"created_at"`
}

// PrimaryInsight returns the first primary insight, if any.
func (r *ReportSnapshot) PrimaryInsight() *Insight {
	for i := range r.Insights {
		if r.Insights[i].Type == InsightPrimary {
			return &r.Insights[i]
		}
	}
	return nil
}
