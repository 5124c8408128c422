package insights

import "github.com/ignite/adlens/internal/domain"

// AnalysisContext is everything insight generation may look at.
type AnalysisContext struct {
	Business          domain.BusinessContext
	AverageOrderValue float64
	ProfitMargin      float64
	DateRange         string
	Summary           domain.ReportSummary
	Funnel            domain.FunnelModel
	Rates             domain.ConversionRateSet
	Profitability     domain.ProfitabilitySnapshot
	WeakestStage      string
}

func (c AnalysisContext) industry() string {
	if c.Business.Industry == "" {
		return "general"
	}
	return c.Business.Industry
}
