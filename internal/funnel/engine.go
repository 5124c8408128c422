package funnel

import (
	"sort"
	"strings"

	"github.com/ignite/adlens/internal/domain"
	"github.com/ignite/adlens/internal/metrics"
)

const (
	// warningFactor is the fraction of the benchmark minimum still
	// classified as a warning rather than critical.
	warningFactor = 0.8

	weakestGapThreshold  = 10.0
	weakestCriticalGap   = 30.0
	weakestWarningGap    = 15.0
	healthExcellentTitle = "Funnel Health: Excellent"
)

// stageSpec binds a rate stage to its benchmark metric.
type stageSpec struct {
	name   string
	metric string
	value  func(domain.FunnelModel, domain.ConversionRateSet) float64
}

var rateStages = []stageSpec{
	{domain.StageCTR, MetricCTR, func(f domain.FunnelModel, _ domain.ConversionRateSet) float64 {
		return metrics.CTR(f.Clicks, f.Impressions)
	}},
	{domain.StageClickToATC, MetricClickToATC, func(_ domain.FunnelModel, r domain.ConversionRateSet) float64 {
		return r.ViewToATC
	}},
	{domain.StageATCToCheckout, MetricATCToCheckout, func(_ domain.FunnelModel, r domain.ConversionRateSet) float64 {
		return r.ATCToCheckout
	}},
	{domain.StageCheckoutToPurchase, MetricCheckoutToPurchase, func(_ domain.FunnelModel, r domain.ConversionRateSet) float64 {
		return r.CheckoutToPurchase
	}},
}

// Engine classifies funnels against a benchmark table.
type Engine struct {
	table *Table
}

// NewEngine creates an engine. A nil table uses DefaultTable.
func NewEngine(table *Table) *Engine {
	if table == nil {
		table = DefaultTable()
	}
	return &Engine{table: table}
}

// Table returns the engine's benchmark table.
func (e *Engine) Table() *Table {
	return e.table
}

// BuildFunnel maps totals onto the funnel. Page views fall back to clicks
// when the pixel reports no view events.
func BuildFunnel(t domain.InsightTotals) domain.FunnelModel {
	pageViews := t.ViewContent
	if pageViews <= 0 {
		pageViews = t.Clicks
	}
	return domain.FunnelModel{
		Impressions: t.Impressions,
		Clicks:      t.Clicks,
		PageViews:   pageViews,
		AddToCarts:  t.AddToCarts,
		Checkouts:   t.InitiateCheckouts,
		Purchases:   t.Purchases,
	}
}

// ConversionRates computes each stage over its predecessor.
func ConversionRates(f domain.FunnelModel) domain.ConversionRateSet {
	return domain.ConversionRateSet{
		ClickToView:        metrics.Rate(f.PageViews, f.Clicks),
		ViewToATC:          metrics.Rate(f.AddToCarts, f.PageViews),
		ATCToCheckout:      metrics.Rate(f.Checkouts, f.AddToCarts),
		CheckoutToPurchase: metrics.Rate(f.Purchases, f.Checkouts),
		Overall:            metrics.Rate(f.Purchases, f.Clicks),
	}
}

// Classify applies the good / warning / critical thresholds.
func Classify(value float64, b Benchmark) domain.StageStatus {
	switch {
	case b.Min <= 0 || value >= b.Min:
		return domain.StatusGood
	case value >= warningFactor*b.Min:
		return domain.StatusWarning
	default:
		return domain.StatusCritical
	}
}

// RelativeGap is (min - value) / min, 0 when min is not positive.
func RelativeGap(value float64, b Benchmark) float64 {
	if b.Min <= 0 {
		return 0
	}
	return metrics.Finite((b.Min - value) / b.Min)
}

// Analyze runs the full funnel analysis for an industry. Unknown or empty
// industries use the table's default industry.
func (e *Engine) Analyze(totals domain.InsightTotals, industry string) domain.FunnelAnalysis {
	industry = e.table.ResolveIndustry(industry)
	f := BuildFunnel(totals)
	rates := ConversionRates(f)

	analysis := domain.FunnelAnalysis{
		Funnel:          f,
		ConversionRates: rates,
		Stages:          []domain.StageResult{},
		Opportunities:   []domain.Opportunity{},
		Industry:        industry,
		BenchmarkSet:    e.table.Version,
	}

	statuses := make(map[string]domain.StageStatus, len(rateStages))
	for _, spec := range rateStages {
		b, ok := e.table.Lookup(industry, spec.metric)
		if !ok {
			continue
		}
		value := spec.value(f, rates)
		status := Classify(value, b)
		statuses[spec.name] = status
		analysis.Stages = append(analysis.Stages, domain.StageResult{
			Stage:        spec.name,
			Metric:       spec.metric,
			Value:        value,
			BenchmarkMin: b.Min,
			BenchmarkMax: b.Max,
			Comparison:   string(b.Compare(value)),
			Status:       status,
			Color:        status.Color(),
		})
	}

	for _, st := range analysis.Stages {
		if st.Status == domain.StatusGood {
			continue
		}
		b := Benchmark{Min: st.BenchmarkMin, Max: st.BenchmarkMax}
		analysis.Opportunities = append(analysis.Opportunities, domain.Opportunity{
			Stage:           st.Stage,
			Severity:        st.Status,
			Value:           st.Value,
			BenchmarkMin:    st.BenchmarkMin,
			BenchmarkMax:    st.BenchmarkMax,
			RelativeGap:     RelativeGap(st.Value, b),
			Context:         contextNote(st.Stage, statuses),
			Recommendations: Recommendations(st.Stage, industry),
		})
	}

	sort.SliceStable(analysis.Opportunities, func(i, j int) bool {
		a, b := analysis.Opportunities[i], analysis.Opportunities[j]
		if a.Severity != b.Severity {
			return a.Severity.Rank() < b.Severity.Rank()
		}
		return a.RelativeGap > b.RelativeGap
	})

	if len(analysis.Opportunities) == 0 {
		analysis.Health = &domain.FunnelHealth{
			Status:  "excellent",
			Title:   healthExcellentTitle,
			Message: "All conversion stages are meeting or exceeding industry benchmarks.",
		}
	}
	analysis.Summary = summaryText(analysis.Stages)
	analysis.WeakestStage = e.weakestStep(f, industry)

	return analysis
}

// contextNote explains an opportunity when a neighbouring stage is healthy.
func contextNote(stage string, statuses map[string]domain.StageStatus) string {
	good := func(name string) bool { return statuses[name] == domain.StatusGood }

	switch stage {
	case domain.StageClickToATC:
		if good(domain.StageCTR) {
			return "Your ads are driving traffic at an above-average rate. The issue is on your website - focus on product pages and landing experience."
		}
	case domain.StageATCToCheckout:
		if good(domain.StageClickToATC) {
			return "Customers are interested in your products (good ATC rate), but something is preventing them from starting checkout."
		}
	case domain.StageCheckoutToPurchase:
		if good(domain.StageATCToCheckout) {
			return "Shoppers are making it to checkout, but abandoning before completing. This is often the easiest win - small friction points have big impact here."
		}
	case domain.StageCTR:
		if good(domain.StageClickToATC) || good(domain.StageATCToCheckout) || good(domain.StageCheckoutToPurchase) {
			return "While your site converts well, your ads need attention to drive more qualified traffic."
		}
		return "Your ads aren't resonating with your target audience. Fresh creative and better targeting can dramatically improve results."
	}
	return ""
}

var goodAreaLabels = map[string]string{
	domain.StageCTR:                "ad engagement",
	domain.StageClickToATC:         "product interest",
	domain.StageATCToCheckout:      "cart conversion",
	domain.StageCheckoutToPurchase: "checkout completion",
}

// summaryText is the one-paragraph performance snapshot.
func summaryText(stages []domain.StageResult) string {
	var goodAreas []string
	critical := 0
	for _, st := range stages {
		switch st.Status {
		case domain.StatusGood:
			goodAreas = append(goodAreas, goodAreaLabels[st.Stage])
		case domain.StatusCritical:
			critical++
		}
	}

	switch {
	case len(stages) > 0 && len(goodAreas) == len(stages):
		return "Excellent performance across all funnel stages! Your campaigns are converting efficiently from impression to purchase. Continue monitoring and testing to maintain these results."
	case len(goodAreas) >= 2:
		return "Strong " + strings.Join(goodAreas, " and ") +
			" are working in your favor. Focus optimization efforts on the highlighted stages below to unlock additional revenue from your existing traffic."
	case critical > 0:
		return "Your funnel has significant optimization opportunities. The critical stages highlighted below represent the biggest wins - small improvements here will have outsized impact on your bottom line."
	default:
		return "Your funnel shows room for improvement across multiple stages. Prioritize the recommendations below, starting with stages furthest below benchmark for the fastest ROI."
	}
}

// weakestStep finds the named funnel step furthest below its benchmark
// average. Steps within 10% of average are not reported. Steps without a
// benchmark row are skipped; the built-in table has no click_to_view row, so
// Clicks → Page Views only competes when a custom table supplies one.
func (e *Engine) weakestStep(f domain.FunnelModel, industry string) *domain.WeakestStage {
	steps := []struct {
		name   string
		metric string
		rate   float64
	}{
		{StepImpressionsToClicks, MetricCTR, metrics.Rate(f.Clicks, f.Impressions)},
		{StepClicksToPageViews, MetricClickToView, metrics.Rate(f.PageViews, f.Clicks)},
		{StepPageViewsToCart, MetricClickToATC, metrics.Rate(f.AddToCarts, f.PageViews)},
		{StepCartToCheckout, MetricATCToCheckout, metrics.Rate(f.Checkouts, f.AddToCarts)},
		{StepCheckoutToPurchase, MetricCheckoutToPurchase, metrics.Rate(f.Purchases, f.Checkouts)},
	}

	var best *domain.WeakestStage
	for _, s := range steps {
		b, ok := e.table.Lookup(industry, s.metric)
		if !ok || b.Avg <= 0 {
			continue
		}
		gap := metrics.Finite((b.Avg - s.rate) / b.Avg * 100)
		if best == nil || gap > best.Gap {
			severity := "ok"
			switch {
			case gap > weakestCriticalGap:
				severity = "critical"
			case gap > weakestWarningGap:
				severity = "warning"
			}
			best = &domain.WeakestStage{Stage: s.name, Gap: gap, Severity: severity}
		}
	}
	if best == nil || best.Gap <= weakestGapThreshold {
		return nil
	}
	best.Recommendations = StepRecommendations(best.Stage)
	return best
}
