package funnel

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/ignite/adlens/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioTotals(purchases int64) domain.InsightTotals {
	return domain.InsightTotals{
		Impressions:       10000,
		Clicks:            150,
		AddToCarts:        12,
		InitiateCheckouts: 6,
		Purchases:         purchases,
	}
}

func TestAnalyze_HealthyFunnel(t *testing.T) {
	a := NewEngine(nil).Analyze(scenarioTotals(4), "")

	assert.Equal(t, domain.IndustryGeneral, a.Industry)
	require.Len(t, a.Stages, 4)
	for _, st := range a.Stages {
		assert.Equal(t, domain.StatusGood, st.Status, st.Stage)
	}
	assert.Equal(t, 1.5, a.Stages[0].Value)
	assert.Equal(t, 8.0, a.Stages[1].Value)

	assert.Empty(t, a.Opportunities)
	require.NotNil(t, a.Health)
	assert.Equal(t, "Funnel Health: Excellent", a.Health.Title)
	assert.Contains(t, a.Summary, "Excellent performance across all funnel stages!")
}

func TestAnalyze_CheckoutDropOff(t *testing.T) {
	a := NewEngine(nil).Analyze(scenarioTotals(1), domain.IndustryGeneral)

	require.Len(t, a.Opportunities, 1)
	opp := a.Opportunities[0]
	assert.Equal(t, domain.StageCheckoutToPurchase, opp.Stage)
	assert.Equal(t, domain.StatusCritical, opp.Severity)
	assert.InDelta(t, (60-100.0/6)/60, opp.RelativeGap, 1e-9)
	assert.InDelta(t, 0.72, opp.RelativeGap, 0.01)
	assert.Len(t, opp.Recommendations, 5)
	assert.Contains(t, opp.Context, "Shoppers are making it to checkout")
	assert.Nil(t, a.Health)
	assert.Contains(t, a.Summary, "Strong ad engagement and product interest and cart conversion are working in your favor.")
}

func TestAnalyze_OrderingBySeverityThenGap(t *testing.T) {
	totals := domain.InsightTotals{
		Impressions:       10000,
		Clicks:            130, // 1.3% ctr: warning (>= 1.2)
		AddToCarts:        5,   // 3.8% view->atc: critical, gap 0.52
		InitiateCheckouts: 2,   // 40% atc->checkout: warning, gap 0.11
		Purchases:         1,   // 50% checkout->purchase: warning, gap 0.17
	}

	a := NewEngine(nil).Analyze(totals, domain.IndustryGeneral)

	require.Len(t, a.Opportunities, 4)
	assert.Equal(t, domain.StageClickToATC, a.Opportunities[0].Stage)
	assert.Equal(t, domain.StatusCritical, a.Opportunities[0].Severity)
	assert.Equal(t, domain.StageCheckoutToPurchase, a.Opportunities[1].Stage)
	assert.Equal(t, domain.StageCTR, a.Opportunities[2].Stage)
	assert.Equal(t, domain.StageATCToCheckout, a.Opportunities[3].Stage)
	for i := 1; i < len(a.Opportunities); i++ {
		prev, cur := a.Opportunities[i-1], a.Opportunities[i]
		if prev.Severity == cur.Severity {
			assert.GreaterOrEqual(t, prev.RelativeGap, cur.RelativeGap)
		}
	}
	assert.Equal(t, "Your ads aren't resonating with your target audience. Fresh creative and better targeting can dramatically improve results.",
		a.Opportunities[2].Context)
	assert.Contains(t, a.Summary, "significant optimization opportunities")
}

func TestAnalyze_StageComparisonAndColor(t *testing.T) {
	totals := domain.InsightTotals{
		Impressions:       10000,
		Clicks:            350, // 3.5% ctr: above the 1.5-3.0 range
		AddToCarts:        14,  // 4% view->atc: critical
		InitiateCheckouts: 6,   // 42.9% atc->checkout: warning
		Purchases:         4,   // 66.7% checkout->purchase: within range
	}

	a := NewEngine(nil).Analyze(totals, domain.IndustryGeneral)
	require.Len(t, a.Stages, 4)

	tests := []struct {
		stage      string
		status     domain.StageStatus
		comparison string
		color      string
	}{
		{domain.StageCTR, domain.StatusGood, "above", "green"},
		{domain.StageClickToATC, domain.StatusCritical, "below", "red"},
		{domain.StageATCToCheckout, domain.StatusWarning, "below", "yellow"},
		{domain.StageCheckoutToPurchase, domain.StatusGood, "within", "green"},
	}
	for i, tt := range tests {
		st := a.Stages[i]
		assert.Equal(t, tt.stage, st.Stage)
		assert.Equal(t, tt.status, st.Status, tt.stage)
		assert.Equal(t, tt.comparison, st.Comparison, tt.stage)
		assert.Equal(t, tt.color, st.Color, tt.stage)
	}
}

func TestStageStatusColor(t *testing.T) {
	assert.Equal(t, "green", domain.StatusGood.Color())
	assert.Equal(t, "yellow", domain.StatusWarning.Color())
	assert.Equal(t, "red", domain.StatusCritical.Color())
	assert.Equal(t, "gray", domain.StageStatus("").Color())
}

func TestAnalyze_Deterministic(t *testing.T) {
	engine := NewEngine(nil)
	totals := domain.InsightTotals{Impressions: 52000, Clicks: 611, ViewContent: 540, AddToCarts: 31, InitiateCheckouts: 12, Purchases: 5}

	first, err := json.Marshal(engine.Analyze(totals, domain.IndustryBeauty))
	require.NoError(t, err)
	second, err := json.Marshal(engine.Analyze(totals, domain.IndustryBeauty))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestAnalyze_ZeroFunnel(t *testing.T) {
	a := NewEngine(nil).Analyze(domain.InsightTotals{}, "")

	for _, v := range []float64{
		a.ConversionRates.ClickToView, a.ConversionRates.ViewToATC, a.ConversionRates.ATCToCheckout,
		a.ConversionRates.CheckoutToPurchase, a.ConversionRates.Overall,
	} {
		assert.False(t, math.IsNaN(v))
		assert.Equal(t, 0.0, v)
	}
	assert.Len(t, a.Opportunities, 4)
	for _, o := range a.Opportunities {
		assert.Equal(t, domain.StatusCritical, o.Severity)
		assert.Equal(t, 1.0, o.RelativeGap)
	}
}

func TestBuildFunnel_PageViewFallback(t *testing.T) {
	f := BuildFunnel(domain.InsightTotals{Clicks: 200})
	assert.Equal(t, int64(200), f.PageViews)

	f = BuildFunnel(domain.InsightTotals{Clicks: 200, ViewContent: 150, InitiateCheckouts: 9})
	assert.Equal(t, int64(150), f.PageViews)
	assert.Equal(t, int64(9), f.Checkouts)
}

func TestConversionRates(t *testing.T) {
	r := ConversionRates(domain.FunnelModel{Impressions: 1000, Clicks: 100, PageViews: 80, AddToCarts: 8, Checkouts: 4, Purchases: 2})

	assert.InDelta(t, 80, r.ClickToView, 1e-9)
	assert.InDelta(t, 10, r.ViewToATC, 1e-9)
	assert.InDelta(t, 50, r.ATCToCheckout, 1e-9)
	assert.InDelta(t, 50, r.CheckoutToPurchase, 1e-9)
	assert.InDelta(t, 2, r.Overall, 1e-9)
}

func TestClassify(t *testing.T) {
	b := Benchmark{Min: 60, Max: 75}
	assert.Equal(t, domain.StatusGood, Classify(60, b))
	assert.Equal(t, domain.StatusWarning, Classify(48, b))
	assert.Equal(t, domain.StatusCritical, Classify(47.9, b))
	assert.Equal(t, domain.StatusGood, Classify(0, Benchmark{}))
}

func TestRecommendations_IndustryVariants(t *testing.T) {
	assert.Equal(t, "Test lifestyle imagery and user-generated content", Recommendations(domain.StageCTR, domain.IndustryFashion)[0])
	assert.Equal(t, "Test before/after visuals and influencer partnerships", Recommendations(domain.StageCTR, domain.IndustryBeauty)[0])
	assert.Equal(t, "Test product-in-use imagery and social proof", Recommendations(domain.StageCTR, domain.IndustryGeneral)[0])
	assert.Contains(t, Recommendations(domain.StageClickToATC, domain.IndustryFashion), `Add "Complete the look" recommendations`)
	assert.Contains(t, Recommendations(domain.StageATCToCheckout, domain.IndustryFood), "Implement express checkout (Apple Pay, Shop Pay)")
	assert.Nil(t, Recommendations("Unknown", ""))
}

func TestWeakestStep(t *testing.T) {
	a := NewEngine(nil).Analyze(scenarioTotals(1), domain.IndustryGeneral)

	require.NotNil(t, a.WeakestStage)
	assert.Equal(t, StepCheckoutToPurchase, a.WeakestStage.Stage)
	assert.Equal(t, "critical", a.WeakestStage.Severity)
	assert.Contains(t, a.WeakestStage.Recommendations, "Test free shipping thresholds")

	strong := domain.InsightTotals{Impressions: 1000, Clicks: 30, AddToCarts: 4, InitiateCheckouts: 3, Purchases: 3}
	assert.Nil(t, NewEngine(nil).Analyze(strong, "").WeakestStage)
}

func TestWeakestStep_ClicksToPageViewsNeedsBenchmark(t *testing.T) {
	totals := domain.InsightTotals{Impressions: 1000, Clicks: 30, ViewContent: 10}

	// Built-in table has no click_to_view row; the landing drop-off is ignored.
	a := NewEngine(nil).Analyze(totals, domain.IndustryGeneral)
	if a.WeakestStage != nil {
		assert.NotEqual(t, StepClicksToPageViews, a.WeakestStage.Stage)
	}

	table, err := ParseTable([]byte(`version: custom
default_industry: ecommerce_general
industries:
  ecommerce_general:
    ctr: {min: 1.5, max: 3.0, avg: 1.7}
    click_to_view: {min: 70, max: 90, avg: 80}
`))
	require.NoError(t, err)

	a = NewEngine(table).Analyze(totals, domain.IndustryGeneral)
	require.NotNil(t, a.WeakestStage)
	assert.Equal(t, StepClicksToPageViews, a.WeakestStage.Stage)
	assert.Equal(t, "critical", a.WeakestStage.Severity)
	assert.Contains(t, a.WeakestStage.Recommendations, "Improve landing page load time")
}

func TestStepRecommendations_Default(t *testing.T) {
	assert.Equal(t, []string{"Analyze this stage for optimization opportunities"}, StepRecommendations("Mystery"))
}
