package insights

import (
	"fmt"
	"strings"

	"github.com/ignite/adlens/internal/metrics"
)

// SystemPrompt fixes the model's role and output schema.
const SystemPrompt = `You are an expert paid media analyst specializing in e-commerce advertising. Your job is to analyze performance data and provide specific, actionable insights. Be concise and focus on what matters most. Always prioritize funnel breakpoints over surface-level metrics. Return your analysis in JSON format with the following structure: {"primaryInsight": {"title": "string", "message": "string", "recommendations": ["string"]}, "secondaryInsights": [{"title": "string", "message": "string"}]}. Respond with the JSON object only.`

// BuildPrompt renders the user message for a report.
func BuildPrompt(c AnalysisContext) string {
	s, f, p := c.Summary, c.Funnel, c.Profitability
	industry := c.industry()

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this paid advertising data for a %s business:\n\n", industry)

	b.WriteString("BUSINESS CONTEXT:\n")
	fmt.Fprintf(&b, "- Industry: %s\n", industry)
	if c.Business.BusinessModel != "" {
		fmt.Fprintf(&b, "- Business Model: %s\n", c.Business.BusinessModel)
	}
	if c.Business.PrimaryGoal != "" {
		fmt.Fprintf(&b, "- Primary Goal: %s\n", c.Business.PrimaryGoal)
	}
	fmt.Fprintf(&b, "- AOV: $%.2f\n", c.AverageOrderValue)
	fmt.Fprintf(&b, "- Profit Margin: %.2f%%\n", c.ProfitMargin)
	fmt.Fprintf(&b, "- Break-even CPA: $%.2f\n", p.BreakEvenCPA)
	fmt.Fprintf(&b, "- Target ROAS: %.2fx\n\n", p.TargetROAS)

	fmt.Fprintf(&b, "PERFORMANCE DATA (%s):\n", c.DateRange)
	fmt.Fprintf(&b, "- Spend: $%.2f\n", s.Spend)
	fmt.Fprintf(&b, "- Revenue: $%.2f\n", s.Revenue)
	fmt.Fprintf(&b, "- ROAS: %.2fx\n", s.ROAS)
	fmt.Fprintf(&b, "- CPA: $%.2f\n", s.CPA)
	fmt.Fprintf(&b, "- Purchases: %d\n", s.Purchases)
	fmt.Fprintf(&b, "- CTR: %.2f%%\n\n", s.CTR)

	b.WriteString("FUNNEL:\n")
	fmt.Fprintf(&b, "- Impressions: %d\n", f.Impressions)
	fmt.Fprintf(&b, "- Clicks: %d (CTR: %.2f%%)\n", f.Clicks, metrics.Rate(f.Clicks, f.Impressions))
	fmt.Fprintf(&b, "- Page Views: %d\n", f.PageViews)
	fmt.Fprintf(&b, "- Add to Carts: %d (Click→ATC: %.2f%%)\n", f.AddToCarts, c.Rates.ViewToATC)
	fmt.Fprintf(&b, "- Checkouts: %d (ATC→Checkout: %.2f%%)\n", f.Checkouts, c.Rates.ATCToCheckout)
	fmt.Fprintf(&b, "- Purchases: %d (Checkout→Purchase: %.2f%%)\n", f.Purchases, c.Rates.CheckoutToPurchase)

	if c.WeakestStage != "" {
		fmt.Fprintf(&b, "\nWEAKEST STAGE IDENTIFIED: %s\n", c.WeakestStage)
	}

	b.WriteString(`
Provide:
1. Primary insight focusing on the most critical issue or opportunity
2. 2-3 specific, actionable recommendations
3. 1-2 secondary insights about other notable patterns

Be concise. Focus on the funnel breakpoint. Don't just describe the data - explain what to DO about it.`)

	return b.String()
}
