package insights

import (
	"fmt"

	"github.com/ignite/adlens/internal/domain"
	"github.com/ignite/adlens/internal/metrics"
)

const (
	lowAddToCartRate     = 8.0
	lowCheckoutRate      = 60.0
	strongCTR            = 2.5
	ruleReasonNoModel    = "no model configured"
	ruleReasonModelError = "model call failed"
	ruleReasonBadOutput  = "model output unparseable"
)

// RuleBasedInsights derives insights from fixed thresholds. It always
// returns a primary insight first and never fails, even on all-zero input.
func RuleBasedInsights(c AnalysisContext) []domain.Insight {
	s, p := c.Summary, c.Profitability
	cpa := metrics.Finite(s.CPA)
	breakEven := metrics.Finite(p.BreakEvenCPA)

	var out []domain.Insight
	if breakEven > 0 && cpa > breakEven {
		msg := fmt.Sprintf("Your current CPA ($%.2f) is above your break-even target ($%.2f), resulting in a loss of ~$%.2f per customer.",
			cpa, breakEven, cpa-breakEven)
		if c.WeakestStage != "" {
			msg += fmt.Sprintf(" The data shows the primary issue is in the %s stage of your funnel.", c.WeakestStage)
		}
		out = append(out, domain.Insight{
			Type:    domain.InsightPrimary,
			Title:   "Profitability Alert",
			Message: msg,
			Recommendations: []string{
				"Review and optimize your checkout process for friction points",
				"Test trust signals and security badges",
				"Analyze abandoned cart data in your e-commerce platform",
			},
		})
	} else {
		out = append(out, domain.Insight{
			Type:  domain.InsightPrimary,
			Title: "Profitable Performance",
			Message: fmt.Sprintf("Your CPA ($%.2f) is within your profitable range (target: $%.2f). Focus on scaling what's working.",
				cpa, metrics.Finite(p.TargetCPA)),
			Recommendations: []string{
				"Increase budget on top-performing ad sets",
				"Expand successful audiences with lookalikes",
				"Test new creatives similar to winners",
			},
		})
	}

	clickToATC := metrics.Rate(c.Funnel.AddToCarts, c.Funnel.PageViews)
	if clickToATC < lowAddToCartRate {
		out = append(out, domain.Insight{
			Type:  domain.InsightWarning,
			Title: "Low Add-to-Cart Rate",
			Message: fmt.Sprintf("Only %.2f%% of clicks are adding to cart (benchmark: 8-12%%). This suggests a disconnect between your ads and landing page.",
				clickToATC),
		})
	}

	checkoutRate := metrics.Rate(c.Funnel.Purchases, c.Funnel.Checkouts)
	if checkoutRate < lowCheckoutRate {
		out = append(out, domain.Insight{
			Type:  domain.InsightWarning,
			Title: "Checkout Drop-off",
			Message: fmt.Sprintf("%.2f%% checkout completion rate is below the 60-75%% benchmark. Review your checkout flow for potential friction.",
				checkoutRate),
		})
	}

	if ctr := metrics.Finite(s.CTR); ctr > strongCTR {
		out = append(out, domain.Insight{
			Type:  domain.InsightOpportunity,
			Title: "Strong Creative Performance",
			Message: fmt.Sprintf("Your %.2f%% CTR is well above industry average, indicating excellent creative resonance with your target audience.",
				ctr),
		})
	}

	return out
}
