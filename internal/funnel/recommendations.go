package funnel

import "github.com/ignite/adlens/internal/domain"

// Recommendations returns the fixed advice list for a rate stage, with
// fashion and beauty variants where they differ.
func Recommendations(stage, industry string) []string {
	fashion := industry == domain.IndustryFashion
	beauty := industry == domain.IndustryBeauty

	switch stage {
	case domain.StageCTR:
		creative := "Test product-in-use imagery and social proof"
		switch {
		case fashion:
			creative = "Test lifestyle imagery and user-generated content"
		case beauty:
			creative = "Test before/after visuals and influencer partnerships"
		}
		return []string{
			creative,
			"Refine audience targeting - exclude poor performers and lookalikes",
			"A/B test ad copy emphasizing unique value (not just features)",
			"Review ad placements - ensure you're showing in high-intent contexts",
		}

	case domain.StageClickToATC:
		product := "Show product from multiple angles with zoom"
		if fashion || beauty {
			product = "Add detailed size guides and fit information"
		}
		merch := "Test different pricing displays and urgency elements"
		if fashion {
			merch = `Add "Complete the look" recommendations`
		}
		return []string{
			"Page load speed: Every second delay costs 7% conversions",
			product,
			"Place customer reviews prominently (5-star ratings boost conversions 20%+)",
			merch,
			"Mobile optimization is critical - 60%+ of traffic is mobile",
		}

	case domain.StageATCToCheckout:
		cart := "Implement express checkout (Apple Pay, Shop Pay)"
		if fashion || beauty {
			cart = `Show "You may also like" recommendations in cart`
		}
		return []string{
			"Show shipping costs on product page (not just at checkout)",
			"Offer guest checkout - account creation kills 23% of conversions",
			"Add trust signals: security badges, money-back guarantee, free returns",
			cart,
			"Display progress indicator - let shoppers know how many steps remain",
		}

	case domain.StageCheckoutToPurchase:
		return []string{
			"Set up cart abandonment emails (10-15% recovery rate typical)",
			"Add inline form validation - helpful error messages reduce friction",
			"Keep order summary visible alongside payment form",
			"Test payment options - ensure mobile wallets work smoothly",
			`Add reassurance: "Secure checkout" badge and "What happens next" copy`,
		}
	}
	return nil
}

// Named funnel steps used for weakest-stage detection.
const (
	StepImpressionsToClicks = "Impressions → Clicks"
	StepClicksToPageViews   = "Clicks → Page Views"
	StepPageViewsToCart     = "Page Views → Add to Cart"
	StepCartToCheckout      = "Add to Cart → Checkout"
	StepCheckoutToPurchase  = "Checkout → Purchase"
)

var stepRecommendations = map[string][]string{
	StepImpressionsToClicks: {
		"Test new creative formats and messaging",
		"Refine audience targeting to reach high-intent users",
		"Review ad placements and optimize for better positions",
	},
	StepClicksToPageViews: {
		"Improve landing page load time",
		"Ensure ad-to-page continuity (message match)",
		"Fix any technical issues preventing page loads",
	},
	StepPageViewsToCart: {
		"Optimize product page layout and imagery",
		"Add customer reviews and social proof",
		"Test different pricing presentations or offers",
		"Improve product descriptions and benefits",
	},
	StepCartToCheckout: {
		"Simplify cart experience",
		"Test different shipping cost presentations",
		"Add urgency elements (limited stock, timer)",
		"Reduce form fields in cart",
	},
	StepCheckoutToPurchase: {
		"Review payment options and add alternatives",
		"Add trust signals (security badges, guarantees)",
		"Test free shipping thresholds",
		"Optimize mobile checkout experience",
		"Check for technical errors in checkout",
	},
}

// StepRecommendations returns advice for a named funnel step.
func StepRecommendations(step string) []string {
	if recs, ok := stepRecommendations[step]; ok {
		out := make([]string, len(recs))
		copy(out, recs)
		return out
	}
	return []string{"Analyze this stage for optimization opportunities"}
}
