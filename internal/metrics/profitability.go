package metrics

import "github.com/ignite/adlens/internal/domain"

const (
	// TargetCPABuffer sets the target CPA 20% under break-even.
	TargetCPABuffer = 0.8
	// TargetROASBuffer sets the target ROAS 20% over the minimum.
	TargetROASBuffer = 1.2
)

// LTVMultipliers is the single lifetime-value table keyed by repeat purchase
// frequency. Accounts without repeat purchases always use 1.
//
// TODO(product): confirm 3-4 and 5+ buckets; the settings screen used 2 and 3.
var LTVMultipliers = map[domain.RepeatFrequency]float64{
	domain.FrequencyNone:      1.0,
	domain.FrequencyOneToTwo:  1.5,
	domain.FrequencyThreeFour: 2.5,
	domain.FrequencyFivePlus:  3.5,
}

// LTVMultiplier looks up the lifetime-value multiplier.
func LTVMultiplier(hasRepeat bool, freq domain.RepeatFrequency) float64 {
	if !hasRepeat {
		return 1.0
	}
	if m, ok := LTVMultipliers[freq]; ok {
		return m
	}
	return 1.0
}

// Targets are profitability thresholds derived from unit economics.
// Defined is false when margin is not positive; all ratio fields are then 0.
type Targets struct {
	BreakEvenCPA  float64 `json:"breakEvenCPA"`
	TargetCPA     float64 `json:"targetCPA"`
	MinimumROAS   float64 `json:"minimumROAS"`
	TargetROAS    float64 `json:"targetROAS"`
	LTVMultiplier float64 `json:"ltvMultiplier"`
	Defined       bool    `json:"defined"`
}

// Profitability derives break-even and target values from average order
// value and profit margin (0-100).
func Profitability(aov, margin float64, hasRepeat bool, freq domain.RepeatFrequency) Targets {
	aov, margin = Finite(aov), Finite(margin)
	t := Targets{LTVMultiplier: LTVMultiplier(hasRepeat, freq)}
	if margin <= 0 {
		return t
	}
	if aov > 0 {
		t.BreakEvenCPA = aov * margin / 100
		t.TargetCPA = t.BreakEvenCPA * TargetCPABuffer
	}
	t.MinimumROAS = Finite(1 / (margin / 100))
	t.TargetROAS = t.MinimumROAS * TargetROASBuffer
	t.Defined = true
	return t
}

// ApplyProfile recomputes the derived fields of p in place from
// Profitability. Break-even CPA and minimum ROAS are always recomputed; each
// target keeps its own user override. A stored profile without a positive
// margin gets minimum ROAS 1 so its target ROAS stays meaningful.
func ApplyProfile(p *domain.ProfitabilityProfile) {
	t := Profitability(p.AverageOrderValue, p.ProfitMargin, p.HasRepeatPurchases, p.RepeatPurchaseFrequency)
	p.BreakEvenCPA = t.BreakEvenCPA
	p.MinimumROAS = t.MinimumROAS
	if !t.Defined {
		p.MinimumROAS = 1.0
	}
	p.LTVMultiplier = t.LTVMultiplier
	if !p.TargetCPAOverridden {
		p.TargetCPA = p.BreakEvenCPA * TargetCPABuffer
	}
	if !p.TargetROASOverridden {
		p.TargetROAS = p.MinimumROAS * TargetROASBuffer
	}
}

// IsProfitable reports whether cpa beats a known break-even CPA.
func IsProfitable(cpa, breakEvenCPA float64) bool {
	if breakEvenCPA <= 0 || cpa <= 0 {
		return false
	}
	return cpa < breakEvenCPA
}
