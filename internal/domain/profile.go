package domain

import "time"

// RepeatFrequency buckets how often customers buy again.
type RepeatFrequency string

const (
	FrequencyNone      RepeatFrequency = "none"
	FrequencyOneToTwo  RepeatFrequency = "1-2"
	FrequencyThreeFour RepeatFrequency = "3-4"
	FrequencyFivePlus  RepeatFrequency = "5+"
)

// Valid reports whether f is a known bucket. Empty is treated as none.
func (f RepeatFrequency) Valid() bool {
	switch f {
	case "", FrequencyNone, FrequencyOneToTwo, FrequencyThreeFour, FrequencyFivePlus:
		return true
	}
	return false
}

// ProfitabilityProfile holds an ad account's unit economics and the targets
// derived from them. BreakEvenCPA and MinimumROAS are always recomputed from
// AverageOrderValue and ProfitMargin and are never set directly.
type ProfitabilityProfile struct {
	AdAccountID             string          `json:"ad_account_id" db:"ad_account_id"`
	AverageOrderValue       float64         `json:"average_order_value" db:"average_order_value"`
	ProfitMargin            float64         `json:"profit_margin" db:"profit_margin"`
	HasRepeatPurchases      bool            `json:"has_repeat_purchases" db:"has_repeat_purchases"`
	RepeatPurchaseFrequency RepeatFrequency `json:"repeat_purchase_frequency" db:"repeat_purchase_frequency"`

	BreakEvenCPA  float64 `json:"break_even_cpa" db:"break_even_cpa"`
	MinimumROAS   float64 `json:"minimum_roas" db:"minimum_roas"`
	TargetCPA     float64 `json:"target_cpa" db:"target_cpa"`
	TargetROAS    float64 `json:"target_roas" db:"target_roas"`
	LTVMultiplier float64 `json:"ltv_multiplier" db:"ltv_multiplier"`

	// Each target is derived unless the user supplied it.
	TargetCPAOverridden  bool `json:"target_cpa_overridden" db:"target_cpa_overridden"`
	TargetROASOverridden bool `json:"target_roas_overridden" db:"target_roas_overridden"`

	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// HasBreakEven reports whether a break-even CPA is known.
func (p *ProfitabilityProfile) HasBreakEven() bool {
	return p != nil && p.BreakEvenCPA > 0
}
