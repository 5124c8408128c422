package metrics

import (
	"math"
	"strconv"
	"strings"
)

// ROAS returns revenue per unit of spend.
func ROAS(revenue, spend float64) float64 {
	if spend <= 0 {
		return 0
	}
	return Finite(revenue / spend)
}

// CPA returns spend per purchase.
func CPA(spend float64, purchases int64) float64 {
	if purchases <= 0 {
		return 0
	}
	return Finite(spend / float64(purchases))
}

// CTR returns clicks per impression as a percentage.
func CTR(clicks, impressions int64) float64 {
	return Rate(clicks, impressions)
}

// CPM returns spend per thousand impressions.
func CPM(spend float64, impressions int64) float64 {
	if impressions <= 0 {
		return 0
	}
	return Finite(spend * 1000 / float64(impressions))
}

// CPC returns spend per click.
func CPC(spend float64, clicks int64) float64 {
	if clicks <= 0 {
		return 0
	}
	return Finite(spend / float64(clicks))
}

// Rate returns to/from as a percentage, 0 when from is not positive.
func Rate(to, from int64) float64 {
	if from <= 0 || to < 0 {
		return 0
	}
	return Finite(float64(to) * 100 / float64(from))
}

// Finite maps NaN and ±Inf to 0.
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ParseNumber coerces a platform numeric string to float64. Malformed input
// yields 0.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return Finite(v)
}

// ParseCount coerces a platform count string to a non-negative integer.
// Fractional values are rounded.
func ParseCount(s string) int64 {
	v := ParseNumber(s)
	if v <= 0 {
		return 0
	}
	return int64(math.Round(v))
}

// Comparison is the position of a value relative to a benchmark range.
type Comparison string

const (
	Above  Comparison = "above"
	Within Comparison = "within"
	Below  Comparison = "below"
)

// CompareToRange places value against [min, max].
func CompareToRange(value, min, max float64) Comparison {
	switch {
	case value > max:
		return Above
	case value < min:
		return Below
	default:
		return Within
	}
}
