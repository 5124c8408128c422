package domain

// InsightType tags an insight for rendering.
type InsightType string

const (
	InsightPrimary     InsightType = "primary"
	InsightSecondary   InsightType = "secondary"
	InsightWarning     InsightType = "warning"
	InsightOpportunity InsightType = "opportunity"
)

// Insight is one narrative finding. LLM and rule-based generation produce the
// same shape.
type Insight struct {
	Type            InsightType `json:"type"`
	Title           string      `json:"title"`
	Message         string      `json:"message"`
	Recommendations []string    `json:"recommendations,omitempty"`
}

// InsightSource records which generation path produced a report's insights.
type InsightSource string

const (
	SourceLLM       InsightSource = "llm"
	SourceRuleBased InsightSource = "rule_based"
)
