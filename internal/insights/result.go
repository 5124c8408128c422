package insights

import "github.com/ignite/adlens/internal/domain"

// Result is the tagged outcome of insight generation.
type Result interface {
	source() domain.InsightSource
	items() []domain.Insight
}

// LLMGenerated holds insights parsed from a model completion.
type LLMGenerated struct {
	Insights []domain.Insight
}

// RuleBased holds deterministic fallback insights and why they were used.
type RuleBased struct {
	Insights []domain.Insight
	Reason   string
}

func (r LLMGenerated) source() domain.InsightSource { return domain.SourceLLM }
func (r LLMGenerated) items() []domain.Insight      { return r.Insights }
func (r RuleBased) source() domain.InsightSource    { return domain.SourceRuleBased }
func (r RuleBased) items() []domain.Insight         { return r.Insights }

// Translate flattens any Result into the canonical insight list.
func Translate(r Result) ([]domain.Insight, domain.InsightSource) {
	if r == nil {
		return nil, domain.SourceRuleBased
	}
	out := make([]domain.Insight, len(r.items()))
	copy(out, r.items())
	return out, r.source()
}
