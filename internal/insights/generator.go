package insights

import (
	"context"
	"log"
	"time"

	"github.com/ignite/adlens/internal/domain"
)

// Observer is notified of the path each generation took.
type Observer interface {
	ObserveInsightSource(source domain.InsightSource)
}

// Generator runs the model path and falls back to rules.
type Generator struct {
	completer Completer
	timeout   time.Duration
	observer  Observer
}

// NewGenerator creates a generator. A nil completer means no model is
// configured and every call is rule-based.
func NewGenerator(completer Completer, timeout time.Duration) *Generator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Generator{completer: completer, timeout: timeout}
}

// SetObserver registers a source observer.
func (g *Generator) SetObserver(o Observer) {
	g.observer = o
}

// Generate produces insights for c. It never fails.
func (g *Generator) Generate(ctx context.Context, c AnalysisContext) Result {
	result := g.generate(ctx, c)
	if g.observer != nil {
		_, src := Translate(result)
		g.observer.ObserveInsightSource(src)
	}
	return result
}

func (g *Generator) generate(ctx context.Context, c AnalysisContext) Result {
	if g.completer == nil {
		return RuleBased{Insights: RuleBasedInsights(c), Reason: ruleReasonNoModel}
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.completer.Complete(callCtx, SystemPrompt, BuildPrompt(c))
	if err != nil {
		log.Printf("[insights] model call failed, using rule-based insights: %v", err)
		return RuleBased{Insights: RuleBasedInsights(c), Reason: ruleReasonModelError}
	}

	parsed, err := ParseCompletion(text)
	if err != nil {
		log.Printf("[insights] model output rejected, using rule-based insights: %v", err)
		return RuleBased{Insights: RuleBasedInsights(c), Reason: ruleReasonBadOutput}
	}
	return LLMGenerated{Insights: parsed}
}
