package insights

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ignite/adlens/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	text   string
	err    error
	calls  int
	system string
	user   string
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	f.calls++
	f.system, f.user = system, user
	return f.text, f.err
}

type sourceCounter map[domain.InsightSource]int

func (s sourceCounter) ObserveInsightSource(src domain.InsightSource) { s[src]++ }

func TestGenerate_NoCompleterUsesRules(t *testing.T) {
	g := NewGenerator(nil, time.Second)

	res := g.Generate(context.Background(), sampleContext())

	rb, ok := res.(RuleBased)
	require.True(t, ok)
	assert.Equal(t, ruleReasonNoModel, rb.Reason)
	items, src := Translate(res)
	assert.Equal(t, domain.SourceRuleBased, src)
	assert.Equal(t, "Profitable Performance", items[0].Title)
}

func TestGenerate_ModelSuccess(t *testing.T) {
	fc := &fakeCompleter{text: `{"primaryInsight":{"title":"Scale","message":"Raise budgets.","recommendations":["a"]},"secondaryInsights":[{"title":"b","message":"c"}]}`}
	counter := sourceCounter{}
	g := NewGenerator(fc, time.Second)
	g.SetObserver(counter)

	res := g.Generate(context.Background(), sampleContext())

	items, src := Translate(res)
	assert.Equal(t, domain.SourceLLM, src)
	require.Len(t, items, 2)
	assert.Equal(t, "Scale", items[0].Title)
	assert.Equal(t, SystemPrompt, fc.system)
	assert.True(t, strings.HasPrefix(fc.user, "Analyze this paid advertising data for a ecommerce_general business:"))
	assert.Equal(t, 1, counter[domain.SourceLLM])
}

func TestGenerate_FallsBack(t *testing.T) {
	tests := []struct {
		name   string
		fc     *fakeCompleter
		reason string
	}{
		{"model error", &fakeCompleter{err: errors.New("throttled")}, ruleReasonModelError},
		{"garbage output", &fakeCompleter{text: "Sure! Here are some thoughts."}, ruleReasonBadOutput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewGenerator(tt.fc, time.Second).Generate(context.Background(), sampleContext())

			rb, ok := res.(RuleBased)
			require.True(t, ok)
			assert.Equal(t, tt.reason, rb.Reason)
			assert.NotEmpty(t, rb.Insights)
			assert.Equal(t, 1, tt.fc.calls)
		})
	}
}

func TestTranslate_Nil(t *testing.T) {
	items, src := Translate(nil)
	assert.Nil(t, items)
	assert.Equal(t, domain.SourceRuleBased, src)
}

func TestBuildPrompt(t *testing.T) {
	c := sampleContext()
	c.WeakestStage = "Checkout → Purchase"
	c.Business.BusinessModel = domain.BusinessD2C

	p := BuildPrompt(c)

	assert.Contains(t, p, "BUSINESS CONTEXT:\n- Industry: ecommerce_general\n- Business Model: D2C")
	assert.Contains(t, p, "- Break-even CPA: $30.00")
	assert.Contains(t, p, "- Target ROAS: 4.00x")
	assert.Contains(t, p, "PERFORMANCE DATA (2024-01-01 to 2024-01-31):")
	assert.Contains(t, p, "- Clicks: 150 (CTR: 1.50%)")
	assert.Contains(t, p, "- Add to Carts: 12 (Click→ATC: 8.00%)")
	assert.Contains(t, p, "WEAKEST STAGE IDENTIFIED: Checkout → Purchase")
	assert.Contains(t, p, "explain what to DO about it.")
}
