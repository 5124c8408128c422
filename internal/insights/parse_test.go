package insights

import (
	"testing"

	"github.com/ignite/adlens/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCompletion(t *testing.T) {
	raw := "```json\n" + `{
		"primaryInsight": {"title": "Fix checkout", "message": "Checkout loses 80% of buyers.", "recommendations": ["Add wallets", "Cut fields"]},
		"secondaryInsights": [{"title": "CTR healthy", "message": "Creative works."}, {"title": "", "message": ""}]
	}` + "\n```"

	got, err := ParseCompletion(raw)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, domain.Insight{
		Type:            domain.InsightPrimary,
		Title:           "Fix checkout",
		Message:         "Checkout loses 80% of buyers.",
		Recommendations: []string{"Add wallets", "Cut fields"},
	}, got[0])
	assert.Equal(t, domain.InsightSecondary, got[1].Type)
}

func TestParseCompletion_Rejects(t *testing.T) {
	for _, raw := range []string{
		"",
		"I cannot help with that.",
		`{"primaryInsight": {"title": "", "message": "x"}}`,
		`{"secondaryInsights": []}`,
		`{"primaryInsight": "oops"}`,
	} {
		_, err := ParseCompletion(raw)
		assert.Error(t, err, raw)
	}
}
