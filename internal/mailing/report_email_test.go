package mailing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/adlens/internal/domain"
)

func sampleReport() *domain.ReportSnapshot {
	return &domain.ReportSnapshot{
		ID:             "rep-1",
		DateRangeStart: "2024-03-01",
		DateRangeEnd:   "2024-03-07",
		Data: domain.ReportData{Summary: domain.ReportSummary{
			Spend:     1234.5,
			Revenue:   4567.891,
			ROAS:      3.7,
			CPA:       30.86,
			Purchases: 1200,
		}},
		Insights: []domain.Insight{
			{Type: domain.InsightWarning, Title: "Checkout Drop-off", Message: "ignored"},
			{Type: domain.InsightPrimary, Title: "Profitability Alert", Message: "CPA is <above> break-even"},
		},
	}
}

func TestRenderReportEmail(t *testing.T) {
	ts := NewTemplateService()

	email, err := ts.RenderReportEmail(ReportEmailData{
		AccountName:   "Acme & Co",
		DateRangeType: domain.RangeLast7,
		Report:        sampleReport(),
		BaseURL:       "https://app.example.com/",
	})
	require.NoError(t, err)

	assert.Equal(t, "[Acme & Co] Account Performance Report - 3/1/2024 to 3/7/2024", email.Subject)

	assert.Contains(t, email.HTML, "Acme &amp; Co")
	assert.Contains(t, email.HTML, "Quick Summary (last 7)")
	assert.Contains(t, email.HTML, "<strong>Spend:</strong> $1,234.50")
	assert.Contains(t, email.HTML, "<strong>Revenue:</strong> $4,567.89")
	assert.Contains(t, email.HTML, "<strong>ROAS:</strong> 3.70x")
	assert.Contains(t, email.HTML, "<strong>CPA:</strong> $30.86")
	assert.Contains(t, email.HTML, "<strong>Purchases:</strong> 1,200")
	assert.Contains(t, email.HTML, "CPA is &lt;above&gt; break-even")
	assert.Contains(t, email.HTML, `href="https://app.example.com/reports/rep-1"`)
	assert.Contains(t, email.HTML, "View Full Report")

	assert.Contains(t, email.Text, "Key Insight: CPA is <above> break-even")
	assert.Contains(t, email.Text, "https://app.example.com/scheduled-reports")
}

func TestRenderReportEmail_NoInsightNoCPA(t *testing.T) {
	ts := NewTemplateService()
	r := sampleReport()
	r.Insights = nil
	r.Data.Summary.CPA = 0

	email, err := ts.RenderReportEmail(ReportEmailData{AccountName: "Acme", Report: r, DateRangeType: domain.RangeThisMonth})
	require.NoError(t, err)
	assert.NotContains(t, email.HTML, "Key Insight")
	assert.Contains(t, email.HTML, "<strong>CPA:</strong> N/A")
	assert.Contains(t, email.HTML, "Quick Summary (this month)")
}

func TestRenderReportEmail_NilReport(t *testing.T) {
	_, err := NewTemplateService().RenderReportEmail(ReportEmailData{})
	assert.Error(t, err)
}

func TestRender_CachesByKey(t *testing.T) {
	ts := NewTemplateService()

	out, err := ts.Render("k", "Hello {{ name }}", map[string]interface{}{"name": "A"})
	require.NoError(t, err)
	assert.Equal(t, "Hello A", out)

	// The cached template wins over a different source for the same key.
	out, err = ts.Render("k", "Bye {{ name }}", map[string]interface{}{"name": "B"})
	require.NoError(t, err)
	assert.Equal(t, "Hello B", out)

	ts.ClearCache()
	out, err = ts.Render("k", "Bye {{ name }}", map[string]interface{}{"name": "B"})
	require.NoError(t, err)
	assert.Equal(t, "Bye B", out)

	_, err = ts.Render("", "{% if %}", nil)
	assert.Error(t, err)
}
