package mailing

import (
	"fmt"
	"strings"

	"github.com/ignite/adlens/internal/domain"
)

const (
	reportSubjectTemplate = `[{{ account_name }}] Account Performance Report - {{ start | us_date }} to {{ end | us_date }}`

	reportHTMLTemplate = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Your Scheduled Performance Report</h2>
  <p>Hi there,</p>
  <p>Your scheduled performance report for <strong>{{ account_name | escape }}</strong> is ready.</p>

  <div style="background: #f5f5f5; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0;">Quick Summary ({{ range_type | humanize }})</h3>
    <ul style="list-style: none; padding: 0;">
      <li><strong>Spend:</strong> {{ summary.spend | currency }}</li>
      <li><strong>Revenue:</strong> {{ summary.revenue | currency }}</li>
      <li><strong>ROAS:</strong> {{ summary.roas | roas }}</li>
      <li><strong>CPA:</strong> {{ summary.cpa | currency_or_na }}</li>
      <li><strong>Purchases:</strong> {{ summary.purchases | number_with_delimiter }}</li>
    </ul>
  </div>
{% if key_insight != "" %}
  <div style="background: #e3f2fd; padding: 15px; border-left: 4px solid #2196f3; margin: 20px 0;">
    <strong>Key Insight:</strong>
    <p>{{ key_insight | escape }}</p>
  </div>
{% endif %}
  <p style="margin-top: 30px;">
    <a href="{{ report_url }}" style="background: #FF6B35; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">View Full Report</a>
  </p>

  <hr style="margin: 30px 0; border: none; border-top: 1px solid #ddd;">
  <p style="font-size: 12px; color: #666;">
    This is an automated performance report.<br>
    <a href="{{ manage_url }}">Manage your scheduled reports</a>
  </p>
</div>`

	reportTextTemplate = `Your scheduled performance report for {{ account_name }} is ready.

Quick Summary ({{ range_type | humanize }})
Spend: {{ summary.spend | currency }}
Revenue: {{ summary.revenue | currency }}
ROAS: {{ summary.roas | roas }}
CPA: {{ summary.cpa | currency_or_na }}
Purchases: {{ summary.purchases | number_with_delimiter }}
{% if key_insight != "" %}
Key Insight: {{ key_insight }}
{% endif %}
View Full Report: {{ report_url }}
Manage your scheduled reports: {{ manage_url }}
`
)

// ReportEmail is a rendered delivery email.
type ReportEmail struct {
	Subject string
	HTML    string
	Text    string
}

// ReportEmailData feeds the report email templates.
type ReportEmailData struct {
	AccountName   string
	DateRangeType domain.DateRangeType
	Report        *domain.ReportSnapshot
	BaseURL       string
}

func (d ReportEmailData) context() map[string]interface{} {
	base := strings.TrimRight(d.BaseURL, "/")
	s := d.Report.Data.Summary
	keyInsight := ""
	if p := d.Report.PrimaryInsight(); p != nil {
		keyInsight = p.Message
	}
	return map[string]interface{}{
		"account_name": d.AccountName,
		"start":        d.Report.DateRangeStart,
		"end":          d.Report.DateRangeEnd,
		"range_type":   string(d.DateRangeType),
		"summary": map[string]interface{}{
			"spend":     s.Spend,
			"revenue":   s.Revenue,
			"roas":      s.ROAS,
			"cpa":       s.CPA,
			"purchases": s.Purchases,
		},
		"key_insight": keyInsight,
		"report_url":  base + "/reports/" + d.Report.ID,
		"manage_url":  base + "/scheduled-reports",
	}
}

// RenderReportEmail renders the subject, HTML and plain-text bodies.
func (ts *TemplateService) RenderReportEmail(d ReportEmailData) (*ReportEmail, error) {
	if d.Report == nil {
		return nil, fmt.Errorf("render report email: nil report")
	}
	ctx := d.context()

	subject, err := ts.Render("report_subject", reportSubjectTemplate, ctx)
	if err != nil {
		return nil, err
	}
	htmlBody, err := ts.Render("report_html", reportHTMLTemplate, ctx)
	if err != nil {
		return nil, err
	}
	text, err := ts.Render("report_text", reportTextTemplate, ctx)
	if err != nil {
		return nil, err
	}
	return &ReportEmail{Subject: strings.TrimSpace(subject), HTML: htmlBody, Text: text}, nil
}
