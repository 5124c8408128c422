// Package mailing renders report delivery emails with Liquid templates.
package mailing

import (
	"fmt"
	"html"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ignite/adlens/internal/metrics"
	"github.com/osteele/liquid"
)

// TemplateService handles Liquid template rendering with caching.
type TemplateService struct {
	engine *liquid.Engine
	cache  sync.Map // map[string]*liquid.Template
}

// NewTemplateService creates a template service with the report filters
// registered.
func NewTemplateService() *TemplateService {
	ts := &TemplateService{engine: liquid.NewEngine()}
	ts.registerCustomFilters()
	return ts
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}

// registerCustomFilters adds report formatting filters. All numeric filters
// are display-only.
func (ts *TemplateService) registerCustomFilters() {
	// {{ spend | currency }} -> $1,234.50
	ts.engine.RegisterFilter("currency", func(value interface{}) string {
		f, ok := toFloat(value)
		if !ok {
			return fmt.Sprintf("%v", value)
		}
		return metrics.FormatCurrency(f)
	})

	// {{ cpa | currency_or_na }} -> N/A when zero
	ts.engine.RegisterFilter("currency_or_na", func(value interface{}) string {
		f, ok := toFloat(value)
		if !ok || f == 0 {
			return "N/A"
		}
		return metrics.FormatCurrency(f)
	})

	// {{ roas | roas }} -> 3.33x
	ts.engine.RegisterFilter("roas", func(value interface{}) string {
		f, _ := toFloat(value)
		return metrics.FormatROAS(f)
	})

	// {{ ctr | percentage: 2 }} -> 1.50%
	ts.engine.RegisterFilter("percentage", func(value interface{}, decimals interface{}) string {
		f, _ := toFloat(value)
		d, ok := toFloat(decimals)
		if !ok {
			d = 1
		}
		return metrics.FormatPercentage(f, int(d))
	})

	// {{ impressions | number_with_delimiter }} -> 12,345
	ts.engine.RegisterFilter("number_with_delimiter", func(value interface{}) string {
		f, ok := toFloat(value)
		if !ok {
			return fmt.Sprintf("%v", value)
		}
		return metrics.FormatNumber(f)
	})

	// {{ date_range_start | us_date }} -> 3/1/2024
	ts.engine.RegisterFilter("us_date", func(s string) string {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return s
		}
		return t.Format("1/2/2006")
	})

	// {{ "last_7" | humanize }} -> last 7
	ts.engine.RegisterFilter("humanize", func(s string) string {
		return strings.ReplaceAll(s, "_", " ")
	})

	// {{ user_input | escape }}
	ts.engine.RegisterFilter("escape", func(s string) string {
		return html.EscapeString(s)
	})
}

// Render processes a template with the given context. Parsed templates are
// cached under cacheKey when one is given.
func (ts *TemplateService) Render(cacheKey string, templateStr string, ctx map[string]interface{}) (string, error) {
	if cacheKey != "" {
		if cached, ok := ts.cache.Load(cacheKey); ok {
			out, err := cached.(*liquid.Template).RenderString(ctx)
			if err != nil {
				return "", fmt.Errorf("render %s: %w", cacheKey, err)
			}
			return out, nil
		}
	}

	tpl, err := ts.engine.ParseString(templateStr)
	if err != nil {
		log.Printf("[TemplateService] Parse error: %v", err)
		return "", fmt.Errorf("parse template: %w", err)
	}
	if cacheKey != "" {
		ts.cache.Store(cacheKey, tpl)
	}

	out, err := tpl.RenderString(ctx)
	if err != nil {
		log.Printf("[TemplateService] Render error: %v", err)
		return "", fmt.Errorf("render template: %w", err)
	}
	return out, nil
}

// Parse validates template syntax without rendering.
func (ts *TemplateService) Parse(templateStr string) error {
	_, err := ts.engine.ParseString(templateStr)
	return err
}

// ClearCache drops every cached template.
func (ts *TemplateService) ClearCache() {
	ts.cache.Range(func(key, _ interface{}) bool {
		ts.cache.Delete(key)
		return true
	})
}
