package funnel

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/ignite/adlens/internal/domain"
	"github.com/ignite/adlens/internal/metrics"
	"gopkg.in/yaml.v3"
)

// Benchmark metric keys.
const (
	MetricCTR                = "ctr"
	MetricClickToView        = "click_to_view"
	MetricCPC                = "cpc"
	MetricCPM                = "cpm"
	MetricClickToATC         = "click_to_atc"
	MetricATCToCheckout      = "atc_to_checkout"
	MetricCheckoutToPurchase = "checkout_to_purchase"
	MetricATCToPurchase      = "atc_to_purchase"
)

//go:embed benchmarks.yaml
var defaultBenchmarks []byte

// ErrInvalidTable is returned when a benchmark table fails validation.
var ErrInvalidTable = errors.New("invalid benchmark table")

// Benchmark is a {min, max, avg} range for one metric.
type Benchmark struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
	Avg float64 `yaml:"avg" json:"avg"`
}

// Compare places value within the range.
func (b Benchmark) Compare(value float64) metrics.Comparison {
	return metrics.CompareToRange(value, b.Min, b.Max)
}

// Table is versioned, industry-keyed benchmark reference data. It is
// read-only after loading and safe for concurrent use.
type Table struct {
	Version         string                          `yaml:"version"`
	DefaultIndustry string                          `yaml:"default_industry"`
	Industries      map[string]map[string]Benchmark `yaml:"industries"`
}

// DefaultTable returns the built-in benchmark table.
func DefaultTable() *Table {
	t, err := ParseTable(defaultBenchmarks)
	if err != nil {
		panic(fmt.Sprintf("funnel: built-in benchmarks: %v", err))
	}
	return t
}

// LoadTable reads a benchmark table from a YAML file.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading benchmarks: %w", err)
	}
	return ParseTable(data)
}

// ParseTable decodes and validates a YAML benchmark table.
func ParseTable(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	if t.DefaultIndustry == "" {
		t.DefaultIndustry = domain.IndustryGeneral
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks that the default industry exists and every range is sane.
func (t *Table) Validate() error {
	if _, ok := t.Industries[t.DefaultIndustry]; !ok {
		return fmt.Errorf("%w: default industry %q missing", ErrInvalidTable, t.DefaultIndustry)
	}
	for industry, rows := range t.Industries {
		for metric, b := range rows {
			if b.Min < 0 || b.Max < b.Min {
				return fmt.Errorf("%w: %s/%s has min %.2f max %.2f", ErrInvalidTable, industry, metric, b.Min, b.Max)
			}
		}
	}
	return nil
}

// Lookup returns the benchmark for (industry, metric), falling back to the
// default industry when the industry or metric is unknown.
func (t *Table) Lookup(industry, metric string) (Benchmark, bool) {
	if rows, ok := t.Industries[industry]; ok {
		if b, ok := rows[metric]; ok {
			return b, true
		}
	}
	b, ok := t.Industries[t.DefaultIndustry][metric]
	return b, ok
}

// ResolveIndustry returns industry if the table knows it, else the default.
func (t *Table) ResolveIndustry(industry string) string {
	if _, ok := t.Industries[industry]; ok {
		return industry
	}
	return t.DefaultIndustry
}

// IndustryNames lists the industries in the table, sorted.
func (t *Table) IndustryNames() []string {
	names := make([]string, 0, len(t.Industries))
	for name := range t.Industries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
