package domain

// FunnelModel is the canonical five-step purchase funnel. Monotonicity between
// steps is not enforced; platform data can be inconsistent.
type FunnelModel struct {
	Impressions int64 `json:"impressions"`
	Clicks      int64 `json:"clicks"`
	PageViews   int64 `json:"pageViews"`
	AddToCarts  int64 `json:"addToCarts"`
	Checkouts   int64 `json:"checkouts"`
	Purchases   int64 `json:"purchases"`
}

// ConversionRateSet holds stage-to-stage rates as percentages. Each rate
// divides by the previous stage and is 0 when that stage is 0.
type ConversionRateSet struct {
	ClickToView        float64 `json:"clickToView"`
	ViewToATC          float64 `json:"viewToATC"`
	ATCToCheckout      float64 `json:"atcToCheckout"`
	CheckoutToPurchase float64 `json:"checkoutToPurchase"`
	Overall            float64 `json:"overall"`
}

// StageStatus classifies a rate against its benchmark minimum.
type StageStatus string

const (
	StatusGood     StageStatus = "good"
	StatusWarning  StageStatus = "warning"
	StatusCritical StageStatus = "critical"
)

// Rank orders statuses by urgency; critical ranks lowest.
func (s StageStatus) Rank() int {
	switch s {
	case StatusCritical:
		return 0
	case StatusWarning:
		return 1
	}
	return 2
}

// Color maps a status to its display color.
func (s StageStatus) Color() string {
	switch s {
	case StatusGood:
		return "green"
	case StatusWarning:
		return "yellow"
	case StatusCritical:
		return "red"
	}
	return "gray"
}

// Rate stage names used for classification and opportunities.
const (
	StageCTR                = "CTR"
	StageClickToATC         = "Click→ATC"
	StageATCToCheckout      = "ATC→Checkout"
	StageCheckoutToPurchase = "Checkout→Purchase"
)

// StageResult is the classification of one rate stage. Comparison places
// the value against the benchmark range (above, within or below).
type StageResult struct {
	Stage        string      `json:"stage"`
	Metric       string      `json:"metric"`
	Value        float64     `json:"value"`
	BenchmarkMin float64     `json:"benchmarkMin"`
	BenchmarkMax float64     `json:"benchmarkMax"`
	Comparison   string      `json:"comparison"`
	Status       StageStatus `json:"status"`
	Color        string      `json:"color"`
}

// Opportunity is a stage below benchmark with its recommendations.
type Opportunity struct {
	Stage           string      `json:"stage"`
	Severity        StageStatus `json:"severity"`
	Value           float64     `json:"value"`
	BenchmarkMin    float64     `json:"benchmarkMin"`
	BenchmarkMax    float64     `json:"benchmarkMax"`
	RelativeGap     float64     `json:"relativeGap"`
	Context         string      `json:"context,omitempty"`
	Recommendations []string    `json:"recommendations"`
}

// FunnelHealth is the positive result emitted when no stage needs work.
type FunnelHealth struct {
	Status  string `json:"status"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// WeakestStage is the named funnel step furthest below its benchmark average.
type WeakestStage struct {
	Stage           string   `json:"stage"`
	Gap             float64  `json:"gap"`
	Severity        string   `json:"severity"`
	Recommendations []string `json:"recommendations"`
}

// FunnelAnalysis is the full output of the funnel engine. It is a pure
// function of the totals, benchmark table and industry.
type FunnelAnalysis struct {
	Funnel          FunnelModel       `json:"funnel"`
	ConversionRates ConversionRateSet `json:"conversionRates"`
	Stages          []StageResult     `json:"stages"`
	Opportunities   []Opportunity     `json:"opportunities"`
	Health          *FunnelHealth     `json:"health,omitempty"`
	Summary         string            `json:"summary"`
	WeakestStage    *WeakestStage     `json:"weakestStage,omitempty"`
	Industry        string            `json:"industry"`
	BenchmarkSet    string            `json:"benchmarkSet"`
}
