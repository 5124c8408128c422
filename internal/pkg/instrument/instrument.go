// Package instrument holds the Prometheus collectors for report generation
// and delivery. One Metrics value satisfies the observer interfaces of the
// meta client, the insight generator and the report service.
package instrument

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ignite/adlens/internal/domain"
)

const namespace = "adlens"

// Metrics holds all collectors, registered on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	GraphRequests   *prometheus.CounterVec
	GraphLatency    *prometheus.HistogramVec
	InsightSources  *prometheus.CounterVec
	Reports         *prometheus.CounterVec
	ReportLatency   prometheus.Histogram
	Deliveries      *prometheus.CounterVec
	SchedulerRuns   *prometheus.CounterVec
	SchedulesLocked prometheus.Counter
}

// New creates a Metrics with a fresh registry. Process and Go runtime
// collectors are included.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		GraphRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "graph_requests_total",
				Help:      "Meta Graph API requests by endpoint and outcome",
			},
			[]string{"endpoint", "outcome"},
		),
		GraphLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "graph_request_seconds",
				Help:      "Meta Graph API request latency in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"endpoint"},
		),
		InsightSources: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "insight_generations_total",
				Help:      "Insight generations by source (llm or rule_based)",
			},
			[]string{"source"},
		),
		Reports: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reports_total",
				Help:      "Report generations by outcome",
			},
			[]string{"outcome"},
		),
		ReportLatency: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "report_generation_seconds",
				Help:      "End-to-end report generation latency in seconds",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60},
			},
		),
		Deliveries: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "report_deliveries_total",
				Help:      "Scheduled report deliveries by status",
			},
			[]string{"status"},
		),
		SchedulerRuns: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scheduler_ticks_total",
				Help:      "Scheduler ticks by result",
			},
			[]string{"result"},
		),
		SchedulesLocked: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scheduler_lock_contended_total",
				Help:      "Ticks skipped because another worker held the scheduler lock",
			},
		),
	}
}

// Registry exposes the underlying registry for tests and custom handlers.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveGraphRequest(endpoint, outcome string, elapsed time.Duration) {
	m.GraphRequests.WithLabelValues(endpoint, outcome).Inc()
	m.GraphLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveInsightSource(source domain.InsightSource) {
	m.InsightSources.WithLabelValues(string(source)).Inc()
}

func (m *Metrics) ObserveReport(outcome string, elapsed time.Duration) {
	m.Reports.WithLabelValues(outcome).Inc()
	m.ReportLatency.Observe(elapsed.Seconds())
}

// ObserveDelivery counts one scheduled delivery attempt.
func (m *Metrics) ObserveDelivery(status string) {
	m.Deliveries.WithLabelValues(status).Inc()
}

// ObserveSchedulerTick counts one scheduler tick. result is "ok", "error"
// or "locked".
func (m *Metrics) ObserveSchedulerTick(result string) {
	m.SchedulerRuns.WithLabelValues(result).Inc()
	if result == "locked" {
		m.SchedulesLocked.Inc()
	}
}
