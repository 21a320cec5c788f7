package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector implements the engine's MetricsCollector on Prometheus
type Collector struct {
	scenariosExecuted *prometheus.CounterVec
	scenarioDuration  *prometheus.HistogramVec
	eventsDispatched  *prometheus.CounterVec
	dispatchDuration  *prometheus.HistogramVec
	validations       *prometheus.CounterVec
	scenariosSaved    prometheus.Counter
	activeExecutions  prometheus.Gauge
}

// NewCollector creates a new Prometheus metrics collector. Metrics
// register on the default registry; construct it once per process.
func NewCollector() *Collector {
	return &Collector{
		scenariosExecuted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evtgen_scenarios_executed_total",
				Help: "Total number of scenario executions by terminal status",
			},
			[]string{"status"},
		),
		scenarioDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "evtgen_scenario_duration_seconds",
				Help:    "Scenario execution duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900, 3600},
			},
			[]string{"status"},
		),
		eventsDispatched: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evtgen_events_dispatched_total",
				Help: "Total number of events dispatched by category and outcome",
			},
			[]string{"category", "outcome"},
		),
		dispatchDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "evtgen_event_dispatch_duration_seconds",
				Help:    "Single event dispatch duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"outcome"},
		),
		validations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evtgen_scenario_validations_total",
				Help: "Total number of scenario validations by result",
			},
			[]string{"result"},
		),
		scenariosSaved: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "evtgen_scenarios_saved_total",
				Help: "Total number of scenario versions written to the store",
			},
		),
		activeExecutions: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "evtgen_active_executions",
				Help: "Number of currently running scenario executions",
			},
		),
	}
}

// RecordScenarioExecution records one finished execution
func (c *Collector) RecordScenarioExecution(status string, duration time.Duration) {
	c.scenariosExecuted.WithLabelValues(status).Inc()
	c.scenarioDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordEventDispatched records one dispatched event
func (c *Collector) RecordEventDispatched(category, outcome string, duration time.Duration) {
	c.eventsDispatched.WithLabelValues(category, outcome).Inc()
	c.dispatchDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordValidation records one validation pass or failure
func (c *Collector) RecordValidation(valid bool) {
	result := "valid"
	if !valid {
		result = "invalid"
	}
	c.validations.WithLabelValues(result).Inc()
}

// RecordScenarioSaved records one store write
func (c *Collector) RecordScenarioSaved() {
	c.scenariosSaved.Inc()
}

// IncActiveExecutions increments the running execution gauge
func (c *Collector) IncActiveExecutions() {
	c.activeExecutions.Inc()
}

// DecActiveExecutions decrements the running execution gauge
func (c *Collector) DecActiveExecutions() {
	c.activeExecutions.Dec()
}
