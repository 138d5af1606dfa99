package harness

import (
	"errors"
	"time"

	"github.com/c360studio/nidmcheck/equivalence"
	"github.com/c360studio/nidmcheck/finding"
	errs "github.com/c360studio/semstreams/pkg/errs"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for validation runs. A nil *Metrics
// records nothing.
type Metrics struct {
	examplesTotal *prometheus.CounterVec // By status (passed/failed/error)
	findingsTotal *prometheus.CounterVec // By kind
	comparisons   *prometheus.CounterVec // By verdict

	searchSteps   prometheus.Histogram
	stageDuration *prometheus.HistogramVec // By stage (load/consistency/compare)
}

// NewMetrics creates validation metrics and registers them with reg. A nil
// registerer disables metrics.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		return nil, nil // Metrics disabled
	}

	m := &Metrics{
		examplesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nidmcheck",
			Subsystem: "harness",
			Name:      "examples_total",
			Help:      "Total number of examples validated",
		}, []string{"status"}), // status: passed, failed, error

		findingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nidmcheck",
			Subsystem: "harness",
			Name:      "findings_total",
			Help:      "Total number of findings reported",
		}, []string{"kind"}),

		comparisons: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nidmcheck",
			Subsystem: "equivalence",
			Name:      "comparisons_total",
			Help:      "Total number of graph comparisons by verdict",
		}, []string{"verdict"}),

		searchSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nidmcheck",
			Subsystem: "equivalence",
			Name:      "search_steps",
			Help:      "Blank node assignment attempts per comparison",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 11), // 1 to ~1M
		}),

		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "nidmcheck",
			Subsystem: "harness",
			Name:      "stage_duration_seconds",
			Help:      "Duration of validation stages in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}, []string{"stage"}),
	}

	var err error
	if m.examplesTotal, err = register(reg, m.examplesTotal); err != nil {
		return nil, err
	}
	if m.findingsTotal, err = register(reg, m.findingsTotal); err != nil {
		return nil, err
	}
	if m.comparisons, err = register(reg, m.comparisons); err != nil {
		return nil, err
	}
	if m.searchSteps, err = register(reg, m.searchSteps); err != nil {
		return nil, err
	}
	if m.stageDuration, err = register(reg, m.stageDuration); err != nil {
		return nil, err
	}

	return m, nil
}

// Stage labels.
const (
	stageLoad        = "load"
	stageConsistency = "consistency"
	stageCompare     = "compare"
)

func (m *Metrics) recordStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *Metrics) recordComparison(res *equivalence.Result) {
	if m == nil || res == nil {
		return
	}
	m.comparisons.WithLabelValues(res.Verdict.String()).Inc()
	m.searchSteps.Observe(float64(res.Steps))
}

func (m *Metrics) recordExample(status string, findings []finding.Finding) {
	if m == nil {
		return
	}
	m.examplesTotal.WithLabelValues(status).Inc()
	for _, f := range findings {
		m.findingsTotal.WithLabelValues(f.Kind.String()).Inc()
	}
}

// register adds c to reg. When an equal collector is already registered it
// returns that one, so every Metrics built on reg records into the exposed
// series.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, errs.WrapInvalid(err, "harness", "NewMetrics", "register collector")
	}
	return c, nil
}
