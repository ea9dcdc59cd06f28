package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/miradorstack/scalegate/internal/validation"
)

const (
	// OutcomeValid labels runs without any ERROR finding.
	OutcomeValid = "valid"
	// OutcomeInvalid labels runs with at least one ERROR finding.
	OutcomeInvalid = "invalid"
	// OutcomeError labels runs that failed on a contract violation.
	OutcomeError = "error"
)

var (
	validationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scalegate",
			Name:      "validations_total",
			Help:      "Total number of scale validation runs, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	validationEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scalegate",
			Name:      "validation_events_total",
			Help:      "Total number of non-passing validation events, partitioned by type.",
		},
		[]string{"type"},
	)

	validationDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "scalegate",
			Name:      "validation_seconds",
			Help:      "Scale validation latency in seconds.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	commonScaleTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scalegate",
			Name:      "common_scale_total",
			Help:      "Total number of least common time scale computations, partitioned by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register attaches scalegate collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		validationsTotal,
		validationEventsTotal,
		validationDurationSeconds,
		commonScaleTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveValidation records a run duration and outcome label.
func ObserveValidation(duration time.Duration, outcome string) {
	switch outcome {
	case OutcomeValid, OutcomeInvalid, OutcomeError:
	default:
		outcome = OutcomeError
	}
	validationsTotal.WithLabelValues(outcome).Inc()
	if duration < 0 {
		duration = 0
	}
	validationDurationSeconds.Observe(duration.Seconds())
}

// ObserveEvents counts each event by type.
func ObserveEvents(events []validation.Event) {
	for _, e := range events {
		validationEventsTotal.WithLabelValues(e.Type.String()).Inc()
	}
}

// ObserveCommonScale records whether a least common time scale could be computed.
func ObserveCommonScale(err error) {
	if err != nil {
		commonScaleTotal.WithLabelValues(OutcomeError).Inc()
		return
	}
	commonScaleTotal.WithLabelValues(OutcomeValid).Inc()
}
