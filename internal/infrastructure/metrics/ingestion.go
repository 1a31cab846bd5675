package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "photo_thumbnailer"

// Invocation outcomes.
const (
	OutcomeCompleted      = "completed"
	OutcomeDegraded       = "degraded"
	OutcomeAborted        = "aborted"
	OutcomeMetadataFailed = "metadata_failed"
)

type Ingestion struct {
	Thumbnails  *prometheus.CounterVec
	Invocations *prometheus.CounterVec
	Duration    prometheus.Histogram
}

func NewIngestion(reg prometheus.Registerer) *Ingestion {
	m := &Ingestion{
		Thumbnails: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ingestion",
				Name:      "thumbnails_total",
				Help:      "Thumbnails derived, by width and result (ok, error)",
			},
			[]string{"width", "result"},
		),
		Invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ingestion",
				Name:      "invocations_total",
				Help:      "Ingestion invocations by outcome",
			},
			[]string{"outcome"},
		),
		Duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "ingestion",
				Name:      "duration_seconds",
				Help:      "Wall time of one ingestion invocation",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
			},
		),
	}

	reg.MustRegister(m.Thumbnails, m.Invocations, m.Duration)

	return m
}

func (m *Ingestion) ThumbnailProcessed(width int, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}

	m.Thumbnails.WithLabelValues(strconv.Itoa(width), result).Inc()
}

func (m *Ingestion) InvocationFinished(outcome string, elapsed time.Duration) {
	m.Invocations.WithLabelValues(outcome).Inc()
	m.Duration.Observe(elapsed.Seconds())
}
