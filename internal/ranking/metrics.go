package ranking

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricRankTotal          = "feed_rank_total"
	MetricRankDuration       = "feed_rank_duration_seconds"
	MetricRankCandidateCount = "feed_rank_candidates"
)

// Metrics contains Prometheus metrics for feed ranking.
// All operations are thread-safe.
type Metrics struct {
	rankTotal      *prometheus.CounterVec
	rankDuration   prometheus.Histogram
	candidateCount prometheus.Histogram
}

// NewMetrics creates and returns a new Metrics instance with all collectors
// initialized. The metrics are not registered; call Register to register
// them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		rankTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricRankTotal,
			Help: "Total number of feed ranking calls, by feed mode",
		}, []string{"mode"}),
		rankDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricRankDuration,
			Help:    "Histogram of feed ranking call duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		candidateCount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricRankCandidateCount,
			Help:    "Histogram of candidate pool size per ranking call",
			Buckets: []float64{5, 10, 30, 60, 90, 150},
		}),
	}
}

// Register registers all metrics with the given registry.
// Returns an error if registration fails.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.rankTotal,
		m.rankDuration,
		m.candidateCount,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveRank records one ranking call.
func (m *Metrics) ObserveRank(mode Mode, candidates int, d time.Duration) {
	m.rankTotal.WithLabelValues(string(mode)).Inc()
	m.rankDuration.Observe(d.Seconds())
	m.candidateCount.Observe(float64(candidates))
}
