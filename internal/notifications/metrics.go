package notifications

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the job run counters exported on /metrics.
type Metrics struct {
	runs          *prometheus.CounterVec
	sent          *prometheus.CounterVec
	skipped       *prometheus.CounterVec
	userErrors    *prometheus.CounterVec
	invalidTokens prometheus.Counter
	runDuration   *prometheus.HistogramVec
}

// NewMetrics registers job metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "traineasy_notification_job_runs_total",
			Help: "Notification job runs by kind and outcome.",
		}, []string{"kind", "outcome"}),
		sent: f.NewCounterVec(prometheus.CounterOpts{
			Name: "traineasy_notifications_sent_total",
			Help: "Users notified, by kind.",
		}, []string{"kind"}),
		skipped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "traineasy_notifications_skipped_total",
			Help: "Users skipped, by kind and reason.",
		}, []string{"kind", "reason"}),
		userErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "traineasy_notification_user_errors_total",
			Help: "Per-user failures isolated during job runs.",
		}, []string{"kind"}),
		invalidTokens: f.NewCounter(prometheus.CounterOpts{
			Name: "traineasy_invalid_tokens_pruned_total",
			Help: "Device tokens deleted after FCM reported them invalid.",
		}),
		runDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "traineasy_notification_job_duration_seconds",
			Help:    "Wall time of a job run.",
			Buckets: prometheus.DefBuckets,
		}, []string{"job"}),
	}
}

// Nil-safe helpers so runners built without metrics still work.

func (m *Metrics) run(kind Kind, outcome string) {
	if m != nil {
		m.runs.WithLabelValues(string(kind), outcome).Inc()
	}
}

func (m *Metrics) sentOne(kind Kind) {
	if m != nil {
		m.sent.WithLabelValues(string(kind)).Inc()
	}
}

func (m *Metrics) skip(kind Kind, reason string) {
	if m != nil {
		m.skipped.WithLabelValues(string(kind), reason).Inc()
	}
}

func (m *Metrics) userError(kind Kind) {
	if m != nil {
		m.userErrors.WithLabelValues(string(kind)).Inc()
	}
}

func (m *Metrics) pruned(n int64) {
	if m != nil && n > 0 {
		m.invalidTokens.Add(float64(n))
	}
}

func (m *Metrics) observe(job string, seconds float64) {
	if m != nil {
		m.runDuration.WithLabelValues(job).Observe(seconds)
	}
}
