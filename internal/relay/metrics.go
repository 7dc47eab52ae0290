package relay

import "github.com/prometheus/client_golang/prometheus"

// Upload outcome labels.
const (
	outcomeAccepted        = "accepted"
	outcomeTooLarge        = "rejected_too_large"
	outcomeLifetimeTooLong = "rejected_lifetime_too_long"
	outcomeUnavailable     = "temporarily_unavailable"
	outcomeError           = "error"
)

// Metrics carries the relay's counters. A nil *Metrics is valid and records
// nothing, so wiring metrics stays optional.
type Metrics struct {
	uploads *prometheus.CounterVec
	purged  prometheus.Counter
}

// NewMetrics registers the relay counters with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "courier",
			Subsystem: "relay",
			Name:      "uploads_total",
			Help:      "Upload requests by admission outcome.",
		}, []string{"outcome"}),
		purged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "courier",
			Subsystem: "relay",
			Name:      "purged_blobs_total",
			Help:      "Blobs removed by purge sweeps.",
		}),
	}
	reg.MustRegister(m.uploads, m.purged)
	return m
}

func (m *Metrics) observeUpload(outcome string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observePurged(n int) {
	if m == nil {
		return
	}
	m.purged.Add(float64(n))
}
