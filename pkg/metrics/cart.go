package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart transitions and persistence outcomes.
type CartMetrics struct {
	actions         *prometheus.CounterVec
	persist         *prometheus.CounterVec
	persistDuration prometheus.Histogram
	items           prometheus.Gauge
	amount          prometheus.Gauge
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	actions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_actions_total",
		Help: "Cart actions applied, by action kind.",
	}, []string{"action"})
	persist := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_persist_total",
		Help: "Cart persistence attempts, by result.",
	}, []string{"result"})
	persistDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cart_persist_duration_seconds",
		Help:    "Duration of cart writes to the key-value store.",
		Buckets: prometheus.DefBuckets,
	})
	items := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cart_items",
		Help: "Total quantity of items currently in the cart.",
	})
	amount := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cart_total_amount",
		Help: "Current cart total amount.",
	})
	reg.MustRegister(actions, persist, persistDuration, items, amount)
	return &CartMetrics{
		actions:         actions,
		persist:         persist,
		persistDuration: persistDuration,
		items:           items,
		amount:          amount,
	}
}

// IncAction counts an applied action.
func (m *CartMetrics) IncAction(action string) {
	if m == nil || m.actions == nil {
		return
	}
	m.actions.WithLabelValues(normalizeLabel(action)).Inc()
}

// ObservePersist records a write attempt and its duration.
func (m *CartMetrics) ObservePersist(duration time.Duration, err error) {
	if m == nil || m.persist == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.persist.WithLabelValues(result).Inc()
	m.persistDuration.Observe(duration.Seconds())
}

// SetTotals publishes the current derived totals.
func (m *CartMetrics) SetTotals(items int, amount float64) {
	if m == nil || m.items == nil {
		return
	}
	m.items.Set(float64(items))
	m.amount.Set(amount)
}

func normalizeLabel(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
