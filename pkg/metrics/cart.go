package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	RestoreRestored = "restored"
	RestoreEmpty    = "empty"
	RestoreFailed   = "failed"
	RestoreCorrupt  = "corrupt"
)

// CartMetrics records cart mutation and persistence outcomes.
type CartMetrics struct {
	mutations *prometheus.CounterVec
	failures  *prometheus.CounterVec
	restores  *prometheus.CounterVec
	lineItems prometheus.Gauge
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations applied, by operation.",
	}, []string{"op"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_persistence_failures_total",
		Help: "Cart writes the storage backend rejected, by operation.",
	}, []string{"op"})
	restores := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_restore_total",
		Help: "Startup restore attempts, by result.",
	}, []string{"result"})
	lineItems := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cart_line_items",
		Help: "Distinct products currently in the cart.",
	})
	reg.MustRegister(mutations, failures, restores, lineItems)
	return &CartMetrics{
		mutations: mutations,
		failures:  failures,
		restores:  restores,
		lineItems: lineItems,
	}
}

// IncMutation counts an applied mutation.
func (c *CartMetrics) IncMutation(op string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncPersistenceFailure counts a failed backend write.
func (c *CartMetrics) IncPersistenceFailure(op string) {
	if c == nil || c.failures == nil {
		return
	}
	c.failures.WithLabelValues(normalizeLabel(op)).Inc()
}

// ObserveRestore records the outcome of the startup restore.
func (c *CartMetrics) ObserveRestore(result string) {
	if c == nil || c.restores == nil {
		return
	}
	c.restores.WithLabelValues(normalizeLabel(result)).Inc()
}

// SetLineItems publishes the current number of distinct products.
func (c *CartMetrics) SetLineItems(n int) {
	if c == nil || c.lineItems == nil {
		return
	}
	c.lineItems.Set(float64(n))
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
