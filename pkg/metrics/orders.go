package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics records the pricing cascade and identifier generation.
type OrderMetrics struct {
	recomputeDuration *prometheus.HistogramVec
	mutations         *prometheus.CounterVec
	idRetries         prometheus.Counter
	idExhausted       prometheus.Counter
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	recomputeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_recompute_duration_seconds",
		Help:    "Duration of the item-order-customer recompute cascade.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_mutations_total",
		Help: "Order and line item mutations by operation and outcome.",
	}, []string{"operation", "outcome"})
	idRetries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "customer_id_retries_total",
		Help: "Customer id suffix retries after unique-constraint collisions.",
	})
	idExhausted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "customer_id_exhausted_total",
		Help: "Customer id generations that hit the retry cap.",
	})
	reg.MustRegister(recomputeDuration, mutations, idRetries, idExhausted)
	return &OrderMetrics{
		recomputeDuration: recomputeDuration,
		mutations:         mutations,
		idRetries:         idRetries,
		idExhausted:       idExhausted,
	}
}

// ObserveRecompute records one cascade run for the named operation.
func (o *OrderMetrics) ObserveRecompute(operation string, duration time.Duration) {
	if o == nil || o.recomputeDuration == nil {
		return
	}
	o.recomputeDuration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncMutation counts one mutation attempt with its outcome.
func (o *OrderMetrics) IncMutation(operation, outcome string) {
	if o == nil || o.mutations == nil {
		return
	}
	o.mutations.WithLabelValues(normalizeLabel(operation), normalizeLabel(outcome)).Inc()
}

// IncIDRetry counts one customer id collision retry.
func (o *OrderMetrics) IncIDRetry() {
	if o == nil || o.idRetries == nil {
		return
	}
	o.idRetries.Inc()
}

// IncIDExhausted counts one generation that exceeded the retry cap.
func (o *OrderMetrics) IncIDExhausted() {
	if o == nil || o.idExhausted == nil {
		return
	}
	o.idExhausted.Inc()
}
