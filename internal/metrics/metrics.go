// Package metrics exports storefront counters to prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Store records cart, checkout and order activity. A nil *Store is valid and
// records nothing.
type Store struct {
	cartMutations  *prometheus.CounterVec
	checkouts      *prometheus.CounterVec
	submitDuration prometheus.Histogram
	statusUpdates  *prometheus.CounterVec
}

// New registers the storefront metrics on the provided registerer.
func New(reg prometheus.Registerer) *Store {
	if reg == nil {
		return &Store{}
	}
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_mutations_total",
		Help: "Cart ledger mutations by operation.",
	}, []string{"op"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_checkout_submissions_total",
		Help: "Checkout submissions by outcome.",
	}, []string{"outcome"})
	submitDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_checkout_submit_duration_seconds",
		Help:    "Time from submit to order creation result, including the payment delay.",
		Buckets: prometheus.DefBuckets,
	})
	statusUpdates := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_order_status_updates_total",
		Help: "Order status changes by target status.",
	}, []string{"status"})
	reg.MustRegister(cartMutations, checkouts, submitDuration, statusUpdates)
	return &Store{
		cartMutations:  cartMutations,
		checkouts:      checkouts,
		submitDuration: submitDuration,
		statusUpdates:  statusUpdates,
	}
}

func (s *Store) CartMutation(op string) {
	if s == nil || s.cartMutations == nil {
		return
	}
	s.cartMutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// Checkout records one submission outcome and how long it took.
func (s *Store) Checkout(outcome string, d time.Duration) {
	if s == nil || s.checkouts == nil {
		return
	}
	s.checkouts.WithLabelValues(normalizeLabel(outcome)).Inc()
	s.submitDuration.Observe(d.Seconds())
}

func (s *Store) StatusUpdate(status string) {
	if s == nil || s.statusUpdates == nil {
		return
	}
	s.statusUpdates.WithLabelValues(normalizeLabel(status)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
