package cache

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes cache behavior to prometheus: hit rate, coordinator
// round trips and rejected responses. All methods are nil-receiver safe so
// an unconfigured cache pays nothing.
type Metrics struct {
	hits               prometheus.Counter
	misses             prometheus.Counter
	coordinatorCalls   prometheus.Counter
	validationFailures prometheus.Counter
	removals           prometheus.Counter
}

// NewMetrics creates cache counters and registers them with reg.
// A nil registerer leaves the counters unregistered but functional.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dingostore_vector_index_cache_hits_total",
			Help: "Lookups answered from the cache.",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dingostore_vector_index_cache_misses_total",
			Help: "Lookups that fell through to the coordinator.",
		}),
		coordinatorCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dingostore_vector_index_cache_coordinator_calls_total",
			Help: "Coordinator round trips performed by the slow path.",
		}),
		validationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dingostore_vector_index_cache_validation_failures_total",
			Help: "Coordinator responses rejected by structural validation.",
		}),
		removals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dingostore_vector_index_cache_removals_total",
			Help: "Explicit cache invalidations.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.hits, m.misses, m.coordinatorCalls, m.validationFailures, m.removals)
	}
	return m
}

func (m *Metrics) hit() {
	if m != nil {
		m.hits.Inc()
	}
}

func (m *Metrics) miss() {
	if m != nil {
		m.misses.Inc()
	}
}

func (m *Metrics) coordinatorCall() {
	if m != nil {
		m.coordinatorCalls.Inc()
	}
}

func (m *Metrics) validationFailure() {
	if m != nil {
		m.validationFailures.Inc()
	}
}

func (m *Metrics) removal() {
	if m != nil {
		m.removals.Inc()
	}
}
