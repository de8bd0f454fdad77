package quote

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts cache and provider activity. A nil *Metrics records nothing.
type Metrics struct {
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	Fallbacks      *prometheus.CounterVec // by cache key kind
	ProviderErrors *prometheus.CounterVec // by provider
}

// NewMetrics creates and registers the metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "tradedash_quote_cache_hits_total",
			Help: "Total number of lookups answered from the quote cache",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "tradedash_quote_cache_misses_total",
			Help: "Total number of lookups that missed the quote cache",
		}),
		Fallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tradedash_quote_fallbacks_total",
			Help: "Total number of lookups served with synthetic data",
		}, []string{"kind"}),
		ProviderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tradedash_quote_provider_errors_total",
			Help: "Total number of failed provider calls",
		}, []string{"provider"}),
	}
}

func (m *Metrics) hit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

func (m *Metrics) miss() {
	if m != nil {
		m.CacheMisses.Inc()
	}
}

func (m *Metrics) fallback(key string) {
	if m != nil {
		m.Fallbacks.WithLabelValues(keyKind(key)).Inc()
	}
}

func (m *Metrics) providerError(provider string) {
	if m != nil {
		m.ProviderErrors.WithLabelValues(provider).Inc()
	}
}
