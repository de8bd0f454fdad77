package quote

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig configures the circuit breakers in front of providers.
type BreakerConfig struct {
	MaxRequests uint32        // requests allowed through when half-open
	Interval    time.Duration // period after which closed counts are cleared
	Timeout     time.Duration // time spent open before trying again
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
	}
}

func newBreaker(name string, cfg BreakerConfig, logger *zap.Logger) *gobreaker.CircuitBreaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		// a symbol without quote is an answer, not an outage.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNoQuote) || errors.Is(err, ErrNoNews) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return gobreaker.NewCircuitBreaker(settings)
}

type breakerQuotes struct {
	next QuoteProvider
	cb   *gobreaker.CircuitBreaker
}

// WithQuoteBreaker guards p with a circuit breaker, an open breaker fails
// immediately with gobreaker.ErrOpenState.
func WithQuoteBreaker(p QuoteProvider, cfg BreakerConfig, logger *zap.Logger) QuoteProvider {
	return &breakerQuotes{next: p, cb: newBreaker("quotes", cfg, logger)}
}

func (b *breakerQuotes) Quote(ctx context.Context, symbol string) (Quote, error) {
	v, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Quote(ctx, symbol)
	})
	if err != nil {
		return Quote{}, err
	}
	return v.(Quote), nil
}

type breakerNews struct {
	next NewsProvider
	cb   *gobreaker.CircuitBreaker
}

// WithNewsBreaker guards p with a circuit breaker.
func WithNewsBreaker(p NewsProvider, cfg BreakerConfig, logger *zap.Logger) NewsProvider {
	return &breakerNews{next: p, cb: newBreaker("news", cfg, logger)}
}

func (b *breakerNews) News(ctx context.Context) ([]Article, error) {
	v, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.News(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]Article), nil
}
