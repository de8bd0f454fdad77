package quote

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Default refresh periods.
const (
	DefaultWatchlistRefresh = 5 * time.Minute
	DefaultNewsRefresh      = 2 * time.Minute
)

// zapCronLogger adapts a zap logger to cron's logger interface.
type zapCronLogger struct {
	logger *zap.Logger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}

// Refresher keeps the watchlist and news lookups of a Market warm. Each tick
// fetches from the providers, whatever the cache window.
//
// The two jobs run independently on their own period. A job still running
// when its next tick fires skips that tick, and Stop does not cancel
// fetches already in flight.
type Refresher struct {
	market  *Market
	symbols func() []string
	logger  *zap.Logger
	timeout time.Duration

	watchEvery time.Duration
	newsEvery  time.Duration

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

// NewRefresher returns a stopped Refresher. symbols is called at each tick to
// get the current watchlist. Zero periods select the defaults.
func NewRefresher(market *Market, symbols func() []string, watchEvery, newsEvery time.Duration, logger *zap.Logger) *Refresher {
	if watchEvery <= 0 {
		watchEvery = DefaultWatchlistRefresh
	}
	if newsEvery <= 0 {
		newsEvery = DefaultNewsRefresh
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cl := zapCronLogger{logger: logger}
	return &Refresher{
		market:     market,
		symbols:    symbols,
		logger:     logger,
		timeout:    30 * time.Second,
		watchEvery: watchEvery,
		newsEvery:  newsEvery,
		cron:       cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
	}
}

// Start schedules both jobs and refreshes once immediately.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return fmt.Errorf("refresher is already running")
	}
	if len(r.cron.Entries()) > 0 {
		return fmt.Errorf("refresher cannot be restarted")
	}
	if _, err := r.cron.AddFunc(every(r.watchEvery), r.refreshWatchlist); err != nil {
		return fmt.Errorf("failed to schedule watchlist refresh: %w", err)
	}
	if _, err := r.cron.AddFunc(every(r.newsEvery), r.refreshNews); err != nil {
		return fmt.Errorf("failed to schedule news refresh: %w", err)
	}
	r.RefreshNow(ctx)
	r.cron.Start()
	r.running = true
	r.logger.Info("market refresher started",
		zap.Duration("watchlist_every", r.watchEvery),
		zap.Duration("news_every", r.newsEvery),
	)
	return nil
}

// Stop removes the timers. It returns a context done when running jobs have
// completed.
func (r *Refresher) Stop() context.Context {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
	return r.cron.Stop()
}

// RefreshNow runs both refreshes synchronously.
func (r *Refresher) RefreshNow(ctx context.Context) {
	r.refresh(ctx, true, true)
}

func (r *Refresher) refreshWatchlist() { r.refresh(context.Background(), true, false) }
func (r *Refresher) refreshNews()      { r.refresh(context.Background(), false, true) }

func (r *Refresher) refresh(ctx context.Context, watchlist, news bool) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if watchlist {
		res := r.market.RefreshWatchlist(ctx, r.symbols())
		r.logger.Debug("watchlist refreshed",
			zap.Int("quotes", len(res.Payload)),
			zap.Bool("cached", res.Cached),
			zap.Bool("demo", res.Synthetic || Demo(res.Payload)),
		)
	}
	if news {
		res := r.market.RefreshNews(ctx)
		r.logger.Debug("news refreshed",
			zap.Int("articles", len(res.Payload)),
			zap.Bool("cached", res.Cached),
			zap.Bool("demo", res.Synthetic),
		)
	}
}

func every(d time.Duration) string { return "@every " + d.String() }
