// Package api exposes the ledger, the watchlist and the market data as a
// JSON HTTP API.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rasticrookie/portfolio"
	"github.com/rasticrookie/portfolio/quote"
)

// Config holds the dependencies of a Server.
type Config struct {
	Ledger    *portfolio.Ledger
	Watchlist *portfolio.Watchlist
	Market    *quote.Market
	// Gatherer serves /metrics, defaults to the prometheus default gatherer.
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

// Server is the HTTP API.
type Server struct {
	ledger    *portfolio.Ledger
	watchlist *portfolio.Watchlist
	market    *quote.Market
	gatherer  prometheus.Gatherer
	logger    *zap.Logger
}

// New returns a Server.
func New(cfg Config) *Server {
	s := &Server{
		ledger:    cfg.Ledger,
		watchlist: cfg.Watchlist,
		market:    cfg.Market,
		gatherer:  cfg.Gatherer,
		logger:    cfg.Logger,
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Router returns the gin engine serving every route.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), Logger(s.logger), Recovery(s.logger), CORS())

	router.GET("/healthz", s.health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	router.GET("/trades", s.listTrades)
	router.POST("/trades", s.addTrade)
	router.DELETE("/trades/:id", s.deleteTrade)
	router.GET("/positions", s.positions)

	router.GET("/watchlist", s.getWatchlist)
	router.POST("/watchlist", s.addWatch)
	router.DELETE("/watchlist/:symbol", s.removeWatch)

	router.GET("/quotes", s.watchlistQuotes)
	router.GET("/quotes/:symbol", s.quote)
	router.GET("/futures", s.board((*quote.Market).Futures))
	router.GET("/forex", s.board((*quote.Market).Forex))
	router.GET("/crypto", s.board((*quote.Market).Crypto))
	router.GET("/news", s.news)
	return router
}

// Run serves the API on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("API server listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("API server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("API server shutdown failed: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("API server stopped")
	return nil
}
