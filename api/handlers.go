package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rasticrookie/portfolio"
	"github.com/rasticrookie/portfolio/quote"
	"github.com/rasticrookie/portfolio/renderer"
)

// TradeRequest is the body of POST /trades. Quantity and price accept JSON
// numbers or numeric strings, as typed in a form.
type TradeRequest struct {
	Symbol   string      `json:"symbol"`
	Type     string      `json:"type"`
	Quantity json.Number `json:"quantity"`
	Price    json.Number `json:"price"`
}

// WatchRequest is the body of POST /watchlist.
type WatchRequest struct {
	Symbol string `json:"symbol"`
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"trades": s.ledger.Len(),
	})
}

func (s *Server) listTrades(c *gin.Context) {
	trades := s.ledger.Trades()
	if trades == nil {
		trades = []portfolio.Trade{}
	}
	c.JSON(http.StatusOK, gin.H{
		"currency": s.ledger.Currency(),
		"trades":   trades,
	})
}

func (s *Server) addTrade(c *gin.Context) {
	var req TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request body", "")
		return
	}

	t, err := s.ledger.AddInput(c.Request.Context(), req.Symbol, req.Type, req.Quantity.String(), req.Price.String())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// deleteTrade answers 204 whether the id was known or not.
func (s *Server) deleteTrade(c *gin.Context) {
	if _, err := s.ledger.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) positions(c *gin.Context) {
	c.JSON(http.StatusOK, renderer.NewPositions(s.ledger.Positions(), s.ledger.Oversells(), s.ledger.Len(), s.ledger.Currency()))
}

func (s *Server) getWatchlist(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"trending": portfolio.TrendingSymbols,
		"extras":   s.watchlist.Extras(),
		"symbols":  s.watchlist.Symbols(),
	})
}

func (s *Server) addWatch(c *gin.Context) {
	var req WatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "Invalid request body", "")
		return
	}
	added, err := s.watchlist.Add(c.Request.Context(), req.Symbol)
	if err != nil {
		s.fail(c, err)
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"added":   added,
		"symbols": s.watchlist.Symbols(),
	})
}

func (s *Server) removeWatch(c *gin.Context) {
	if _, err := s.watchlist.Remove(c.Request.Context(), c.Param("symbol")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) watchlistQuotes(c *gin.Context) {
	res := s.market.Watchlist(c.Request.Context(), s.watchlist.Symbols())
	c.JSON(http.StatusOK, gin.H{
		"quotes": res.Payload,
		"demo":   res.Synthetic || quote.Demo(res.Payload),
		"cached": res.Cached,
	})
}

func (s *Server) quote(c *gin.Context) {
	symbol := portfolio.NormalizeSymbol(c.Param("symbol"))
	res := s.market.Quote(c.Request.Context(), symbol)
	c.JSON(http.StatusOK, gin.H{
		"quote":  res.Payload,
		"demo":   res.Synthetic,
		"cached": res.Cached,
	})
}

// board serves one of the synthetic quote boards of the market.
func (s *Server) board(fetch func(*quote.Market, context.Context) quote.Result[[]quote.Quote]) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := fetch(s.market, c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"quotes": res.Payload,
			"demo":   res.Synthetic,
			"cached": res.Cached,
		})
	}
}

func (s *Server) news(c *gin.Context) {
	res := s.market.News(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"articles": res.Payload,
		"demo":     res.Synthetic,
		"cached":   res.Cached,
	})
}

func (s *Server) badRequest(c *gin.Context, msg, field string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:     msg,
		Field:     field,
		RequestID: c.GetString("request_id"),
	})
}

// fail maps a ledger or watchlist error to its response: validation errors
// are the client's, anything else is a storage failure.
func (s *Server) fail(c *gin.Context, err error) {
	var verr *portfolio.ValidationError
	if errors.As(err, &verr) {
		s.badRequest(c, verr.Error(), verr.Field)
		return
	}
	if errors.Is(err, portfolio.ErrInvalidTrade) {
		s.badRequest(c, err.Error(), "")
		return
	}
	s.logger.Error("Request failed",
		zap.String("request_id", c.GetString("request_id")),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:     "Failed to save changes",
		RequestID: c.GetString("request_id"),
	})
}
