/*
Package api exposes the ledger over HTTP. Read only endpoints serve the
committed state, transactions are submitted as signed and serialized
envelopes.

	GET  /health
	GET  /wallet
	GET  /transactions
	GET  /transactions/:id
	GET  /balance/:address
	GET  /nonce/:address
	POST /tx
	POST /tx/check
	GET  /metrics
*/
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/iov-one/vault/app"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/libs/log"
)

// Server serves the HTTP API of a single ledger.
type Server struct {
	echo   *echo.Echo
	ledger *app.Ledger
	logger log.Logger
}

// NewServer returns a server with all routes registered. Metrics are
// served from given gatherer.
func NewServer(ledger *app.Ledger, metrics prometheus.Gatherer, logger log.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:   e,
		ledger: ledger,
		logger: logger,
	}
	e.HTTPErrorHandler = s.handleError
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(s.logRequest)
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1M"))

	e.GET("/health", s.health)
	e.GET("/wallet", s.wallet)
	e.GET("/transactions", s.transactions)
	e.GET("/transactions/:id", s.transaction)
	e.GET("/balance/:address", s.balance)
	e.GET("/nonce/:address", s.nonce)
	e.POST("/tx", s.deliverTx)
	e.POST("/tx/check", s.checkTx)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(metrics, promhttp.HandlerOpts{})))
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on given address until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("http server listening", "addr", addr)
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server, waiting for the running requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) logRequest(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		s.logger.Debug("http request",
			"method", c.Request().Method,
			"path", c.Path(),
			"status", c.Response().Status,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"duration", time.Since(start),
		)
		return nil
	}
}
