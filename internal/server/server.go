package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"stockledger/internal/config"
	"stockledger/internal/metrics"
	"stockledger/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// 各handlerの RegisterRoutes
type RouteRegistrar interface {
	RegisterRoutes(e *echo.Echo)
}

// New builds the echo instance with CORS, recovery, request logging and the ops endpoints.
func New(cfg config.Config, log *zap.Logger, m *metrics.Metrics, handlers ...RouteRegistrar) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLog(log, m))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{cfg.AllowedOrigin},
		AllowHeaders: []string{"content-type"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
	}))

	RegisterRoutes(e, m, handlers...)
	return e
}

// Start serves until ctx is canceled, then shuts down gracefully.
func Start(ctx context.Context, e *echo.Echo, addr string, log *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
