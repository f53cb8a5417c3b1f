package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/thsrbook/api"
	"github.com/Domenick1991/thsrbook/config"
	"github.com/Domenick1991/thsrbook/internal/service/history"
	"github.com/Domenick1991/thsrbook/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run serves the history API and metrics, blocking until ctx is canceled or
// the server fails.
func Run(ctx context.Context, cfg config.HTTPConfig, historySvc history.HistoryUseCase, gatherer prometheus.Gatherer, log logger.Logger) error {
	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           NewRouter(historySvc, gatherer),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "address", cfg.Address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func NewRouter(historySvc history.HistoryUseCase, gatherer prometheus.Gatherer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api.NewReservationHandler(historySvc).Register(router.Group("/reservations"))
	api.NewStationHandler().Register(router.Group("/stations"))
	return router
}
