package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xsteinzy/betting-analysis-system/internal/domain/repository"
	"github.com/xsteinzy/betting-analysis-system/pkg/config"
	xhttp "github.com/xsteinzy/betting-analysis-system/pkg/http"
	applogger "github.com/xsteinzy/betting-analysis-system/pkg/logger"
)

// App encapsulates the API server lifecycle: HTTP surface plus the two
// database clients it reads through.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	handler    xhttp.Handler
	prediction repository.PredictionStore
	results    repository.ResultStore
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	prediction repository.PredictionStore,
	results repository.ResultStore,
) *App {
	return &App{
		cfg:        cfg,
		log:        log,
		handler:    handler,
		prediction: prediction,
		results:    results,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx := context.Background()

	if err := a.results.Init(ctx); err != nil {
		a.log.Error("results schema init failed", applogger.Error(err))
		return err
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsLogging(a.log, time.Second),
	)
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("api server started", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops the server and closes both stores.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if err := a.prediction.Close(); err != nil {
		a.log.Warn("prediction store close error", applogger.Error(err))
	}
	if err := a.results.Close(); err != nil {
		a.log.Warn("result store close error", applogger.Error(err))
	}
	a.log.Info("stopped")
	return nil
}
