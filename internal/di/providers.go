package di

import (
	"fmt"

	"github.com/xsteinzy/betting-analysis-system/internal/domain/repository"
	"github.com/xsteinzy/betting-analysis-system/internal/handler/api"
	internalrepo "github.com/xsteinzy/betting-analysis-system/internal/repository"
	"github.com/xsteinzy/betting-analysis-system/internal/service/cache"
	"github.com/xsteinzy/betting-analysis-system/internal/usecase"
	pkgch "github.com/xsteinzy/betting-analysis-system/pkg/clickhouse"
	"github.com/xsteinzy/betting-analysis-system/pkg/config"
	xhttp "github.com/xsteinzy/betting-analysis-system/pkg/http"
	applogger "github.com/xsteinzy/betting-analysis-system/pkg/logger"
	"github.com/xsteinzy/betting-analysis-system/pkg/metrics"
	"github.com/xsteinzy/betting-analysis-system/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideClickHouseClient creates the prediction warehouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvidePredictionStore creates the read-only prediction repository.
func ProvidePredictionStore(client *pkgch.Client) repository.PredictionStore {
	return internalrepo.NewClickHousePredictionStore(client)
}

// ProvideResultStore creates the Postgres results sink.
func ProvideResultStore(cfg *config.Config) (repository.ResultStore, error) {
	store, err := internalrepo.NewPostgresResultStore(cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("result store: %w", err)
	}
	return store, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideBytesCache picks Redis when configured, in-process TTL otherwise.
func ProvideBytesCache(cfg *config.Config) cache.BytesCache {
	if cfg.Redis.Enabled {
		return cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	return cache.NewTTLCache()
}

// ProvideOrchestrator creates the backtest run pipeline.
func ProvideOrchestrator(
	predictions repository.PredictionStore,
	results repository.ResultStore,
	m repository.Metrics,
	log *applogger.Logger,
	cfg *config.Config,
) *usecase.BacktestOrchestrator {
	return usecase.NewBacktestOrchestrator(predictions, results, m, log,
		usecase.WithSimulatorWorkers(cfg.Backtest.Workers))
}

// ProvideBacktestsHandler creates the HTTP API handler.
func ProvideBacktestsHandler(
	log *applogger.Logger,
	orchestrator *usecase.BacktestOrchestrator,
	results repository.ResultStore,
	byteCache cache.BytesCache,
	cfg *config.Config,
) xhttp.Handler {
	return api.NewBacktestsEchoHandler(log, orchestrator, results, byteCache, api.CacheTTLs{
		List:    cfg.Cache.ListTTL,
		Summary: cfg.Cache.SummaryTTL,
	})
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	predictions repository.PredictionStore,
	results repository.ResultStore,
) *server.App {
	return server.New(cfg, log, handler, predictions, results)
}
