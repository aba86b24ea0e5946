package repository

import (
	"context"
	"time"

	"github.com/xsteinzy/betting-analysis-system/internal/domain/models"
)

// PredictionStore is the read-only prediction/outcome repository. The core
// never depends on an ambient store; implementations are injected.
type PredictionStore interface {
	// Predictions returns completed-game predictions in [from, to], optionally
	// filtered by sport (empty = both), ordered by game date ascending.
	Predictions(ctx context.Context, from, to time.Time, sport models.Sport) ([]models.HistoricalPrediction, error)

	// Outcomes returns the resolved stat lines for the same window, keyed for
	// leg evaluation.
	Outcomes(ctx context.Context, from, to time.Time, sport models.Sport) (models.OutcomeSet, error)

	Health(ctx context.Context) error
	Close() error
}

// ResultStore is the append-only persistence sink for completed runs.
// Concurrent writers append independent rows; nothing is updated in place.
type ResultStore interface {
	Init(ctx context.Context) error
	Save(ctx context.Context, r *models.BacktestResult) (int64, error)
	List(ctx context.Context, strategy models.StrategyKind, sport models.Sport, limit int) ([]models.StoredResult, error)
	Get(ctx context.Context, id int64) (*models.BacktestResult, error)
	Latest(ctx context.Context) (*models.BacktestResult, error)
	Summary(ctx context.Context) (*models.ResultSummary, error)
	BestStrategies(ctx context.Context, metric string, limit int) ([]models.StoredResult, error)
	Evolution(ctx context.Context, strategy models.StrategyKind) ([]models.StoredResult, error)
	Health(ctx context.Context) error
	Close() error
}

// Metrics records operational telemetry for backtest runs.
type Metrics interface {
	RecordRun(strategy, status string)
	RecordBetsSimulated(strategy string, n int)
	RecordRunDuration(strategy string, seconds float64)
	RecordError(kind string)
}
