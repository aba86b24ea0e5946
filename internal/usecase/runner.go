package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/xsteinzy/betting-analysis-system/internal/domain/models"
	"github.com/xsteinzy/betting-analysis-system/internal/domain/repository"
	"github.com/xsteinzy/betting-analysis-system/pkg/logger"
)

// BacktestOrchestrator sequences one run end to end: validate, load history,
// generate candidates, replay the bankroll, analyze, summarize. Persistence
// is best-effort; a sink failure is returned alongside the computed result,
// never instead of it.
type BacktestOrchestrator struct {
	predictions repository.PredictionStore
	results     repository.ResultStore
	metrics     repository.Metrics
	log         *logger.Logger
	workers     int
}

// OrchestratorOption customizes a BacktestOrchestrator.
type OrchestratorOption func(*BacktestOrchestrator)

// WithSimulatorWorkers sets the per-date candidate generation parallelism.
func WithSimulatorWorkers(n int) OrchestratorOption {
	return func(o *BacktestOrchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// NewBacktestOrchestrator wires the run pipeline. results may be nil when the
// caller never persists.
func NewBacktestOrchestrator(
	predictions repository.PredictionStore,
	results repository.ResultStore,
	metrics repository.Metrics,
	log *logger.Logger,
	opts ...OrchestratorOption,
) *BacktestOrchestrator {
	o := &BacktestOrchestrator{
		predictions: predictions,
		results:     results,
		metrics:     metrics,
		log:         log,
		workers:     defaultWorkers,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes one backtest. A zero-bet run is a success: the result carries
// zeroed metrics and the insufficient-data insight. When save is true and the
// sink fails, the result is returned together with a PersistenceError.
func (o *BacktestOrchestrator) Run(ctx context.Context, params models.RunParams, save bool) (*models.BacktestResult, error) {
	started := time.Now()
	strategy := string(params.Strategy)

	strat, err := o.validate(params)
	if err != nil {
		o.metrics.RecordRun(strategy, "invalid")
		o.metrics.RecordError("validation")
		return nil, err
	}

	o.log.Info("backtest run started",
		logger.String("strategy", strategy),
		logger.String("sport", string(params.Sport)),
		logger.String("from", params.StartDate.Format("2006-01-02")),
		logger.String("to", params.EndDate.Format("2006-01-02")),
	)

	preds, err := o.predictions.Predictions(ctx, params.StartDate, params.EndDate, params.Sport)
	if err != nil {
		return nil, o.fail(strategy, "prediction load", err)
	}
	outcomes, err := o.predictions.Outcomes(ctx, params.StartDate, params.EndDate, params.Sport)
	if err != nil {
		return nil, o.fail(strategy, "outcome load", err)
	}

	sim := NewStrategySimulator(preds, WithWorkers(o.workers))
	bets, err := sim.Generate(ctx, strat, params.EntrySizes)
	if err != nil {
		return nil, o.fail(strategy, "candidate generation", err)
	}

	bankroll := NewBankrollSimulator(params.StakingPolicy, params.BetSize, params.StartingBankroll)
	replay, err := bankroll.Replay(ctx, bets, outcomes)
	if err != nil {
		return nil, o.fail(strategy, "bankroll replay", err)
	}

	perf := NewPerformanceAnalyzer(replay, params.StartingBankroll).Analyze()
	insights := NewInsightsGenerator().Generate(perf)

	result := &models.BacktestResult{
		Params:      params,
		Performance: perf,
		Insights:    insights,
		Records:     replay.Records,
		CreatedAt:   time.Now().UTC(),
	}

	o.metrics.RecordRun(strategy, "success")
	o.metrics.RecordBetsSimulated(strategy, perf.Overall.TotalBets)
	o.metrics.RecordRunDuration(strategy, time.Since(started).Seconds())
	o.log.Info("backtest run finished",
		logger.String("strategy", strategy),
		logger.Int("bets", perf.Overall.TotalBets),
		logger.Float64("roi", perf.Overall.ROI),
		logger.Duration("elapsed", time.Since(started)),
	)

	if save && o.results != nil {
		id, err := o.results.Save(ctx, result)
		if err != nil {
			o.metrics.RecordError("persistence")
			o.log.Error("result save failed", logger.Error(err))
			return result, &PersistenceError{Err: err}
		}
		result.ID = id
		o.log.Info("result saved", logger.Int64("id", id))
	}
	return result, nil
}

func (o *BacktestOrchestrator) fail(strategy, stage string, err error) error {
	o.metrics.RecordRun(strategy, "error")
	o.metrics.RecordError(stage)
	o.log.Error("backtest run failed", logger.String("stage", stage), logger.Error(err))
	return &ComputationError{Stage: stage, Err: err}
}

// validate checks every run parameter before any data is loaded, and builds
// the Strategy as a side effect.
func (o *BacktestOrchestrator) validate(params models.RunParams) (*Strategy, error) {
	if params.StartDate.IsZero() || params.EndDate.IsZero() {
		return nil, &ValidationError{Field: "date_range", Reason: "start and end dates are required"}
	}
	if params.EndDate.Before(params.StartDate) {
		return nil, &ValidationError{Field: "date_range", Reason: "end date precedes start date"}
	}
	switch params.Sport {
	case "", models.SportNBA, models.SportNFL:
	default:
		return nil, &ValidationError{Field: "sport", Reason: "unknown sport: " + string(params.Sport)}
	}
	if len(params.EntrySizes) == 0 {
		return nil, &ValidationError{Field: "entry_sizes", Reason: "at least one entry size is required"}
	}
	for _, k := range params.EntrySizes {
		if !models.ValidEntrySize(k) {
			return nil, &ValidationError{Field: "entry_sizes", Reason: fmt.Sprintf("unsupported entry size %d", k)}
		}
	}
	if params.StartingBankroll <= 0 {
		return nil, &ValidationError{Field: "starting_bankroll", Reason: "must be > 0"}
	}
	if !models.ValidStakingPolicy(params.StakingPolicy) {
		return nil, &ValidationError{Field: "staking_policy", Reason: "unknown policy: " + string(params.StakingPolicy)}
	}
	if params.BetSize <= 0 {
		return nil, &ValidationError{Field: "bet_size", Reason: "must be > 0"}
	}
	if params.StakingPolicy == models.StakingPercentage && params.BetSize > 100 {
		return nil, &ValidationError{Field: "bet_size", Reason: "percentage staking requires bet_size <= 100"}
	}
	return NewStrategy(params.Strategy, params.ConfidenceThreshold, params.EVThreshold, params.PropTypes)
}
