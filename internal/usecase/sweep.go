package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/xsteinzy/betting-analysis-system/internal/domain/models"
	"github.com/xsteinzy/betting-analysis-system/pkg/logger"
	"github.com/xsteinzy/betting-analysis-system/pkg/queue"
)

const sweepMessageType = "backtest.run"

// SweepConfig describes one grid sweep. Every cell shares the window and
// bankroll settings; strategies and sports span the grid.
type SweepConfig struct {
	Start            time.Time
	End              time.Time
	StartingBankroll float64
	BetSize          float64
	StakingPolicy    models.StakingPolicy
	EntrySizes       []int
	Workers          int
}

// SweepOutcome is the per-cell result of a sweep. Err is set when the run
// failed; ResultID when it was persisted.
type SweepOutcome struct {
	Params   models.RunParams
	ResultID int64
	Bets     int
	ROI      float64
	Err      error
}

// Sweep fans a grid of runs out over a worker pool. Runs share only the
// read-only prediction store and each persists independently, so cells are
// safe to execute concurrently.
type Sweep struct {
	orchestrator *BacktestOrchestrator
	log          *logger.Logger
}

// NewSweep creates a sweep over the given orchestrator.
func NewSweep(orchestrator *BacktestOrchestrator, log *logger.Logger) *Sweep {
	return &Sweep{orchestrator: orchestrator, log: log}
}

// Grid expands the weekly strategy grid: every default strategy variant
// crossed with NBA, NFL, and both sports combined.
func (s *Sweep) Grid(cfg SweepConfig) []models.RunParams {
	type variant struct {
		kind models.StrategyKind
		conf float64
		ev   float64
	}
	variants := []variant{
		{models.StrategyConfidenceBased, 70, 0},
		{models.StrategyConfidenceBased, 80, 0},
		{models.StrategyValueBased, 0, 10},
		{models.StrategyComposite, 65, 5},
	}
	sports := []models.Sport{"", models.SportNBA, models.SportNFL}

	sizes := cfg.EntrySizes
	if len(sizes) == 0 {
		sizes = []int{2, 3, 4, 5}
	}
	policy := cfg.StakingPolicy
	if policy == "" {
		policy = models.StakingFlat
	}

	var grid []models.RunParams
	for _, v := range variants {
		for _, sport := range sports {
			grid = append(grid, models.RunParams{
				Strategy:            v.kind,
				StartDate:           cfg.Start,
				EndDate:             cfg.End,
				Sport:               sport,
				ConfidenceThreshold: v.conf,
				EVThreshold:         v.ev,
				EntrySizes:          sizes,
				StartingBankroll:    cfg.StartingBankroll,
				BetSize:             cfg.BetSize,
				StakingPolicy:       policy,
			})
		}
	}
	return grid
}

// Run executes the full grid and blocks until every cell has finished.
// Outcomes come back in grid order regardless of completion order.
func (s *Sweep) Run(ctx context.Context, cfg SweepConfig) ([]SweepOutcome, error) {
	grid := s.Grid(cfg)

	job := &sweepJob{sweep: s, outcomes: make(map[int]SweepOutcome, len(grid))}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 2
	}
	q := queue.NewMemoryQueue(s.log, &queue.QueueConfig{
		Workers:   workers,
		QueueSize: len(grid),
	}, []queue.Job{job})
	if err := q.Start(); err != nil {
		return nil, fmt.Errorf("start sweep queue: %w", err)
	}

	s.log.Info("sweep started",
		logger.Int("cells", len(grid)),
		logger.Int("workers", workers))

	for i, params := range grid {
		if err := q.PublishMessage(ctx, sweepMessageType, &sweepCell{Index: i, Params: params}); err != nil {
			q.Stop()
			return nil, fmt.Errorf("submit sweep cell: %w", err)
		}
	}
	q.Stop()

	out := make([]SweepOutcome, 0, len(grid))
	job.mu.Lock()
	indexes := make([]int, 0, len(job.outcomes))
	for i := range job.outcomes {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	for _, i := range indexes {
		out = append(out, job.outcomes[i])
	}
	job.mu.Unlock()

	s.log.Info("sweep finished", logger.Int("completed", len(out)))
	return out, nil
}

// sweepCell is one queued grid cell.
type sweepCell struct {
	Index  int
	Params models.RunParams
}

// sweepJob runs one cell per message and records its outcome.
type sweepJob struct {
	sweep    *Sweep
	mu       sync.Mutex
	outcomes map[int]SweepOutcome
}

func (j *sweepJob) Name() string { return "backtest-sweep" }
func (j *sweepJob) Type() string { return sweepMessageType }

func (j *sweepJob) Handle(ctx context.Context, payload interface{}) error {
	cell, err := queue.ParsePayload[sweepCell](payload)
	if err != nil {
		return err
	}

	outcome := SweepOutcome{Params: cell.Params}
	result, err := j.sweep.orchestrator.Run(ctx, cell.Params, true)
	if result != nil {
		outcome.ResultID = result.ID
		outcome.Bets = result.Performance.Overall.TotalBets
		outcome.ROI = result.Performance.Overall.ROI
	}
	if err != nil {
		// A failed save still carries the computed figures above; any other
		// error means the cell produced nothing.
		outcome.Err = err
	}

	j.mu.Lock()
	j.outcomes[cell.Index] = outcome
	j.mu.Unlock()

	// Cell failures are recorded, not retried; the grid always completes.
	return nil
}
