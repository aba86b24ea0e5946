package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/xsteinzy/betting-analysis-system/internal/domain/models"
	"github.com/xsteinzy/betting-analysis-system/internal/domain/repository"
	"github.com/xsteinzy/betting-analysis-system/pkg/logger"
)

type fakePredictionStore struct {
	predictions []models.HistoricalPrediction
	outcomes    models.OutcomeSet
	err         error
}

func (f *fakePredictionStore) Predictions(ctx context.Context, from, to time.Time, sport models.Sport) ([]models.HistoricalPrediction, error) {
	return f.predictions, f.err
}

func (f *fakePredictionStore) Outcomes(ctx context.Context, from, to time.Time, sport models.Sport) (models.OutcomeSet, error) {
	return f.outcomes, f.err
}

func (f *fakePredictionStore) Health(ctx context.Context) error { return nil }
func (f *fakePredictionStore) Close() error                     { return nil }

type fakeResultStore struct {
	mu      sync.Mutex
	saved   []*models.BacktestResult
	nextID  int64
	saveErr error
}

func (f *fakeResultStore) Init(ctx context.Context) error { return nil }

func (f *fakeResultStore) Save(ctx context.Context, r *models.BacktestResult) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	f.saved = append(f.saved, r)
	f.nextID++
	return f.nextID, nil
}

func (f *fakeResultStore) List(ctx context.Context, strategy models.StrategyKind, sport models.Sport, limit int) ([]models.StoredResult, error) {
	return nil, nil
}
func (f *fakeResultStore) Get(ctx context.Context, id int64) (*models.BacktestResult, error) {
	return nil, nil
}
func (f *fakeResultStore) Latest(ctx context.Context) (*models.BacktestResult, error) {
	return nil, nil
}
func (f *fakeResultStore) Summary(ctx context.Context) (*models.ResultSummary, error) {
	return nil, nil
}
func (f *fakeResultStore) BestStrategies(ctx context.Context, metric string, limit int) ([]models.StoredResult, error) {
	return nil, nil
}
func (f *fakeResultStore) Evolution(ctx context.Context, strategy models.StrategyKind) ([]models.StoredResult, error) {
	return nil, nil
}
func (f *fakeResultStore) Health(ctx context.Context) error { return nil }
func (f *fakeResultStore) Close() error                     { return nil }

type fakeMetrics struct {
	mu        sync.Mutex
	runs      map[string]int // strategy|status
	errors    map[string]int
	bets      int
	durations int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{runs: map[string]int{}, errors: map[string]int{}}
}

func (f *fakeMetrics) RecordRun(strategy, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs[strategy+"|"+status]++
}

func (f *fakeMetrics) RecordBetsSimulated(strategy string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bets += n
}

func (f *fakeMetrics) RecordRunDuration(strategy string, s float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.durations++
}

func (f *fakeMetrics) RecordError(kind string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors[kind]++
}

var errSinkDown = errors.New("sink down")

func validParams() models.RunParams {
	return models.RunParams{
		Strategy:            models.StrategyConfidenceBased,
		StartDate:           day(1),
		EndDate:             day(10),
		ConfidenceThreshold: 70,
		EntrySizes:          []int{2},
		StartingBankroll:    1000,
		BetSize:             50,
		StakingPolicy:       models.StakingFlat,
	}
}

func newTestOrchestrator(preds *fakePredictionStore, results repository.ResultStore) (*BacktestOrchestrator, *fakeMetrics) {
	m := newFakeMetrics()
	o := NewBacktestOrchestrator(preds, results, m, logger.Nop())
	return o, m
}

func TestRunValidationFailures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.RunParams)
		field  string
	}{
		{"missing dates", func(p *models.RunParams) { p.StartDate, p.EndDate = time.Time{}, time.Time{} }, "date_range"},
		{"inverted range", func(p *models.RunParams) { p.StartDate, p.EndDate = day(10), day(1) }, "date_range"},
		{"unknown sport", func(p *models.RunParams) { p.Sport = "MLB" }, "sport"},
		{"no entry sizes", func(p *models.RunParams) { p.EntrySizes = nil }, "entry_sizes"},
		{"bad entry size", func(p *models.RunParams) { p.EntrySizes = []int{7} }, "entry_sizes"},
		{"zero bankroll", func(p *models.RunParams) { p.StartingBankroll = 0 }, "starting_bankroll"},
		{"bad policy", func(p *models.RunParams) { p.StakingPolicy = "martingale" }, "staking_policy"},
		{"zero bet size", func(p *models.RunParams) { p.BetSize = 0 }, "bet_size"},
		{"percent over 100", func(p *models.RunParams) {
			p.StakingPolicy = models.StakingPercentage
			p.BetSize = 150
		}, "bet_size"},
		{"bad strategy", func(p *models.RunParams) { p.Strategy = "mystery" }, "strategy"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o, m := newTestOrchestrator(&fakePredictionStore{}, nil)
			params := validParams()
			tc.mutate(&params)

			result, err := o.Run(context.Background(), params, false)
			if result != nil {
				t.Fatal("invalid params must not produce a result")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("field = %q, want %q", verr.Field, tc.field)
			}
			if m.errors["validation"] != 1 {
				t.Fatalf("validation errors recorded = %d", m.errors["validation"])
			}
		})
	}
}

func TestRunZeroBetsIsSuccess(t *testing.T) {
	o, m := newTestOrchestrator(&fakePredictionStore{}, nil)

	result, err := o.Run(context.Background(), validParams(), false)
	if err != nil {
		t.Fatal(err)
	}
	if result.Performance.Overall.TotalBets != 0 {
		t.Fatalf("bets = %d", result.Performance.Overall.TotalBets)
	}
	if len(result.Insights) != 1 || result.Insights[0].Title != "Insufficient Sample Size" {
		t.Fatalf("insights = %+v", result.Insights)
	}
	if result.Performance.Overall.EndingBankroll != 1000 {
		t.Fatalf("ending bankroll = %v", result.Performance.Overall.EndingBankroll)
	}
	if m.runs["confidence_based|success"] != 1 {
		t.Fatalf("runs = %v", m.runs)
	}
}

func TestRunEndToEndWithSave(t *testing.T) {
	preds := &fakePredictionStore{
		predictions: []models.HistoricalPrediction{
			mkPred(day(1), "a", "points", 90),
			mkPred(day(1), "b", "points", 85),
		},
	}
	preds.outcomes = models.OutcomeSet{}
	for _, p := range preds.predictions {
		preds.outcomes[models.OutcomeKey{PlayerID: p.PlayerID, GameID: p.GameID, PropType: p.PropType}] = 25
	}
	results := &fakeResultStore{}
	o, m := newTestOrchestrator(preds, results)

	result, err := o.Run(context.Background(), validParams(), true)
	if err != nil {
		t.Fatal(err)
	}
	if result.Performance.Overall.TotalBets != 1 || result.Performance.Overall.Wins != 1 {
		t.Fatalf("overall = %+v", result.Performance.Overall)
	}
	// flat 50 on a 2-pick: payout 150, profit 100
	if result.Performance.Overall.EndingBankroll != 1100 {
		t.Fatalf("ending bankroll = %v", result.Performance.Overall.EndingBankroll)
	}
	if result.ID != 1 {
		t.Fatalf("id = %d", result.ID)
	}
	if len(results.saved) != 1 {
		t.Fatalf("saved = %d", len(results.saved))
	}
	if m.bets != 1 || m.durations != 1 {
		t.Fatalf("metrics = %+v", m)
	}
	if result.CreatedAt.IsZero() {
		t.Fatal("created_at must be set")
	}
}

func TestRunSaveFailureKeepsResult(t *testing.T) {
	results := &fakeResultStore{saveErr: errSinkDown}
	o, m := newTestOrchestrator(&fakePredictionStore{}, results)

	result, err := o.Run(context.Background(), validParams(), true)
	if result == nil {
		t.Fatal("the computed result must survive a sink failure")
	}
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want PersistenceError", err)
	}
	if result.ID != 0 {
		t.Fatalf("id = %d, want unset", result.ID)
	}
	if m.errors["persistence"] != 1 {
		t.Fatalf("errors = %v", m.errors)
	}
}

func TestRunSkipsSaveWhenNotRequested(t *testing.T) {
	results := &fakeResultStore{}
	o, _ := newTestOrchestrator(&fakePredictionStore{}, results)

	result, err := o.Run(context.Background(), validParams(), false)
	if err != nil {
		t.Fatal(err)
	}
	if len(results.saved) != 0 || result.ID != 0 {
		t.Fatalf("save must be skipped, saved=%d id=%d", len(results.saved), result.ID)
	}
}

func TestRunPredictionLoadFailure(t *testing.T) {
	preds := &fakePredictionStore{err: errors.New("clickhouse unreachable")}
	o, m := newTestOrchestrator(preds, nil)

	result, err := o.Run(context.Background(), validParams(), false)
	if result != nil {
		t.Fatal("load failure must not produce a result")
	}
	var cerr *ComputationError
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, want ComputationError", err)
	}
	if cerr.Stage != "prediction load" {
		t.Fatalf("stage = %q", cerr.Stage)
	}
	if m.runs["confidence_based|error"] != 1 {
		t.Fatalf("runs = %v", m.runs)
	}
}
