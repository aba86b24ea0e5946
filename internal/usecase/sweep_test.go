package usecase

import (
	"context"
	"testing"

	"github.com/xsteinzy/betting-analysis-system/internal/domain/models"
	"github.com/xsteinzy/betting-analysis-system/pkg/logger"
)

func TestGridShape(t *testing.T) {
	s := NewSweep(nil, logger.Nop())
	grid := s.Grid(SweepConfig{
		Start:            day(1),
		End:              day(7),
		StartingBankroll: 1000,
		BetSize:          20,
	})

	// 4 strategy variants crossed with both-sports, NBA, and NFL.
	if len(grid) != 12 {
		t.Fatalf("grid cells = %d, want 12", len(grid))
	}

	sports := map[models.Sport]int{}
	kinds := map[models.StrategyKind]int{}
	for _, p := range grid {
		sports[p.Sport]++
		kinds[p.Strategy]++
		if len(p.EntrySizes) != 4 {
			t.Fatalf("default entry sizes = %v", p.EntrySizes)
		}
		if p.StakingPolicy != models.StakingFlat {
			t.Fatalf("default policy = %v", p.StakingPolicy)
		}
		if !p.StartDate.Equal(day(1)) || !p.EndDate.Equal(day(7)) {
			t.Fatalf("window = %v..%v", p.StartDate, p.EndDate)
		}
	}
	if sports[""] != 4 || sports[models.SportNBA] != 4 || sports[models.SportNFL] != 4 {
		t.Fatalf("sport spread = %v", sports)
	}
	if kinds[models.StrategyConfidenceBased] != 6 {
		t.Fatalf("strategy spread = %v", kinds)
	}
}

func TestSweepRunCompletesEveryCell(t *testing.T) {
	results := &fakeResultStore{}
	o, _ := newTestOrchestrator(&fakePredictionStore{}, results)
	s := NewSweep(o, logger.Nop())

	cfg := SweepConfig{
		Start:            day(1),
		End:              day(7),
		StartingBankroll: 1000,
		BetSize:          20,
		Workers:          3,
	}
	out, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	grid := s.Grid(cfg)
	if len(out) != len(grid) {
		t.Fatalf("outcomes = %d, want %d", len(out), len(grid))
	}
	for i, oc := range out {
		if oc.Err != nil {
			t.Fatalf("cell %d failed: %v", i, oc.Err)
		}
		// outcomes come back in grid order
		if oc.Params.Strategy != grid[i].Strategy || oc.Params.Sport != grid[i].Sport {
			t.Fatalf("cell %d params = %v/%v, want %v/%v",
				i, oc.Params.Strategy, oc.Params.Sport, grid[i].Strategy, grid[i].Sport)
		}
		if oc.ResultID == 0 {
			t.Fatalf("cell %d was not persisted", i)
		}
	}
	if len(results.saved) != len(grid) {
		t.Fatalf("saved = %d, want %d", len(results.saved), len(grid))
	}
}

func TestSweepRecordsCellFailures(t *testing.T) {
	// Every save fails, so every cell carries a PersistenceError alongside
	// its computed figures.
	results := &fakeResultStore{saveErr: errSinkDown}
	o, _ := newTestOrchestrator(&fakePredictionStore{}, results)
	s := NewSweep(o, logger.Nop())

	out, err := s.Run(context.Background(), SweepConfig{
		Start:            day(1),
		End:              day(7),
		StartingBankroll: 1000,
		BetSize:          20,
	})
	if err != nil {
		t.Fatal(err)
	}
	for i, oc := range out {
		if oc.Err == nil {
			t.Fatalf("cell %d must carry the sink error", i)
		}
		if !IsPersistence(oc.Err) {
			t.Fatalf("cell %d err = %v, want PersistenceError", i, oc.Err)
		}
	}
}
