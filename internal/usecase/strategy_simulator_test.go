package usecase

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/xsteinzy/betting-analysis-system/internal/domain/models"
)

func day(d int) time.Time {
	return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)
}

func mkPred(date time.Time, player, propType string, conf float64) models.HistoricalPrediction {
	return models.HistoricalPrediction{
		PlayerID:       player,
		GameID:         "g-" + date.Format("0102"),
		Sport:          models.SportNBA,
		PropType:       propType,
		GameDate:       date,
		ProjectedValue: 20,
		Confidence:     conf,
		ExpectedValue:  (conf - 50) * 0.5,
	}
}

func confidenceStrategy(t *testing.T, threshold float64) *Strategy {
	t.Helper()
	s, err := NewStrategy(models.StrategyConfidenceBased, threshold, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestGenerateChunksNonOverlapping(t *testing.T) {
	// 5 qualifying props on one date: two 2-pick entries, one partial dropped.
	preds := []models.HistoricalPrediction{
		mkPred(day(1), "a", "points", 90),
		mkPred(day(1), "b", "points", 85),
		mkPred(day(1), "c", "points", 80),
		mkPred(day(1), "d", "points", 75),
		mkPred(day(1), "e", "points", 70),
	}
	sim := NewStrategySimulator(preds)
	bets, err := sim.Generate(context.Background(), confidenceStrategy(t, 60), []int{2})
	if err != nil {
		t.Fatal(err)
	}
	if len(bets) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(bets))
	}
	// strongest first, no prediction reused within a size
	if bets[0].Legs[0].PlayerID != "a" || bets[0].Legs[1].PlayerID != "b" {
		t.Fatalf("unexpected first entry legs %v", bets[0].PropTypes())
	}
	if bets[1].Legs[0].PlayerID != "c" || bets[1].Legs[1].PlayerID != "d" {
		t.Fatalf("unexpected second entry legs")
	}
	for _, b := range bets {
		if b.PayoutMultiplier != 3.0 {
			t.Fatalf("2-pick payout = %v, want 3.0", b.PayoutMultiplier)
		}
	}
}

func TestGenerateDeduplicatesPerPlayerProp(t *testing.T) {
	// Same player+prop twice on one date: only the higher-confidence row counts.
	preds := []models.HistoricalPrediction{
		mkPred(day(1), "a", "points", 70),
		mkPred(day(1), "a", "points", 95),
		mkPred(day(1), "b", "points", 80),
	}
	sim := NewStrategySimulator(preds)
	bets, err := sim.Generate(context.Background(), confidenceStrategy(t, 60), []int{2})
	if err != nil {
		t.Fatal(err)
	}
	if len(bets) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(bets))
	}
	if bets[0].Legs[0].Confidence != 95 {
		t.Fatalf("dedupe must keep highest confidence, got %v", bets[0].Legs[0].Confidence)
	}
}

func TestGenerateOrderingAndSeq(t *testing.T) {
	preds := []models.HistoricalPrediction{
		mkPred(day(3), "a", "points", 90),
		mkPred(day(3), "b", "points", 85),
		mkPred(day(1), "c", "points", 90),
		mkPred(day(1), "d", "points", 85),
		mkPred(day(2), "e", "points", 90),
		mkPred(day(2), "f", "points", 85),
	}
	sim := NewStrategySimulator(preds)
	bets, err := sim.Generate(context.Background(), confidenceStrategy(t, 60), []int{2})
	if err != nil {
		t.Fatal(err)
	}
	if len(bets) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(bets))
	}
	for i, b := range bets {
		if b.Seq != i {
			t.Fatalf("seq[%d] = %d", i, b.Seq)
		}
		if i > 0 && bets[i-1].Date.After(b.Date) {
			t.Fatalf("dates out of order at %d", i)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	var preds []models.HistoricalPrediction
	for d := 1; d <= 10; d++ {
		for p := 0; p < 12; p++ {
			preds = append(preds, mkPred(day(d), fmt.Sprintf("p%02d", p), "points", 60+float64(p)*3))
		}
	}
	strat := confidenceStrategy(t, 65)

	first, err := NewStrategySimulator(preds, WithWorkers(8)).Generate(context.Background(), strat, []int{2, 3, 5})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := NewStrategySimulator(preds, WithWorkers(8)).Generate(context.Background(), strat, []int{2, 3, 5})
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs from first run", i)
		}
	}
}

func TestGenerateNoQualifying(t *testing.T) {
	preds := []models.HistoricalPrediction{mkPred(day(1), "a", "points", 55)}
	sim := NewStrategySimulator(preds)
	bets, err := sim.Generate(context.Background(), confidenceStrategy(t, 90), []int{2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(bets) != 0 {
		t.Fatalf("expected no entries, got %d", len(bets))
	}
}

func TestGenerateCancelledContext(t *testing.T) {
	preds := []models.HistoricalPrediction{
		mkPred(day(1), "a", "points", 90),
		mkPred(day(1), "b", "points", 85),
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewStrategySimulator(preds).Generate(ctx, confidenceStrategy(t, 60), []int{2})
	if err == nil {
		t.Fatal("expected context error")
	}
}

func TestGenerateGroupsByCalendarDayAcrossZones(t *testing.T) {
	// Two tip-off times on the same UTC calendar day, one carried in a
	// non-UTC zone. Both must land in one date group and pair into one entry.
	est := time.FixedZone("EST", -5*3600)
	preds := []models.HistoricalPrediction{
		mkPred(time.Date(2025, 1, 5, 4, 0, 0, 0, time.UTC), "a", "points", 90),
		mkPred(time.Date(2025, 1, 5, 14, 30, 0, 0, est), "b", "points", 85),
	}
	sim := NewStrategySimulator(preds)
	bets, err := sim.Generate(context.Background(), confidenceStrategy(t, 60), []int{2})
	if err != nil {
		t.Fatal(err)
	}
	if len(bets) != 1 {
		t.Fatalf("expected 1 entry across zones, got %d", len(bets))
	}
	if !bets[0].Date.Equal(day(5)) {
		t.Fatalf("entry date = %v, want %v", bets[0].Date, day(5))
	}
	if len(bets[0].Legs) != 2 {
		t.Fatalf("entry legs = %d, want 2", len(bets[0].Legs))
	}
}
