package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xsteinzy/betting-analysis-system/internal/domain/models"
	"github.com/xsteinzy/betting-analysis-system/internal/services/stats"
	"github.com/xsteinzy/betting-analysis-system/pkg/util"
)

// StrategySimulator turns a prediction window plus a strategy into an ordered
// list of candidate multi-pick entries. Candidate construction is independent
// per date and runs on a bounded worker pool; the merged output is re-sorted
// into strict chronological order before bankroll replay.
type StrategySimulator struct {
	predictions []models.HistoricalPrediction
	workers     int
}

// defaultWorkers bounds per-date parallelism during candidate generation.
const defaultWorkers = 4

// SimulatorOption configures StrategySimulator.
type SimulatorOption func(*StrategySimulator)

// WithWorkers sets the per-date worker count.
func WithWorkers(n int) SimulatorOption {
	return func(s *StrategySimulator) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewStrategySimulator creates a simulator over the given prediction window.
func NewStrategySimulator(predictions []models.HistoricalPrediction, opts ...SimulatorOption) *StrategySimulator {
	s := &StrategySimulator{predictions: predictions, workers: defaultWorkers}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate builds time-ascending candidate entries for every (date, size)
// combination with enough qualifying props. An empty result is a valid
// no-data condition, not an error.
func (s *StrategySimulator) Generate(ctx context.Context, strat *Strategy, entrySizes []int) ([]models.CandidateBet, error) {
	byDate := s.groupQualifying(strat)
	if len(byDate) == 0 {
		return nil, nil
	}

	dates := make([]time.Time, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	results := make(map[time.Time][]models.CandidateBet, len(dates))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.workers)

	for _, date := range dates {
		// cooperative abort point between dates
		if err := ctx.Err(); err != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(date time.Time, preds []models.HistoricalPrediction) {
			defer wg.Done()
			defer func() { <-sem }()
			entries := buildEntries(date, preds, entrySizes)
			mu.Lock()
			results[date] = entries
			mu.Unlock()
		}(date, byDate[date])
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Deterministic merge: dates ascending, creation order within each date.
	var out []models.CandidateBet
	for _, d := range dates {
		out = append(out, results[d]...)
	}
	for i := range out {
		out[i].Seq = i
	}
	return out, nil
}

// groupQualifying filters predictions through the strategy predicate,
// deduplicates to one prediction per (player, prop) per date, and groups by
// game date.
func (s *StrategySimulator) groupQualifying(strat *Strategy) map[time.Time][]models.HistoricalPrediction {
	type dayKey struct {
		date     time.Time
		playerID string
		propType string
	}
	best := make(map[dayKey]models.HistoricalPrediction)
	for _, p := range s.predictions {
		if !strat.Matches(p) {
			continue
		}
		k := dayKey{date: util.TruncateToDay(p.GameDate), playerID: p.PlayerID, propType: p.PropType}
		if cur, ok := best[k]; !ok || p.Confidence > cur.Confidence {
			best[k] = p
		}
	}

	byDate := make(map[time.Time][]models.HistoricalPrediction)
	for k, p := range best {
		byDate[k.date] = append(byDate[k.date], p)
	}
	return byDate
}

// buildEntries chunks a date's qualifying props into non-overlapping k-leg
// entries for each requested size. Legs are ordered by descending confidence
// (ties by EV, then player ID) so identical inputs yield identical entries.
// A (date, size) with fewer than k props is skipped; partial entries are
// never emitted.
//
// When no sport filter is set a date's pool can hold more than one sport, so
// an entry may mix legs across sports; the entry is labeled with the sport of
// its strongest leg, and sport segmentation attributes it there in full.
func buildEntries(date time.Time, preds []models.HistoricalPrediction, entrySizes []int) []models.CandidateBet {
	sorted := make([]models.HistoricalPrediction, len(preds))
	copy(sorted, preds)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.ExpectedValue != b.ExpectedValue {
			return a.ExpectedValue > b.ExpectedValue
		}
		if a.PlayerID != b.PlayerID {
			return a.PlayerID < b.PlayerID
		}
		return a.PropType < b.PropType
	})

	var entries []models.CandidateBet
	for _, k := range entrySizes {
		if !models.ValidEntrySize(k) {
			continue
		}
		for i := 0; i+k <= len(sorted); i += k {
			chunk := sorted[i : i+k]
			legs := make([]models.BetLeg, k)
			confidences := make([]float64, k)
			evs := make([]float64, k)
			for j, p := range chunk {
				legs[j] = models.BetLeg{
					PlayerID:       p.PlayerID,
					GameID:         p.GameID,
					PropType:       p.PropType,
					Pick:           models.PickOver,
					ProjectedValue: p.ProjectedValue,
					Confidence:     p.Confidence,
					ExpectedValue:  p.ExpectedValue,
				}
				confidences[j] = p.Confidence
				evs[j] = p.ExpectedValue
			}
			entries = append(entries, models.CandidateBet{
				Date:             date,
				EntrySize:        k,
				Legs:             legs,
				Sport:            chunk[0].Sport,
				PayoutMultiplier: models.EntryPayouts[k],
				AvgConfidence:    stats.Mean(confidences),
				AvgExpectedValue: stats.Mean(evs),
			})
		}
	}
	return entries
}
