package usecase

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/xsteinzy/betting-analysis-system/internal/domain/models"
	"github.com/xsteinzy/betting-analysis-system/internal/services/stats"
	"github.com/xsteinzy/betting-analysis-system/pkg/util"
)

// Aggregation conventions, applied identically across every reported figure:
//
//   - ROI = 100 × Σprofit / Σstake, reported as 0 when nothing was staked.
//   - Profit factor = gross profit / |gross loss|, reported as 0 when there
//     are no losing bets.
//   - Sharpe uses per-bet returns (profit/stake) against a 2% annual
//     risk-free rate; see stats.Sharpe for the annualization basis.
//   - A multi-pick entry's full profit is credited to every constituent
//     prop-type segment (intentional double counting: each leg carried the
//     entry's result). Entry-size, sport, and confidence segments stay
//     mutually exclusive.
const riskFreeRate = 0.02

// Confidence buckets for segmentation, lower bound inclusive.
var confidenceBuckets = [][2]float64{{60, 70}, {70, 80}, {80, 90}, {90, 100}}

const (
	minComboAppearances = 10
	topCombinations     = 10

	// Trailing span, in bets, of the time series samples.
	timeSeriesWindow = 7
)

// PerformanceAnalyzer reduces a resolved ledger into overall and segmented
// metrics. It is a pure batch reducer: segmentation dimensions are
// independent and computed concurrently, then merged into one immutable
// snapshot.
type PerformanceAnalyzer struct {
	records          []models.SimulatedBetRecord
	state            models.BankrollState
	daily            []models.DailyResult
	startingBankroll float64
}

// NewPerformanceAnalyzer creates an analyzer over a finished replay.
func NewPerformanceAnalyzer(replay *ReplayResult, startingBankroll float64) *PerformanceAnalyzer {
	return &PerformanceAnalyzer{
		records:          replay.Records,
		state:            replay.State,
		daily:            replay.Daily,
		startingBankroll: startingBankroll,
	}
}

// Analyze computes the full metric snapshot for the run.
func (a *PerformanceAnalyzer) Analyze() models.PerformanceMetricSet {
	set := models.PerformanceMetricSet{
		Overall: a.overall(),
		Daily:   a.daily,
	}

	var wg sync.WaitGroup
	wg.Add(5)
	go func() {
		defer wg.Done()
		set.ByEntrySize = a.byEntrySize()
	}()
	go func() {
		defer wg.Done()
		set.ByPropType = a.byPropType()
	}()
	go func() {
		defer wg.Done()
		set.BySport = a.bySport()
	}()
	go func() {
		defer wg.Done()
		set.ByConfidence = a.byConfidence()
	}()
	go func() {
		defer wg.Done()
		set.TimeSeries = a.timeSeries(timeSeriesWindow)
	}()
	wg.Wait()

	set.BestCombinations = a.bestCombinations()
	set.OptimalEntryMix = optimalEntryMix(set.ByEntrySize)
	set.Risk = a.riskMetrics(set.Overall)
	return set
}

func (a *PerformanceAnalyzer) overall() models.OverallMetrics {
	m := models.OverallMetrics{
		StartingBankroll: a.startingBankroll,
		EndingBankroll:   a.startingBankroll,
	}
	if len(a.records) == 0 {
		return m
	}

	acc := newAccumulator()
	wins := make([]bool, len(a.records))
	returns := make([]float64, 0, len(a.records))
	for i, r := range a.records {
		acc.add(r, r.Profit)
		wins[i] = r.Won()
		if r.Stake > 0 {
			returns = append(returns, r.Profit/r.Stake)
		}
	}
	m.Metrics = acc.metrics()
	m.MaxDrawdownPct = stats.Round2(a.state.MaxDrawdownPct)
	m.SharpeRatio = stats.Round2(stats.Sharpe(returns, riskFreeRate))
	m.ProfitFactor = stats.Round2(profitFactor(a.records))
	m.LongestWinStreak, m.LongestLossStreak = stats.Streaks(wins)
	m.EndingBankroll = stats.Round2(a.startingBankroll + acc.profit)
	m.AvgBetSize = stats.Round2(acc.staked / float64(acc.count))
	return m
}

func (a *PerformanceAnalyzer) byEntrySize() map[int]models.Metrics {
	accs := make(map[int]*accumulator)
	for _, r := range a.records {
		k := r.Bet.EntrySize
		if accs[k] == nil {
			accs[k] = newAccumulator()
		}
		accs[k].add(r, r.Profit)
	}
	out := make(map[int]models.Metrics, len(accs))
	for k, acc := range accs {
		out[k] = acc.metrics()
	}
	return out
}

// byPropType credits each entry's full stake and profit to every leg's prop
// type, so prop-type bet counts may exceed the run total.
func (a *PerformanceAnalyzer) byPropType() map[string]models.Metrics {
	accs := make(map[string]*accumulator)
	for _, r := range a.records {
		for _, leg := range r.Bet.Legs {
			acc := accs[leg.PropType]
			if acc == nil {
				acc = newAccumulator()
				accs[leg.PropType] = acc
			}
			acc.add(r, r.Profit)
			acc.addConfidence(leg.Confidence)
		}
	}
	out := make(map[string]models.Metrics, len(accs))
	for p, acc := range accs {
		out[p] = acc.metrics()
	}
	return out
}

func (a *PerformanceAnalyzer) bySport() map[models.Sport]models.Metrics {
	accs := make(map[models.Sport]*accumulator)
	for _, r := range a.records {
		s := r.Bet.Sport
		if accs[s] == nil {
			accs[s] = newAccumulator()
		}
		accs[s].add(r, r.Profit)
	}
	out := make(map[models.Sport]models.Metrics, len(accs))
	for s, acc := range accs {
		out[s] = acc.metrics()
	}
	return out
}

func (a *PerformanceAnalyzer) byConfidence() map[string]models.Metrics {
	accs := make(map[string]*accumulator)
	for _, r := range a.records {
		bucket := confidenceBucket(r.Bet.AvgConfidence)
		if bucket == "" {
			continue
		}
		if accs[bucket] == nil {
			accs[bucket] = newAccumulator()
		}
		accs[bucket].add(r, r.Profit)
	}
	out := make(map[string]models.Metrics, len(accs))
	for b, acc := range accs {
		out[b] = acc.metrics()
	}
	return out
}

// timeSeries samples the chronological ledger with a trailing window of
// bets, one point per window end. Each point carries the window's win rate
// and summed profit, dated to the last bet inside it. Empty until the ledger
// reaches the window size.
func (a *PerformanceAnalyzer) timeSeries(window int) []models.TimeSeriesPoint {
	if window <= 0 || len(a.records) < window {
		return nil
	}
	out := make([]models.TimeSeriesPoint, 0, len(a.records)-window+1)
	for i := 0; i+window <= len(a.records); i++ {
		var wins int
		var profit float64
		for _, r := range a.records[i : i+window] {
			if r.Won() {
				wins++
			}
			profit += r.Profit
		}
		out = append(out, models.TimeSeriesPoint{
			BetNumber: i + window,
			Date:      util.FormatDate(a.records[i+window-1].Bet.Date),
			WinRate:   stats.Round2(float64(wins) / float64(window) * 100),
			Profit:    stats.Round2(profit),
		})
	}
	return out
}

func confidenceBucket(conf float64) string {
	for i, b := range confidenceBuckets {
		lo, hi := b[0], b[1]
		if conf >= lo && (conf < hi || (i == len(confidenceBuckets)-1 && conf == hi)) {
			return fmt.Sprintf("%.0f-%.0f%%", lo, hi)
		}
	}
	return ""
}

// bestCombinations finds recurring prop-type sets inside multi-pick entries,
// keeping those with at least minComboAppearances and returning the top
// performers by win rate.
func (a *PerformanceAnalyzer) bestCombinations() []models.PropCombination {
	type comboAgg struct {
		appearances int
		wins        int
		profit      float64
	}
	combos := make(map[string]*comboAgg)
	for _, r := range a.records {
		props := r.Bet.PropTypes()
		sort.Strings(props)
		key := strings.Join(props, "+")
		c := combos[key]
		if c == nil {
			c = &comboAgg{}
			combos[key] = c
		}
		c.appearances++
		if r.Won() {
			c.wins++
		}
		c.profit += r.Profit
	}

	var out []models.PropCombination
	for key, c := range combos {
		if c.appearances < minComboAppearances {
			continue
		}
		out = append(out, models.PropCombination{
			PropTypes:   strings.Split(key, "+"),
			Appearances: c.appearances,
			Wins:        c.wins,
			WinRate:     stats.Round2(float64(c.wins) / float64(c.appearances) * 100),
			TotalProfit: stats.Round2(c.profit),
			AvgProfit:   stats.Round2(c.profit / float64(c.appearances)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WinRate != out[j].WinRate {
			return out[i].WinRate > out[j].WinRate
		}
		return strings.Join(out[i].PropTypes, "+") < strings.Join(out[j].PropTypes, "+")
	})
	if len(out) > topCombinations {
		out = out[:topCombinations]
	}
	return out
}

// optimalEntryMix allocates across entry sizes proportionally to their
// positive ROIs. Sizes with non-positive ROI get no allocation.
func optimalEntryMix(bySize map[int]models.Metrics) map[int]float64 {
	total := 0.0
	for _, m := range bySize {
		if m.ROI > 0 {
			total += m.ROI
		}
	}
	if total <= 0 {
		return nil
	}
	mix := make(map[int]float64)
	for k, m := range bySize {
		if m.ROI > 0 {
			mix[k] = math.Round(m.ROI/total*1000) / 10
		}
	}
	return mix
}

func (a *PerformanceAnalyzer) riskMetrics(overall models.OverallMetrics) models.RiskMetrics {
	rm := models.RiskMetrics{
		MaxDrawdownPct:    overall.MaxDrawdownPct,
		SharpeRatio:       overall.SharpeRatio,
		ProfitFactor:      overall.ProfitFactor,
		LongestWinStreak:  overall.LongestWinStreak,
		LongestLossStreak: overall.LongestLossStreak,
	}
	if len(a.records) == 0 {
		return rm
	}

	var returns, winProfits, lossProfits []float64
	for _, r := range a.records {
		if r.Stake > 0 {
			returns = append(returns, r.Profit/r.Stake)
		}
		if r.Won() {
			winProfits = append(winProfits, r.Profit)
		} else {
			lossProfits = append(lossProfits, math.Abs(r.Profit))
		}
	}
	rm.Volatility = math.Round(stats.StdDev(returns)*10000) / 10000
	rm.AvgWin = stats.Round2(stats.Mean(winProfits))
	rm.AvgLoss = stats.Round2(stats.Mean(lossProfits))
	if len(lossProfits) > 0 {
		rm.WinLossRatio = stats.Round2(float64(len(winProfits)) / float64(len(lossProfits)))
	}
	return rm
}

func profitFactor(records []models.SimulatedBetRecord) float64 {
	grossProfit, grossLoss := 0.0, 0.0
	for _, r := range records {
		if r.Profit > 0 {
			grossProfit += r.Profit
		} else {
			grossLoss += -r.Profit
		}
	}
	if grossLoss == 0 {
		return 0
	}
	return grossProfit / grossLoss
}

// accumulator aggregates one segment's figures in a single pass.
type accumulator struct {
	count   int
	wins    int
	staked  float64
	profit  float64
	confSum float64
	confN   int
}

func newAccumulator() *accumulator { return &accumulator{} }

func (acc *accumulator) add(r models.SimulatedBetRecord, profit float64) {
	acc.count++
	if r.Won() {
		acc.wins++
	}
	acc.staked += r.Stake
	acc.profit += profit
}

func (acc *accumulator) addConfidence(c float64) {
	acc.confSum += c
	acc.confN++
}

func (acc *accumulator) metrics() models.Metrics {
	m := models.Metrics{
		TotalBets:   acc.count,
		Wins:        acc.wins,
		Losses:      acc.count - acc.wins,
		TotalStaked: stats.Round2(acc.staked),
		TotalProfit: stats.Round2(acc.profit),
	}
	if acc.count > 0 {
		m.WinRate = stats.Round2(float64(acc.wins) / float64(acc.count) * 100)
		m.AvgProfitPerBet = stats.Round2(acc.profit / float64(acc.count))
	}
	if acc.staked > 0 {
		m.ROI = stats.Round2(acc.profit / acc.staked * 100)
	}
	if acc.confN > 0 {
		m.AvgConfidence = stats.Round2(acc.confSum / float64(acc.confN))
	}
	return m
}
