package usecase

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xsteinzy/betting-analysis-system/internal/domain/models"
)

const (
	// minSampleSize gates every judgement rule; below it only the
	// insufficient-sample insight fires.
	minSampleSize = 30
	// comparisonThreshold is the minimum ROI gap (percentage points) before
	// two segments are called meaningfully different.
	comparisonThreshold = 5.0
)

// insightRule inspects a finished metric snapshot and either produces one
// insight or passes.
type insightRule struct {
	name  string
	apply func(models.PerformanceMetricSet) *models.Insight
}

// InsightsGenerator turns a metric snapshot into ordered, human-readable
// findings. Rules run exactly once, in definition order, and read only the
// snapshot. With zero bets the output is exactly the insufficient-sample
// insight.
type InsightsGenerator struct {
	rules []insightRule
}

// NewInsightsGenerator creates a generator with the full rule set.
func NewInsightsGenerator() *InsightsGenerator {
	return &InsightsGenerator{rules: defaultRules()}
}

// Generate evaluates every rule against the snapshot.
func (g *InsightsGenerator) Generate(set models.PerformanceMetricSet) []models.Insight {
	if set.Overall.TotalBets < minSampleSize {
		return []models.Insight{insufficientSample(set.Overall.TotalBets)}
	}
	var out []models.Insight
	for _, r := range g.rules {
		if in := r.apply(set); in != nil {
			out = append(out, *in)
		}
	}
	return out
}

func insufficientSample(n int) models.Insight {
	return models.Insight{
		Category: models.InsightInfo,
		Priority: models.PriorityHigh,
		Title:    "Insufficient Sample Size",
		Message: fmt.Sprintf("Only %d bets were placed, below the %d needed for reliable conclusions.",
			n, minSampleSize),
		Recommendation: "Widen the date range or relax thresholds before drawing conclusions.",
	}
}

func defaultRules() []insightRule {
	return []insightRule{
		{"win_rate", winRateRule},
		{"roi", roiRule},
		{"best_entry_size", bestEntrySizeRule},
		{"entry_mix", entryMixRule},
		{"best_prop_types", bestPropTypesRule},
		{"winning_combination", winningCombinationRule},
		{"sport_comparison", sportComparisonRule},
		{"confidence_sweet_spot", confidenceSweetSpotRule},
		{"drawdown", drawdownRule},
		{"bankroll_growth", bankrollGrowthRule},
		{"sharpe", sharpeRule},
		{"profit_factor", profitFactorRule},
		{"losing_streak", losingStreakRule},
		{"readiness", readinessRule},
	}
}

func winRateRule(set models.PerformanceMetricSet) *models.Insight {
	wr := set.Overall.WinRate
	switch {
	case wr >= 60:
		return &models.Insight{
			Category: models.InsightSuccess, Priority: models.PriorityHigh,
			Title:          "Strong Win Rate",
			Message:        fmt.Sprintf("The strategy won %.2f%% of entries across %d bets.", wr, set.Overall.TotalBets),
			Recommendation: "Maintain the current selection criteria.",
		}
	case wr >= 50:
		return &models.Insight{
			Category: models.InsightSuccess, Priority: models.PriorityMedium,
			Title:          "Positive Win Rate",
			Message:        fmt.Sprintf("The strategy won %.2f%% of entries.", wr),
			Recommendation: "Win rate is above break-even for most entry sizes; look at per-size ROI to confirm edge.",
		}
	case wr < 45:
		return &models.Insight{
			Category: models.InsightWarning, Priority: models.PriorityHigh,
			Title:          "Low Win Rate",
			Message:        fmt.Sprintf("Only %.2f%% of entries won.", wr),
			Recommendation: "Tighten the confidence threshold or restrict prop types.",
		}
	}
	return nil
}

func roiRule(set models.PerformanceMetricSet) *models.Insight {
	roi := set.Overall.ROI
	switch {
	case roi >= 20:
		return &models.Insight{
			Category: models.InsightSuccess, Priority: models.PriorityHigh,
			Title:          "Excellent ROI",
			Message:        fmt.Sprintf("Return on investment of %.2f%% on $%.2f staked.", roi, set.Overall.TotalStaked),
			Recommendation: "The strategy shows a strong historical edge.",
		}
	case roi > 0:
		return &models.Insight{
			Category: models.InsightSuccess, Priority: models.PriorityMedium,
			Title:   "Positive ROI",
			Message: fmt.Sprintf("Return on investment of %.2f%%.", roi),
		}
	case roi < 0:
		return &models.Insight{
			Category: models.InsightWarning, Priority: models.PriorityHigh,
			Title:          "Negative ROI",
			Message:        fmt.Sprintf("The strategy lost %.2f%% of staked capital.", -roi),
			Recommendation: "Revisit thresholds; the current filter set loses money over this period.",
		}
	}
	return nil
}

func bestEntrySizeRule(set models.PerformanceMetricSet) *models.Insight {
	best, found := 0, false
	for size, m := range set.ByEntrySize {
		if m.TotalBets < minSampleSize {
			continue
		}
		if !found || m.ROI > set.ByEntrySize[best].ROI ||
			(m.ROI == set.ByEntrySize[best].ROI && size < best) {
			best, found = size, true
		}
	}
	if !found || set.ByEntrySize[best].ROI <= 0 {
		return nil
	}
	m := set.ByEntrySize[best]
	return &models.Insight{
		Category: models.InsightInfo, Priority: models.PriorityMedium,
		Title:          "Best Entry Size",
		Message:        fmt.Sprintf("%d-pick entries performed best: %.2f%% ROI over %d bets.", best, m.ROI, m.TotalBets),
		Recommendation: fmt.Sprintf("Weight the portfolio toward %d-pick entries.", best),
	}
}

func entryMixRule(set models.PerformanceMetricSet) *models.Insight {
	if len(set.OptimalEntryMix) == 0 {
		return nil
	}
	sizes := make([]int, 0, len(set.OptimalEntryMix))
	for k := range set.OptimalEntryMix {
		sizes = append(sizes, k)
	}
	sort.Ints(sizes)
	parts := make([]string, 0, len(sizes))
	for _, k := range sizes {
		parts = append(parts, fmt.Sprintf("%d-pick %.1f%%", k, set.OptimalEntryMix[k]))
	}
	return &models.Insight{
		Category: models.InsightInfo, Priority: models.PriorityMedium,
		Title:          "Optimal Entry Mix",
		Message:        "Profitable entry sizes weighted by ROI: " + strings.Join(parts, ", ") + ".",
		Recommendation: "Allocate stakes across entry sizes in roughly these proportions.",
	}
}

func bestPropTypesRule(set models.PerformanceMetricSet) *models.Insight {
	type propROI struct {
		name string
		roi  float64
	}
	var qualified []propROI
	for name, m := range set.ByPropType {
		if m.TotalBets >= minSampleSize && m.ROI > 0 {
			qualified = append(qualified, propROI{name, m.ROI})
		}
	}
	if len(qualified) == 0 {
		return nil
	}
	sort.Slice(qualified, func(i, j int) bool {
		if qualified[i].roi != qualified[j].roi {
			return qualified[i].roi > qualified[j].roi
		}
		return qualified[i].name < qualified[j].name
	})
	if len(qualified) > 3 {
		qualified = qualified[:3]
	}
	parts := make([]string, 0, len(qualified))
	for _, p := range qualified {
		parts = append(parts, fmt.Sprintf("%s (%.2f%% ROI)", p.name, p.roi))
	}
	return &models.Insight{
		Category: models.InsightInfo, Priority: models.PriorityMedium,
		Title:          "Best Prop Types",
		Message:        "Most profitable prop types: " + strings.Join(parts, ", ") + ".",
		Recommendation: "Consider a prop-specific strategy limited to these types.",
	}
}

func winningCombinationRule(set models.PerformanceMetricSet) *models.Insight {
	if len(set.BestCombinations) == 0 {
		return nil
	}
	top := set.BestCombinations[0]
	if top.WinRate < 60 {
		return nil
	}
	return &models.Insight{
		Category: models.InsightSuccess, Priority: models.PriorityMedium,
		Title: "Winning Prop Combination",
		Message: fmt.Sprintf("The combination %s won %.2f%% of its %d appearances.",
			strings.Join(top.PropTypes, " + "), top.WinRate, top.Appearances),
		Recommendation: "Look for entries pairing these prop types.",
	}
}

func sportComparisonRule(set models.PerformanceMetricSet) *models.Insight {
	nba, hasNBA := set.BySport[models.SportNBA]
	nfl, hasNFL := set.BySport[models.SportNFL]
	if !hasNBA || !hasNFL || nba.TotalBets < minSampleSize || nfl.TotalBets < minSampleSize {
		return nil
	}
	diff := nba.ROI - nfl.ROI
	if diff < comparisonThreshold && diff > -comparisonThreshold {
		return nil
	}
	better, worse := models.SportNBA, models.SportNFL
	betterM := nba
	if diff < 0 {
		better, worse, betterM = models.SportNFL, models.SportNBA, nfl
	}
	if diff < 0 {
		diff = -diff
	}
	return &models.Insight{
		Category: models.InsightInfo, Priority: models.PriorityMedium,
		Title: "Sport Performance Gap",
		Message: fmt.Sprintf("%s outperformed %s by %.2f percentage points of ROI (%.2f%% vs the other sport).",
			better, worse, diff, betterM.ROI),
		Recommendation: fmt.Sprintf("Shift allocation toward %s props.", better),
	}
}

func confidenceSweetSpotRule(set models.PerformanceMetricSet) *models.Insight {
	best, found := "", false
	for bucket, m := range set.ByConfidence {
		if m.TotalBets < minSampleSize || m.ROI <= 0 {
			continue
		}
		if !found || m.ROI > set.ByConfidence[best].ROI ||
			(m.ROI == set.ByConfidence[best].ROI && bucket < best) {
			best, found = bucket, true
		}
	}
	if !found {
		return nil
	}
	m := set.ByConfidence[best]
	return &models.Insight{
		Category: models.InsightInfo, Priority: models.PriorityMedium,
		Title:          "Confidence Sweet Spot",
		Message:        fmt.Sprintf("Entries in the %s confidence band returned %.2f%% ROI over %d bets.", best, m.ROI, m.TotalBets),
		Recommendation: fmt.Sprintf("Focus on predictions in the %s band.", best),
	}
}

func drawdownRule(set models.PerformanceMetricSet) *models.Insight {
	dd := set.Overall.MaxDrawdownPct
	switch {
	case dd > 30:
		return &models.Insight{
			Category: models.InsightWarning, Priority: models.PriorityHigh,
			Title:          "High Drawdown Risk",
			Message:        fmt.Sprintf("The bankroll fell %.2f%% from its peak at the worst point.", dd),
			Recommendation: "Reduce bet sizing or switch to a fractional staking policy.",
		}
	case dd > 20:
		return &models.Insight{
			Category: models.InsightWarning, Priority: models.PriorityMedium,
			Title:          "Moderate Drawdown",
			Message:        fmt.Sprintf("Maximum drawdown reached %.2f%%.", dd),
			Recommendation: "Monitor sizing; drawdowns above 20% strain most bankroll plans.",
		}
	}
	return nil
}

func bankrollGrowthRule(set models.PerformanceMetricSet) *models.Insight {
	start := set.Overall.StartingBankroll
	if start <= 0 {
		return nil
	}
	growth := (set.Overall.EndingBankroll - start) / start * 100
	if growth < 50 {
		return nil
	}
	return &models.Insight{
		Category: models.InsightSuccess, Priority: models.PriorityHigh,
		Title: "Strong Bankroll Growth",
		Message: fmt.Sprintf("The bankroll grew %.2f%%, from $%.2f to $%.2f.",
			growth, start, set.Overall.EndingBankroll),
	}
}

func sharpeRule(set models.PerformanceMetricSet) *models.Insight {
	sr := set.Overall.SharpeRatio
	switch {
	case sr >= 1.5:
		return &models.Insight{
			Category: models.InsightSuccess, Priority: models.PriorityMedium,
			Title:   "Excellent Risk-Adjusted Returns",
			Message: fmt.Sprintf("Sharpe ratio of %.2f indicates strong returns relative to volatility.", sr),
		}
	case sr >= 1.0:
		return &models.Insight{
			Category: models.InsightSuccess, Priority: models.PriorityLow,
			Title:   "Good Risk-Adjusted Returns",
			Message: fmt.Sprintf("Sharpe ratio of %.2f.", sr),
		}
	case sr < 0:
		return &models.Insight{
			Category: models.InsightWarning, Priority: models.PriorityMedium,
			Title:          "Negative Risk-Adjusted Returns",
			Message:        fmt.Sprintf("Sharpe ratio of %.2f; returns did not beat the risk-free rate.", sr),
			Recommendation: "The strategy underperforms doing nothing on a risk-adjusted basis.",
		}
	}
	return nil
}

func profitFactorRule(set models.PerformanceMetricSet) *models.Insight {
	pf := set.Overall.ProfitFactor
	switch {
	case pf >= 1.5:
		return &models.Insight{
			Category: models.InsightSuccess, Priority: models.PriorityMedium,
			Title:   "Healthy Profit Factor",
			Message: fmt.Sprintf("Gross profits are %.2fx gross losses.", pf),
		}
	case pf > 0 && pf < 1:
		return &models.Insight{
			Category: models.InsightWarning, Priority: models.PriorityMedium,
			Title:          "Profit Factor Below 1",
			Message:        fmt.Sprintf("Gross losses exceed gross profits (factor %.2f).", pf),
			Recommendation: "The strategy loses money before considering variance.",
		}
	}
	return nil
}

func losingStreakRule(set models.PerformanceMetricSet) *models.Insight {
	streak := set.Overall.LongestLossStreak
	if streak < 10 {
		return nil
	}
	return &models.Insight{
		Category: models.InsightWarning, Priority: models.PriorityMedium,
		Title:          "Long Losing Streak",
		Message:        fmt.Sprintf("The strategy hit %d consecutive losses at its worst.", streak),
		Recommendation: "Size stakes so the bankroll survives streaks of this length.",
	}
}

func readinessRule(set models.PerformanceMetricSet) *models.Insight {
	o := set.Overall
	if o.TotalBets >= 100 && o.WinRate >= 55 && o.ROI > 10 && o.MaxDrawdownPct < 20 {
		return &models.Insight{
			Category: models.InsightSuccess, Priority: models.PriorityHigh,
			Title: "Strategy Shows Live Potential",
			Message: fmt.Sprintf("Over %d bets: %.2f%% win rate, %.2f%% ROI, %.2f%% max drawdown.",
				o.TotalBets, o.WinRate, o.ROI, o.MaxDrawdownPct),
			Recommendation: "Results are consistent enough to consider small live stakes.",
		}
	}
	return nil
}
