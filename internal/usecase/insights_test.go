package usecase

import (
	"strings"
	"testing"

	"github.com/xsteinzy/betting-analysis-system/internal/domain/models"
)

func hasInsight(insights []models.Insight, title string) bool {
	for _, in := range insights {
		if in.Title == title {
			return true
		}
	}
	return false
}

func TestGenerateInsufficientSample(t *testing.T) {
	gen := NewInsightsGenerator()
	for _, bets := range []int{0, 1, 29} {
		set := models.PerformanceMetricSet{}
		set.Overall.TotalBets = bets
		out := gen.Generate(set)
		if len(out) != 1 {
			t.Fatalf("bets=%d: got %d insights, want exactly 1", bets, len(out))
		}
		if out[0].Title != "Insufficient Sample Size" || out[0].Priority != models.PriorityHigh {
			t.Fatalf("bets=%d: insight = %+v", bets, out[0])
		}
		if !strings.Contains(out[0].Message, "30") {
			t.Fatalf("message must name the sample threshold: %q", out[0].Message)
		}
	}
}

func TestGenerateStrongRun(t *testing.T) {
	set := models.PerformanceMetricSet{
		ByEntrySize: map[int]models.Metrics{
			2: {TotalBets: 80, ROI: 25},
			3: {TotalBets: 40, ROI: 5},
		},
		OptimalEntryMix: map[int]float64{2: 83.3, 3: 16.7},
		ByPropType: map[string]models.Metrics{
			"points":   {TotalBets: 90, ROI: 18},
			"rebounds": {TotalBets: 50, ROI: 9},
			"assists":  {TotalBets: 10, ROI: 40}, // below sample cut
		},
		BySport: map[models.Sport]models.Metrics{
			models.SportNBA: {TotalBets: 70, ROI: 22},
			models.SportNFL: {TotalBets: 50, ROI: 8},
		},
		ByConfidence: map[string]models.Metrics{
			"70-80%": {TotalBets: 60, ROI: 15},
			"80-90%": {TotalBets: 60, ROI: 30},
		},
		BestCombinations: []models.PropCombination{
			{PropTypes: []string{"points", "rebounds"}, Appearances: 15, Wins: 10, WinRate: 66.67},
		},
	}
	set.Overall.TotalBets = 120
	set.Overall.WinRate = 62
	set.Overall.ROI = 21
	set.Overall.TotalStaked = 12000
	set.Overall.StartingBankroll = 1000
	set.Overall.EndingBankroll = 3520
	set.Overall.MaxDrawdownPct = 8
	set.Overall.SharpeRatio = 1.8
	set.Overall.ProfitFactor = 2.1
	set.Overall.LongestLossStreak = 4

	out := NewInsightsGenerator().Generate(set)

	for _, title := range []string{
		"Strong Win Rate",
		"Excellent ROI",
		"Best Entry Size",
		"Optimal Entry Mix",
		"Best Prop Types",
		"Winning Prop Combination",
		"Sport Performance Gap",
		"Confidence Sweet Spot",
		"Strong Bankroll Growth",
		"Excellent Risk-Adjusted Returns",
		"Healthy Profit Factor",
		"Strategy Shows Live Potential",
	} {
		if !hasInsight(out, title) {
			t.Errorf("missing insight %q", title)
		}
	}
	for _, title := range []string{"High Drawdown Risk", "Long Losing Streak", "Negative ROI"} {
		if hasInsight(out, title) {
			t.Errorf("unexpected insight %q", title)
		}
	}

	// Rules fire in definition order.
	if out[0].Title != "Strong Win Rate" || out[1].Title != "Excellent ROI" {
		t.Fatalf("insight order = %q, %q", out[0].Title, out[1].Title)
	}
}

func TestGenerateLosingRun(t *testing.T) {
	set := models.PerformanceMetricSet{}
	set.Overall.TotalBets = 60
	set.Overall.WinRate = 38
	set.Overall.ROI = -22
	set.Overall.StartingBankroll = 1000
	set.Overall.EndingBankroll = 560
	set.Overall.MaxDrawdownPct = 44
	set.Overall.SharpeRatio = -0.8
	set.Overall.ProfitFactor = 0.6
	set.Overall.LongestLossStreak = 12

	out := NewInsightsGenerator().Generate(set)

	for _, title := range []string{
		"Low Win Rate",
		"Negative ROI",
		"High Drawdown Risk",
		"Negative Risk-Adjusted Returns",
		"Profit Factor Below 1",
		"Long Losing Streak",
	} {
		if !hasInsight(out, title) {
			t.Errorf("missing insight %q", title)
		}
	}
	if hasInsight(out, "Strategy Shows Live Potential") {
		t.Error("losing run must not look live-ready")
	}
}

func TestWinningCombinationNeedsStrongTop(t *testing.T) {
	set := models.PerformanceMetricSet{
		BestCombinations: []models.PropCombination{
			{PropTypes: []string{"points", "assists"}, Appearances: 20, WinRate: 55},
		},
	}
	set.Overall.TotalBets = 50
	set.Overall.WinRate = 48 // between the rule bands, no win-rate insight

	out := NewInsightsGenerator().Generate(set)
	if hasInsight(out, "Winning Prop Combination") {
		t.Error("combination below 60% win rate must not surface")
	}
	if hasInsight(out, "Strong Win Rate") || hasInsight(out, "Low Win Rate") {
		t.Error("mid-band win rate must produce no win-rate insight")
	}
}

func TestSportComparisonThreshold(t *testing.T) {
	set := models.PerformanceMetricSet{
		BySport: map[models.Sport]models.Metrics{
			models.SportNBA: {TotalBets: 40, ROI: 10},
			models.SportNFL: {TotalBets: 40, ROI: 6.5},
		},
	}
	set.Overall.TotalBets = 80
	set.Overall.WinRate = 48

	out := NewInsightsGenerator().Generate(set)
	if hasInsight(out, "Sport Performance Gap") {
		t.Error("a 3.5 point ROI gap is below the comparison threshold")
	}

	// NFL ahead by more than the threshold flips the direction.
	set.BySport[models.SportNFL] = models.Metrics{TotalBets: 40, ROI: 18}
	out = NewInsightsGenerator().Generate(set)
	found := false
	for _, in := range out {
		if in.Title == "Sport Performance Gap" {
			found = true
			if !strings.HasPrefix(in.Message, "NFL") {
				t.Errorf("gap message = %q, want NFL leading", in.Message)
			}
		}
	}
	if !found {
		t.Error("an 8 point ROI gap must surface")
	}
}

func TestBestEntrySizeTieBreaksSmaller(t *testing.T) {
	set := models.PerformanceMetricSet{
		ByEntrySize: map[int]models.Metrics{
			4: {TotalBets: 35, ROI: 12},
			2: {TotalBets: 35, ROI: 12},
		},
	}
	set.Overall.TotalBets = 70
	set.Overall.WinRate = 48

	out := NewInsightsGenerator().Generate(set)
	for _, in := range out {
		if in.Title == "Best Entry Size" {
			if !strings.HasPrefix(in.Message, "2-pick") {
				t.Fatalf("tie must favor the smaller size: %q", in.Message)
			}
			return
		}
	}
	t.Fatal("missing best-entry-size insight")
}
