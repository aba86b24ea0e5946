package models

// Metrics is one row of aggregate betting performance, used both for the
// overall run and for each segment.
type Metrics struct {
	TotalBets       int     `json:"total_bets"`
	Wins            int     `json:"wins"`
	Losses          int     `json:"losses"`
	WinRate         float64 `json:"win_rate"` // percent
	TotalStaked     float64 `json:"total_staked"`
	TotalProfit     float64 `json:"total_profit"`
	ROI             float64 `json:"roi"` // percent, 0 when nothing staked
	AvgProfitPerBet float64 `json:"avg_profit_per_bet"`
	AvgConfidence   float64 `json:"avg_confidence,omitempty"`
}

// OverallMetrics extends Metrics with run-level figures that only make sense
// for the whole chronological ledger.
type OverallMetrics struct {
	Metrics
	MaxDrawdownPct    float64 `json:"max_drawdown_pct"`
	SharpeRatio       float64 `json:"sharpe_ratio"`
	ProfitFactor      float64 `json:"profit_factor"`
	LongestWinStreak  int     `json:"longest_win_streak"`
	LongestLossStreak int     `json:"longest_loss_streak"`
	StartingBankroll  float64 `json:"starting_bankroll"`
	EndingBankroll    float64 `json:"ending_bankroll"`
	AvgBetSize        float64 `json:"avg_bet_size"`
}

// RiskMetrics summarizes the dispersion side of a run.
type RiskMetrics struct {
	Volatility        float64 `json:"volatility"` // stdev of per-bet returns
	MaxDrawdownPct    float64 `json:"max_drawdown_pct"`
	SharpeRatio       float64 `json:"sharpe_ratio"`
	ProfitFactor      float64 `json:"profit_factor"`
	AvgWin            float64 `json:"avg_win"`
	AvgLoss           float64 `json:"avg_loss"`
	WinLossRatio      float64 `json:"win_loss_ratio"`
	LongestWinStreak  int     `json:"longest_win_streak"`
	LongestLossStreak int     `json:"longest_loss_streak"`
}

// PropCombination is a recurring set of prop types inside winning entries.
type PropCombination struct {
	PropTypes   []string `json:"prop_types"`
	Appearances int      `json:"appearances"`
	Wins        int      `json:"wins"`
	WinRate     float64  `json:"win_rate"`
	TotalProfit float64  `json:"total_profit"`
	AvgProfit   float64  `json:"avg_profit"`
}

// DailyResult is one point of the equity-curve series.
type DailyResult struct {
	Date          string  `json:"date"` // YYYY-MM-DD
	Bets          int     `json:"bets"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	DailyPnL      float64 `json:"daily_pnl"`
	CumulativePnL float64 `json:"cumulative_pnl"`
	Bankroll      float64 `json:"bankroll"`
}

// TimeSeriesPoint is one trailing-window sample of the bet-by-bet ledger.
// Date is the date of the last bet inside the window.
type TimeSeriesPoint struct {
	BetNumber int     `json:"bet_number"`
	Date      string  `json:"date"` // YYYY-MM-DD
	WinRate   float64 `json:"window_win_rate"`
	Profit    float64 `json:"window_profit"`
}

// PerformanceMetricSet is the immutable analysis snapshot of one run.
//
// Entry-size, sport, and confidence segments are mutually exclusive and their
// bet counts sum to TotalBets. Prop-type segments are not: a multi-pick entry
// is credited in full to every constituent prop type, so those counts may
// exceed TotalBets.
type PerformanceMetricSet struct {
	Overall          OverallMetrics     `json:"overall"`
	ByEntrySize      map[int]Metrics    `json:"by_entry_size"`
	ByPropType       map[string]Metrics `json:"by_prop_type"`
	BySport          map[Sport]Metrics  `json:"by_sport"`
	ByConfidence     map[string]Metrics `json:"by_confidence"`
	BestCombinations []PropCombination  `json:"best_combinations,omitempty"`
	OptimalEntryMix  map[int]float64    `json:"optimal_entry_mix,omitempty"`
	Risk             RiskMetrics        `json:"risk"`
	Daily            []DailyResult      `json:"daily"`
	TimeSeries       []TimeSeriesPoint  `json:"time_series,omitempty"`
}
