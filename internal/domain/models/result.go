package models

import "time"

// StrategyKind selects the prediction filter used by a run.
type StrategyKind string

const (
	StrategyConfidenceBased StrategyKind = "confidence_based"
	StrategyValueBased      StrategyKind = "value_based"
	StrategyPropSpecific    StrategyKind = "prop_specific"
	StrategyComposite       StrategyKind = "composite"
)

// ValidStrategyKind reports whether k is a recognized strategy.
func ValidStrategyKind(k StrategyKind) bool {
	switch k {
	case StrategyConfidenceBased, StrategyValueBased, StrategyPropSpecific, StrategyComposite:
		return true
	}
	return false
}

// RunParams is the full configuration of one backtest run, echoed into the
// persisted result so runs are reproducible.
type RunParams struct {
	Strategy            StrategyKind  `json:"strategy"`
	StartDate           time.Time     `json:"start_date"`
	EndDate             time.Time     `json:"end_date"`
	Sport               Sport         `json:"sport,omitempty"` // empty = both
	ConfidenceThreshold float64       `json:"confidence_threshold,omitempty"`
	EVThreshold         float64       `json:"ev_threshold,omitempty"`
	PropTypes           []string      `json:"prop_types,omitempty"`
	EntrySizes          []int         `json:"entry_sizes"`
	StartingBankroll    float64       `json:"starting_bankroll"`
	BetSize             float64       `json:"bet_size"` // amount, percent, or kelly risk multiplier
	StakingPolicy       StakingPolicy `json:"staking_policy"`
}

// BacktestResult is the assembled output of one run, handed to the
// persistence sink as a single append-only row.
type BacktestResult struct {
	ID          int64                `json:"id,omitempty"`
	Params      RunParams            `json:"params"`
	Performance PerformanceMetricSet `json:"performance"`
	Insights    []Insight            `json:"insights"`
	Records     []SimulatedBetRecord `json:"-"` // per-bet ledger, not persisted
	CreatedAt   time.Time            `json:"created_at"`
}

// ResultSummary aggregates headline figures across all persisted runs.
type ResultSummary struct {
	TotalBacktests int     `json:"total_backtests"`
	TotalBets      int     `json:"total_bets"`
	TotalWins      int     `json:"total_wins"`
	TotalLosses    int     `json:"total_losses"`
	AvgWinRate     float64 `json:"avg_win_rate"`
	TotalProfit    float64 `json:"total_profit"`
	AvgROI         float64 `json:"avg_roi"`
	BestROI        float64 `json:"best_roi"`
	WorstROI       float64 `json:"worst_roi"`
	AvgSharpeRatio float64 `json:"avg_sharpe_ratio"`
}

// StoredResult is the flat row shape returned by result listings.
type StoredResult struct {
	ID           int64        `json:"id"`
	Strategy     StrategyKind `json:"strategy"`
	Sport        Sport        `json:"sport,omitempty"`
	StartDate    time.Time    `json:"start_date"`
	EndDate      time.Time    `json:"end_date"`
	TotalBets    int          `json:"total_bets"`
	Wins         int          `json:"wins"`
	Losses       int          `json:"losses"`
	WinRate      float64      `json:"win_rate"`
	TotalProfit  float64      `json:"total_profit"`
	ROI          float64      `json:"roi"`
	SharpeRatio  float64      `json:"sharpe_ratio"`
	MaxDrawdown  float64      `json:"max_drawdown"`
	ProfitFactor float64      `json:"profit_factor"`
	CreatedAt    time.Time    `json:"created_at"`
}
