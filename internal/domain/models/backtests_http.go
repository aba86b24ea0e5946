package models

// Requests for backtest HTTP endpoints. Defined in domain for consistency and reuse.

type RunBacktestRequest struct {
	Strategy            string   `json:"strategy" validate:"required,oneof=confidence_based value_based prop_specific composite"`
	StartDate           string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate             string   `json:"end_date" validate:"required,datetime=2006-01-02"`
	Sport               string   `json:"sport" validate:"omitempty,oneof=NBA NFL both"`
	ConfidenceThreshold float64  `json:"confidence_threshold" default:"70" validate:"gte=0,lte=100"`
	EVThreshold         float64  `json:"ev_threshold" default:"5" validate:"gte=0"`
	PropTypes           []string `json:"prop_types"`
	EntrySizes          []int    `json:"entry_sizes" validate:"omitempty,dive,gte=2,lte=5"`
	StartingBankroll    float64  `json:"starting_bankroll" default:"1000" validate:"gt=0"`
	BetSize             float64  `json:"bet_size" default:"50" validate:"gt=0"`
	StakingPolicy       string   `json:"staking_policy" default:"flat" validate:"oneof=flat percentage kelly"`
	Save                bool     `json:"save"`
}

type ListBacktestsRequest struct {
	Strategy string `query:"strategy" json:"strategy" validate:"omitempty,oneof=confidence_based value_based prop_specific composite"`
	Sport    string `query:"sport" json:"sport" validate:"omitempty,oneof=NBA NFL"`
	Limit    int    `query:"limit" json:"limit" default:"10" validate:"gte=1,lte=100"`
}

type ChartRequest struct {
	Type string `query:"type" json:"type" default:"cumulative_pl" validate:"oneof=cumulative_pl win_rate bankroll"`
}

type BestStrategiesRequest struct {
	Metric string `query:"metric" json:"metric" default:"roi" validate:"oneof=roi win_rate sharpe_ratio total_profit profit_factor"`
	Limit  int    `query:"limit" json:"limit" default:"5" validate:"gte=1,lte=50"`
}

// ChartPoint is one (date, value) pair of a chart series.
type ChartPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}
