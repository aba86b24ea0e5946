package models

import "time"

// Pick is the direction a leg bets relative to the projected line.
type Pick string

const (
	PickOver  Pick = "over"
	PickUnder Pick = "under"
)

// EntryPayouts maps entry size (number of legs) to its payout multiplier.
// All legs must win for the entry to pay out.
var EntryPayouts = map[int]float64{
	2: 3.0,
	3: 6.0,
	4: 10.0,
	5: 20.0,
}

// ValidEntrySize reports whether k is an offered entry size.
func ValidEntrySize(k int) bool {
	_, ok := EntryPayouts[k]
	return ok
}

// BetLeg is a single prop pick inside a multi-pick entry.
type BetLeg struct {
	PlayerID       string  `json:"player_id"`
	GameID         string  `json:"game_id"`
	PropType       string  `json:"prop_type"`
	Pick           Pick    `json:"pick"`
	ProjectedValue float64 `json:"projected_value"`
	Confidence     float64 `json:"confidence"`
	ExpectedValue  float64 `json:"expected_value"`
}

// OutcomeKey returns the key the leg resolves against.
func (l BetLeg) OutcomeKey() OutcomeKey {
	return OutcomeKey{PlayerID: l.PlayerID, GameID: l.GameID, PropType: l.PropType}
}

// CandidateBet is a synthetic multi-pick entry produced by the strategy
// simulator, before staking and resolution. Seq preserves creation order and
// breaks chronological ties during replay.
type CandidateBet struct {
	Date             time.Time `json:"date"`
	EntrySize        int       `json:"entry_size"`
	Legs             []BetLeg  `json:"legs"`
	Sport            Sport     `json:"sport"`
	PayoutMultiplier float64   `json:"payout_multiplier"`
	AvgConfidence    float64   `json:"avg_confidence"`
	AvgExpectedValue float64   `json:"avg_expected_value"`
	Seq              int       `json:"seq"`
}

// PropTypes returns the prop type of each leg, in leg order.
func (b CandidateBet) PropTypes() []string {
	out := make([]string, len(b.Legs))
	for i, l := range b.Legs {
		out[i] = l.PropType
	}
	return out
}

// BetOutcome is the all-or-nothing result of a simulated entry.
type BetOutcome string

const (
	OutcomeWon  BetOutcome = "won"
	OutcomeLost BetOutcome = "lost"
)

// SimulatedBetRecord is one resolved entry from a bankroll replay.
type SimulatedBetRecord struct {
	Bet              CandidateBet `json:"bet"`
	Stake            float64      `json:"stake"`
	StakeConstrained bool         `json:"stake_constrained"`
	Outcome          BetOutcome   `json:"outcome"`
	Payout           float64      `json:"payout"`
	Profit           float64      `json:"profit"`
	BankrollBefore   float64      `json:"bankroll_before"`
	BankrollAfter    float64      `json:"bankroll_after"`
}

// Won reports whether every leg of the entry hit.
func (r SimulatedBetRecord) Won() bool { return r.Outcome == OutcomeWon }

// BankrollState tracks the simulated bankroll during a replay. Mutated only
// by the bankroll simulator, strictly in chronological order.
type BankrollState struct {
	Current        float64 `json:"current"`
	Peak           float64 `json:"peak"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
}

// StakingPolicy selects how stakes are sized against the live bankroll.
type StakingPolicy string

const (
	StakingFlat       StakingPolicy = "flat"
	StakingPercentage StakingPolicy = "percentage"
	StakingKelly      StakingPolicy = "kelly"
)

// ValidStakingPolicy reports whether p is a recognized policy.
func ValidStakingPolicy(p StakingPolicy) bool {
	switch p {
	case StakingFlat, StakingPercentage, StakingKelly:
		return true
	}
	return false
}
