package usecase

import (
	"context"
	"sort"

	"github.com/xsteinzy/betting-analysis-system/internal/domain/models"
)

// ReplayResult is the output of one bankroll replay: the resolved ledger, the
// final bankroll state, and the per-day equity series.
type ReplayResult struct {
	Records []models.SimulatedBetRecord
	State   models.BankrollState
	Daily   []models.DailyResult
}

// BankrollSimulator replays candidate entries chronologically against a
// staking policy and a starting bankroll. The replay is inherently
// sequential: each stake depends on the bankroll left by all prior bets, and
// evaluating bets out of order would introduce lookahead bias. No randomness
// anywhere; identical inputs produce identical outputs.
type BankrollSimulator struct {
	policy           models.StakingPolicy
	betSize          float64
	startingBankroll float64
}

// NewBankrollSimulator creates a replay engine. The meaning of betSize
// depends on the policy: a fixed amount for flat, a percent of the live
// bankroll for percentage, and a Kelly risk multiplier for kelly (values
// above 1 are read as percent, e.g. 50 means 0.5).
func NewBankrollSimulator(policy models.StakingPolicy, betSize, startingBankroll float64) *BankrollSimulator {
	return &BankrollSimulator{policy: policy, betSize: betSize, startingBankroll: startingBankroll}
}

// Replay resolves each entry against actual outcomes and evolves the
// bankroll one bet at a time, oldest first, ties broken by creation order.
func (b *BankrollSimulator) Replay(ctx context.Context, bets []models.CandidateBet, outcomes models.OutcomeSet) (*ReplayResult, error) {
	ordered := make([]models.CandidateBet, len(bets))
	copy(ordered, bets)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].Date.Before(ordered[j].Date)
		}
		return ordered[i].Seq < ordered[j].Seq
	})

	res := &ReplayResult{
		State: models.BankrollState{Current: b.startingBankroll, Peak: b.startingBankroll},
	}

	var day *models.DailyResult
	cumulative := 0.0

	for _, bet := range ordered {
		if day == nil || day.Date != bet.Date.Format("2006-01-02") {
			// cooperative abort point between dates
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			res.Daily = append(res.Daily, models.DailyResult{Date: bet.Date.Format("2006-01-02")})
			day = &res.Daily[len(res.Daily)-1]
		}

		stake, constrained := b.stake(bet, res.State.Current)
		if stake <= 0 {
			continue // no edge or exhausted bankroll; no bet placed
		}

		rec := models.SimulatedBetRecord{
			Bet:              bet,
			Stake:            stake,
			StakeConstrained: constrained,
			BankrollBefore:   res.State.Current,
		}
		if allLegsWon(bet, outcomes) {
			rec.Outcome = models.OutcomeWon
			rec.Payout = stake * bet.PayoutMultiplier
		} else {
			rec.Outcome = models.OutcomeLost
		}
		rec.Profit = rec.Payout - stake

		res.State.Current += rec.Profit
		rec.BankrollAfter = res.State.Current
		if res.State.Current > res.State.Peak {
			res.State.Peak = res.State.Current
		}
		if res.State.Peak > 0 {
			dd := (res.State.Peak - res.State.Current) / res.State.Peak * 100
			if dd > res.State.MaxDrawdownPct {
				res.State.MaxDrawdownPct = dd
			}
		}

		cumulative += rec.Profit
		day.Bets++
		if rec.Won() {
			day.Wins++
		} else {
			day.Losses++
		}
		day.DailyPnL += rec.Profit
		day.CumulativePnL = cumulative
		day.Bankroll = res.State.Current

		res.Records = append(res.Records, rec)
	}

	// Drop trailing empty days left by skipped bets.
	filtered := res.Daily[:0]
	for _, d := range res.Daily {
		if d.Bets > 0 {
			filtered = append(filtered, d)
		}
	}
	res.Daily = filtered

	return res, nil
}

// stake sizes the wager from the bankroll as it stands before this bet.
// Stakes above the live bankroll clamp to it and flag the record; the
// simulation never borrows and the bankroll never goes negative.
func (b *BankrollSimulator) stake(bet models.CandidateBet, bankroll float64) (stake float64, constrained bool) {
	if bankroll <= 0 {
		return 0, false
	}
	switch b.policy {
	case models.StakingFlat:
		stake = b.betSize
	case models.StakingPercentage:
		stake = bankroll * b.betSize / 100
	case models.StakingKelly:
		stake = bankroll * kellyFraction(bet) * normalizeRiskMultiplier(b.betSize)
	}
	if stake > bankroll {
		return bankroll, true
	}
	return stake, false
}

// kellyFraction computes (b·p − q)/b with b the net odds and p the entry's
// estimated win probability from its average leg confidence, clamped to
// [0, 1]. Negative edge yields 0: no bet.
func kellyFraction(bet models.CandidateBet) float64 {
	netOdds := bet.PayoutMultiplier - 1
	if netOdds <= 0 {
		return 0
	}
	p := bet.AvgConfidence / 100
	q := 1 - p
	f := (netOdds*p - q) / netOdds
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func normalizeRiskMultiplier(v float64) float64 {
	if v > 1 {
		return v / 100
	}
	return v
}

// allLegsWon resolves an entry all-or-nothing: every leg must hit. An over
// leg wins when the actual value meets or beats the projection, an under leg
// when it stays below. A leg with no recorded outcome counts as lost.
func allLegsWon(bet models.CandidateBet, outcomes models.OutcomeSet) bool {
	for _, leg := range bet.Legs {
		actual, ok := outcomes.Lookup(leg.OutcomeKey())
		if !ok {
			return false
		}
		switch leg.Pick {
		case models.PickUnder:
			if actual >= leg.ProjectedValue {
				return false
			}
		default: // over
			if actual < leg.ProjectedValue {
				return false
			}
		}
	}
	return true
}
