package usecase

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/xsteinzy/betting-analysis-system/internal/domain/models"
)

// mkBet builds a 2-pick over entry on the given date. Each leg projects 20;
// the outcome set decides whether it hits.
func mkBet(date time.Time, seq int, players ...string) models.CandidateBet {
	legs := make([]models.BetLeg, len(players))
	for i, p := range players {
		legs[i] = models.BetLeg{
			PlayerID:       p,
			GameID:         "g-" + date.Format("0102"),
			PropType:       "points",
			Pick:           models.PickOver,
			ProjectedValue: 20,
			Confidence:     80,
		}
	}
	return models.CandidateBet{
		Date:             date,
		Seq:              seq,
		EntrySize:        len(players),
		Legs:             legs,
		Sport:            models.SportNBA,
		PayoutMultiplier: models.EntryPayouts[len(players)],
		AvgConfidence:    80,
	}
}

func outcomeFor(bet models.CandidateBet, actual float64) models.OutcomeSet {
	set := models.OutcomeSet{}
	for _, leg := range bet.Legs {
		set[leg.OutcomeKey()] = actual
	}
	return set
}

func TestReplayFlatWinAndLoss(t *testing.T) {
	win := mkBet(day(1), 0, "a", "b")
	loss := mkBet(day(2), 1, "c", "d")
	outcomes := outcomeFor(win, 25)
	for _, leg := range loss.Legs {
		outcomes[leg.OutcomeKey()] = 10
	}

	sim := NewBankrollSimulator(models.StakingFlat, 100, 1000)
	res, err := sim.Replay(context.Background(), []models.CandidateBet{win, loss}, outcomes)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("records = %d", len(res.Records))
	}

	first := res.Records[0]
	if !first.Won() || first.Payout != 300 || first.Profit != 200 {
		t.Fatalf("win record = %+v", first)
	}
	if first.BankrollBefore != 1000 || first.BankrollAfter != 1200 {
		t.Fatalf("win bankroll %v -> %v", first.BankrollBefore, first.BankrollAfter)
	}

	second := res.Records[1]
	if second.Won() || second.Payout != 0 || second.Profit != -100 {
		t.Fatalf("loss record = %+v", second)
	}
	if res.State.Current != 1100 || res.State.Peak != 1200 {
		t.Fatalf("state = %+v", res.State)
	}
	wantDD := (1200.0 - 1100.0) / 1200.0 * 100
	if math.Abs(res.State.MaxDrawdownPct-wantDD) > 1e-9 {
		t.Fatalf("drawdown = %v, want %v", res.State.MaxDrawdownPct, wantDD)
	}
}

func TestReplayOverUnderBoundaries(t *testing.T) {
	// Over wins when actual meets the projection exactly.
	over := mkBet(day(1), 0, "a", "b")
	sim := NewBankrollSimulator(models.StakingFlat, 10, 1000)
	res, err := sim.Replay(context.Background(), []models.CandidateBet{over}, outcomeFor(over, 20))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Records[0].Won() {
		t.Fatal("over at exactly the projection must win")
	}

	// Under loses on the same boundary.
	under := mkBet(day(1), 0, "a", "b")
	for i := range under.Legs {
		under.Legs[i].Pick = models.PickUnder
	}
	res, err = sim.Replay(context.Background(), []models.CandidateBet{under}, outcomeFor(under, 20))
	if err != nil {
		t.Fatal(err)
	}
	if res.Records[0].Won() {
		t.Fatal("under at exactly the projection must lose")
	}
}

func TestReplayMissingOutcomeLoses(t *testing.T) {
	bet := mkBet(day(1), 0, "a", "b")
	outcomes := models.OutcomeSet{bet.Legs[0].OutcomeKey(): 30} // second leg unresolved

	sim := NewBankrollSimulator(models.StakingFlat, 10, 1000)
	res, err := sim.Replay(context.Background(), []models.CandidateBet{bet}, outcomes)
	if err != nil {
		t.Fatal(err)
	}
	if res.Records[0].Won() {
		t.Fatal("entry with an unresolved leg must lose")
	}
}

func TestReplayPercentageStaking(t *testing.T) {
	first := mkBet(day(1), 0, "a", "b")
	second := mkBet(day(2), 1, "c", "d")
	outcomes := outcomeFor(first, 25)
	for _, leg := range second.Legs {
		outcomes[leg.OutcomeKey()] = 25
	}

	sim := NewBankrollSimulator(models.StakingPercentage, 10, 1000)
	res, err := sim.Replay(context.Background(), []models.CandidateBet{first, second}, outcomes)
	if err != nil {
		t.Fatal(err)
	}
	if res.Records[0].Stake != 100 {
		t.Fatalf("first stake = %v, want 100", res.Records[0].Stake)
	}
	// Bankroll is 1200 after the first win, so the second stake is 120.
	if math.Abs(res.Records[1].Stake-120) > 1e-9 {
		t.Fatalf("second stake = %v, want 120", res.Records[1].Stake)
	}
}

func TestReplayKellyStaking(t *testing.T) {
	bet := mkBet(day(1), 0, "a", "b") // AvgConfidence 80, net odds 2
	sim := NewBankrollSimulator(models.StakingKelly, 50, 1000)
	res, err := sim.Replay(context.Background(), []models.CandidateBet{bet}, outcomeFor(bet, 25))
	if err != nil {
		t.Fatal(err)
	}
	// f = (2*0.8 - 0.2)/2 = 0.7; half-Kelly on 1000 stakes 350.
	if math.Abs(res.Records[0].Stake-350) > 1e-9 {
		t.Fatalf("kelly stake = %v, want 350", res.Records[0].Stake)
	}
}

func TestReplayKellySkipsNegativeEdge(t *testing.T) {
	bet := mkBet(day(1), 0, "a", "b")
	bet.AvgConfidence = 30 // f = (2*0.3 - 0.7)/2 < 0
	sim := NewBankrollSimulator(models.StakingKelly, 1, 1000)
	res, err := sim.Replay(context.Background(), []models.CandidateBet{bet}, outcomeFor(bet, 25))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Records) != 0 {
		t.Fatalf("negative-edge bet must be skipped, got %d records", len(res.Records))
	}
	if len(res.Daily) != 0 {
		t.Fatalf("skipped bets must not leave daily rows, got %d", len(res.Daily))
	}
}

func TestReplayStakeClampedToBankroll(t *testing.T) {
	lose := mkBet(day(1), 0, "a", "b")
	next := mkBet(day(2), 1, "c", "d")
	outcomes := outcomeFor(lose, 10)
	for _, leg := range next.Legs {
		outcomes[leg.OutcomeKey()] = 10
	}

	// Flat 80 against a 100 bankroll: the second stake exceeds the remaining 20.
	sim := NewBankrollSimulator(models.StakingFlat, 80, 100)
	res, err := sim.Replay(context.Background(), []models.CandidateBet{lose, next}, outcomes)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("records = %d", len(res.Records))
	}
	second := res.Records[1]
	if second.Stake != 20 || !second.StakeConstrained {
		t.Fatalf("clamped stake = %v constrained = %v", second.Stake, second.StakeConstrained)
	}
	if res.State.Current != 0 {
		t.Fatalf("bankroll = %v, want 0", res.State.Current)
	}
}

func TestReplayExhaustedBankrollStopsBetting(t *testing.T) {
	lose := mkBet(day(1), 0, "a", "b")
	after := mkBet(day(2), 1, "c", "d")
	outcomes := outcomeFor(lose, 10)
	for _, leg := range after.Legs {
		outcomes[leg.OutcomeKey()] = 30
	}

	sim := NewBankrollSimulator(models.StakingFlat, 100, 100)
	res, err := sim.Replay(context.Background(), []models.CandidateBet{lose, after}, outcomes)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Records) != 1 {
		t.Fatalf("busted bankroll must place no further bets, got %d records", len(res.Records))
	}
	if res.State.Current != 0 {
		t.Fatalf("bankroll = %v", res.State.Current)
	}
}

func TestReplayOrdersByDateThenSeq(t *testing.T) {
	b1 := mkBet(day(2), 3, "a", "b")
	b2 := mkBet(day(1), 1, "c", "d")
	b3 := mkBet(day(1), 0, "e", "f")
	outcomes := models.OutcomeSet{}
	for _, bet := range []models.CandidateBet{b1, b2, b3} {
		for _, leg := range bet.Legs {
			outcomes[leg.OutcomeKey()] = 25
		}
	}

	sim := NewBankrollSimulator(models.StakingFlat, 10, 1000)
	res, err := sim.Replay(context.Background(), []models.CandidateBet{b1, b2, b3}, outcomes)
	if err != nil {
		t.Fatal(err)
	}
	got := []string{
		res.Records[0].Bet.Legs[0].PlayerID,
		res.Records[1].Bet.Legs[0].PlayerID,
		res.Records[2].Bet.Legs[0].PlayerID,
	}
	want := []string{"e", "c", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("replay order = %v, want %v", got, want)
		}
	}
}

func TestReplayDailySeries(t *testing.T) {
	d1a := mkBet(day(1), 0, "a", "b")
	d1b := mkBet(day(1), 1, "c", "d")
	d2 := mkBet(day(2), 2, "e", "f")
	outcomes := outcomeFor(d1a, 25)
	for _, leg := range d1b.Legs {
		outcomes[leg.OutcomeKey()] = 10
	}
	for _, leg := range d2.Legs {
		outcomes[leg.OutcomeKey()] = 25
	}

	sim := NewBankrollSimulator(models.StakingFlat, 100, 1000)
	res, err := sim.Replay(context.Background(), []models.CandidateBet{d1a, d1b, d2}, outcomes)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Daily) != 2 {
		t.Fatalf("daily rows = %d", len(res.Daily))
	}

	d1 := res.Daily[0]
	if d1.Date != "2025-01-01" || d1.Bets != 2 || d1.Wins != 1 || d1.Losses != 1 {
		t.Fatalf("day 1 = %+v", d1)
	}
	if d1.DailyPnL != 100 || d1.CumulativePnL != 100 || d1.Bankroll != 1100 {
		t.Fatalf("day 1 pnl = %+v", d1)
	}

	d2row := res.Daily[1]
	if d2row.Bets != 1 || d2row.DailyPnL != 200 || d2row.CumulativePnL != 300 || d2row.Bankroll != 1300 {
		t.Fatalf("day 2 = %+v", d2row)
	}
}

func TestReplayCancelledContext(t *testing.T) {
	bet := mkBet(day(1), 0, "a", "b")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewBankrollSimulator(models.StakingFlat, 10, 1000).
		Replay(ctx, []models.CandidateBet{bet}, outcomeFor(bet, 25))
	if err == nil {
		t.Fatal("expected context error")
	}
}
