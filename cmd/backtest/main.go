package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/xsteinzy/betting-analysis-system/internal/di"
	"github.com/xsteinzy/betting-analysis-system/internal/domain/models"
	"github.com/xsteinzy/betting-analysis-system/internal/domain/repository"
	"github.com/xsteinzy/betting-analysis-system/internal/usecase"
	"github.com/xsteinzy/betting-analysis-system/pkg/config"
	"github.com/xsteinzy/betting-analysis-system/pkg/util"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "config file path")
		strategy   = flag.String("strategy", "confidence_based", "strategy kind: confidence_based, value_based, prop_specific, composite")
		start      = flag.String("start", "", "start date (YYYY-MM-DD)")
		end        = flag.String("end", "", "end date (YYYY-MM-DD)")
		sport      = flag.String("sport", "both", "sport filter: NBA, NFL, or both")
		confidence = flag.Float64("confidence", 70, "minimum confidence threshold (0-100)")
		ev         = flag.Float64("ev", 0, "minimum expected value threshold")
		props      = flag.String("props", "", "comma-separated prop types for prop_specific/composite")
		sizes      = flag.String("entry-sizes", "2,3,4,5", "comma-separated entry sizes (2-5)")
		bankroll   = flag.Float64("bankroll", 1000, "starting bankroll")
		betSize    = flag.Float64("bet-size", 20, "stake: dollars (flat), percent (percentage), or risk multiplier (kelly)")
		staking    = flag.String("staking", "flat", "staking policy: flat, percentage, kelly")
		save       = flag.Bool("save", false, "persist the result to the database")
		output     = flag.String("output", "", "write the full result JSON to this path")
		verbose    = flag.Bool("verbose", false, "print the per-bet ledger")
	)
	flag.Parse()

	if *start == "" || *end == "" {
		fmt.Fprintln(os.Stderr, "error: --start and --end are required")
		os.Exit(1)
	}
	startDate, err := util.ParseDate(*start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid --start: %v\n", err)
		os.Exit(1)
	}
	endDate, err := util.ParseDate(*end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid --end: %v\n", err)
		os.Exit(1)
	}
	entrySizes, err := parseIntList(*sizes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid --entry-sizes: %v\n", err)
		os.Exit(1)
	}

	params := models.RunParams{
		Strategy:            models.StrategyKind(*strategy),
		StartDate:           startDate,
		EndDate:             endDate,
		ConfidenceThreshold: *confidence,
		EVThreshold:         *ev,
		EntrySizes:          entrySizes,
		StartingBankroll:    *bankroll,
		BetSize:             *betSize,
		StakingPolicy:       models.StakingPolicy(*staking),
	}
	if *sport != "both" {
		params.Sport = models.Sport(*sport)
	}
	if *props != "" {
		params.PropTypes = strings.Split(*props, ",")
	}

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	lgr, err := di.ProvideLogger(cfg)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	chClient, err := di.ProvideClickHouseClient(cfg)
	if err != nil {
		log.Fatalf("clickhouse init failed: %v", err)
	}
	defer chClient.Close()
	predictions := di.ProvidePredictionStore(chClient)

	var results repository.ResultStore
	if *save {
		results, err = di.ProvideResultStore(cfg)
		if err != nil {
			log.Fatalf("result store init failed: %v", err)
		}
		defer results.Close()
		if err := results.Init(context.Background()); err != nil {
			log.Fatalf("result schema init failed: %v", err)
		}
	}

	orchestrator := usecase.NewBacktestOrchestrator(predictions, results, di.ProvideMetrics(), lgr,
		usecase.WithSimulatorWorkers(cfg.Backtest.Workers))

	result, err := orchestrator.Run(context.Background(), params, *save)
	if err != nil && !usecase.IsPersistence(err) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if usecase.IsValidation(err) {
			os.Exit(1)
		}
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v (result computed but not saved)\n", err)
	}

	printSummary(result)
	if *verbose {
		printLedger(result.Records)
	}
	if *output != "" {
		if err := writeJSON(*output, result); err != nil {
			fmt.Fprintf(os.Stderr, "error: write output: %v\n", err)
			os.Exit(2)
		}
		fmt.Printf("\nfull result written to %s\n", *output)
	}
}

func parseIntList(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func printSummary(r *models.BacktestResult) {
	o := r.Performance.Overall
	fmt.Printf("strategy: %s  window: %s .. %s\n",
		r.Params.Strategy, util.FormatDate(r.Params.StartDate), util.FormatDate(r.Params.EndDate))
	fmt.Printf("bets: %d  wins: %d  losses: %d  win rate: %.2f%%\n",
		o.TotalBets, o.Wins, o.Losses, o.WinRate)
	fmt.Printf("staked: $%.2f  profit: $%.2f  roi: %.2f%%\n",
		o.TotalStaked, o.TotalProfit, o.ROI)
	fmt.Printf("bankroll: $%.2f -> $%.2f  max drawdown: %.2f%%\n",
		o.StartingBankroll, o.EndingBankroll, o.MaxDrawdownPct)
	fmt.Printf("sharpe: %.2f  profit factor: %.2f  streaks: +%d/-%d\n",
		o.SharpeRatio, o.ProfitFactor, o.LongestWinStreak, o.LongestLossStreak)
	if r.ID != 0 {
		fmt.Printf("saved as result #%d\n", r.ID)
	}

	if len(r.Insights) > 0 {
		fmt.Println("\ninsights:")
		for i, in := range r.Insights {
			if i >= 5 {
				break
			}
			fmt.Printf("  [%s/%s] %s: %s\n", in.Category, in.Priority, in.Title, in.Message)
		}
	}
}

func printLedger(records []models.SimulatedBetRecord) {
	fmt.Println("\nledger:")
	for _, rec := range records {
		fmt.Printf("  %s %d-pick %-4s stake=%.2f payout=%.2f profit=%+.2f bankroll=%.2f\n",
			util.FormatDate(rec.Bet.Date), rec.Bet.EntrySize, rec.Outcome,
			rec.Stake, rec.Payout, rec.Profit, rec.BankrollAfter)
	}
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
