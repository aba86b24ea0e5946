package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/xsteinzy/betting-analysis-system/internal/di"
	"github.com/xsteinzy/betting-analysis-system/internal/domain/models"
	"github.com/xsteinzy/betting-analysis-system/internal/usecase"
	"github.com/xsteinzy/betting-analysis-system/pkg/config"
	"github.com/xsteinzy/betting-analysis-system/pkg/util"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "config file path")
		days       = flag.Int("days", 7, "window length in days ending today")
		start      = flag.String("start", "", "explicit start date (YYYY-MM-DD), overrides --days")
		end        = flag.String("end", "", "explicit end date (YYYY-MM-DD), overrides --days")
		workers    = flag.Int("workers", 2, "concurrent grid cells")
	)
	flag.Parse()

	from, to := util.LastNDays(*days)
	if *start != "" && *end != "" {
		var err error
		if from, err = util.ParseDate(*start); err != nil {
			fmt.Fprintf(os.Stderr, "error: invalid --start: %v\n", err)
			os.Exit(1)
		}
		if to, err = util.ParseDate(*end); err != nil {
			fmt.Fprintf(os.Stderr, "error: invalid --end: %v\n", err)
			os.Exit(1)
		}
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
	results, err := di.ProvideResultStore(cfg)
	if err != nil {
		log.Fatalf("result store init failed: %v", err)
	}
	defer results.Close()
	if err := results.Init(context.Background()); err != nil {
		log.Fatalf("result schema init failed: %v", err)
	}

	orchestrator := usecase.NewBacktestOrchestrator(
		di.ProvidePredictionStore(chClient), results, di.ProvideMetrics(), lgr,
		usecase.WithSimulatorWorkers(cfg.Backtest.Workers))

	sweep := usecase.NewSweep(orchestrator, lgr)
	outcomes, err := sweep.Run(context.Background(), usecase.SweepConfig{
		Start:            from,
		End:              to,
		StartingBankroll: cfg.Backtest.StartingBankroll,
		BetSize:          cfg.Backtest.BetSize,
		StakingPolicy:    models.StakingPolicy(cfg.Backtest.StakingPolicy),
		EntrySizes:       cfg.Backtest.EntrySizes,
		Workers:          *workers,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	failed := 0
	for _, o := range outcomes {
		label := fmt.Sprintf("%s/%s", o.Params.Strategy, sportLabel(string(o.Params.Sport)))
		if o.Err != nil {
			failed++
			fmt.Printf("  %-40s FAILED: %v\n", label, o.Err)
			continue
		}
		fmt.Printf("  %-40s bets=%-5d roi=%+.2f%% id=%d\n", label, o.Bets, o.ROI, o.ResultID)
	}
	fmt.Printf("sweep %s .. %s: %d cells, %d failed\n",
		util.FormatDate(from), util.FormatDate(to), len(outcomes), failed)
	if failed > 0 {
		os.Exit(2)
	}
}

func sportLabel(s string) string {
	if s == "" {
		return "both"
	}
	return s
}
