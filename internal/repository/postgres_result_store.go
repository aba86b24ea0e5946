package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/xsteinzy/betting-analysis-system/internal/domain/models"
	"github.com/xsteinzy/betting-analysis-system/internal/domain/repository"
)

// Flat columns exist for listing and ranking; the full snapshot lives in
// JSONB so the row round-trips without schema churn.
const resultsSchema = `
CREATE TABLE IF NOT EXISTS backtest_results (
	id            BIGSERIAL PRIMARY KEY,
	strategy      TEXT        NOT NULL,
	sport         TEXT        NOT NULL DEFAULT '',
	start_date    DATE        NOT NULL,
	end_date      DATE        NOT NULL,
	params        JSONB       NOT NULL,
	total_bets    INT         NOT NULL,
	wins          INT         NOT NULL,
	losses        INT         NOT NULL,
	win_rate      DOUBLE PRECISION NOT NULL,
	total_profit  DOUBLE PRECISION NOT NULL,
	roi           DOUBLE PRECISION NOT NULL,
	sharpe_ratio  DOUBLE PRECISION NOT NULL,
	max_drawdown  DOUBLE PRECISION NOT NULL,
	profit_factor DOUBLE PRECISION NOT NULL,
	performance   JSONB       NOT NULL,
	insights      JSONB       NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_backtest_results_strategy ON backtest_results (strategy, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_backtest_results_created  ON backtest_results (created_at DESC);`

// PostgresResultStore persists finished runs as append-only rows.
type PostgresResultStore struct {
	db *sql.DB
}

// NewPostgresResultStore opens the results database.
func NewPostgresResultStore(dsn string) (repository.ResultStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	return &PostgresResultStore{db: db}, nil
}

func (s *PostgresResultStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, resultsSchema); err != nil {
		return fmt.Errorf("init results schema: %w", err)
	}
	return nil
}

func (s *PostgresResultStore) Save(ctx context.Context, r *models.BacktestResult) (int64, error) {
	params, err := json.Marshal(r.Params)
	if err != nil {
		return 0, fmt.Errorf("marshal params: %w", err)
	}
	performance, err := json.Marshal(r.Performance)
	if err != nil {
		return 0, fmt.Errorf("marshal performance: %w", err)
	}
	insights, err := json.Marshal(r.Insights)
	if err != nil {
		return 0, fmt.Errorf("marshal insights: %w", err)
	}

	o := r.Performance.Overall
	var id int64
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO backtest_results
			(strategy, sport, start_date, end_date, params,
			 total_bets, wins, losses, win_rate, total_profit, roi,
			 sharpe_ratio, max_drawdown, profit_factor,
			 performance, insights, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		RETURNING id`,
		string(r.Params.Strategy), string(r.Params.Sport),
		r.Params.StartDate, r.Params.EndDate, params,
		o.TotalBets, o.Wins, o.Losses, o.WinRate, o.TotalProfit, o.ROI,
		o.SharpeRatio, o.MaxDrawdownPct, o.ProfitFactor,
		performance, insights, r.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert result: %w", err)
	}
	return id, nil
}

const storedColumns = `
	id, strategy, sport, start_date, end_date,
	total_bets, wins, losses, win_rate, total_profit, roi,
	sharpe_ratio, max_drawdown, profit_factor, created_at`

func (s *PostgresResultStore) List(ctx context.Context, strategy models.StrategyKind, sport models.Sport, limit int) ([]models.StoredResult, error) {
	q := "SELECT" + storedColumns + " FROM backtest_results WHERE 1=1"
	var args []interface{}
	if strategy != "" {
		args = append(args, string(strategy))
		q += fmt.Sprintf(" AND strategy = $%d", len(args))
	}
	if sport != "" {
		args = append(args, string(sport))
		q += fmt.Sprintf(" AND sport = $%d", len(args))
	}
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	q += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	return s.queryStored(ctx, q, args...)
}

func (s *PostgresResultStore) Get(ctx context.Context, id int64) (*models.BacktestResult, error) {
	return s.queryFull(ctx,
		"SELECT id, params, performance, insights, created_at FROM backtest_results WHERE id = $1", id)
}

func (s *PostgresResultStore) Latest(ctx context.Context) (*models.BacktestResult, error) {
	return s.queryFull(ctx,
		"SELECT id, params, performance, insights, created_at FROM backtest_results ORDER BY created_at DESC LIMIT 1")
}

func (s *PostgresResultStore) queryFull(ctx context.Context, q string, args ...interface{}) (*models.BacktestResult, error) {
	var (
		r                             models.BacktestResult
		params, performance, insights []byte
	)
	err := s.db.QueryRowContext(ctx, q, args...).
		Scan(&r.ID, &params, &performance, &insights, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query result: %w", err)
	}
	if err := json.Unmarshal(params, &r.Params); err != nil {
		return nil, fmt.Errorf("unmarshal params: %w", err)
	}
	if err := json.Unmarshal(performance, &r.Performance); err != nil {
		return nil, fmt.Errorf("unmarshal performance: %w", err)
	}
	if err := json.Unmarshal(insights, &r.Insights); err != nil {
		return nil, fmt.Errorf("unmarshal insights: %w", err)
	}
	return &r, nil
}

func (s *PostgresResultStore) Summary(ctx context.Context) (*models.ResultSummary, error) {
	var sum models.ResultSummary
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(total_bets), 0),
		       COALESCE(SUM(wins), 0),
		       COALESCE(SUM(losses), 0),
		       COALESCE(AVG(win_rate), 0),
		       COALESCE(SUM(total_profit), 0),
		       COALESCE(AVG(roi), 0),
		       COALESCE(MAX(roi), 0),
		       COALESCE(MIN(roi), 0),
		       COALESCE(AVG(sharpe_ratio), 0)
		FROM backtest_results`).
		Scan(&sum.TotalBacktests, &sum.TotalBets, &sum.TotalWins, &sum.TotalLosses,
			&sum.AvgWinRate, &sum.TotalProfit, &sum.AvgROI, &sum.BestROI,
			&sum.WorstROI, &sum.AvgSharpeRatio)
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}
	return &sum, nil
}

// rankableMetrics whitelists ORDER BY targets; metric names come from
// request input and are never interpolated unchecked.
var rankableMetrics = map[string]string{
	"roi":           "roi",
	"win_rate":      "win_rate",
	"total_profit":  "total_profit",
	"sharpe_ratio":  "sharpe_ratio",
	"profit_factor": "profit_factor",
}

func (s *PostgresResultStore) BestStrategies(ctx context.Context, metric string, limit int) ([]models.StoredResult, error) {
	col, ok := rankableMetrics[metric]
	if !ok {
		return nil, fmt.Errorf("unrankable metric %q", metric)
	}
	if limit <= 0 {
		limit = 10
	}
	q := "SELECT" + storedColumns + fmt.Sprintf(
		" FROM backtest_results WHERE total_bets >= %d ORDER BY %s DESC LIMIT $1",
		30, col)
	return s.queryStored(ctx, q, limit)
}

func (s *PostgresResultStore) Evolution(ctx context.Context, strategy models.StrategyKind) ([]models.StoredResult, error) {
	q := "SELECT" + storedColumns +
		" FROM backtest_results WHERE strategy = $1 ORDER BY created_at ASC"
	return s.queryStored(ctx, q, string(strategy))
}

func (s *PostgresResultStore) queryStored(ctx context.Context, q string, args ...interface{}) ([]models.StoredResult, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []models.StoredResult
	for rows.Next() {
		var (
			r               models.StoredResult
			strategy, sport string
		)
		if err := rows.Scan(&r.ID, &strategy, &sport, &r.StartDate, &r.EndDate,
			&r.TotalBets, &r.Wins, &r.Losses, &r.WinRate, &r.TotalProfit, &r.ROI,
			&r.SharpeRatio, &r.MaxDrawdown, &r.ProfitFactor, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		r.Strategy = models.StrategyKind(strategy)
		r.Sport = models.Sport(sport)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate result rows: %w", err)
	}
	return out, nil
}

func (s *PostgresResultStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresResultStore) Close() error {
	return s.db.Close()
}
