package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xsteinzy/betting-analysis-system/internal/domain/models"
	"github.com/xsteinzy/betting-analysis-system/internal/domain/repository"
	"github.com/xsteinzy/betting-analysis-system/pkg/clickhouse"
)

// ClickHousePredictionStore reads historical predictions and resolved stat
// lines from the analytics warehouse. The backtester never writes here.
type ClickHousePredictionStore struct {
	client *clickhouse.Client
	db     *sql.DB
}

// NewClickHousePredictionStore wraps a warehouse client.
func NewClickHousePredictionStore(client *clickhouse.Client) repository.PredictionStore {
	return &ClickHousePredictionStore{client: client, db: client.DB()}
}

func (s *ClickHousePredictionStore) Predictions(ctx context.Context, from, to time.Time, sport models.Sport) ([]models.HistoricalPrediction, error) {
	q := `
		SELECT player_id, game_id, sport, prop_type, game_date,
		       projected_value, confidence, expected_value, model_version
		FROM predictions
		WHERE game_date >= ? AND game_date <= ? AND game_completed = 1`
	args := []interface{}{from, to}
	if sport != "" {
		q += " AND sport = ?"
		args = append(args, string(sport))
	}
	q += " ORDER BY game_date ASC, player_id ASC, prop_type ASC"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query predictions: %w", err)
	}
	defer rows.Close()

	var out []models.HistoricalPrediction
	for rows.Next() {
		var p models.HistoricalPrediction
		var sp string
		var ev sql.NullFloat64
		if err := rows.Scan(&p.PlayerID, &p.GameID, &sp, &p.PropType, &p.GameDate,
			&p.ProjectedValue, &p.Confidence, &ev, &p.ModelVersion); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		p.Sport = models.Sport(sp)
		p.ExpectedValue = deriveExpectedValue(ev, p.Confidence)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate predictions: %w", err)
	}
	return out, nil
}

func (s *ClickHousePredictionStore) Outcomes(ctx context.Context, from, to time.Time, sport models.Sport) (models.OutcomeSet, error) {
	q := `
		SELECT player_id, game_id, prop_type, actual_value
		FROM player_stats
		WHERE game_date >= ? AND game_date <= ?`
	args := []interface{}{from, to}
	if sport != "" {
		q += " AND sport = ?"
		args = append(args, string(sport))
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	set := make(models.OutcomeSet)
	for rows.Next() {
		var o models.ActualOutcome
		if err := rows.Scan(&o.PlayerID, &o.GameID, &o.PropType, &o.ActualValue); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		set[o.Key()] = o.ActualValue
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return set, nil
}

func (s *ClickHousePredictionStore) Health(ctx context.Context) error {
	return s.client.Health(ctx)
}

func (s *ClickHousePredictionStore) Close() error {
	return s.client.Close()
}

// deriveExpectedValue backfills EV for rows the upstream pipeline left unset.
// Confidence above the coin flip maps linearly to EV at half a point per
// confidence point; at or below 50 the edge is zero.
func deriveExpectedValue(ev sql.NullFloat64, confidence float64) float64 {
	if ev.Valid && ev.Float64 != 0 {
		return ev.Float64
	}
	if confidence > 50 {
		return (confidence - 50) * 0.5
	}
	return 0
}
