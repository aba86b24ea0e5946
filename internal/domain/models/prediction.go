package models

import "time"

// Sport identifies the league a prediction belongs to.
type Sport string

const (
	SportNBA Sport = "NBA"
	SportNFL Sport = "NFL"
)

// PropTypesBySport lists the prop types the upstream models produce.
var PropTypesBySport = map[Sport][]string{
	SportNBA: {
		"points",
		"rebounds",
		"assists",
		"steals",
		"blocks",
		"three_pointers_made",
		"points_rebounds_assists",
		"points_rebounds",
		"points_assists",
		"rebounds_assists",
	},
	SportNFL: {
		"passing_yards",
		"passing_touchdowns",
		"rushing_yards",
		"rushing_touchdowns",
		"receiving_yards",
		"receiving_touchdowns",
		"receptions",
		"completions",
		"pass_attempts",
		"interceptions",
	},
}

// KnownPropType reports whether propType is produced by any sport's models.
func KnownPropType(propType string) bool {
	for _, props := range PropTypesBySport {
		for _, p := range props {
			if p == propType {
				return true
			}
		}
	}
	return false
}

// HistoricalPrediction is one prop projection emitted by the external ML
// pipeline. Read-only to the backtesting core.
type HistoricalPrediction struct {
	PlayerID       string    `json:"player_id"`
	GameID         string    `json:"game_id"`
	Sport          Sport     `json:"sport"`
	PropType       string    `json:"prop_type"`
	GameDate       time.Time `json:"game_date"`
	ProjectedValue float64   `json:"projected_value"`
	Confidence     float64   `json:"confidence"`     // 0-100
	ExpectedValue  float64   `json:"expected_value"` // percent
	ModelVersion   string    `json:"model_version"`
}

// OutcomeKey identifies the actual stat line a prediction resolves against.
type OutcomeKey struct {
	PlayerID string
	GameID   string
	PropType string
}

// ActualOutcome is the realized stat for a player prop once a game completes.
type ActualOutcome struct {
	PlayerID    string  `json:"player_id"`
	GameID      string  `json:"game_id"`
	PropType    string  `json:"prop_type"`
	ActualValue float64 `json:"actual_value"`
}

// Key returns the lookup key for this outcome.
func (o ActualOutcome) Key() OutcomeKey {
	return OutcomeKey{PlayerID: o.PlayerID, GameID: o.GameID, PropType: o.PropType}
}

// OutcomeSet is the resolved-outcome lookup used during bet evaluation.
type OutcomeSet map[OutcomeKey]float64

// Lookup returns the actual value for a key, if present.
func (s OutcomeSet) Lookup(k OutcomeKey) (float64, bool) {
	v, ok := s[k]
	return v, ok
}
