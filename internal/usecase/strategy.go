package usecase

import (
	"github.com/xsteinzy/betting-analysis-system/internal/domain/models"
)

// Strategy is the validated filter configuration for a run. Each kind carries
// only the parameters it uses; validation happens once at construction, never
// per prediction.
type Strategy struct {
	Kind                models.StrategyKind
	ConfidenceThreshold float64
	EVThreshold         float64
	PropTypes           []string

	propSet map[string]struct{}
}

// NewStrategy builds and validates a Strategy.
func NewStrategy(kind models.StrategyKind, confidenceThreshold, evThreshold float64, propTypes []string) (*Strategy, error) {
	if !models.ValidStrategyKind(kind) {
		return nil, &ValidationError{Field: "strategy", Reason: "unknown strategy kind: " + string(kind)}
	}
	if confidenceThreshold < 0 || confidenceThreshold > 100 {
		return nil, &ValidationError{Field: "confidence_threshold", Reason: "must be within [0, 100]"}
	}
	if evThreshold < 0 {
		return nil, &ValidationError{Field: "ev_threshold", Reason: "must be >= 0"}
	}
	for _, p := range propTypes {
		if !models.KnownPropType(p) {
			return nil, &ValidationError{Field: "prop_types", Reason: "unknown prop type: " + p}
		}
	}
	if kind == models.StrategyPropSpecific && len(propTypes) == 0 {
		return nil, &ValidationError{Field: "prop_types", Reason: "prop_specific strategy requires at least one prop type"}
	}

	s := &Strategy{
		Kind:                kind,
		ConfidenceThreshold: confidenceThreshold,
		EVThreshold:         evThreshold,
		PropTypes:           propTypes,
	}
	if len(propTypes) > 0 {
		s.propSet = make(map[string]struct{}, len(propTypes))
		for _, p := range propTypes {
			s.propSet[p] = struct{}{}
		}
	}
	return s, nil
}

// Matches reports whether a prediction qualifies under this strategy.
// Composite is the logical AND of every active filter.
func (s *Strategy) Matches(p models.HistoricalPrediction) bool {
	switch s.Kind {
	case models.StrategyConfidenceBased:
		return p.Confidence >= s.ConfidenceThreshold
	case models.StrategyValueBased:
		return p.ExpectedValue >= s.EVThreshold
	case models.StrategyPropSpecific:
		if _, ok := s.propSet[p.PropType]; !ok {
			return false
		}
		return p.Confidence >= s.ConfidenceThreshold
	case models.StrategyComposite:
		if s.ConfidenceThreshold > 0 && p.Confidence < s.ConfidenceThreshold {
			return false
		}
		if s.EVThreshold > 0 && p.ExpectedValue < s.EVThreshold {
			return false
		}
		if s.propSet != nil {
			if _, ok := s.propSet[p.PropType]; !ok {
				return false
			}
		}
		return true
	}
	return false
}
