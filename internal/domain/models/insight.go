package models

// InsightCategory classifies an insight's tone.
type InsightCategory string

const (
	InsightSuccess InsightCategory = "success"
	InsightWarning InsightCategory = "warning"
	InsightInfo    InsightCategory = "info"
)

// InsightPriority ranks how actionable an insight is.
type InsightPriority string

const (
	PriorityHigh   InsightPriority = "high"
	PriorityMedium InsightPriority = "medium"
	PriorityLow    InsightPriority = "low"
)

// Insight is one human-readable finding derived from a metric snapshot.
// Insights are never fed back into simulation.
type Insight struct {
	Category       InsightCategory `json:"category"`
	Priority       InsightPriority `json:"priority"`
	Title          string          `json:"title"`
	Message        string          `json:"message"`
	Recommendation string          `json:"recommendation,omitempty"`
}
