package models

import (
	"time"
)

// MovementHypothesis is one LLM-proposed reason for a price move.
type MovementHypothesis struct {
	Description      string  `json:"description"`
	ConfidenceScore  float64 `json:"confidence_score"`
	EventDate        string  `json:"event_date,omitempty"` // YYYY-MM-DD
	RelevanceToToday bool    `json:"relevance_to_today"`
	Source           string  `json:"source,omitempty"` // e.g. news, financial report
}

// MovementAnalysis is the structured response the LLM must return for a
// variation report, per the fixed response template in the prompt.
type MovementAnalysis struct {
	Hypotheses        []MovementHypothesis `json:"hypotheses"`
	OverallConfidence float64              `json:"overall_confidence"`
	NeedsFollowUp     bool                 `json:"needs_follow_up"`
	FollowUpQuestion  string               `json:"follow_up_question,omitempty"`
}

// ImportSession records one statement import into the relational store.
// Re-importing the same source file replaces the prior session's holdings.
type ImportSession struct {
	ID            string    `json:"id"`
	SourceFile    string    `json:"source_file"`
	ParseDate     time.Time `json:"parse_date"`
	TotalValue    float64   `json:"total_value"`
	TotalHoldings int       `json:"total_holdings"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
