// Package interfaces defines service contracts for holdwatch
package interfaces

import (
	"context"

	"github.com/sanketp/holdwatch/internal/models"
)

// BrokerClient fetches current holdings from one brokerage account.
type BrokerClient interface {
	// GetHoldings returns the account's positions. Duplicate instruments
	// across accounts are expected; callers aggregate.
	GetHoldings(ctx context.Context) ([]models.Holding, error)
}

// LLMClient generates natural-language analysis.
type LLMClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)

	// AnalyzeMovements asks for movement hypotheses for a variation report
	// and parses the structured JSON response.
	AnalyzeMovements(ctx context.Context, report *models.VariationReport) (*models.MovementAnalysis, error)
}

// Notifier delivers a short message to the configured recipient.
type Notifier interface {
	// Notify sends msg and returns the provider message ID.
	Notify(ctx context.Context, msg string) (string, error)
}
