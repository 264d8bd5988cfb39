package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sanketp/holdwatch/internal/models"
)

// movementTemplate is the fixed prompt for price-move analysis. The model
// must respond with JSON matching the Response_Template block so the answer
// can be parsed into a MovementAnalysis.
const movementTemplate = `You are a financial advisor AI assistant analyzing stock price moves.
Please provide reasons why the stock prices of the attached holdings have moved significantly today compared to yesterday. Each holding includes the current price, the reference price, and the percentage variation.
Respond ONLY with JSON formatted data matching the template below, bookmarked by the keyword Response_Template:

Response_Template:
{
"hypotheses": [
    {
    "description": "<reason description>",
    "confidence_score": 0.0-1.0,
    "event_date": "YYYY-MM-DD",
    "relevance_to_today": true or false,
    "source": "<type of source, e.g., news, financial report>"
    }
],
"overall_confidence": 0.0-1.0,
"needs_follow_up": true or false,
"follow_up_question": "<optional follow-up question or empty>"
}

Portfolio Data:
%s

Answer in a clear, structured format.`

// promptHolding is the per-result shape embedded into the prompt.
type promptHolding struct {
	Symbol           string  `json:"symbol"`
	Company          string  `json:"company,omitempty"`
	Quantity         float64 `json:"quantity"`
	Price            float64 `json:"price"`
	ReferencePrice   float64 `json:"reference_price"`
	VariationPercent float64 `json:"variation_percent"`
	Direction        string  `json:"direction"`
	Value            float64 `json:"value"`
	Sector           string  `json:"sector,omitempty"`
}

// BuildMovementPrompt renders the variation report into the movement
// analysis prompt.
func BuildMovementPrompt(report *models.VariationReport) (string, error) {
	summary := struct {
		TotalHoldings int             `json:"total_holdings"`
		TotalValue    float64         `json:"total_value"`
		Holdings      []promptHolding `json:"holdings"`
	}{
		TotalHoldings: report.Count,
		TotalValue:    report.TotalValue,
	}

	for _, r := range report.Results {
		summary.Holdings = append(summary.Holdings, promptHolding{
			Symbol:           r.Symbol,
			Company:          r.CompanyName,
			Quantity:         r.QuantityOrZero(),
			Price:            r.PriceOrZero(),
			ReferencePrice:   r.ReferencePrice,
			VariationPercent: r.VariationPercent,
			Direction:        string(r.Direction),
			Value:            r.ValueOrZero(),
			Sector:           r.Sector,
		})
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report for prompt: %w", err)
	}

	return fmt.Sprintf(movementTemplate, string(data)), nil
}

// ParseMovementAnalysis extracts and validates the JSON analysis from model
// output. Models often wrap JSON in markdown fences or surrounding prose, so
// parsing starts at the first '{' and ends at the last '}'.
func ParseMovementAnalysis(text string) (*models.MovementAnalysis, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	var analysis models.MovementAnalysis
	if err := json.Unmarshal([]byte(text[start:end+1]), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis JSON: %w", err)
	}

	if len(analysis.Hypotheses) == 0 {
		return nil, fmt.Errorf("analysis contains no hypotheses")
	}
	for i, h := range analysis.Hypotheses {
		if h.Description == "" {
			return nil, fmt.Errorf("hypothesis %d has no description", i)
		}
		if h.ConfidenceScore < 0 || h.ConfidenceScore > 1 {
			return nil, fmt.Errorf("hypothesis %d has confidence %v outside [0,1]", i, h.ConfidenceScore)
		}
	}
	if analysis.OverallConfidence < 0 || analysis.OverallConfidence > 1 {
		return nil, fmt.Errorf("overall confidence %v outside [0,1]", analysis.OverallConfidence)
	}

	return &analysis, nil
}
