package gemini

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanketp/holdwatch/internal/models"
)

func sampleReport() *models.VariationReport {
	return &models.VariationReport{
		Count:      1,
		TotalValue: 35000,
		Results: []models.VariationResult{
			{
				Holding: models.Holding{
					Symbol:      "TCS",
					CompanyName: "Tata Consultancy Services",
					Sector:      "IT",
					Quantity:    models.Float64Ptr(10),
					Price:       models.Float64Ptr(3500),
					Value:       models.Float64Ptr(35000),
				},
				ReferencePrice:   3300,
				VariationPercent: 6.06,
				Direction:        models.DirectionUp,
			},
		},
	}
}

func TestBuildMovementPrompt(t *testing.T) {
	prompt, err := BuildMovementPrompt(sampleReport())
	require.NoError(t, err)

	assert.Contains(t, prompt, "Response_Template:")
	assert.Contains(t, prompt, `"symbol": "TCS"`)
	assert.Contains(t, prompt, `"reference_price": 3300`)
	assert.Contains(t, prompt, `"direction": "up"`)
	assert.Contains(t, prompt, `"total_holdings": 1`)
}

func TestParseMovementAnalysis_CleanJSON(t *testing.T) {
	text := `{
		"hypotheses": [
			{"description": "Strong quarterly results", "confidence_score": 0.8, "event_date": "2025-11-24", "relevance_to_today": true, "source": "financial report"}
		],
		"overall_confidence": 0.75,
		"needs_follow_up": false,
		"follow_up_question": ""
	}`

	analysis, err := ParseMovementAnalysis(text)
	require.NoError(t, err)
	require.Len(t, analysis.Hypotheses, 1)
	assert.Equal(t, "Strong quarterly results", analysis.Hypotheses[0].Description)
	assert.Equal(t, 0.75, analysis.OverallConfidence)
	assert.False(t, analysis.NeedsFollowUp)
}

func TestParseMovementAnalysis_FencedJSON(t *testing.T) {
	text := "Here is the analysis:\n```json\n" +
		`{"hypotheses":[{"description":"Sector rally","confidence_score":0.6,"relevance_to_today":true,"source":"news"}],"overall_confidence":0.6,"needs_follow_up":true,"follow_up_question":"Which index?"}` +
		"\n```\nLet me know if you need more."

	analysis, err := ParseMovementAnalysis(text)
	require.NoError(t, err)
	assert.Equal(t, "Sector rally", analysis.Hypotheses[0].Description)
	assert.True(t, analysis.NeedsFollowUp)
	assert.Equal(t, "Which index?", analysis.FollowUpQuestion)
}

func TestParseMovementAnalysis_Rejections(t *testing.T) {
	cases := map[string]string{
		"no json":             "the model refused to answer",
		"empty hypotheses":    `{"hypotheses":[],"overall_confidence":0.5}`,
		"missing description": `{"hypotheses":[{"confidence_score":0.5}],"overall_confidence":0.5}`,
		"confidence range":    `{"hypotheses":[{"description":"x","confidence_score":1.5}],"overall_confidence":0.5}`,
		"overall range":       `{"hypotheses":[{"description":"x","confidence_score":0.5}],"overall_confidence":2}`,
	}

	for name, text := range cases {
		t.Run(strings.ReplaceAll(name, " ", "_"), func(t *testing.T) {
			_, err := ParseMovementAnalysis(text)
			assert.Error(t, err)
		})
	}
}
