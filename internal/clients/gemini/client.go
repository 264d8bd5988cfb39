// Package gemini provides a client for the Google Gemini API
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/sanketp/holdwatch/internal/common"
	"github.com/sanketp/holdwatch/internal/interfaces"
	"github.com/sanketp/holdwatch/internal/models"
)

const DefaultModel = "gemini-2.0-flash"

// Client implements the LLMClient interface
type Client struct {
	client *genai.Client
	model  string
	logger *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		client: genaiClient,
		model:  DefaultModel,
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// GenerateContent generates AI content from a prompt
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug().Str("model", c.model).Msg("Generating content")

	contents := genai.Text(prompt)
	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(result)
}

// AnalyzeMovements asks for hypotheses explaining the price moves in a
// variation report and parses the structured JSON response.
func (c *Client) AnalyzeMovements(ctx context.Context, report *models.VariationReport) (*models.MovementAnalysis, error) {
	if report.Count == 0 {
		return nil, fmt.Errorf("nothing to analyze: report is empty")
	}

	prompt, err := BuildMovementPrompt(report)
	if err != nil {
		return nil, err
	}

	text, err := c.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	analysis, err := ParseMovementAnalysis(text)
	if err != nil {
		return nil, fmt.Errorf("model response did not match the analysis template: %w", err)
	}

	c.logger.Debug().
		Int("hypotheses", len(analysis.Hypotheses)).
		Float64("confidence", analysis.OverallConfidence).
		Msg("Movement analysis parsed")

	return analysis, nil
}

// extractTextFromResponse extracts text from a generate content response
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	return text, nil
}

// Ensure Client implements LLMClient
var _ interfaces.LLMClient = (*Client)(nil)
