// Package kite provides a client for the Kite Connect REST API
package kite

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/sanketp/holdwatch/internal/common"
	"github.com/sanketp/holdwatch/internal/interfaces"
	"github.com/sanketp/holdwatch/internal/models"
)

const (
	DefaultBaseURL   = "https://api.kite.trade"
	DefaultLoginURL  = "https://kite.zerodha.com/connect/login"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 3 // requests per second
	apiVersion       = "3"
)

// Client implements the BrokerClient interface for one Kite account.
type Client struct {
	baseURL     string
	apiKey      string
	accessToken string
	account     string // label used in logs when fetching multiple accounts
	httpClient  *http.Client
	limiter     *rate.Limiter
	logger      *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithAccountLabel sets the log label for this account
func WithAccountLabel(label string) ClientOption {
	return func(c *Client) {
		c.account = label
	}
}

// NewClient creates a client for one Kite account
func NewClient(apiKey, accessToken string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		apiKey:      apiKey,
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents a Kite API error
type APIError struct {
	StatusCode int
	Message    string
	ErrorType  string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Kite API error: %s (type: %s, status: %d, endpoint: %s)",
		e.Message, e.ErrorType, e.StatusCode, e.Endpoint)
}

// envelope is the standard Kite response wrapper.
type envelope struct {
	Status    string          `json:"status"`
	Message   string          `json:"message"`
	ErrorType string          `json:"error_type"`
	Data      json.RawMessage `json:"data"`
}

// kiteHolding is one holdings entry as returned by /portfolio/holdings.
type kiteHolding struct {
	TradingSymbol string  `json:"tradingsymbol"`
	Exchange      string  `json:"exchange"`
	ISIN          string  `json:"isin"`
	Quantity      float64 `json:"quantity"`
	T1Quantity    float64 `json:"t1_quantity"`
	AveragePrice  float64 `json:"average_price"`
	LastPrice     float64 `json:"last_price"`
	ClosePrice    float64 `json:"close_price"`
	PnL           float64 `json:"pnl"`
}

// do performs a rate-limited request and unwraps the Kite response envelope.
func (c *Client) do(ctx context.Context, method, path string, form url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Kite-Version", apiVersion)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "token "+c.apiKey+":"+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || env.Status == "error" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    env.Message,
			ErrorType:  env.ErrorType,
			Endpoint:   path,
		}
	}

	if result != nil {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return fmt.Errorf("failed to parse response data: %w", err)
		}
	}

	return nil
}

// GetHoldings fetches the account's positions and converts them to the
// internal holding model. Value is quantity × last price; Kite does not
// supply company names or sectors, so company name falls back to the symbol
// until the catalog enriches it.
func (c *Client) GetHoldings(ctx context.Context) ([]models.Holding, error) {
	if c.accessToken == "" {
		return nil, fmt.Errorf("no access token for account %q: run the login command first", c.account)
	}

	c.logger.Debug().Str("account", c.account).Msg("Fetching holdings from Kite")

	var raw []kiteHolding
	if err := c.do(ctx, http.MethodGet, "/portfolio/holdings", nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to get holdings: %w", err)
	}

	now := time.Now()
	holdings := make([]models.Holding, 0, len(raw))
	for _, kh := range raw {
		qty := kh.Quantity + kh.T1Quantity
		h := models.Holding{
			Symbol:      kh.TradingSymbol,
			Exchange:    kh.Exchange,
			ISIN:        kh.ISIN,
			CompanyName: kh.TradingSymbol,
			Currency:    "INR",
			Quantity:    models.Float64Ptr(qty),
			CapturedAt:  now,
		}
		if kh.LastPrice > 0 {
			h.Price = models.Float64Ptr(kh.LastPrice)
			h.Value = models.Float64Ptr(qty * kh.LastPrice)
		} else {
			h.Value = models.Float64Ptr(0)
		}
		holdings = append(holdings, h)
	}

	c.logger.Debug().Str("account", c.account).Int("count", len(holdings)).Msg("Fetched holdings")
	return holdings, nil
}

// sessionData is the /session/token response payload.
type sessionData struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
}

// GenerateSession exchanges a request token (obtained from the login
// redirect) for an access token. The checksum is the SHA-256 hex digest of
// api_key + request_token + api_secret.
func (c *Client) GenerateSession(ctx context.Context, requestToken, apiSecret string) (string, error) {
	sum := sha256.Sum256([]byte(c.apiKey + requestToken + apiSecret))

	form := url.Values{}
	form.Set("api_key", c.apiKey)
	form.Set("request_token", requestToken)
	form.Set("checksum", hex.EncodeToString(sum[:]))

	var data sessionData
	if err := c.do(ctx, http.MethodPost, "/session/token", form, &data); err != nil {
		return "", fmt.Errorf("failed to generate session: %w", err)
	}

	if data.AccessToken == "" {
		return "", fmt.Errorf("session response contained no access token")
	}

	c.logger.Info().Str("user", data.UserID).Msg("Kite session generated")
	return data.AccessToken, nil
}

// LoginURL returns the URL the user opens to authorize the app and obtain a
// request token.
func (c *Client) LoginURL() string {
	return fmt.Sprintf("%s?v=%s&api_key=%s", DefaultLoginURL, apiVersion, url.QueryEscape(c.apiKey))
}

// SplitCredentials splits semicolon-separated API key and access token lists
// into parallel pairs, one per account. An entirely empty token list pairs
// every key with an empty token: that is the state before the daily login,
// and the login command needs a client built from the key alone. A partial
// token list is still a mismatch.
func SplitCredentials(apiKeys, accessTokens string) ([][2]string, error) {
	keys := splitList(apiKeys)
	tokens := splitList(accessTokens)

	if len(keys) == 0 {
		return nil, fmt.Errorf("no Kite API keys configured")
	}
	if len(tokens) == 0 {
		tokens = make([]string, len(keys))
	}
	if len(keys) != len(tokens) {
		return nil, fmt.Errorf("credential mismatch: %d API keys but %d access tokens", len(keys), len(tokens))
	}

	pairs := make([][2]string, len(keys))
	for i := range keys {
		pairs[i] = [2]string{keys[i], tokens[i]}
	}
	return pairs, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Ensure Client implements BrokerClient
var _ interfaces.BrokerClient = (*Client)(nil)
