// Package alphavantage provides a client for the Alpha Vantage API
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Tejaspatil1175/finora/internal/common"
	"github.com/Tejaspatil1175/finora/internal/interfaces"
	"github.com/Tejaspatil1175/finora/internal/models"
)

const (
	DefaultBaseURL   = "https://www.alphavantage.co/query"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per minute on the free tier
)

// Client implements the MarketDataClient interface
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

var _ interfaces.MarketDataClient = (*Client)(nil)

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit in requests per minute
func WithRateLimit(requestsPerMinute int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new Alpha Vantage client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Every(time.Minute/DefaultRateLimit), 1),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents a non-200 provider response
type APIError struct {
	StatusCode int
	Message    string
	Function   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("alpha vantage error: %s (status: %d, function: %s)", e.Message, e.StatusCode, e.Function)
}

// markers is decoded from every response before the real payload. The
// provider reports rate limiting inside a 200 body via "Note" or
// "Information" and unknown symbols via "Error Message".
type markers struct {
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

// get performs a rate-limited GET for one report function and decodes the
// body into result after checking provider markers.
func (c *Client) get(ctx context.Context, function string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("function", function)
	params.Set("apikey", c.apiKey)

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("function", function).Str("symbol", params.Get("symbol")).Msg("Alpha Vantage request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			Function:   function,
		}
	}

	var m markers
	if err := json.Unmarshal(body, &m); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if m.Note != "" || m.Information != "" {
		c.logger.Warn().Str("function", function).Msg("Alpha Vantage rate limit reached")
		return models.ErrRateLimited
	}
	if m.ErrorMessage != "" {
		return fmt.Errorf("%w: %s", models.ErrNotFound, m.ErrorMessage)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", function, err)
	}

	return nil
}

// GetOverview retrieves the company overview report
func (c *Client) GetOverview(ctx context.Context, symbol string) (*models.OverviewPayload, error) {
	params := url.Values{"symbol": {symbol}}

	var payload models.OverviewPayload
	if err := c.get(ctx, "OVERVIEW", params, &payload); err != nil {
		return nil, err
	}

	// An unknown symbol comes back as an empty object with status 200
	if payload.Symbol == "" {
		return nil, fmt.Errorf("%w: no overview for %s", models.ErrNotFound, symbol)
	}

	return &payload, nil
}

// GetIncomeStatement retrieves annual income statements
func (c *Client) GetIncomeStatement(ctx context.Context, symbol string) (*models.StatementPayload, error) {
	return c.getStatement(ctx, "INCOME_STATEMENT", symbol)
}

// GetBalanceSheet retrieves annual balance sheets
func (c *Client) GetBalanceSheet(ctx context.Context, symbol string) (*models.StatementPayload, error) {
	return c.getStatement(ctx, "BALANCE_SHEET", symbol)
}

// GetCashFlow retrieves annual cash flow statements
func (c *Client) GetCashFlow(ctx context.Context, symbol string) (*models.StatementPayload, error) {
	return c.getStatement(ctx, "CASH_FLOW", symbol)
}

func (c *Client) getStatement(ctx context.Context, function, symbol string) (*models.StatementPayload, error) {
	params := url.Values{"symbol": {symbol}}

	var payload models.StatementPayload
	if err := c.get(ctx, function, params, &payload); err != nil {
		return nil, err
	}

	return &payload, nil
}

// timeSeriesResponse wraps the daily series under its provider envelope key
type timeSeriesResponse struct {
	Series models.TimeSeriesPayload `json:"Time Series (Daily)"`
}

// GetDailySeries retrieves the full daily OHLCV time series
func (c *Client) GetDailySeries(ctx context.Context, symbol string) (models.TimeSeriesPayload, error) {
	params := url.Values{
		"symbol":     {symbol},
		"outputsize": {"full"},
	}

	var payload timeSeriesResponse
	if err := c.get(ctx, "TIME_SERIES_DAILY", params, &payload); err != nil {
		return nil, err
	}

	if payload.Series == nil {
		return nil, fmt.Errorf("%w: no time series for %s", models.ErrNotFound, symbol)
	}

	return payload.Series, nil
}

// GetSMA retrieves the daily simple moving average series
func (c *Client) GetSMA(ctx context.Context, symbol string, timePeriod int) (models.IndicatorPayload, error) {
	return c.getIndicator(ctx, "SMA", symbol, timePeriod)
}

// GetRSI retrieves the daily relative strength index series
func (c *Client) GetRSI(ctx context.Context, symbol string, timePeriod int) (models.IndicatorPayload, error) {
	return c.getIndicator(ctx, "RSI", symbol, timePeriod)
}

// getIndicator fetches one technical-indicator function. The provider nests
// the series under "Technical Analysis: <function>" with the value keyed by
// the function name again.
func (c *Client) getIndicator(ctx context.Context, function, symbol string, timePeriod int) (models.IndicatorPayload, error) {
	params := url.Values{
		"symbol":      {symbol},
		"interval":    {"daily"},
		"time_period": {strconv.Itoa(timePeriod)},
		"series_type": {"close"},
	}

	var envelope map[string]json.RawMessage
	if err := c.get(ctx, function, params, &envelope); err != nil {
		return nil, err
	}

	raw, ok := envelope["Technical Analysis: "+function]
	if !ok {
		return nil, fmt.Errorf("%w: no %s data for %s", models.ErrNotFound, function, symbol)
	}

	var series map[string]map[string]string
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil, fmt.Errorf("failed to decode %s series: %w", function, err)
	}

	payload := make(models.IndicatorPayload, len(series))
	for date, values := range series {
		payload[date] = values[function]
	}
	return payload, nil
}

// rawMover is one movers entry as reported, all values string-typed
type rawMover struct {
	Ticker    string `json:"ticker"`
	Price     string `json:"price"`
	Change    string `json:"change_amount"`
	ChangePct string `json:"change_percentage"`
	Volume    string `json:"volume"`
}

type moversResponse struct {
	TopGainers []rawMover `json:"top_gainers"`
	TopLosers  []rawMover `json:"top_losers"`
	MostActive []rawMover `json:"most_actively_traded"`
}

// GetTopMovers retrieves the market-wide gainers/losers/most-active lists
func (c *Client) GetTopMovers(ctx context.Context) (*models.MarketMovers, error) {
	var payload moversResponse
	if err := c.get(ctx, "TOP_GAINERS_LOSERS", nil, &payload); err != nil {
		return nil, err
	}

	return &models.MarketMovers{
		Key:        models.MoversKey,
		TopGainers: convertMovers(payload.TopGainers),
		TopLosers:  convertMovers(payload.TopLosers),
		MostActive: convertMovers(payload.MostActive),
		FetchedAt:  time.Now().UTC(),
	}, nil
}

func convertMovers(raw []rawMover) []models.Mover {
	movers := make([]models.Mover, 0, len(raw))
	for _, r := range raw {
		movers = append(movers, models.Mover{
			Symbol:    r.Ticker,
			Price:     parseFloat(r.Price),
			Change:    parseFloat(r.Change),
			ChangePct: parseFloat(strings.TrimSuffix(r.ChangePct, "%")),
			Volume:    parseInt(r.Volume),
		})
	}
	return movers
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
