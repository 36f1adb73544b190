// Package interfaces defines service contracts for Finora
package interfaces

import (
	"context"

	"github.com/Tejaspatil1175/finora/internal/models"
)

// MarketDataClient provides access to the market-data provider. Each method
// maps to one provider report function. Responses embedding a rate-limit
// marker surface models.ErrRateLimited; an explicit provider error marker
// surfaces models.ErrNotFound.
type MarketDataClient interface {
	// GetOverview retrieves the company overview report
	GetOverview(ctx context.Context, symbol string) (*models.OverviewPayload, error)

	// GetIncomeStatement retrieves annual income statements
	GetIncomeStatement(ctx context.Context, symbol string) (*models.StatementPayload, error)

	// GetBalanceSheet retrieves annual balance sheets
	GetBalanceSheet(ctx context.Context, symbol string) (*models.StatementPayload, error)

	// GetCashFlow retrieves annual cash flow statements
	GetCashFlow(ctx context.Context, symbol string) (*models.StatementPayload, error)

	// GetDailySeries retrieves the full daily OHLCV time series
	GetDailySeries(ctx context.Context, symbol string) (models.TimeSeriesPayload, error)

	// GetTopMovers retrieves the market-wide gainers/losers/most-active lists
	GetTopMovers(ctx context.Context) (*models.MarketMovers, error)

	// GetSMA retrieves the daily simple moving average series
	GetSMA(ctx context.Context, symbol string, timePeriod int) (models.IndicatorPayload, error)

	// GetRSI retrieves the daily relative strength index series
	GetRSI(ctx context.Context, symbol string, timePeriod int) (models.IndicatorPayload, error)
}

// LLMClient provides access to the LLM completion API. GenerateContent is
// single-turn with bounded output; the first candidate's text is returned
// and an empty candidate list is a hard failure.
type LLMClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)

	// Model returns the model identifier stamped onto generated analyses
	Model() string
}

// WebSearchClient provides ad-hoc web search. Failures degrade to an empty
// result list at the call site; they are never fatal to a chat turn.
type WebSearchClient interface {
	Search(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error)
}
