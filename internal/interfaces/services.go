package interfaces

import (
	"context"

	"github.com/Tejaspatil1175/finora/internal/models"
)

// CompanyService manages normalized company fundamentals and price history
type CompanyService interface {
	// GetCompanyData returns company data for the symbol, serving the
	// stored record when it is fresh and refetching otherwise
	GetCompanyData(ctx context.Context, symbol string) (*models.CompanyData, error)

	// RefreshCompanyData discards any stored record and refetches
	RefreshCompanyData(ctx context.Context, symbol string) (*models.CompanyData, error)

	// ListCompanies returns summaries of every stored company record
	ListCompanies(ctx context.Context) ([]models.CompanySummary, error)
}

// AnalysisService generates and serves AI analyses of company fundamentals
type AnalysisService interface {
	// AnalyzeCompany returns the stored analysis when fresh, otherwise
	// generates a new one. The bool reports whether a cached analysis
	// was served.
	AnalyzeCompany(ctx context.Context, symbol string) (*models.Analysis, bool, error)

	// GetAnalysis returns the stored analysis without generating
	GetAnalysis(ctx context.Context, symbol string) (*models.Analysis, error)

	// DeleteAnalysis removes the stored analysis so the next request regenerates
	DeleteAnalysis(ctx context.Context, symbol string) error
}

// ChatService orchestrates conversational turns with multi-source context
type ChatService interface {
	// Chat runs one conversational turn in the session. A blank sessionID
	// starts a new session; symbol may be blank for conversations not
	// scoped to a company; userID may be blank for anonymous turns.
	Chat(ctx context.Context, userID, sessionID, symbol, message string) (*models.ChatReply, error)

	// NewSession mints a session ID scoped to the symbol
	NewSession(ctx context.Context, symbol string) (*models.ChatSession, error)

	// GetHistory returns the session's messages, oldest first
	GetHistory(ctx context.Context, sessionID string) (*models.ChatSession, error)

	// DeleteSession removes the session and its history
	DeleteSession(ctx context.Context, sessionID string) error
}

// DocumentService manages uploaded documents and their asynchronous analysis
type DocumentService interface {
	// Submit stores the upload, enqueues it for processing, and returns
	// immediately with the document in UPLOADED state
	Submit(ctx context.Context, userID, fileName, fileType, category string, content []byte) (*models.Document, error)

	// Get returns one document with its extracted text and analysis
	Get(ctx context.Context, userID, documentID string) (*models.Document, error)

	// List returns listings of the user's documents, newest first, with
	// extracted text and analysis payloads trimmed
	List(ctx context.Context, userID string) ([]*models.Document, error)

	// Delete removes the document and its stored file
	Delete(ctx context.Context, userID, documentID string) error
}

// MarketService serves market-wide movers, technical indicators, and
// queries over stored company records
type MarketService interface {
	GetTopMovers(ctx context.Context) (*models.MarketMovers, bool, error)

	// GetSMA returns the simple moving average series for charting
	GetSMA(ctx context.Context, symbol string, timePeriod int) (*models.IndicatorSeries, error)

	// GetRSI returns the relative strength index series with the current
	// value classified into a signal band
	GetRSI(ctx context.Context, symbol string, timePeriod int) (*models.IndicatorSeries, error)

	// GetIndicators returns the latest value of every supported indicator.
	// An indicator the provider could not serve is omitted; the snapshot
	// errors only when no indicator could be fetched.
	GetIndicators(ctx context.Context, symbol string) (*models.IndicatorSnapshot, error)

	// ScreenByMarketCap returns stored companies filtered by cap band
	// ("large", "small", or blank for all), largest first
	ScreenByMarketCap(ctx context.Context, filter string) ([]models.ScreenedCompany, error)

	// SearchCompanies filters stored companies by name or symbol substring,
	// sector, and market cap bounds; nil bounds are unconstrained
	SearchCompanies(ctx context.Context, query, sector string, minCap, maxCap *float64) ([]models.ScreenedCompany, error)
}

// PortfolioService manages paper-trading portfolios
type PortfolioService interface {
	// Buy executes a paper buy at the given price
	Buy(ctx context.Context, userID, symbol string, quantity, price float64) (*models.Order, error)

	// Sell executes a paper sell, closing out positions FIFO
	Sell(ctx context.Context, userID, symbol string, quantity, price float64) (*models.Order, error)

	// GetPortfolio returns the user's holdings and totals
	GetPortfolio(ctx context.Context, userID string) (*models.PortfolioSummary, error)

	// GetOrders returns the user's order history, newest first
	GetOrders(ctx context.Context, userID string) ([]models.Order, error)

	// GetPositions returns the user's positions, open first
	GetPositions(ctx context.Context, userID string) ([]models.Position, error)

	// ContextSummary returns a bounded snapshot of the portfolio for
	// inclusion in chat prompts. A user with no holdings returns nil.
	ContextSummary(ctx context.Context, userID string) (*models.PortfolioContext, error)

	// RenderAllocationChart renders the portfolio allocation as a PNG
	RenderAllocationChart(ctx context.Context, userID string) ([]byte, error)
}

// UserService manages accounts and credentials
type UserService interface {
	Register(ctx context.Context, email, password, name string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
}
