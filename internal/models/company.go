package models

import (
	"encoding/json"
	"time"
)

// CompanyMetrics is the canonical, provider-agnostic metrics shape stored
// and returned for a company. Numeric fields are pointers because the
// provider may report "None" or omit them entirely; nil means unknown,
// never zero.
type CompanyMetrics struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`

	// Valuation
	MarketCap     *float64 `json:"marketCap"`
	PERatio       *float64 `json:"peRatio"`
	EPS           *float64 `json:"eps"`
	BookValue     *float64 `json:"bookValue"`
	DividendYield *float64 `json:"dividendYield"`
	Beta          *float64 `json:"beta"`

	// Profitability
	ProfitMargin *float64 `json:"profitMargin"`
	Revenue      *float64 `json:"revenue"`
	NetIncome    *float64 `json:"netIncome"`
	ROE          *float64 `json:"roe"`
	ROA          *float64 `json:"roa"`

	// Leverage and liquidity
	DebtEquity   *float64 `json:"debtEquity"`
	CurrentRatio *float64 `json:"currentRatio"`
	QuickRatio   *float64 `json:"quickRatio"`

	// Price range
	FiftyTwoWeekHigh *float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow  *float64 `json:"fiftyTwoWeekLow"`

	Sector      string `json:"sector"`
	Industry    string `json:"industry"`
	Description string `json:"description"`
}

// ChartPoint is one daily OHLCV bar in the canonical chart series.
// Series are always ordered ascending by date and capped at
// common.MaxChartPoints entries.
type ChartPoint struct {
	Date   time.Time `json:"date"`
	Open   *float64  `json:"open"`
	High   *float64  `json:"high"`
	Low    *float64  `json:"low"`
	Close  *float64  `json:"close"`
	Volume *float64  `json:"volume"`
}

// HistoricalTrend pairs income-statement and balance-sheet figures for one
// fiscal year. A year present in only one statement keeps the other side's
// fields nil rather than being skipped.
type HistoricalTrend struct {
	Year              string   `json:"year"`
	Revenue           *float64 `json:"revenue"`
	NetIncome         *float64 `json:"netIncome"`
	TotalAssets       *float64 `json:"totalAssets"`
	TotalLiabilities  *float64 `json:"totalLiabilities"`
	ShareholderEquity *float64 `json:"shareholderEquity"`
}

// AnalysisInsights holds the per-metric plain-language explanations the
// analysis prompt demands from the model.
type AnalysisInsights struct {
	PERatio      string `json:"peRatio,omitempty"`
	ROE          string `json:"roe,omitempty"`
	DebtEquity   string `json:"debtEquity,omitempty"`
	ProfitMargin string `json:"profitMargin,omitempty"`
	Revenue      string `json:"revenue,omitempty"`
	EPS          string `json:"eps,omitempty"`
}

// Empty reports whether no insight field was populated.
func (i AnalysisInsights) Empty() bool {
	return i == AnalysisInsights{}
}

// Analysis is the AI-generated narrative record for a company. At most one
// current Analysis exists per company record; regeneration overwrites it.
type Analysis struct {
	AnalysisID  string           `json:"analysisId"`
	Summary     string           `json:"summary"`
	Insights    AnalysisInsights `json:"insights"`
	Risk        string           `json:"risk"` // Low, Medium, High
	Suggestion  string           `json:"suggestion"`
	Model       string           `json:"llmModel"`
	RawResponse string           `json:"llmRawResponse,omitempty"` // retained verbatim for audit
	CreatedAt   time.Time        `json:"createdAt"`
}

// RawPayloads retains the provider responses verbatim alongside the
// normalized metrics, for audit and re-normalization.
type RawPayloads struct {
	Overview        json.RawMessage `json:"overview,omitempty"`
	IncomeStatement json.RawMessage `json:"incomeStatement,omitempty"`
	BalanceSheet    json.RawMessage `json:"balanceSheet,omitempty"`
	CashFlow        json.RawMessage `json:"cashFlow,omitempty"`
}

// CompanyRecord is the persisted record for one ticker symbol, keyed by
// uppercase symbol. Upserts are idempotent replaces, not merges.
type CompanyRecord struct {
	Symbol           string            `json:"symbol" badgerhold:"key"`
	Provider         string            `json:"providerUsed"`
	FetchedAt        time.Time         `json:"fetchedAt"`
	Metrics          CompanyMetrics    `json:"metrics"`
	ChartData        []ChartPoint      `json:"chartData"`
	HistoricalTrends []HistoricalTrend `json:"historicalTrends"`
	Analysis         *Analysis         `json:"analysis,omitempty"`
	Raw              RawPayloads       `json:"raw"`
}

// CompanyData is the normalized view returned to callers. Raw provider
// payloads are never exposed through it.
type CompanyData struct {
	Symbol           string            `json:"symbol"`
	Name             string            `json:"name"`
	Metrics          CompanyMetrics    `json:"metrics"`
	ChartData        []ChartPoint      `json:"chartData"`
	HistoricalTrends []HistoricalTrend `json:"historicalTrends"`
	Analysis         *Analysis         `json:"analysis,omitempty"`
	FetchedAt        time.Time         `json:"fetchedAt"`
	Cached           bool              `json:"cached"`
}

// View projects the record into its caller-facing shape.
func (r *CompanyRecord) View(cached bool) *CompanyData {
	return &CompanyData{
		Symbol:           r.Symbol,
		Name:             r.Metrics.Name,
		Metrics:          r.Metrics,
		ChartData:        r.ChartData,
		HistoricalTrends: r.HistoricalTrends,
		Analysis:         r.Analysis,
		FetchedAt:        r.FetchedAt,
		Cached:           cached,
	}
}

// CompanySummary is the trimmed listing shape for stored companies.
type CompanySummary struct {
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Sector    string    `json:"sector"`
	FetchedAt time.Time `json:"fetchedAt"`
}
