// Package company aggregates provider reports into normalized company
// records with freshness-gated caching.
package company

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Tejaspatil1175/finora/internal/common"
	"github.com/Tejaspatil1175/finora/internal/interfaces"
	"github.com/Tejaspatil1175/finora/internal/models"
	"github.com/Tejaspatil1175/finora/internal/transform"
)

// ProviderName is stamped onto records fetched through the market-data
// client.
const ProviderName = "alphavantage"

// Service implements CompanyService
type Service struct {
	storage    interfaces.StorageManager
	marketData interfaces.MarketDataClient
	cacheTTL   time.Duration
	logger     *common.Logger
}

var _ interfaces.CompanyService = (*Service)(nil)

// NewService creates a new company service
func NewService(
	storage interfaces.StorageManager,
	marketData interfaces.MarketDataClient,
	cacheTTL time.Duration,
	logger *common.Logger,
) *Service {
	return &Service{
		storage:    storage,
		marketData: marketData,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// GetCompanyData returns company data for the symbol. A stored record is
// served as-is while fresh; a stale or missing record triggers a full
// refetch. The stored analysis rides along untouched either way.
func (s *Service) GetCompanyData(ctx context.Context, symbol string) (*models.CompanyData, error) {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	existing, err := s.storage.Companies().Get(ctx, symbol)
	if err == nil && common.IsFresh(existing.FetchedAt, s.cacheTTL) {
		s.logger.Debug().Str("symbol", symbol).Time("fetched_at", existing.FetchedAt).Msg("Serving cached company data")
		return existing.View(true), nil
	}

	record, err := s.fetchAndStore(ctx, symbol, existing)
	if err != nil {
		return nil, err
	}
	return record.View(false), nil
}

// RefreshCompanyData discards the stored record and refetches from the
// provider. The analysis is discarded with it.
func (s *Service) RefreshCompanyData(ctx context.Context, symbol string) (*models.CompanyData, error) {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	if err := s.storage.Companies().Delete(ctx, symbol); err != nil {
		return nil, err
	}

	record, err := s.fetchAndStore(ctx, symbol, nil)
	if err != nil {
		return nil, err
	}
	return record.View(false), nil
}

// ListCompanies returns summaries of every stored company record.
func (s *Service) ListCompanies(ctx context.Context) ([]models.CompanySummary, error) {
	records, err := s.storage.Companies().List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.CompanySummary, len(records))
	for i, r := range records {
		summaries[i] = models.CompanySummary{
			Symbol:    r.Symbol,
			Name:      r.Metrics.Name,
			Sector:    r.Metrics.Sector,
			FetchedAt: r.FetchedAt,
		}
	}
	return summaries, nil
}

// fetchAndStore pulls all five provider reports concurrently, normalizes
// them into a record, and persists it. The overview is mandatory; failure
// of any fetch fails the whole operation so a partial record is never
// stored. An existing record's analysis is carried over.
func (s *Service) fetchAndStore(ctx context.Context, symbol string, existing *models.CompanyRecord) (*models.CompanyRecord, error) {
	s.logger.Info().Str("symbol", symbol).Msg("Fetching company data from provider")

	var (
		overview *models.OverviewPayload
		income   *models.StatementPayload
		balance  *models.StatementPayload
		cashFlow *models.StatementPayload
		series   models.TimeSeriesPayload
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		overview, err = s.marketData.GetOverview(gctx, symbol)
		return err
	})
	g.Go(func() error {
		var err error
		income, err = s.marketData.GetIncomeStatement(gctx, symbol)
		return err
	})
	g.Go(func() error {
		var err error
		balance, err = s.marketData.GetBalanceSheet(gctx, symbol)
		return err
	})
	g.Go(func() error {
		var err error
		cashFlow, err = s.marketData.GetCashFlow(gctx, symbol)
		return err
	})
	g.Go(func() error {
		var err error
		series, err = s.marketData.GetDailySeries(gctx, symbol)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch data for %s: %w", symbol, err)
	}

	metrics := transform.NormalizeMetrics(overview, income, balance, cashFlow)
	metrics = transform.CalculateDerivedMetrics(metrics)

	record := &models.CompanyRecord{
		Symbol:           symbol,
		Provider:         ProviderName,
		FetchedAt:        time.Now().UTC(),
		Metrics:          metrics,
		ChartData:        transform.TransformChartData(series),
		HistoricalTrends: transform.CreateHistoricalTrends(income, balance),
		Raw: models.RawPayloads{
			Overview:        marshalRaw(overview),
			IncomeStatement: marshalRaw(income),
			BalanceSheet:    marshalRaw(balance),
			CashFlow:        marshalRaw(cashFlow),
		},
	}
	if existing != nil {
		record.Analysis = existing.Analysis
	}

	if err := s.storage.Companies().Upsert(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("symbol", symbol).
		Int("chart_points", len(record.ChartData)).
		Int("trend_years", len(record.HistoricalTrends)).
		Msg("Company data stored")

	return record, nil
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func marshalRaw(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}
