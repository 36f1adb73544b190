// Package market serves market-wide mover lists with short-lived caching,
// technical indicators, and screener queries over stored companies.
package market

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Tejaspatil1175/finora/internal/common"
	"github.com/Tejaspatil1175/finora/internal/interfaces"
	"github.com/Tejaspatil1175/finora/internal/models"
)

// Service implements MarketService
type Service struct {
	storage    interfaces.StorageManager
	marketData interfaces.MarketDataClient
	cacheTTL   time.Duration
	logger     *common.Logger
}

var _ interfaces.MarketService = (*Service)(nil)

// NewService creates a new market service
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

// GetTopMovers returns the movers snapshot, refetching once it goes stale.
// The bool reports whether the snapshot was served from cache.
func (s *Service) GetTopMovers(ctx context.Context) (*models.MarketMovers, bool, error) {
	existing, err := s.storage.Markets().GetMovers(ctx)
	if err == nil && common.IsFresh(existing.FetchedAt, s.cacheTTL) {
		return existing, true, nil
	}

	movers, err := s.marketData.GetTopMovers(ctx)
	if err != nil {
		// A stale snapshot beats an error when the provider is down
		if existing != nil {
			s.logger.Warn().Err(err).Msg("Movers refresh failed, serving stale snapshot")
			return existing, true, nil
		}
		return nil, false, err
	}

	movers.TopGainers = capMovers(movers.TopGainers)
	movers.TopLosers = capMovers(movers.TopLosers)
	movers.MostActive = capMovers(movers.MostActive)

	if err := s.storage.Markets().UpsertMovers(ctx, movers); err != nil {
		return nil, false, err
	}

	s.logger.Info().
		Int("gainers", len(movers.TopGainers)).
		Int("losers", len(movers.TopLosers)).
		Int("active", len(movers.MostActive)).
		Msg("Market movers refreshed")

	return movers, false, nil
}

func capMovers(movers []models.Mover) []models.Mover {
	if len(movers) > common.MaxMoversPerList {
		return movers[:common.MaxMoversPerList]
	}
	return movers
}

// GetSMA returns the simple moving average series for charting.
func (s *Service) GetSMA(ctx context.Context, symbol string, timePeriod int) (*models.IndicatorSeries, error) {
	payload, err := s.marketData.GetSMA(ctx, symbol, timePeriod)
	if err != nil {
		return nil, err
	}
	points, err := indicatorPoints(payload, "SMA", symbol)
	if err != nil {
		return nil, err
	}
	return &models.IndicatorSeries{
		Symbol:     strings.ToUpper(symbol),
		Indicator:  "SMA",
		TimePeriod: timePeriod,
		Points:     points,
	}, nil
}

// GetRSI returns the relative strength index series. The most recent value
// is classified into OVERBOUGHT/OVERSOLD/NEUTRAL.
func (s *Service) GetRSI(ctx context.Context, symbol string, timePeriod int) (*models.IndicatorSeries, error) {
	payload, err := s.marketData.GetRSI(ctx, symbol, timePeriod)
	if err != nil {
		return nil, err
	}
	points, err := indicatorPoints(payload, "RSI", symbol)
	if err != nil {
		return nil, err
	}
	current := points[len(points)-1].Value
	return &models.IndicatorSeries{
		Symbol:     strings.ToUpper(symbol),
		Indicator:  "RSI",
		TimePeriod: timePeriod,
		Current:    &current,
		Signal:     rsiSignal(current),
		Points:     points,
	}, nil
}

// GetIndicators fetches the latest SMA and RSI values at their default
// periods. A single failing indicator is omitted from the snapshot; the
// call errors only when neither could be fetched.
func (s *Service) GetIndicators(ctx context.Context, symbol string) (*models.IndicatorSnapshot, error) {
	snapshot := &models.IndicatorSnapshot{
		Symbol:    strings.ToUpper(symbol),
		FetchedAt: time.Now().UTC(),
	}

	sma, smaErr := s.GetSMA(ctx, symbol, common.DefaultSMAPeriod)
	if smaErr == nil {
		latest := sma.Points[len(sma.Points)-1].Value
		snapshot.SMA = &models.IndicatorValue{Value: latest, Period: common.DefaultSMAPeriod}
	} else {
		s.logger.Warn().Str("symbol", symbol).Err(smaErr).Msg("SMA unavailable for indicator snapshot")
	}

	rsi, rsiErr := s.GetRSI(ctx, symbol, common.DefaultRSIPeriod)
	if rsiErr == nil {
		snapshot.RSI = &models.IndicatorValue{Value: *rsi.Current, Period: common.DefaultRSIPeriod, Signal: rsi.Signal}
	} else {
		s.logger.Warn().Str("symbol", symbol).Err(rsiErr).Msg("RSI unavailable for indicator snapshot")
	}

	if snapshot.SMA == nil && snapshot.RSI == nil {
		return nil, smaErr
	}
	return snapshot, nil
}

// indicatorPoints converts the raw dated series into chart points, ordered
// ascending and capped to the most recent MaxIndicatorDays. Unparsable
// values are skipped. An empty series is ErrNotFound, never a zero chart.
func indicatorPoints(payload models.IndicatorPayload, indicator, symbol string) ([]models.IndicatorPoint, error) {
	points := make([]models.IndicatorPoint, 0, len(payload))
	for date, value := range payload {
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			continue
		}
		points = append(points, models.IndicatorPoint{Date: date, Value: v})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no %s data for %s", models.ErrNotFound, indicator, symbol)
	}

	// Dates are YYYY-MM-DD, so lexicographic order is chronological.
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	if len(points) > common.MaxIndicatorDays {
		points = points[len(points)-common.MaxIndicatorDays:]
	}
	return points, nil
}

func rsiSignal(value float64) string {
	switch {
	case value > 70:
		return models.SignalOverbought
	case value < 30:
		return models.SignalOversold
	default:
		return models.SignalNeutral
	}
}

// ScreenByMarketCap returns stored companies in the requested cap band,
// largest first. Companies without a known market cap are excluded.
func (s *Service) ScreenByMarketCap(ctx context.Context, filter string) ([]models.ScreenedCompany, error) {
	records, err := s.storage.Companies().List(ctx)
	if err != nil {
		return nil, err
	}

	screened := make([]models.ScreenedCompany, 0, len(records))
	for i := range records {
		m := records[i].Metrics
		if m.MarketCap == nil {
			continue
		}
		switch filter {
		case "large":
			if *m.MarketCap < models.LargeCapFloor {
				continue
			}
		case "small":
			if *m.MarketCap >= models.SmallCapCeiling {
				continue
			}
		}
		screened = append(screened, screenedFromMetrics(records[i].Symbol, m))
	}

	sort.Slice(screened, func(i, j int) bool {
		return *screened[i].MarketCap > *screened[j].MarketCap
	})
	if len(screened) > common.MaxScreenerResults {
		screened = screened[:common.MaxScreenerResults]
	}
	return screened, nil
}

// SearchCompanies filters stored companies by symbol/name substring,
// sector, and market cap bounds. Cap bounds exclude companies whose market
// cap is unknown.
func (s *Service) SearchCompanies(ctx context.Context, query, sector string, minCap, maxCap *float64) ([]models.ScreenedCompany, error) {
	records, err := s.storage.Companies().List(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))

	matched := make([]models.ScreenedCompany, 0, len(records))
	for i := range records {
		m := records[i].Metrics
		if query != "" &&
			!strings.Contains(strings.ToLower(records[i].Symbol), query) &&
			!strings.Contains(strings.ToLower(m.Name), query) {
			continue
		}
		if sector != "" && m.Sector != sector {
			continue
		}
		if minCap != nil && (m.MarketCap == nil || *m.MarketCap < *minCap) {
			continue
		}
		if maxCap != nil && (m.MarketCap == nil || *m.MarketCap > *maxCap) {
			continue
		}
		matched = append(matched, screenedFromMetrics(records[i].Symbol, m))
		if len(matched) == common.MaxScreenerResults {
			break
		}
	}
	return matched, nil
}

func screenedFromMetrics(symbol string, m models.CompanyMetrics) models.ScreenedCompany {
	return models.ScreenedCompany{
		Symbol:    symbol,
		Name:      m.Name,
		MarketCap: m.MarketCap,
		PERatio:   m.PERatio,
		Sector:    m.Sector,
	}
}
