package company

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Tejaspatil1175/finora/internal/common"
	"github.com/Tejaspatil1175/finora/internal/interfaces"
	"github.com/Tejaspatil1175/finora/internal/models"
	"github.com/Tejaspatil1175/finora/internal/storage"
)

// mockMarketData counts provider calls and serves canned payloads.
type mockMarketData struct {
	calls    atomic.Int64
	failWith error
}

var _ interfaces.MarketDataClient = (*mockMarketData)(nil)

func (m *mockMarketData) GetOverview(_ context.Context, symbol string) (*models.OverviewPayload, error) {
	m.calls.Add(1)
	if m.failWith != nil {
		return nil, m.failWith
	}
	return &models.OverviewPayload{
		Symbol:               symbol,
		Name:                 "Apple Inc",
		MarketCapitalization: "3000000000000",
		PERatio:              "28.5",
		EPS:                  "None",
		Sector:               "Technology",
	}, nil
}

func (m *mockMarketData) GetIncomeStatement(_ context.Context, symbol string) (*models.StatementPayload, error) {
	m.calls.Add(1)
	if m.failWith != nil {
		return nil, m.failWith
	}
	return &models.StatementPayload{
		Symbol: symbol,
		AnnualReports: []models.AnnualReport{
			{"fiscalDateEnding": "2024-09-30", "totalRevenue": "391035000000", "netIncome": "93736000000"},
			{"fiscalDateEnding": "2023-09-30", "totalRevenue": "383285000000", "netIncome": "96995000000"},
		},
	}, nil
}

func (m *mockMarketData) GetBalanceSheet(_ context.Context, symbol string) (*models.StatementPayload, error) {
	m.calls.Add(1)
	if m.failWith != nil {
		return nil, m.failWith
	}
	return &models.StatementPayload{
		Symbol: symbol,
		AnnualReports: []models.AnnualReport{
			{"fiscalDateEnding": "2024-09-30", "totalAssets": "364980000000", "totalLiabilities": "308030000000"},
		},
	}, nil
}

func (m *mockMarketData) GetCashFlow(_ context.Context, symbol string) (*models.StatementPayload, error) {
	m.calls.Add(1)
	if m.failWith != nil {
		return nil, m.failWith
	}
	return &models.StatementPayload{Symbol: symbol}, nil
}

func (m *mockMarketData) GetDailySeries(_ context.Context, _ string) (models.TimeSeriesPayload, error) {
	m.calls.Add(1)
	if m.failWith != nil {
		return nil, m.failWith
	}
	return models.TimeSeriesPayload{
		"2025-08-29": {Open: "230.1", High: "232.4", Low: "229.0", Close: "231.5", Volume: "51234000"},
		"2025-08-28": {Open: "228.0", High: "230.9", Low: "227.2", Close: "230.0", Volume: "48200100"},
	}, nil
}

func (m *mockMarketData) GetTopMovers(_ context.Context) (*models.MarketMovers, error) {
	m.calls.Add(1)
	return nil, errors.New("not implemented")
}

func (m *mockMarketData) GetSMA(_ context.Context, _ string, _ int) (models.IndicatorPayload, error) {
	m.calls.Add(1)
	return nil, errors.New("not implemented")
}

func (m *mockMarketData) GetRSI(_ context.Context, _ string, _ int) (models.IndicatorPayload, error) {
	m.calls.Add(1)
	return nil, errors.New("not implemented")
}

func newTestStorage(t *testing.T) interfaces.StorageManager {
	t.Helper()
	config := common.NewDefaultConfig()
	config.Storage.Path = filepath.Join(t.TempDir(), "badger")
	manager, err := storage.NewManager(common.NewLogger("error"), config)
	if err != nil {
		t.Fatalf("storage.NewManager failed: %v", err)
	}
	t.Cleanup(func() { manager.Close() })
	return manager
}

func TestGetCompanyData_FetchesAndNormalizes(t *testing.T) {
	store := newTestStorage(t)
	client := &mockMarketData{}
	svc := NewService(store, client, 24*time.Hour, common.NewLogger("error"))

	data, err := svc.GetCompanyData(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("GetCompanyData failed: %v", err)
	}

	if data.Symbol != "AAPL" {
		t.Errorf("Symbol = %q, want uppercased AAPL", data.Symbol)
	}
	if data.Cached {
		t.Error("first fetch should not be marked cached")
	}
	if client.calls.Load() != 5 {
		t.Errorf("provider calls = %d, want 5", client.calls.Load())
	}
	if data.Metrics.PERatio == nil || *data.Metrics.PERatio != 28.5 {
		t.Errorf("PERatio = %v, want 28.5", data.Metrics.PERatio)
	}
	if data.Metrics.EPS != nil {
		t.Errorf("EPS = %v, want nil for provider None", data.Metrics.EPS)
	}
	if len(data.ChartData) != 2 {
		t.Fatalf("chart len = %d, want 2", len(data.ChartData))
	}
	if !data.ChartData[0].Date.Before(data.ChartData[1].Date) {
		t.Error("chart should be ordered ascending by date")
	}
	if len(data.HistoricalTrends) != 2 {
		t.Fatalf("trends len = %d, want 2", len(data.HistoricalTrends))
	}
	if data.HistoricalTrends[0].Year != "2024" {
		t.Errorf("first trend year = %q, want 2024", data.HistoricalTrends[0].Year)
	}
	// 2023 appears only in the income statement; balance fields stay nil
	if data.HistoricalTrends[1].TotalAssets != nil {
		t.Error("trend year missing from balance sheet should keep nil assets")
	}
}

func TestGetCompanyData_ServesCacheWithoutProviderCalls(t *testing.T) {
	store := newTestStorage(t)
	client := &mockMarketData{}
	svc := NewService(store, client, 24*time.Hour, common.NewLogger("error"))
	ctx := context.Background()

	if _, err := svc.GetCompanyData(ctx, "AAPL"); err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}
	before := client.calls.Load()

	data, err := svc.GetCompanyData(ctx, "AAPL")
	if err != nil {
		t.Fatalf("cached fetch failed: %v", err)
	}
	if !data.Cached {
		t.Error("second fetch should be served from cache")
	}
	if client.calls.Load() != before {
		t.Errorf("provider calls grew from %d to %d on cached read", before, client.calls.Load())
	}
}

func TestGetCompanyData_StaleRecordRefetches(t *testing.T) {
	store := newTestStorage(t)
	client := &mockMarketData{}
	// Zero TTL makes every stored record immediately stale
	svc := NewService(store, client, 0, common.NewLogger("error"))
	ctx := context.Background()

	if _, err := svc.GetCompanyData(ctx, "AAPL"); err != nil {
		t.Fatal(err)
	}
	before := client.calls.Load()

	data, err := svc.GetCompanyData(ctx, "AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if data.Cached {
		t.Error("stale record should be refetched")
	}
	if client.calls.Load() != before+5 {
		t.Errorf("provider calls = %d, want %d", client.calls.Load(), before+5)
	}
}

func TestRefreshCompanyData_BustsCache(t *testing.T) {
	store := newTestStorage(t)
	client := &mockMarketData{}
	svc := NewService(store, client, 24*time.Hour, common.NewLogger("error"))
	ctx := context.Background()

	if _, err := svc.GetCompanyData(ctx, "AAPL"); err != nil {
		t.Fatal(err)
	}
	before := client.calls.Load()

	data, err := svc.RefreshCompanyData(ctx, "AAPL")
	if err != nil {
		t.Fatalf("RefreshCompanyData failed: %v", err)
	}
	if data.Cached {
		t.Error("refresh should never serve cache")
	}
	if client.calls.Load() != before+5 {
		t.Errorf("provider calls = %d, want %d", client.calls.Load(), before+5)
	}
}

func TestGetCompanyData_ProviderFailureStoresNothing(t *testing.T) {
	store := newTestStorage(t)
	client := &mockMarketData{failWith: models.ErrRateLimited}
	svc := NewService(store, client, 24*time.Hour, common.NewLogger("error"))

	_, err := svc.GetCompanyData(context.Background(), "AAPL")
	if !errors.Is(err, models.ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}

	if _, err := store.Companies().Get(context.Background(), "AAPL"); !errors.Is(err, models.ErrNotFound) {
		t.Error("partial record must not be stored on fetch failure")
	}
}

func TestGetCompanyData_EmptySymbol(t *testing.T) {
	store := newTestStorage(t)
	svc := NewService(store, &mockMarketData{}, 24*time.Hour, common.NewLogger("error"))

	if _, err := svc.GetCompanyData(context.Background(), "  "); err == nil {
		t.Fatal("want error for blank symbol")
	}
}

func TestListCompanies(t *testing.T) {
	store := newTestStorage(t)
	client := &mockMarketData{}
	svc := NewService(store, client, 24*time.Hour, common.NewLogger("error"))
	ctx := context.Background()

	if _, err := svc.GetCompanyData(ctx, "AAPL"); err != nil {
		t.Fatal(err)
	}

	list, err := svc.ListCompanies(ctx)
	if err != nil {
		t.Fatalf("ListCompanies failed: %v", err)
	}
	if len(list) != 1 || list[0].Symbol != "AAPL" || list[0].Name != "Apple Inc" {
		t.Errorf("unexpected list: %+v", list)
	}
}
