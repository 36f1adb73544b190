package market

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Tejaspatil1175/finora/internal/common"
	"github.com/Tejaspatil1175/finora/internal/interfaces"
	"github.com/Tejaspatil1175/finora/internal/models"
)

// memMarketStore is an in-memory MarketStore.
type memMarketStore struct {
	movers *models.MarketMovers
}

var _ interfaces.MarketStore = (*memMarketStore)(nil)

func (m *memMarketStore) GetMovers(_ context.Context) (*models.MarketMovers, error) {
	if m.movers == nil {
		return nil, models.ErrNotFound
	}
	return m.movers, nil
}

func (m *memMarketStore) UpsertMovers(_ context.Context, movers *models.MarketMovers) error {
	m.movers = movers
	return nil
}

// memCompanyStore is an in-memory CompanyStore serving a fixed record list.
type memCompanyStore struct {
	records []models.CompanyRecord
}

var _ interfaces.CompanyStore = (*memCompanyStore)(nil)

func (m *memCompanyStore) Get(_ context.Context, _ string) (*models.CompanyRecord, error) {
	return nil, models.ErrNotFound
}
func (m *memCompanyStore) Upsert(_ context.Context, _ *models.CompanyRecord) error { return nil }
func (m *memCompanyStore) Delete(_ context.Context, _ string) error                { return nil }
func (m *memCompanyStore) List(_ context.Context) ([]models.CompanyRecord, error) {
	return m.records, nil
}

type mockStorage struct {
	markets   *memMarketStore
	companies *memCompanyStore
}

var _ interfaces.StorageManager = (*mockStorage)(nil)

func (m *mockStorage) Companies() interfaces.CompanyStore    { return m.companies }
func (m *mockStorage) Chats() interfaces.ChatStore           { return nil }
func (m *mockStorage) Documents() interfaces.DocumentStore   { return nil }
func (m *mockStorage) Users() interfaces.UserStore           { return nil }
func (m *mockStorage) Portfolios() interfaces.PortfolioStore { return nil }
func (m *mockStorage) Markets() interfaces.MarketStore       { return m.markets }
func (m *mockStorage) Close() error                          { return nil }

// mockMarketData serves a canned movers payload.
type mockMarketData struct {
	interfaces.MarketDataClient
	calls   atomic.Int64
	err     error
	gainers int

	sma    models.IndicatorPayload
	smaErr error
	rsi    models.IndicatorPayload
	rsiErr error
}

func (m *mockMarketData) GetSMA(_ context.Context, _ string, _ int) (models.IndicatorPayload, error) {
	m.calls.Add(1)
	return m.sma, m.smaErr
}

func (m *mockMarketData) GetRSI(_ context.Context, _ string, _ int) (models.IndicatorPayload, error) {
	m.calls.Add(1)
	return m.rsi, m.rsiErr
}

func (m *mockMarketData) GetTopMovers(_ context.Context) (*models.MarketMovers, error) {
	m.calls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	if m.gainers > 0 {
		movers := &models.MarketMovers{FetchedAt: time.Now().UTC()}
		for i := 0; i < m.gainers; i++ {
			movers.TopGainers = append(movers.TopGainers, models.Mover{Symbol: fmt.Sprintf("G%d", i)})
		}
		return movers, nil
	}
	return &models.MarketMovers{
		TopGainers: []models.Mover{{Symbol: "ABC", Price: 12.34, ChangePct: 20.5}},
		FetchedAt:  time.Now().UTC(),
	}, nil
}

func TestGetTopMovers_FetchesThenCaches(t *testing.T) {
	store := &memMarketStore{}
	client := &mockMarketData{}
	svc := NewService(&mockStorage{markets: store}, client, 5*time.Minute, common.NewLogger("error"))
	ctx := context.Background()

	movers, cached, err := svc.GetTopMovers(ctx)
	if err != nil {
		t.Fatalf("GetTopMovers failed: %v", err)
	}
	if cached {
		t.Error("first fetch should not be cached")
	}
	if len(movers.TopGainers) != 1 {
		t.Fatalf("gainers = %d, want 1", len(movers.TopGainers))
	}

	_, cached, err = svc.GetTopMovers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !cached {
		t.Error("second fetch within TTL should be cached")
	}
	if client.calls.Load() != 1 {
		t.Errorf("provider calls = %d, want 1", client.calls.Load())
	}
}

func TestGetTopMovers_StaleRefetches(t *testing.T) {
	store := &memMarketStore{movers: &models.MarketMovers{
		FetchedAt: time.Now().Add(-10 * time.Minute),
	}}
	client := &mockMarketData{}
	svc := NewService(&mockStorage{markets: store}, client, 5*time.Minute, common.NewLogger("error"))

	_, cached, err := svc.GetTopMovers(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if cached {
		t.Error("stale snapshot should be refetched")
	}
	if client.calls.Load() != 1 {
		t.Errorf("provider calls = %d, want 1", client.calls.Load())
	}
}

func TestGetTopMovers_ProviderDownServesStale(t *testing.T) {
	stale := &models.MarketMovers{
		TopGainers: []models.Mover{{Symbol: "OLD"}},
		FetchedAt:  time.Now().Add(-time.Hour),
	}
	store := &memMarketStore{movers: stale}
	client := &mockMarketData{err: models.ErrRateLimited}
	svc := NewService(&mockStorage{markets: store}, client, 5*time.Minute, common.NewLogger("error"))

	movers, cached, err := svc.GetTopMovers(context.Background())
	if err != nil {
		t.Fatalf("stale fallback should not error: %v", err)
	}
	if !cached || movers.TopGainers[0].Symbol != "OLD" {
		t.Error("stale snapshot should be served when the provider is down")
	}
}

func TestGetTopMovers_ProviderDownNoSnapshot(t *testing.T) {
	store := &memMarketStore{}
	client := &mockMarketData{err: models.ErrRateLimited}
	svc := NewService(&mockStorage{markets: store}, client, 5*time.Minute, common.NewLogger("error"))

	_, _, err := svc.GetTopMovers(context.Background())
	if !errors.Is(err, models.ErrRateLimited) {
		t.Errorf("err = %v, want ErrRateLimited", err)
	}
}

func fptr(v float64) *float64 { return &v }

func TestGetSMA_SortsAndCapsSeries(t *testing.T) {
	payload := models.IndicatorPayload{}
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < common.MaxIndicatorDays+10; i++ {
		payload[start.AddDate(0, 0, i).Format("2006-01-02")] = fmt.Sprintf("%d.5", 100+i)
	}
	client := &mockMarketData{sma: payload}
	svc := NewService(&mockStorage{}, client, 5*time.Minute, common.NewLogger("error"))

	series, err := svc.GetSMA(context.Background(), "aapl", 20)
	if err != nil {
		t.Fatalf("GetSMA failed: %v", err)
	}
	if series.Symbol != "AAPL" || series.Indicator != "SMA" || series.TimePeriod != 20 {
		t.Errorf("unexpected series header: %+v", series)
	}
	if len(series.Points) != common.MaxIndicatorDays {
		t.Fatalf("points = %d, want capped at %d", len(series.Points), common.MaxIndicatorDays)
	}
	for i := 1; i < len(series.Points); i++ {
		if series.Points[i-1].Date >= series.Points[i].Date {
			t.Fatalf("points not ascending: %s then %s", series.Points[i-1].Date, series.Points[i].Date)
		}
	}
	// The cap keeps the newest window, so the oldest days are dropped.
	wantFirst := start.AddDate(0, 0, 10).Format("2006-01-02")
	if series.Points[0].Date != wantFirst {
		t.Errorf("first point = %s, want %s", series.Points[0].Date, wantFirst)
	}
}

func TestGetSMA_EmptySeries(t *testing.T) {
	client := &mockMarketData{sma: models.IndicatorPayload{"2025-08-29": "not a number"}}
	svc := NewService(&mockStorage{}, client, 5*time.Minute, common.NewLogger("error"))

	_, err := svc.GetSMA(context.Background(), "AAPL", 20)
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound when nothing parses", err)
	}
}

func TestGetRSI_SignalBands(t *testing.T) {
	tests := []struct {
		value  string
		signal string
	}{
		{"75.2", models.SignalOverbought},
		{"24.9", models.SignalOversold},
		{"50.0", models.SignalNeutral},
	}

	for _, tc := range tests {
		client := &mockMarketData{rsi: models.IndicatorPayload{"2025-08-29": tc.value}}
		svc := NewService(&mockStorage{}, client, 5*time.Minute, common.NewLogger("error"))

		series, err := svc.GetRSI(context.Background(), "AAPL", 14)
		if err != nil {
			t.Fatalf("GetRSI(%s) failed: %v", tc.value, err)
		}
		if series.Signal != tc.signal {
			t.Errorf("signal for %s = %q, want %q", tc.value, series.Signal, tc.signal)
		}
		if series.Current == nil {
			t.Fatal("Current not set")
		}
	}
}

func TestGetIndicators_PartialFailureTolerated(t *testing.T) {
	client := &mockMarketData{
		smaErr: models.ErrRateLimited,
		rsi:    models.IndicatorPayload{"2025-08-29": "72.4"},
	}
	svc := NewService(&mockStorage{}, client, 5*time.Minute, common.NewLogger("error"))

	snapshot, err := svc.GetIndicators(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetIndicators failed: %v", err)
	}
	if snapshot.SMA != nil {
		t.Error("failed SMA should be omitted")
	}
	if snapshot.RSI == nil || snapshot.RSI.Signal != models.SignalOverbought {
		t.Errorf("RSI = %+v, want overbought value", snapshot.RSI)
	}
}

func TestGetIndicators_AllProvidersDown(t *testing.T) {
	client := &mockMarketData{smaErr: models.ErrRateLimited, rsiErr: models.ErrRateLimited}
	svc := NewService(&mockStorage{}, client, 5*time.Minute, common.NewLogger("error"))

	_, err := svc.GetIndicators(context.Background(), "AAPL")
	if !errors.Is(err, models.ErrRateLimited) {
		t.Errorf("err = %v, want ErrRateLimited when no indicator could be fetched", err)
	}
}

func screenerFixture() *mockStorage {
	return &mockStorage{companies: &memCompanyStore{records: []models.CompanyRecord{
		{Symbol: "MID", Metrics: models.CompanyMetrics{Name: "Mid Corp", MarketCap: fptr(5_000_000_000), Sector: "Energy"}},
		{Symbol: "BIG", Metrics: models.CompanyMetrics{Name: "Big Corp", MarketCap: fptr(50_000_000_000), Sector: "Technology"}},
		{Symbol: "TINY", Metrics: models.CompanyMetrics{Name: "Tiny Ltd", MarketCap: fptr(500_000_000), Sector: "Technology"}},
		{Symbol: "DARK", Metrics: models.CompanyMetrics{Name: "Dark Pool"}},
	}}}
}

func TestScreenByMarketCap(t *testing.T) {
	svc := NewService(screenerFixture(), &mockMarketData{}, 5*time.Minute, common.NewLogger("error"))
	ctx := context.Background()

	all, err := svc.ScreenByMarketCap(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("all = %d companies, want 3 (unknown cap excluded)", len(all))
	}
	if all[0].Symbol != "BIG" || all[1].Symbol != "MID" || all[2].Symbol != "TINY" {
		t.Errorf("not sorted largest first: %+v", all)
	}

	large, err := svc.ScreenByMarketCap(ctx, "large")
	if err != nil {
		t.Fatal(err)
	}
	if len(large) != 1 || large[0].Symbol != "BIG" {
		t.Errorf("large = %+v, want only BIG", large)
	}

	small, err := svc.ScreenByMarketCap(ctx, "small")
	if err != nil {
		t.Fatal(err)
	}
	if len(small) != 1 || small[0].Symbol != "TINY" {
		t.Errorf("small = %+v, want only TINY", small)
	}
}

func TestSearchCompanies(t *testing.T) {
	svc := NewService(screenerFixture(), &mockMarketData{}, 5*time.Minute, common.NewLogger("error"))
	ctx := context.Background()

	byName, err := svc.SearchCompanies(ctx, "big", "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(byName) != 1 || byName[0].Symbol != "BIG" {
		t.Errorf("query big = %+v, want BIG via case-insensitive name match", byName)
	}

	bySector, err := svc.SearchCompanies(ctx, "", "Technology", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(bySector) != 2 {
		t.Errorf("sector Technology = %d companies, want 2", len(bySector))
	}

	// A cap bound excludes companies whose market cap is unknown.
	byCap, err := svc.SearchCompanies(ctx, "", "", fptr(1_000_000_000), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(byCap) != 2 {
		t.Errorf("minCap 1B = %d companies, want 2", len(byCap))
	}
	for _, c := range byCap {
		if c.Symbol == "TINY" || c.Symbol == "DARK" {
			t.Errorf("company %s should be excluded by the cap bound", c.Symbol)
		}
	}
}

func TestGetTopMovers_CapsEachList(t *testing.T) {
	store := &memMarketStore{}
	client := &mockMarketData{gainers: 25}
	svc := NewService(&mockStorage{markets: store}, client, 5*time.Minute, common.NewLogger("error"))

	movers, _, err := svc.GetTopMovers(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(movers.TopGainers) != common.MaxMoversPerList {
		t.Errorf("gainers = %d, want capped at %d", len(movers.TopGainers), common.MaxMoversPerList)
	}
}
