package badger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Tejaspatil1175/finora/internal/common"
	"github.com/Tejaspatil1175/finora/internal/models"
)

// --- Test helpers ---

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	logger := common.NewLogger("error")
	store, err := NewStore(logger, filepath.Join(dir, "badger"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testLogger() *common.Logger {
	return common.NewLogger("error")
}

func fptr(f float64) *float64 { return &f }

// --- Store tests ---

func TestStore_OpenClose(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(testLogger(), filepath.Join(dir, "badger"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if store.DB() == nil {
		t.Fatal("expected non-nil DB")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

// --- Company storage tests ---

func TestCompanyStorage_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	companies := NewCompanyStorage(store, testLogger())
	ctx := context.Background()

	record := &models.CompanyRecord{
		Symbol:    "AAPL",
		Provider:  "alphavantage",
		FetchedAt: time.Now().UTC(),
		Metrics: models.CompanyMetrics{
			Symbol:  "AAPL",
			Name:    "Apple Inc",
			PERatio: fptr(28.5),
		},
	}

	if err := companies.Upsert(ctx, record); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := companies.Get(ctx, "AAPL")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Metrics.Name != "Apple Inc" {
		t.Errorf("Name = %q, want Apple Inc", got.Metrics.Name)
	}
	if got.Metrics.PERatio == nil || *got.Metrics.PERatio != 28.5 {
		t.Errorf("PERatio = %v, want 28.5", got.Metrics.PERatio)
	}
	if got.Metrics.EPS != nil {
		t.Errorf("EPS = %v, want nil preserved", got.Metrics.EPS)
	}
}

func TestCompanyStorage_GetMissing(t *testing.T) {
	store := newTestStore(t)
	companies := NewCompanyStorage(store, testLogger())

	_, err := companies.Get(context.Background(), "ZZZZ")
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCompanyStorage_UpsertReplaces(t *testing.T) {
	store := newTestStore(t)
	companies := NewCompanyStorage(store, testLogger())
	ctx := context.Background()

	first := &models.CompanyRecord{Symbol: "TSLA", Metrics: models.CompanyMetrics{Name: "Tesla"}}
	second := &models.CompanyRecord{Symbol: "TSLA", Metrics: models.CompanyMetrics{Name: "Tesla, Inc."}}

	if err := companies.Upsert(ctx, first); err != nil {
		t.Fatalf("first Upsert failed: %v", err)
	}
	if err := companies.Upsert(ctx, second); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	got, err := companies.Get(ctx, "TSLA")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Metrics.Name != "Tesla, Inc." {
		t.Errorf("Name = %q, want replacement to win", got.Metrics.Name)
	}

	list, err := companies.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("list len = %d, want 1", len(list))
	}
}

func TestCompanyStorage_DeleteIdempotent(t *testing.T) {
	store := newTestStore(t)
	companies := NewCompanyStorage(store, testLogger())
	ctx := context.Background()

	if err := companies.Delete(ctx, "MISSING"); err != nil {
		t.Fatalf("Delete of missing record should not error: %v", err)
	}
}

// --- Chat storage tests ---

func TestChatStorage_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	chats := NewChatStorage(store, testLogger())
	ctx := context.Background()

	session := &models.ChatSession{
		SessionID: "sess-1",
		Symbol:    "AAPL",
		Messages: []models.ChatMessage{
			{Role: models.RoleUser, Content: "Is Apple overvalued?", Timestamp: time.Now()},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := chats.Upsert(ctx, session); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := chats.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != models.RoleUser {
		t.Errorf("unexpected messages: %+v", got.Messages)
	}

	if err := chats.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := chats.Get(ctx, "sess-1"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("err after delete = %v, want ErrNotFound", err)
	}
}

func TestChatStorage_DeleteIdleBefore(t *testing.T) {
	store := newTestStore(t)
	chats := NewChatStorage(store, testLogger())
	ctx := context.Background()

	now := time.Now().UTC()
	old := &models.ChatSession{SessionID: "old", UpdatedAt: now.Add(-31 * 24 * time.Hour)}
	fresh := &models.ChatSession{SessionID: "fresh", UpdatedAt: now}

	if err := chats.Upsert(ctx, old); err != nil {
		t.Fatal(err)
	}
	if err := chats.Upsert(ctx, fresh); err != nil {
		t.Fatal(err)
	}

	deleted, err := chats.DeleteIdleBefore(ctx, now.Add(-30*24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteIdleBefore failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
	if _, err := chats.Get(ctx, "old"); !errors.Is(err, models.ErrNotFound) {
		t.Error("old session should be gone")
	}
	if _, err := chats.Get(ctx, "fresh"); err != nil {
		t.Errorf("fresh session should survive: %v", err)
	}
}

// --- Document storage tests ---

func TestDocumentStorage_ListByUser(t *testing.T) {
	store := newTestStore(t)
	documents := NewDocumentStorage(store, testLogger())
	ctx := context.Background()

	now := time.Now().UTC()
	docs := []*models.Document{
		{DocumentID: "d1", UserID: "u1", Status: models.DocumentCompleted, UploadedAt: now.Add(-2 * time.Hour)},
		{DocumentID: "d2", UserID: "u1", Status: models.DocumentUploaded, UploadedAt: now},
		{DocumentID: "d3", UserID: "u2", Status: models.DocumentFailed, UploadedAt: now},
	}
	for _, d := range docs {
		if err := documents.Upsert(ctx, d); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	list, err := documents.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("list len = %d, want 2", len(list))
	}
	if list[0].DocumentID != "d2" {
		t.Errorf("first = %q, want newest first", list[0].DocumentID)
	}
}

func TestDocumentStorage_ListInProgress(t *testing.T) {
	store := newTestStore(t)
	documents := NewDocumentStorage(store, testLogger())
	ctx := context.Background()

	for _, d := range []*models.Document{
		{DocumentID: "a", UserID: "u1", Status: models.DocumentExtracting},
		{DocumentID: "b", UserID: "u1", Status: models.DocumentAnalyzing},
		{DocumentID: "c", UserID: "u1", Status: models.DocumentCompleted},
		{DocumentID: "d", UserID: "u1", Status: models.DocumentUploaded},
	} {
		if err := documents.Upsert(ctx, d); err != nil {
			t.Fatal(err)
		}
	}

	stuck, err := documents.ListInProgress(ctx)
	if err != nil {
		t.Fatalf("ListInProgress failed: %v", err)
	}
	if len(stuck) != 2 {
		t.Errorf("stuck len = %d, want 2 (EXTRACTING and ANALYZING)", len(stuck))
	}
}

// --- User storage tests ---

func TestUserStorage_GetByEmail(t *testing.T) {
	store := newTestStore(t)
	users := NewUserStorage(store, testLogger())
	ctx := context.Background()

	user := &models.User{UserID: "u1", Email: "alice@example.com", Name: "Alice"}
	if err := users.Upsert(ctx, user); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := users.GetByEmail(ctx, "  Alice@Example.com ")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.UserID != "u1" {
		t.Errorf("UserID = %q, want u1", got.UserID)
	}

	if _, err := users.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// --- Portfolio storage tests ---

func TestPortfolioStorage_Holdings(t *testing.T) {
	store := newTestStore(t)
	portfolios := NewPortfolioStorage(store, testLogger())
	ctx := context.Background()

	holding := &models.Holding{UserID: "u1", Symbol: "AAPL", Quantity: 10, AvgPrice: 150}
	if err := portfolios.UpsertHolding(ctx, holding); err != nil {
		t.Fatalf("UpsertHolding failed: %v", err)
	}

	got, err := portfolios.GetHolding(ctx, "u1", "AAPL")
	if err != nil {
		t.Fatalf("GetHolding failed: %v", err)
	}
	if got.Quantity != 10 {
		t.Errorf("Quantity = %v, want 10", got.Quantity)
	}

	if err := portfolios.DeleteHolding(ctx, "u1", "AAPL"); err != nil {
		t.Fatalf("DeleteHolding failed: %v", err)
	}
	if _, err := portfolios.GetHolding(ctx, "u1", "AAPL"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound after delete", err)
	}
}

func TestPortfolioStorage_OpenPositionsFIFO(t *testing.T) {
	store := newTestStore(t)
	portfolios := NewPortfolioStorage(store, testLogger())
	ctx := context.Background()

	now := time.Now().UTC()
	for _, p := range []*models.Position{
		{PositionID: "p2", UserID: "u1", Symbol: "AAPL", Status: models.PositionOpen, OpenedAt: now},
		{PositionID: "p1", UserID: "u1", Symbol: "AAPL", Status: models.PositionOpen, OpenedAt: now.Add(-time.Hour)},
		{PositionID: "p3", UserID: "u1", Symbol: "AAPL", Status: models.PositionClosed, OpenedAt: now.Add(-2 * time.Hour)},
		{PositionID: "p4", UserID: "u1", Symbol: "TSLA", Status: models.PositionOpen, OpenedAt: now},
	} {
		if err := portfolios.UpsertPosition(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	open, err := portfolios.ListOpenPositions(ctx, "u1", "AAPL")
	if err != nil {
		t.Fatalf("ListOpenPositions failed: %v", err)
	}
	if len(open) != 2 {
		t.Fatalf("open len = %d, want 2", len(open))
	}
	if open[0].PositionID != "p1" {
		t.Errorf("first = %q, want oldest first", open[0].PositionID)
	}
}

// --- Market storage tests ---

func TestMarketStorage_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	markets := NewMarketStorage(store, testLogger())
	ctx := context.Background()

	if _, err := markets.GetMovers(ctx); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound before first fetch", err)
	}

	movers := &models.MarketMovers{
		TopGainers: []models.Mover{{Symbol: "ABC", Price: 12.34}},
		FetchedAt:  time.Now().UTC(),
	}
	if err := markets.UpsertMovers(ctx, movers); err != nil {
		t.Fatalf("UpsertMovers failed: %v", err)
	}

	got, err := markets.GetMovers(ctx)
	if err != nil {
		t.Fatalf("GetMovers failed: %v", err)
	}
	if len(got.TopGainers) != 1 || got.TopGainers[0].Symbol != "ABC" {
		t.Errorf("unexpected movers: %+v", got)
	}
}
