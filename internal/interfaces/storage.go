package interfaces

import (
	"context"
	"time"

	"github.com/Tejaspatil1175/finora/internal/models"
)

// StorageManager owns the embedded store lifecycle and hands out the typed
// stores backed by it.
type StorageManager interface {
	Companies() CompanyStore
	Chats() ChatStore
	Documents() DocumentStore
	Users() UserStore
	Portfolios() PortfolioStore
	Markets() MarketStore
	Close() error
}

// CompanyStore persists normalized company records keyed by symbol
type CompanyStore interface {
	Get(ctx context.Context, symbol string) (*models.CompanyRecord, error)
	Upsert(ctx context.Context, record *models.CompanyRecord) error
	Delete(ctx context.Context, symbol string) error
	List(ctx context.Context) ([]models.CompanyRecord, error)
}

// ChatStore persists chat sessions keyed by session ID
type ChatStore interface {
	Get(ctx context.Context, sessionID string) (*models.ChatSession, error)
	Upsert(ctx context.Context, session *models.ChatSession) error
	Delete(ctx context.Context, sessionID string) error

	// DeleteIdleBefore removes sessions whose last update is older than
	// the cutoff and reports how many were removed
	DeleteIdleBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// DocumentStore persists uploaded documents keyed by document ID
type DocumentStore interface {
	Get(ctx context.Context, documentID string) (*models.Document, error)
	Upsert(ctx context.Context, doc *models.Document) error
	Delete(ctx context.Context, documentID string) error
	ListByUser(ctx context.Context, userID string) ([]models.Document, error)

	// ListInProgress returns documents stuck in a non-terminal status,
	// used to sweep orphans at startup
	ListInProgress(ctx context.Context) ([]models.Document, error)
}

// UserStore persists accounts keyed by user ID with a unique email index
type UserStore interface {
	Get(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Upsert(ctx context.Context, user *models.User) error
}

// PortfolioStore persists holdings, orders, and positions
type PortfolioStore interface {
	GetHolding(ctx context.Context, userID, symbol string) (*models.Holding, error)
	UpsertHolding(ctx context.Context, holding *models.Holding) error
	DeleteHolding(ctx context.Context, userID, symbol string) error
	ListHoldings(ctx context.Context, userID string) ([]models.Holding, error)

	InsertOrder(ctx context.Context, order *models.Order) error
	ListOrders(ctx context.Context, userID string) ([]models.Order, error)

	UpsertPosition(ctx context.Context, position *models.Position) error
	ListPositions(ctx context.Context, userID string) ([]models.Position, error)
	ListOpenPositions(ctx context.Context, userID, symbol string) ([]models.Position, error)
}

// MarketStore persists the market movers snapshot
type MarketStore interface {
	GetMovers(ctx context.Context) (*models.MarketMovers, error)
	UpsertMovers(ctx context.Context, movers *models.MarketMovers) error
}
