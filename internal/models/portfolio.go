package models

import "time"

// User is an account record keyed by user ID. Password hashes never leave
// the server.
type User struct {
	UserID       string           `json:"userId" badgerhold:"key"`
	Email        string           `json:"email" badgerhold:"index"`
	Name         string           `json:"name"`
	PasswordHash string           `json:"-"`
	Portfolio    PortfolioTotals  `json:"portfolio"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// PortfolioTotals is the running cash and valuation state of a paper
// portfolio.
type PortfolioTotals struct {
	CashBalance   float64 `json:"cashBalance"`
	TotalValue    float64 `json:"totalValue"`
	TotalInvested float64 `json:"totalInvested"`
	ProfitLoss    float64 `json:"profitLoss"`
}

// Holding is a per-symbol position with cost basis, keyed by
// "userID:symbol".
type Holding struct {
	Key           string    `json:"-" badgerhold:"key"`
	UserID        string    `json:"userId" badgerhold:"index"`
	Symbol        string    `json:"symbol"`
	Quantity      float64   `json:"quantity"`
	AvgPrice      float64   `json:"avgPrice"`
	CurrentPrice  float64   `json:"currentPrice"`
	ProfitLoss    float64   `json:"profitLoss"`
	ProfitLossPct float64   `json:"profitLossPercentage"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Order sides.
const (
	OrderBuy  = "BUY"
	OrderSell = "SELL"
)

// Order is an executed paper-trade record.
type Order struct {
	OrderID    string    `json:"orderId" badgerhold:"key"`
	UserID     string    `json:"userId" badgerhold:"index"`
	Symbol     string    `json:"symbol"`
	Side       string    `json:"side"`
	Quantity   float64   `json:"quantity"`
	Price      float64   `json:"price"`
	Total      float64   `json:"total"`
	ExecutedAt time.Time `json:"executedAt"`
}

// Position statuses.
const (
	PositionOpen   = "OPEN"
	PositionClosed = "CLOSED"
)

// Position tracks open/closed P&L per entry.
type Position struct {
	PositionID string    `json:"positionId" badgerhold:"key"`
	UserID     string    `json:"userId" badgerhold:"index"`
	Symbol     string    `json:"symbol"`
	Status     string    `json:"status"`
	Quantity   float64   `json:"quantity"`
	EntryPrice float64   `json:"entryPrice"`
	ExitPrice  float64   `json:"exitPrice,omitempty"`
	RealizedPL float64   `json:"realizedPL"`
	OpenedAt   time.Time `json:"openedAt"`
	ClosedAt   time.Time `json:"closedAt,omitempty"`
}

// PortfolioSummary is the full portfolio view returned to API clients.
type PortfolioSummary struct {
	PortfolioTotals
	Holdings []Holding `json:"holdings"`
}

// HoldingSummary is the trimmed holding view embedded in chat context.
type HoldingSummary struct {
	Symbol        string  `json:"symbol"`
	Quantity      float64 `json:"quantity"`
	CurrentPrice  float64 `json:"currentPrice"`
	ProfitLoss    float64 `json:"profitLoss"`
	ProfitLossPct float64 `json:"profitLossPercentage"`
}

// PortfolioContext is the read-only portfolio view assembled into chat
// prompts.
type PortfolioContext struct {
	CashBalance   float64          `json:"cashBalance"`
	TotalValue    float64          `json:"totalValue"`
	TotalInvested float64          `json:"totalInvested"`
	ProfitLoss    float64          `json:"profitLoss"`
	Holdings      []HoldingSummary `json:"holdings"`
}
