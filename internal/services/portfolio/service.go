// Package portfolio manages paper-trading portfolios: orders, holdings,
// and positions against a virtual cash balance.
package portfolio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Tejaspatil1175/finora/internal/common"
	"github.com/Tejaspatil1175/finora/internal/interfaces"
	"github.com/Tejaspatil1175/finora/internal/models"
)

// InitialCashBalance is the virtual cash every new account starts with.
const InitialCashBalance = 100000

// quantityEpsilon absorbs float drift when draining a holding to zero.
const quantityEpsilon = 1e-9

// Service implements PortfolioService
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

var _ interfaces.PortfolioService = (*Service)(nil)

// NewService creates a new portfolio service
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{storage: storage, logger: logger}
}

// Buy executes a paper buy: cash is deducted, the holding's average price
// is re-weighted, and the open position for the symbol grows or is opened.
func (s *Service) Buy(ctx context.Context, userID, symbol string, quantity, price float64) (*models.Order, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if err := validateTrade(symbol, quantity, price); err != nil {
		return nil, err
	}

	user, err := s.storage.Users().Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	total := quantity * price
	if user.Portfolio.CashBalance < total {
		return nil, fmt.Errorf("insufficient balance: available %.2f, required %.2f", user.Portfolio.CashBalance, total)
	}

	now := time.Now().UTC()
	order := &models.Order{
		OrderID:    "ORD-" + uuid.New().String(),
		UserID:     userID,
		Symbol:     symbol,
		Side:       models.OrderBuy,
		Quantity:   quantity,
		Price:      price,
		Total:      total,
		ExecutedAt: now,
	}
	if err := s.storage.Portfolios().InsertOrder(ctx, order); err != nil {
		return nil, err
	}

	user.Portfolio.CashBalance -= total
	user.Portfolio.TotalInvested += total
	if err := s.storage.Users().Upsert(ctx, user); err != nil {
		return nil, err
	}

	holding, err := s.storage.Portfolios().GetHolding(ctx, userID, symbol)
	if err != nil {
		holding = &models.Holding{UserID: userID, Symbol: symbol}
	}
	newQuantity := holding.Quantity + quantity
	holding.AvgPrice = (holding.AvgPrice*holding.Quantity + total) / newQuantity
	holding.Quantity = newQuantity
	holding.CurrentPrice = price
	revalueHolding(holding)
	holding.UpdatedAt = now
	if err := s.storage.Portfolios().UpsertHolding(ctx, holding); err != nil {
		return nil, err
	}

	if err := s.growOpenPosition(ctx, userID, symbol, quantity, price, now); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user", userID).
		Str("symbol", symbol).
		Float64("quantity", quantity).
		Float64("price", price).
		Msg("Buy order executed")

	return order, nil
}

// Sell executes a paper sell against the holding's average cost. Draining
// the holding deletes it and closes the open position.
func (s *Service) Sell(ctx context.Context, userID, symbol string, quantity, price float64) (*models.Order, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if err := validateTrade(symbol, quantity, price); err != nil {
		return nil, err
	}

	holding, err := s.storage.Portfolios().GetHolding(ctx, userID, symbol)
	if err != nil {
		return nil, fmt.Errorf("no holding in %s: %w", symbol, models.ErrNotFound)
	}
	if holding.Quantity < quantity {
		return nil, fmt.Errorf("insufficient quantity: available %g, requested %g", holding.Quantity, quantity)
	}

	user, err := s.storage.Users().Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	total := quantity * price
	soldCost := holding.AvgPrice * quantity
	realizedPL := total - soldCost

	now := time.Now().UTC()
	order := &models.Order{
		OrderID:    "ORD-" + uuid.New().String(),
		UserID:     userID,
		Symbol:     symbol,
		Side:       models.OrderSell,
		Quantity:   quantity,
		Price:      price,
		Total:      total,
		ExecutedAt: now,
	}
	if err := s.storage.Portfolios().InsertOrder(ctx, order); err != nil {
		return nil, err
	}

	user.Portfolio.CashBalance += total
	user.Portfolio.TotalInvested -= soldCost
	if err := s.storage.Users().Upsert(ctx, user); err != nil {
		return nil, err
	}

	holding.Quantity -= quantity
	if holding.Quantity <= quantityEpsilon {
		if err := s.storage.Portfolios().DeleteHolding(ctx, userID, symbol); err != nil {
			return nil, err
		}
	} else {
		holding.CurrentPrice = price
		revalueHolding(holding)
		holding.UpdatedAt = now
		if err := s.storage.Portfolios().UpsertHolding(ctx, holding); err != nil {
			return nil, err
		}
	}

	if err := s.shrinkOpenPosition(ctx, userID, symbol, quantity, price, realizedPL, now); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user", userID).
		Str("symbol", symbol).
		Float64("quantity", quantity).
		Float64("realized_pl", realizedPL).
		Msg("Sell order executed")

	return order, nil
}

// GetPortfolio returns the holdings with recomputed totals. Profit and
// loss is measured against the initial virtual balance.
func (s *Service) GetPortfolio(ctx context.Context, userID string) (*models.PortfolioSummary, error) {
	user, err := s.storage.Users().Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	holdings, err := s.storage.Portfolios().ListHoldings(ctx, userID)
	if err != nil {
		return nil, err
	}

	holdingsValue := 0.0
	for _, h := range holdings {
		holdingsValue += h.Quantity * h.CurrentPrice
	}

	totalValue := user.Portfolio.CashBalance + holdingsValue
	return &models.PortfolioSummary{
		PortfolioTotals: models.PortfolioTotals{
			CashBalance:   user.Portfolio.CashBalance,
			TotalValue:    totalValue,
			TotalInvested: user.Portfolio.TotalInvested,
			ProfitLoss:    totalValue - InitialCashBalance,
		},
		Holdings: holdings,
	}, nil
}

// GetOrders returns the user's order history, newest first.
func (s *Service) GetOrders(ctx context.Context, userID string) ([]models.Order, error) {
	return s.storage.Portfolios().ListOrders(ctx, userID)
}

// GetPositions returns the user's positions, open first.
func (s *Service) GetPositions(ctx context.Context, userID string) ([]models.Position, error) {
	return s.storage.Portfolios().ListPositions(ctx, userID)
}

// ContextSummary returns a bounded portfolio snapshot for chat prompts.
// Users with no holdings get nil so the prompt section is omitted.
func (s *Service) ContextSummary(ctx context.Context, userID string) (*models.PortfolioContext, error) {
	summary, err := s.GetPortfolio(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(summary.Holdings) == 0 {
		return nil, nil
	}

	holdings := summary.Holdings
	if len(holdings) > common.MaxContextHoldings {
		holdings = holdings[:common.MaxContextHoldings]
	}

	pc := &models.PortfolioContext{
		CashBalance:   summary.CashBalance,
		TotalValue:    summary.TotalValue,
		TotalInvested: summary.TotalInvested,
		ProfitLoss:    summary.ProfitLoss,
	}
	for _, h := range holdings {
		pc.Holdings = append(pc.Holdings, models.HoldingSummary{
			Symbol:        h.Symbol,
			Quantity:      h.Quantity,
			CurrentPrice:  h.CurrentPrice,
			ProfitLoss:    h.ProfitLoss,
			ProfitLossPct: h.ProfitLossPct,
		})
	}
	return pc, nil
}

// growOpenPosition adds to the symbol's open position, opening one when
// none exists. Entry price is volume-weighted across buys.
func (s *Service) growOpenPosition(ctx context.Context, userID, symbol string, quantity, price float64, now time.Time) error {
	open, err := s.storage.Portfolios().ListOpenPositions(ctx, userID, symbol)
	if err != nil {
		return err
	}
	if len(open) == 0 {
		return s.storage.Portfolios().UpsertPosition(ctx, &models.Position{
			PositionID: "POS-" + uuid.New().String(),
			UserID:     userID,
			Symbol:     symbol,
			Status:     models.PositionOpen,
			Quantity:   quantity,
			EntryPrice: price,
			OpenedAt:   now,
		})
	}

	position := &open[0]
	newQuantity := position.Quantity + quantity
	position.EntryPrice = (position.EntryPrice*position.Quantity + price*quantity) / newQuantity
	position.Quantity = newQuantity
	return s.storage.Portfolios().UpsertPosition(ctx, position)
}

// shrinkOpenPosition reduces the open position, accumulating realized P&L
// and closing it when drained.
func (s *Service) shrinkOpenPosition(ctx context.Context, userID, symbol string, quantity, price, realizedPL float64, now time.Time) error {
	open, err := s.storage.Portfolios().ListOpenPositions(ctx, userID, symbol)
	if err != nil || len(open) == 0 {
		return err
	}

	position := &open[0]
	position.Quantity -= quantity
	position.RealizedPL += realizedPL
	position.ExitPrice = price
	if position.Quantity <= quantityEpsilon {
		position.Quantity = 0
		position.Status = models.PositionClosed
		position.ClosedAt = now
	}
	return s.storage.Portfolios().UpsertPosition(ctx, position)
}

func revalueHolding(h *models.Holding) {
	h.ProfitLoss = (h.CurrentPrice - h.AvgPrice) * h.Quantity
	if h.AvgPrice > 0 {
		h.ProfitLossPct = (h.CurrentPrice - h.AvgPrice) / h.AvgPrice * 100
	}
}

func validateTrade(symbol string, quantity, price float64) error {
	if symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if quantity <= 0 || price <= 0 {
		return fmt.Errorf("quantity and price must be positive")
	}
	return nil
}
