package badger

import (
	"context"
	"fmt"
	"sort"

	"github.com/timshannon/badgerhold/v4"

	"github.com/Tejaspatil1175/finora/internal/common"
	"github.com/Tejaspatil1175/finora/internal/models"
)

type portfolioStorage struct {
	store  *Store
	logger *common.Logger
}

// NewPortfolioStorage creates a new PortfolioStore backed by BadgerHold.
func NewPortfolioStorage(store *Store, logger *common.Logger) *portfolioStorage {
	return &portfolioStorage{store: store, logger: logger}
}

// HoldingKey builds the composite storage key for a holding.
func HoldingKey(userID, symbol string) string {
	return userID + ":" + symbol
}

func (s *portfolioStorage) GetHolding(_ context.Context, userID, symbol string) (*models.Holding, error) {
	var holding models.Holding
	err := s.store.db.Get(HoldingKey(userID, symbol), &holding)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("holding '%s': %w", symbol, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get holding '%s': %w", symbol, err)
	}
	return &holding, nil
}

func (s *portfolioStorage) UpsertHolding(_ context.Context, holding *models.Holding) error {
	holding.Key = HoldingKey(holding.UserID, holding.Symbol)
	if err := s.store.db.Upsert(holding.Key, holding); err != nil {
		return fmt.Errorf("failed to save holding '%s': %w", holding.Symbol, err)
	}
	s.logger.Debug().Str("user", holding.UserID).Str("symbol", holding.Symbol).Float64("quantity", holding.Quantity).Msg("Holding saved")
	return nil
}

func (s *portfolioStorage) DeleteHolding(_ context.Context, userID, symbol string) error {
	err := s.store.db.Delete(HoldingKey(userID, symbol), models.Holding{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete holding '%s': %w", symbol, err)
	}
	return nil
}

func (s *portfolioStorage) ListHoldings(_ context.Context, userID string) ([]models.Holding, error) {
	var holdings []models.Holding
	if err := s.store.db.Find(&holdings, badgerhold.Where("UserID").Eq(userID).Index("UserID")); err != nil {
		return nil, fmt.Errorf("failed to list holdings for user '%s': %w", userID, err)
	}
	sort.Slice(holdings, func(i, j int) bool {
		return holdings[i].Symbol < holdings[j].Symbol
	})
	return holdings, nil
}

func (s *portfolioStorage) InsertOrder(_ context.Context, order *models.Order) error {
	if err := s.store.db.Insert(order.OrderID, order); err != nil {
		return fmt.Errorf("failed to save order '%s': %w", order.OrderID, err)
	}
	s.logger.Debug().Str("order", order.OrderID).Str("side", order.Side).Str("symbol", order.Symbol).Msg("Order saved")
	return nil
}

func (s *portfolioStorage) ListOrders(_ context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := s.store.db.Find(&orders, badgerhold.Where("UserID").Eq(userID).Index("UserID")); err != nil {
		return nil, fmt.Errorf("failed to list orders for user '%s': %w", userID, err)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].ExecutedAt.After(orders[j].ExecutedAt)
	})
	return orders, nil
}

func (s *portfolioStorage) UpsertPosition(_ context.Context, position *models.Position) error {
	if err := s.store.db.Upsert(position.PositionID, position); err != nil {
		return fmt.Errorf("failed to save position '%s': %w", position.PositionID, err)
	}
	return nil
}

func (s *portfolioStorage) ListPositions(_ context.Context, userID string) ([]models.Position, error) {
	var positions []models.Position
	if err := s.store.db.Find(&positions, badgerhold.Where("UserID").Eq(userID).Index("UserID")); err != nil {
		return nil, fmt.Errorf("failed to list positions for user '%s': %w", userID, err)
	}
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].Status != positions[j].Status {
			return positions[i].Status == models.PositionOpen
		}
		return positions[i].OpenedAt.After(positions[j].OpenedAt)
	})
	return positions, nil
}

func (s *portfolioStorage) ListOpenPositions(_ context.Context, userID, symbol string) ([]models.Position, error) {
	var positions []models.Position
	query := badgerhold.Where("UserID").Eq(userID).Index("UserID").
		And("Symbol").Eq(symbol).
		And("Status").Eq(models.PositionOpen)
	if err := s.store.db.Find(&positions, query); err != nil {
		return nil, fmt.Errorf("failed to list open positions for '%s': %w", symbol, err)
	}
	// Oldest first so sells close out FIFO
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].OpenedAt.Before(positions[j].OpenedAt)
	})
	return positions, nil
}
