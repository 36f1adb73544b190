package badger

import (
	"context"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/Tejaspatil1175/finora/internal/common"
	"github.com/Tejaspatil1175/finora/internal/models"
)

type marketStorage struct {
	store  *Store
	logger *common.Logger
}

// NewMarketStorage creates a new MarketStore backed by BadgerHold.
func NewMarketStorage(store *Store, logger *common.Logger) *marketStorage {
	return &marketStorage{store: store, logger: logger}
}

func (s *marketStorage) GetMovers(_ context.Context) (*models.MarketMovers, error) {
	var movers models.MarketMovers
	err := s.store.db.Get(models.MoversKey, &movers)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("market movers: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get market movers: %w", err)
	}
	return &movers, nil
}

func (s *marketStorage) UpsertMovers(_ context.Context, movers *models.MarketMovers) error {
	movers.Key = models.MoversKey
	if err := s.store.db.Upsert(movers.Key, movers); err != nil {
		return fmt.Errorf("failed to save market movers: %w", err)
	}
	s.logger.Debug().Time("fetched_at", movers.FetchedAt).Msg("Market movers saved")
	return nil
}
