package badger

import (
	"context"
	"fmt"
	"sort"

	"github.com/timshannon/badgerhold/v4"

	"github.com/Tejaspatil1175/finora/internal/common"
	"github.com/Tejaspatil1175/finora/internal/models"
)

type companyStorage struct {
	store  *Store
	logger *common.Logger
}

// NewCompanyStorage creates a new CompanyStore backed by BadgerHold.
func NewCompanyStorage(store *Store, logger *common.Logger) *companyStorage {
	return &companyStorage{store: store, logger: logger}
}

func (s *companyStorage) Get(_ context.Context, symbol string) (*models.CompanyRecord, error) {
	var record models.CompanyRecord
	err := s.store.db.Get(symbol, &record)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("company '%s': %w", symbol, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get company '%s': %w", symbol, err)
	}
	return &record, nil
}

func (s *companyStorage) Upsert(_ context.Context, record *models.CompanyRecord) error {
	if err := s.store.db.Upsert(record.Symbol, record); err != nil {
		return fmt.Errorf("failed to save company '%s': %w", record.Symbol, err)
	}
	s.logger.Debug().Str("symbol", record.Symbol).Msg("Company record saved")
	return nil
}

func (s *companyStorage) Delete(_ context.Context, symbol string) error {
	err := s.store.db.Delete(symbol, models.CompanyRecord{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete company '%s': %w", symbol, err)
	}
	s.logger.Debug().Str("symbol", symbol).Msg("Company record deleted")
	return nil
}

func (s *companyStorage) List(_ context.Context) ([]models.CompanyRecord, error) {
	var records []models.CompanyRecord
	if err := s.store.db.Find(&records, nil); err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Symbol < records[j].Symbol
	})
	return records, nil
}
