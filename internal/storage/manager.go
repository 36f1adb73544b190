// Package storage provides the top-level StorageManager handing out the
// typed stores backed by the embedded database.
package storage

import (
	"fmt"

	"github.com/Tejaspatil1175/finora/internal/common"
	"github.com/Tejaspatil1175/finora/internal/interfaces"
	"github.com/Tejaspatil1175/finora/internal/storage/badger"
)

// Manager implements interfaces.StorageManager over a single BadgerHold
// store.
type Manager struct {
	store      *badger.Store
	companies  interfaces.CompanyStore
	chats      interfaces.ChatStore
	documents  interfaces.DocumentStore
	users      interfaces.UserStore
	portfolios interfaces.PortfolioStore
	markets    interfaces.MarketStore
	logger     *common.Logger
}

var _ interfaces.StorageManager = (*Manager)(nil)

// NewManager opens the embedded store and wires the typed stores.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	store, err := badger.NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	logger.Info().Str("path", config.Storage.Path).Msg("Storage manager initialized")

	return &Manager{
		store:      store,
		companies:  badger.NewCompanyStorage(store, logger),
		chats:      badger.NewChatStorage(store, logger),
		documents:  badger.NewDocumentStorage(store, logger),
		users:      badger.NewUserStorage(store, logger),
		portfolios: badger.NewPortfolioStorage(store, logger),
		markets:    badger.NewMarketStorage(store, logger),
		logger:     logger,
	}, nil
}

func (m *Manager) Companies() interfaces.CompanyStore { return m.companies }

func (m *Manager) Chats() interfaces.ChatStore { return m.chats }

func (m *Manager) Documents() interfaces.DocumentStore { return m.documents }

func (m *Manager) Users() interfaces.UserStore { return m.users }

func (m *Manager) Portfolios() interfaces.PortfolioStore { return m.portfolios }

func (m *Manager) Markets() interfaces.MarketStore { return m.markets }

// Close closes the underlying store.
func (m *Manager) Close() error {
	return m.store.Close()
}
