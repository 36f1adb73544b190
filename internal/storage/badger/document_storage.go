package badger

import (
	"context"
	"fmt"
	"sort"

	"github.com/timshannon/badgerhold/v4"

	"github.com/Tejaspatil1175/finora/internal/common"
	"github.com/Tejaspatil1175/finora/internal/models"
)

type documentStorage struct {
	store  *Store
	logger *common.Logger
}

// NewDocumentStorage creates a new DocumentStore backed by BadgerHold.
func NewDocumentStorage(store *Store, logger *common.Logger) *documentStorage {
	return &documentStorage{store: store, logger: logger}
}

func (s *documentStorage) Get(_ context.Context, documentID string) (*models.Document, error) {
	var doc models.Document
	err := s.store.db.Get(documentID, &doc)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("document '%s': %w", documentID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get document '%s': %w", documentID, err)
	}
	return &doc, nil
}

func (s *documentStorage) Upsert(_ context.Context, doc *models.Document) error {
	if err := s.store.db.Upsert(doc.DocumentID, doc); err != nil {
		return fmt.Errorf("failed to save document '%s': %w", doc.DocumentID, err)
	}
	s.logger.Debug().Str("document", doc.DocumentID).Str("status", doc.Status).Msg("Document saved")
	return nil
}

func (s *documentStorage) Delete(_ context.Context, documentID string) error {
	err := s.store.db.Delete(documentID, models.Document{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete document '%s': %w", documentID, err)
	}
	s.logger.Debug().Str("document", documentID).Msg("Document deleted")
	return nil
}

func (s *documentStorage) ListByUser(_ context.Context, userID string) ([]models.Document, error) {
	var docs []models.Document
	if err := s.store.db.Find(&docs, badgerhold.Where("UserID").Eq(userID).Index("UserID")); err != nil {
		return nil, fmt.Errorf("failed to list documents for user '%s': %w", userID, err)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})
	return docs, nil
}

func (s *documentStorage) ListInProgress(_ context.Context) ([]models.Document, error) {
	var docs []models.Document
	statuses := []interface{}{models.DocumentExtracting, models.DocumentExtracted, models.DocumentAnalyzing}
	if err := s.store.db.Find(&docs, badgerhold.Where("Status").In(statuses...)); err != nil {
		return nil, fmt.Errorf("failed to list in-progress documents: %w", err)
	}
	return docs, nil
}
