package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/Tejaspatil1175/finora/internal/common"
	"github.com/Tejaspatil1175/finora/internal/models"
)

type chatStorage struct {
	store  *Store
	logger *common.Logger
}

// NewChatStorage creates a new ChatStore backed by BadgerHold.
func NewChatStorage(store *Store, logger *common.Logger) *chatStorage {
	return &chatStorage{store: store, logger: logger}
}

func (s *chatStorage) Get(_ context.Context, sessionID string) (*models.ChatSession, error) {
	var session models.ChatSession
	err := s.store.db.Get(sessionID, &session)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("session '%s': %w", sessionID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get session '%s': %w", sessionID, err)
	}
	return &session, nil
}

func (s *chatStorage) Upsert(_ context.Context, session *models.ChatSession) error {
	if err := s.store.db.Upsert(session.SessionID, session); err != nil {
		return fmt.Errorf("failed to save session '%s': %w", session.SessionID, err)
	}
	s.logger.Debug().Str("session", session.SessionID).Int("messages", len(session.Messages)).Msg("Chat session saved")
	return nil
}

func (s *chatStorage) Delete(_ context.Context, sessionID string) error {
	err := s.store.db.Delete(sessionID, models.ChatSession{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete session '%s': %w", sessionID, err)
	}
	s.logger.Debug().Str("session", sessionID).Msg("Chat session deleted")
	return nil
}

func (s *chatStorage) DeleteIdleBefore(_ context.Context, cutoff time.Time) (int, error) {
	var sessions []models.ChatSession
	if err := s.store.db.Find(&sessions, badgerhold.Where("UpdatedAt").Lt(cutoff)); err != nil {
		return 0, fmt.Errorf("failed to find idle sessions: %w", err)
	}

	deleted := 0
	for _, session := range sessions {
		if err := s.store.db.Delete(session.SessionID, models.ChatSession{}); err != nil {
			if err == badgerhold.ErrNotFound {
				continue
			}
			return deleted, fmt.Errorf("failed to delete idle session '%s': %w", session.SessionID, err)
		}
		deleted++
	}

	if deleted > 0 {
		s.logger.Info().Int("deleted", deleted).Time("cutoff", cutoff).Msg("Idle chat sessions reaped")
	}
	return deleted, nil
}
