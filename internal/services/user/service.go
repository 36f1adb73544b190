// Package user manages accounts and credentials
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Tejaspatil1175/finora/internal/common"
	"github.com/Tejaspatil1175/finora/internal/interfaces"
	"github.com/Tejaspatil1175/finora/internal/models"
	"github.com/Tejaspatil1175/finora/internal/services/portfolio"
)

// ErrInvalidCredentials is returned for unknown emails and wrong
// passwords alike, so the two cases are indistinguishable to callers.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Service implements UserService
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

var _ interfaces.UserService = (*Service)(nil)

// NewService creates a new user service
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{storage: storage, logger: logger}
}

// Register creates an account seeded with the initial virtual balance.
func (s *Service) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	if _, err := s.storage.Users().GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		UserID:       uuid.New().String(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		Portfolio: models.PortfolioTotals{
			CashBalance: portfolio.InitialCashBalance,
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.storage.Users().Upsert(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user", user.UserID).Msg("User registered")
	return user, nil
}

// Authenticate verifies the credentials and returns the account.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.storage.Users().GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser returns the account by ID.
func (s *Service) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.storage.Users().Get(ctx, userID)
}
