package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/civicgrid/grievance-service/internal/auth"
	"github.com/civicgrid/grievance-service/internal/config"
	"github.com/civicgrid/grievance-service/internal/domain"
	"github.com/civicgrid/grievance-service/internal/repository"
	apperrors "github.com/civicgrid/grievance-service/pkg/util"
)

// RegisterInput is the registration payload. Role is deliberately absent:
// registration only ever creates citizens.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    *string
	Address  *string
}

// AuthService coordinates registration, login, and session issuance.
type AuthService struct {
	accounts   repository.AccountRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, accounts repository.AccountRepository) *AuthService {
	return &AuthService{
		accounts:   accounts,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTLHours),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new citizen account and a session token for it.
// A duplicate email rejects before anything is written.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.Account, string, time.Time, error) {
	if _, err := s.accounts.GetByEmail(ctx, input.Email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered")
	} else if err != pgx.ErrNoRows {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	account := &domain.Account{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         domain.RoleCitizen,
		Phone:        input.Phone,
		Address:      input.Address,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		// A concurrent registration can win the unique index after the
		// duplicate check passed.
		if apperrors.IsUniqueViolation(err) {
			return nil, "", time.Time{}, apperrors.NewConflict("email already registered")
		}
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(account)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return account, token, exp, nil
}

// Login authenticates an account. Unknown email and wrong password produce
// the same rejection so accounts cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Account, string, time.Time, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("Invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("Invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(account)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return account, token, exp, nil
}

// CurrentAccount returns the caller's own account.
func (s *AuthService) CurrentAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("account")
		}
		return nil, err
	}
	return account, nil
}

// EnsureAdmin provisions the configured administrator account at startup if
// it does not exist yet. This is the only path that creates an admin.
func (s *AuthService) EnsureAdmin(ctx context.Context, cfg config.AdminConfig, logger *zap.Logger) error {
	if cfg.Email == "" || cfg.Password == "" {
		return nil
	}
	if _, err := s.accounts.GetByEmail(ctx, cfg.Email); err == nil {
		return nil
	} else if err != pgx.ErrNoRows {
		return err
	}

	hash, err := auth.HashPassword(cfg.Password, s.bcryptCost)
	if err != nil {
		return err
	}
	account := &domain.Account{
		Name:         cfg.Name,
		Email:        cfg.Email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		// Another instance may have bootstrapped the same account.
		if apperrors.IsUniqueViolation(err) {
			return nil
		}
		return err
	}
	logger.Info("bootstrapped admin account", zap.String("email", cfg.Email))
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
