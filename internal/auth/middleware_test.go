package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/civicgrid/grievance-service/internal/domain"
	apperrors "github.com/civicgrid/grievance-service/pkg/util"
)

type stubAccountRepo struct {
	accounts map[string]*domain.Account
	getCalls int
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) error {
	r.accounts[account.ID] = account
	return nil
}

func (r *stubAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.getCalls++
	account, ok := r.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *account
	return &clone, nil
}

func (r *stubAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, account := range r.accounts {
		if account.Email == email {
			clone := *account
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func newMiddlewareTestApp(m *AuthMiddleware) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		if err != nil {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": de.Message})
		}
		return nil
	})
	app.Get("/protected", m.Handle, func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewInternalError(nil)
		}
		return c.JSON(fiber.Map{"id": principal.Account.ID, "role": principal.Role})
	})
	return app
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	repo := newStubAccountRepo()
	tm := NewTokenManager("secret", 168)
	app := newMiddlewareTestApp(NewAuthMiddleware(tm, repo))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if repo.getCalls != 0 {
		t.Fatalf("expected no repository call, got %d", repo.getCalls)
	}
}

func TestAuthMiddleware_InvalidScheme(t *testing.T) {
	repo := newStubAccountRepo()
	tm := NewTokenManager("secret", 168)
	app := newMiddlewareTestApp(NewAuthMiddleware(tm, repo))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if repo.getCalls != 0 {
		t.Fatalf("expected no repository call, got %d", repo.getCalls)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	repo := newStubAccountRepo()
	tm := NewTokenManager("secret", 168)
	app := newMiddlewareTestApp(NewAuthMiddleware(tm, repo))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if repo.getCalls != 0 {
		t.Fatalf("expected no repository call, got %d", repo.getCalls)
	}
}

func TestAuthMiddleware_ValidTokenLoadsPrincipal(t *testing.T) {
	repo := newStubAccountRepo()
	account := &domain.Account{ID: "acc-1", Email: "alice@example.com", Role: domain.RoleCitizen}
	repo.accounts[account.ID] = account

	tm := NewTokenManager("secret", 168)
	token, _, err := tm.GenerateToken(account)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	app := newMiddlewareTestApp(NewAuthMiddleware(tm, repo))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if repo.getCalls != 1 {
		t.Fatalf("expected one repository call, got %d", repo.getCalls)
	}
}

func TestAuthMiddleware_DeletedAccountRejected(t *testing.T) {
	repo := newStubAccountRepo()
	account := &domain.Account{ID: "acc-gone", Email: "gone@example.com", Role: domain.RoleCitizen}

	tm := NewTokenManager("secret", 168)
	token, _, err := tm.GenerateToken(account)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	app := newMiddlewareTestApp(NewAuthMiddleware(tm, repo))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}
