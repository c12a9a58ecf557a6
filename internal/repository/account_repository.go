package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civicgrid/grievance-service/internal/domain"
)

// AccountRepository defines persistence access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (name, email, password_hash, role, phone, address)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		account.Name,
		account.Email,
		account.PasswordHash,
		account.Role,
		account.Phone,
		account.Address,
	).Scan(&account.ID, &account.CreatedAt)
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	const query = `
        SELECT id, name, email, password_hash, role, phone, address, created_at
        FROM accounts WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const query = `
        SELECT id, name, email, password_hash, role, phone, address, created_at
        FROM accounts WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *accountRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var account domain.Account
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PasswordHash,
		&account.Role,
		&account.Phone,
		&account.Address,
		&account.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}
