package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civicgrid/grievance-service/internal/domain"
)

// GrievanceFilter captures listing criteria. Nil fields mean no constraint;
// supplied criteria are conjoined.
type GrievanceFilter struct {
	OwnerID  *string
	Status   *domain.GrievanceStatus
	Category *domain.GrievanceCategory
}

// GrievanceChanges is a partial field set for updates. Only non-nil fields
// are written; updated_at is stamped server-side on every update.
type GrievanceChanges struct {
	Title       *string
	Description *string
	Category    *domain.GrievanceCategory
	Location    *string
	Status      *domain.GrievanceStatus
	Department  *string
	AdminNotes  *string
}

// Empty reports whether no field would change.
func (c GrievanceChanges) Empty() bool {
	return c.Title == nil && c.Description == nil && c.Category == nil &&
		c.Location == nil && c.Status == nil && c.Department == nil && c.AdminNotes == nil
}

// GrievanceRepository encapsulates grievance persistence.
type GrievanceRepository interface {
	Create(ctx context.Context, grievance *domain.Grievance) error
	GetByID(ctx context.Context, id string) (*domain.Grievance, error)
	List(ctx context.Context, filter GrievanceFilter) ([]domain.Grievance, error)
	Update(ctx context.Context, id string, changes GrievanceChanges) (*domain.Grievance, error)
	Delete(ctx context.Context, id string) (bool, error)
	Stats(ctx context.Context) (*domain.GrievanceStats, error)
}

type grievanceRepository struct {
	pool *pgxpool.Pool
}

// NewGrievanceRepository instantiates the repository.
func NewGrievanceRepository(pool *pgxpool.Pool) GrievanceRepository {
	return &grievanceRepository{pool: pool}
}

const grievanceColumns = `id, account_id, title, description, category, location, status, department, admin_notes, created_at, updated_at`

func (r *grievanceRepository) Create(ctx context.Context, grievance *domain.Grievance) error {
	const query = `
        INSERT INTO grievances (account_id, title, description, category, location, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		grievance.AccountID,
		grievance.Title,
		grievance.Description,
		grievance.Category,
		grievance.Location,
		grievance.Status,
	).Scan(&grievance.ID, &grievance.CreatedAt, &grievance.UpdatedAt)
}

func (r *grievanceRepository) GetByID(ctx context.Context, id string) (*domain.Grievance, error) {
	query := `SELECT ` + grievanceColumns + ` FROM grievances WHERE id=$1`

	var grievance domain.Grievance
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&grievance.ID,
		&grievance.AccountID,
		&grievance.Title,
		&grievance.Description,
		&grievance.Category,
		&grievance.Location,
		&grievance.Status,
		&grievance.Department,
		&grievance.AdminNotes,
		&grievance.CreatedAt,
		&grievance.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &grievance, nil
}

func (r *grievanceRepository) List(ctx context.Context, filter GrievanceFilter) ([]domain.Grievance, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("account_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}

	// Newest first; id tiebreak keeps ordering deterministic within a query.
	query := fmt.Sprintf(`SELECT %s FROM grievances WHERE %s ORDER BY created_at DESC, id`,
		grievanceColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGrievances(rows)
}

func (r *grievanceRepository) Update(ctx context.Context, id string, changes GrievanceChanges) (*domain.Grievance, error) {
	sets := []string{}
	args := []any{}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if changes.Title != nil {
		appendSet("title", *changes.Title)
	}
	if changes.Description != nil {
		appendSet("description", *changes.Description)
	}
	if changes.Category != nil {
		appendSet("category", *changes.Category)
	}
	if changes.Location != nil {
		appendSet("location", *changes.Location)
	}
	if changes.Status != nil {
		appendSet("status", *changes.Status)
	}
	if changes.Department != nil {
		appendSet("department", *changes.Department)
	}
	if changes.AdminNotes != nil {
		appendSet("admin_notes", *changes.AdminNotes)
	}
	sets = append(sets, "updated_at=NOW()")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE grievances SET %s WHERE id=$%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), grievanceColumns)

	var grievance domain.Grievance
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&grievance.ID,
		&grievance.AccountID,
		&grievance.Title,
		&grievance.Description,
		&grievance.Category,
		&grievance.Location,
		&grievance.Status,
		&grievance.Department,
		&grievance.AdminNotes,
		&grievance.CreatedAt,
		&grievance.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &grievance, nil
}

func (r *grievanceRepository) Delete(ctx context.Context, id string) (bool, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM grievances WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *grievanceRepository) Stats(ctx context.Context) (*domain.GrievanceStats, error) {
	stats := &domain.GrievanceStats{ByCategory: make(map[domain.GrievanceCategory]int64)}

	const statusQuery = `SELECT status, COUNT(*) FROM grievances GROUP BY status`
	rows, err := r.pool.Query(ctx, statusQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status domain.GrievanceStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.Total += count
		switch status {
		case domain.StatusPending:
			stats.Pending = count
		case domain.StatusInProgress:
			stats.InProgress = count
		case domain.StatusResolved:
			stats.Resolved = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const categoryQuery = `SELECT category, COUNT(*) FROM grievances GROUP BY category`
	catRows, err := r.pool.Query(ctx, categoryQuery)
	if err != nil {
		return nil, err
	}
	defer catRows.Close()
	for catRows.Next() {
		var category domain.GrievanceCategory
		var count int64
		if err := catRows.Scan(&category, &count); err != nil {
			return nil, err
		}
		stats.ByCategory[category] = count
	}
	return stats, catRows.Err()
}

func scanGrievances(rows pgx.Rows) ([]domain.Grievance, error) {
	var result []domain.Grievance
	for rows.Next() {
		var grievance domain.Grievance
		if err := rows.Scan(
			&grievance.ID,
			&grievance.AccountID,
			&grievance.Title,
			&grievance.Description,
			&grievance.Category,
			&grievance.Location,
			&grievance.Status,
			&grievance.Department,
			&grievance.AdminNotes,
			&grievance.CreatedAt,
			&grievance.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, grievance)
	}
	return result, rows.Err()
}
