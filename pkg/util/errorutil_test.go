package util

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestToDomainError_PassesDomainErrorThrough(t *testing.T) {
	original := NewForbidden("access denied")
	mapped := ToDomainError(fmt.Errorf("wrapped: %w", original))
	if mapped.HTTPStatus != 403 || mapped.Message != "access denied" {
		t.Fatalf("domain error not passed through: %+v", mapped)
	}
}

func TestToDomainError_NoRowsBecomesNotFound(t *testing.T) {
	mapped := ToDomainError(fmt.Errorf("query: %w", pgx.ErrNoRows))
	if mapped.HTTPStatus != 404 {
		t.Fatalf("expected 404, got %d", mapped.HTTPStatus)
	}
}

func TestToDomainError_UniqueViolationBecomesConflict(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "accounts_email_key"}
	mapped := ToDomainError(fmt.Errorf("insert: %w", pgErr))
	if mapped.HTTPStatus != 400 || mapped.Code != "CONFLICT" {
		t.Fatalf("unique violation not mapped to conflict: %+v", mapped)
	}
}

func TestToDomainError_UnknownBecomesOpaque500(t *testing.T) {
	mapped := ToDomainError(errors.New("disk on fire"))
	if mapped.HTTPStatus != 500 {
		t.Fatalf("expected 500, got %d", mapped.HTTPStatus)
	}
	if mapped.Message != "internal server error" {
		t.Fatalf("internal detail leaked: %q", mapped.Message)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !IsUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatalf("expected unique violation to be detected")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatalf("foreign key violation is not a unique violation")
	}
	if IsUniqueViolation(errors.New("plain")) {
		t.Fatalf("plain error is not a unique violation")
	}
}
