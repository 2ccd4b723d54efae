package repository

import (
	"errors"
	"fmt"

	"libraryhub/internal/shared"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// mapError wraps err with op and attaches the shared error kind it represents
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, shared.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %w: %s", op, shared.ErrConflict, pgErr.Message)
		case pgUniqueViolation, pgCheckViolation:
			return fmt.Errorf("%s: %w: %s", op, shared.ErrValidationRejected, pgErr.Message)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
