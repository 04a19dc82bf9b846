package pgsql

import (
	"context"
	"errors"
	"net/http"

	"github.com/SscSPs/utang_ledger/internal/apperrors"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to rollback transaction", err)
	}
	return nil
}

// translateError maps driver errors onto the application sentinels and
// wraps everything else with msg.
func translateError(err error, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewAppError(http.StatusNotFound, msg, apperrors.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return apperrors.NewAppError(http.StatusConflict, msg, apperrors.ErrDuplicate)
		case pgerrcode.ForeignKeyViolation:
			return apperrors.NewAppError(http.StatusNotFound, msg, apperrors.ErrNotFound)
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation, pgerrcode.NumericValueOutOfRange:
			return apperrors.NewAppError(http.StatusBadRequest, msg, apperrors.ErrValidation)
		}
	}
	return apperrors.NewAppError(http.StatusInternalServerError, msg, err)
}
