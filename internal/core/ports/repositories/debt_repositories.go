package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/utang_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DebtReader defines read operations for debt data
type DebtReader interface {
	// FindDebtsByStatus retrieves every debt with the given status, items nested, ordered by id.
	FindDebtsByStatus(ctx context.Context, status domain.DebtStatus) ([]domain.Debt, error)

	// FindDebtByID retrieves a single debt with its items.
	FindDebtByID(ctx context.Context, debtID int64) (*domain.Debt, error)
}

// DebtWriter defines write operations for debt data
type DebtWriter interface {
	// SaveDebt inserts the debt header (items are ignored) and returns the storage-assigned id.
	SaveDebt(ctx context.Context, debt domain.Debt) (int64, error)

	// UpdateDebtTotal writes a recomputed total and its modification time.
	// Only unpaid debts are written; a paid debt yields ErrDebtPaid.
	UpdateDebtTotal(ctx context.Context, debtID int64, total decimal.Decimal, lastModified time.Time) error

	// MarkDebtPaid moves an unpaid debt to paid in a single update.
	// It reports false without error when no unpaid debt with that id exists.
	MarkDebtPaid(ctx context.Context, debtID int64, datePaid time.Time) (bool, error)
}

// DebtRepositoryFacade combines all debt-related repository interfaces
type DebtRepositoryFacade interface {
	DebtReader
	DebtWriter
}
