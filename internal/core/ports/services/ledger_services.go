package services

import (
	"context"

	"github.com/SscSPs/utang_ledger/internal/core/domain"
	"github.com/SscSPs/utang_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// LedgerViewSvc exposes the cached debt lists.
type LedgerViewSvc interface {
	// LoadUnpaid replaces the cached unpaid list from storage. On failure the cache is left as it was.
	LoadUnpaid(ctx context.Context) ([]domain.Debt, error)

	// LoadPaid replaces the cached paid list from storage. On failure the cache is left as it was.
	LoadPaid(ctx context.Context) ([]domain.Debt, error)

	// Unpaid returns a copy of the cached unpaid list.
	Unpaid() []domain.Debt

	// Paid returns a copy of the cached paid list.
	Paid() []domain.Debt
}

// LedgerWriterSvc defines the debt and item mutations.
type LedgerWriterSvc interface {
	// CreateDebt stores a new unpaid debt and its items.
	CreateDebt(ctx context.Context, req dto.CreateDebtRequest, creatorUserID string) (*domain.Debt, error)

	// CompletePartialCreate stores the items left behind by a failed CreateDebt.
	CompletePartialCreate(ctx context.Context, pending domain.PendingItems) (*domain.Debt, error)

	// AddItem appends an item to an unpaid debt and refreshes the unpaid list.
	AddItem(ctx context.Context, debtID int64, req dto.ItemRequest) (*domain.Item, error)

	// UpdateItem patches an item of an unpaid debt. The cached lists are not refreshed.
	UpdateItem(ctx context.Context, itemID int64, req dto.ItemRequest) error

	// UpdateItemAndRecompute patches an item, then recomputes its debt's total.
	UpdateItemAndRecompute(ctx context.Context, itemID int64, req dto.ItemRequest) (*domain.Debt, error)

	// RepairTotal reruns recomputation for a debt and refreshes the unpaid list.
	RepairTotal(ctx context.Context, debtID int64) (*domain.Debt, error)
}

// LedgerStoreSvc combines the view and the mutations.
type LedgerStoreSvc interface {
	LedgerViewSvc
	LedgerWriterSvc
}

// DebtAggregatorSvc keeps a debt's total consistent with its items.
type DebtAggregatorSvc interface {
	// CreationTotal applies the configured creation rule.
	CreationTotal(items []domain.Item) decimal.Decimal

	// RecomputeTotal reads the debt's items, writes Σ amount × quantity and returns the new total.
	RecomputeTotal(ctx context.Context, debtID int64) (decimal.Decimal, error)
}

// LifecycleSvc drives the unpaid → paid transition.
type LifecycleSvc interface {
	// MarkPaid asks the confirmer, then marks the debt paid. Declining is a no-op.
	// The returned debt is nil when nothing changed because confirmation was declined.
	MarkPaid(ctx context.Context, debtID int64, confirmer Confirmer) (*domain.Debt, error)
}
