package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/utang_ledger/internal/apperrors"
	"github.com/SscSPs/utang_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/utang_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/utang_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// debtAggregator owns every write to a debt's total.
type debtAggregator struct {
	BaseService
	debtRepo portsrepo.DebtRepositoryFacade
	itemRepo portsrepo.ItemReader
	rule     domain.TotalRule
	clock    domain.Clock
}

// NewDebtAggregator creates the aggregator. rule only affects CreationTotal;
// recomputation always uses Σ amount × quantity.
func NewDebtAggregator(debtRepo portsrepo.DebtRepositoryFacade, itemRepo portsrepo.ItemReader, rule domain.TotalRule, clock domain.Clock) portssvc.DebtAggregatorSvc {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	if rule == "" {
		rule = domain.RuleAmount
	}
	return &debtAggregator{
		debtRepo: debtRepo,
		itemRepo: itemRepo,
		rule:     rule,
		clock:    clock,
	}
}

var _ portssvc.DebtAggregatorSvc = (*debtAggregator)(nil)

func (a *debtAggregator) CreationTotal(items []domain.Item) decimal.Decimal {
	return a.rule.Total(items)
}

func (a *debtAggregator) RecomputeTotal(ctx context.Context, debtID int64) (decimal.Decimal, error) {
	debt, err := a.debtRepo.FindDebtByID(ctx, debtID)
	if err != nil {
		a.LogError(ctx, err, "Failed to load debt for recompute", slog.Int64("debt_id", debtID))
		return decimal.Zero, apperrors.NewLedgerError(apperrors.KindRecompute, debtID, 0, err)
	}
	if debt.IsPaid() {
		a.LogWarn(ctx, "Refusing to recompute a paid debt", slog.Int64("debt_id", debtID))
		return decimal.Zero, apperrors.NewLedgerError(apperrors.KindRecompute, debtID, 0, domain.ErrDebtPaid)
	}

	items, err := a.itemRepo.FindItemsByDebtID(ctx, debtID)
	if err != nil {
		a.LogError(ctx, err, "Failed to load items for recompute", slog.Int64("debt_id", debtID))
		return decimal.Zero, apperrors.NewLedgerError(apperrors.KindRecompute, debtID, 0, err)
	}
	debt.Items = items
	unpaid, err := domain.AsUnpaid(*debt)
	if err != nil {
		return decimal.Zero, apperrors.NewLedgerError(apperrors.KindRecompute, debtID, 0, err)
	}

	now := a.clock.Now()
	total := unpaid.Retotal(now)
	// The write is conditional on the debt still being unpaid.
	if err := a.debtRepo.UpdateDebtTotal(ctx, debtID, total, now); err != nil {
		if errors.Is(err, apperrors.ErrDebtPaid) {
			a.LogWarn(ctx, "Debt was paid during recompute, total left frozen", slog.Int64("debt_id", debtID))
		} else {
			a.LogError(ctx, err, "Failed to write recomputed total", slog.Int64("debt_id", debtID))
		}
		return decimal.Zero, apperrors.NewLedgerError(apperrors.KindRecompute, debtID, 0, err)
	}

	a.LogInfo(ctx, "Recomputed debt total",
		slog.Int64("debt_id", debtID),
		slog.String("total", total.String()),
		slog.Int("items", len(items)))
	return total, nil
}
