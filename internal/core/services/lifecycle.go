package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/utang_ledger/internal/apperrors"
	"github.com/SscSPs/utang_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/utang_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/utang_ledger/internal/core/ports/services"
)

type lifecycleController struct {
	BaseService
	debtRepo portsrepo.DebtRepositoryFacade
	ledger   portssvc.LedgerViewSvc
	notifier portssvc.Notifier
	clock    domain.Clock
}

// NewLifecycleController creates the unpaid → paid controller. ledger is
// refreshed after every successful transition.
func NewLifecycleController(debtRepo portsrepo.DebtRepositoryFacade, ledger portssvc.LedgerViewSvc, notifier portssvc.Notifier, clock domain.Clock) portssvc.LifecycleSvc {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &lifecycleController{
		debtRepo: debtRepo,
		ledger:   ledger,
		notifier: notifier,
		clock:    clock,
	}
}

var _ portssvc.LifecycleSvc = (*lifecycleController)(nil)

func (c *lifecycleController) MarkPaid(ctx context.Context, debtID int64, confirmer portssvc.Confirmer) (*domain.Debt, error) {
	logger := c.GetLogger(ctx).With(slog.Int64("debt_id", debtID))

	if confirmer == nil {
		return nil, c.fail(ctx, debtID, fmt.Errorf("%w: no confirmer supplied", apperrors.ErrValidation))
	}

	debt, err := c.debtRepo.FindDebtByID(ctx, debtID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to load debt to mark paid", slog.String("error", err.Error()))
		}
		return nil, c.fail(ctx, debtID, err)
	}

	unpaid, paid := domain.Classify(*debt)
	if paid != nil {
		logger.Info("Debt already paid, nothing to do", slog.Time("date_paid", paid.DatePaid()))
		snapshot := paid.Snapshot()
		return &snapshot, nil
	}

	confirmed, err := confirmer.Confirm(ctx, fmt.Sprintf("Mark %q as paid? This cannot be undone.", debt.Name))
	if err != nil {
		logger.Error("Confirmation failed", slog.String("error", err.Error()))
		return nil, c.fail(ctx, debtID, err)
	}
	if !confirmed {
		logger.Info("Mark paid declined")
		return nil, nil
	}

	now := c.clock.Now()
	changed, err := c.debtRepo.MarkDebtPaid(ctx, debtID, now)
	if err != nil {
		logger.Error("Failed to mark debt paid", slog.String("error", err.Error()))
		return nil, c.fail(ctx, debtID, err)
	}

	var result domain.Debt
	if changed {
		result = unpaid.MarkPaid(now).Snapshot()
		logger.Info("Debt marked paid", slog.Time("date_paid", now))
	} else {
		// Someone else paid it between our read and the conditional update;
		// report the stored state so DatePaid is the original one.
		stored, err := c.debtRepo.FindDebtByID(ctx, debtID)
		if err != nil {
			return nil, c.fail(ctx, debtID, err)
		}
		result = *stored
		logger.Info("Debt was paid concurrently, keeping the stored date")
	}

	if _, err := c.ledger.LoadUnpaid(ctx); err != nil {
		logger.Warn("Unpaid list refresh failed after mark paid", slog.String("error", err.Error()))
	}
	if _, err := c.ledger.LoadPaid(ctx); err != nil {
		logger.Warn("Paid list refresh failed after mark paid", slog.String("error", err.Error()))
	}

	if c.notifier != nil {
		c.notifier.Notify(ctx, "Paid", fmt.Sprintf("%q is now marked as paid.", result.Name), portssvc.NoticeSuccess)
	}
	return &result, nil
}

// fail wraps err as a LifecycleError and surfaces it to the user.
func (c *lifecycleController) fail(ctx context.Context, debtID int64, err error) error {
	le := apperrors.NewLedgerError(apperrors.KindLifecycle, debtID, 0, err)
	if c.notifier != nil {
		c.notifier.Notify(ctx, "Could not mark as paid", le.Error(), portssvc.NoticeError)
	}
	return le
}
