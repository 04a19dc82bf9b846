package domain

import (
	"errors"
	"time"

	"github.com/SscSPs/utang_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// ErrDebtPaid is returned when a mutation is attempted on a paid debt.
var ErrDebtPaid = apperrors.ErrDebtPaid

// ErrItemNotInDebt is returned by UnpaidDebt.PatchItem for a foreign item id.
var ErrItemNotInDebt = errors.New("item does not belong to debt")

// UnpaidDebt is the mutable variant of a Debt. All item changes and the paid
// transition are only reachable through it.
type UnpaidDebt struct {
	debt Debt
}

// PaidDebt is a frozen snapshot of a debt that has been paid.
type PaidDebt struct {
	debt Debt
}

// Classify returns the variant for d. Exactly one of the results is non-nil.
func Classify(d Debt) (*UnpaidDebt, *PaidDebt) {
	if d.IsPaid() {
		return nil, &PaidDebt{debt: d.Clone()}
	}
	return &UnpaidDebt{debt: d.Clone()}, nil
}

// AsUnpaid returns the mutable variant or ErrDebtPaid.
func AsUnpaid(d Debt) (*UnpaidDebt, error) {
	unpaid, _ := Classify(d)
	if unpaid == nil {
		return nil, ErrDebtPaid
	}
	return unpaid, nil
}

// Snapshot returns a copy of the current state.
func (u *UnpaidDebt) Snapshot() Debt { return u.debt.Clone() }

// AppendItem adds a new item to the debt after validating it.
func (u *UnpaidDebt) AppendItem(n NewItem) (Item, error) {
	if err := n.Validate(); err != nil {
		return Item{}, err
	}
	item := n.ToItem(u.debt.ID)
	u.debt.Items = append(u.debt.Items, item)
	return item, nil
}

// PatchItem replaces the editable fields of one of the debt's items.
func (u *UnpaidDebt) PatchItem(itemID int64, patch ItemPatch) (Item, error) {
	if err := patch.Validate(); err != nil {
		return Item{}, err
	}
	for i, it := range u.debt.Items {
		if it.ID == itemID {
			u.debt.Items[i] = patch.Apply(it)
			return u.debt.Items[i], nil
		}
	}
	return Item{}, ErrItemNotInDebt
}

// Retotal sets the total from the current items and stamps LastModified.
func (u *UnpaidDebt) Retotal(at time.Time) decimal.Decimal {
	u.debt.TotalAmount = SumExtended(u.debt.Items)
	u.debt.LastModified = &at
	return u.debt.TotalAmount
}

// MarkPaid performs the one-way transition. The receiver must not be used
// afterwards.
func (u *UnpaidDebt) MarkPaid(at time.Time) *PaidDebt {
	d := u.debt.Clone()
	d.Status = Paid
	d.DatePaid = &at
	return &PaidDebt{debt: d}
}

// Snapshot returns a copy of the frozen state.
func (p *PaidDebt) Snapshot() Debt { return p.debt.Clone() }

// DatePaid returns when the debt was paid. The zero time means the stored
// record predates date tracking.
func (p *PaidDebt) DatePaid() time.Time {
	if p.debt.DatePaid == nil {
		return time.Time{}
	}
	return *p.debt.DatePaid
}
