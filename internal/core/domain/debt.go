package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtStatus is the lifecycle state of a debt.
type DebtStatus string

const (
	Unpaid DebtStatus = "unpaid"
	Paid   DebtStatus = "paid"
)

// Debt (an "utang") is a named set of items owed, with a derived total.
type Debt struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Status       DebtStatus      `json:"status"`
	TotalAmount  decimal.Decimal `json:"totalAmount"` // derived from Items, see DebtAggregator
	DatePaid     *time.Time      `json:"datePaid,omitempty"`
	LastModified *time.Time      `json:"lastModified,omitempty"`
	CreatedBy    *string         `json:"createdBy,omitempty"` // session user that created the debt, if any
	CreatedAt    time.Time       `json:"createdAt"`
	Items        []Item          `json:"items"`
}

// IsPaid reports whether the debt has reached its terminal state.
func (d Debt) IsPaid() bool {
	return d.Status == Paid
}

// Clone returns a deep copy so callers can't alias cached state.
func (d Debt) Clone() Debt {
	c := d
	if d.Items != nil {
		c.Items = make([]Item, len(d.Items))
		copy(c.Items, d.Items)
	}
	if d.DatePaid != nil {
		t := *d.DatePaid
		c.DatePaid = &t
	}
	if d.LastModified != nil {
		t := *d.LastModified
		c.LastModified = &t
	}
	if d.CreatedBy != nil {
		s := *d.CreatedBy
		c.CreatedBy = &s
	}
	return c
}

// PendingItems records the items of a create that stopped after the debt
// header was stored. It is the input to the create-repair operation.
type PendingItems struct {
	DebtID int64     `json:"debtID"`
	Items  []NewItem `json:"items"`
}
