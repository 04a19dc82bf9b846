package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrItemNameRequired = errors.New("item name is required")
	ErrNegativeAmount   = errors.New("item amount must not be negative")
	ErrAmountPrecision  = errors.New("item amount must have at most two decimal places")
	ErrAmountTooLarge   = errors.New("item amount is too large")
	ErrInvalidQuantity  = errors.New("item quantity must be a positive integer")
)

// amountPlaces and maxAmount match the NUMERIC(14, 2) amount columns.
const amountPlaces = 2

var maxAmount = decimal.New(1, 12)

// Item is a single line of a debt.
type Item struct {
	ID       int64           `json:"id"`
	ItemName string          `json:"itemName"`
	Amount   decimal.Decimal `json:"amount"` // unit price
	Quantity int             `json:"quantity"`
	UtangID  int64           `json:"utangID"`
}

// LineTotal is Amount × Quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.Amount.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewItem is the caller-supplied part of an item, before storage assigns ids.
type NewItem struct {
	ItemName string          `json:"itemName" validate:"required,max=200"`
	Amount   decimal.Decimal `json:"amount"`
	Quantity int             `json:"quantity" validate:"gt=0"`
}

// Validate checks the item invariants that struct tags can't express.
func (n NewItem) Validate() error {
	if strings.TrimSpace(n.ItemName) == "" {
		return ErrItemNameRequired
	}
	if n.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if !n.Amount.Equal(n.Amount.Truncate(amountPlaces)) {
		return ErrAmountPrecision
	}
	if n.Amount.GreaterThanOrEqual(maxAmount) {
		return ErrAmountTooLarge
	}
	if n.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// ToItem attaches the item to a debt.
func (n NewItem) ToItem(debtID int64) Item {
	return Item{
		ItemName: strings.TrimSpace(n.ItemName),
		Amount:   n.Amount,
		Quantity: n.Quantity,
		UtangID:  debtID,
	}
}

// ItemPatch replaces the editable fields of an item.
type ItemPatch struct {
	ItemName string          `json:"itemName" validate:"required,max=200"`
	Amount   decimal.Decimal `json:"amount"`
	Quantity int             `json:"quantity" validate:"gt=0"`
}

// Validate applies the same rules as NewItem.
func (p ItemPatch) Validate() error {
	return NewItem(p).Validate()
}

// Apply returns item with the patch applied. Id and owner are preserved.
func (p ItemPatch) Apply(item Item) Item {
	item.ItemName = strings.TrimSpace(p.ItemName)
	item.Amount = p.Amount
	item.Quantity = p.Quantity
	return item
}
