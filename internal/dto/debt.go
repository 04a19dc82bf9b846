package dto

import (
	"time"

	"github.com/SscSPs/utang_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ItemRequest is an item as submitted by a client, used for create, add and update.
type ItemRequest struct {
	ItemName string          `json:"itemName" binding:"required,max=200" validate:"required,max=200"`
	Amount   decimal.Decimal `json:"amount"`
	Quantity int             `json:"quantity" binding:"required,gt=0" validate:"gt=0"`
}

// ToNewItem converts the request to a domain.NewItem.
func (r ItemRequest) ToNewItem() domain.NewItem {
	return domain.NewItem{ItemName: r.ItemName, Amount: r.Amount, Quantity: r.Quantity}
}

// ToPatch converts the request to a domain.ItemPatch.
func (r ItemRequest) ToPatch() domain.ItemPatch {
	return domain.ItemPatch{ItemName: r.ItemName, Amount: r.Amount, Quantity: r.Quantity}
}

// CreateDebtRequest defines the data needed to create a debt.
type CreateDebtRequest struct {
	Name  string        `json:"name" binding:"required,max=120" validate:"required,max=120"`
	Items []ItemRequest `json:"items" binding:"required,min=1,dive" validate:"required,min=1,dive"`
}

// NewItems converts the request items.
func (r CreateDebtRequest) NewItems() []domain.NewItem {
	items := make([]domain.NewItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = it.ToNewItem()
	}
	return items
}

// MarkPaidRequest carries the user's answer to the confirmation prompt.
type MarkPaidRequest struct {
	Confirm bool `json:"confirm"`
}

// ListDebtsParams defines query parameters for listing debts.
type ListDebtsParams struct {
	Status string `form:"status,default=unpaid" binding:"oneof=unpaid paid"`
}

// ItemResponse defines the data returned for an item.
type ItemResponse struct {
	ItemID    int64           `json:"itemID"`
	ItemName  string          `json:"itemName"`
	Amount    decimal.Decimal `json:"amount"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
	UtangID   int64           `json:"utangID"`
}

// DebtResponse defines the data returned for a debt.
type DebtResponse struct {
	DebtID       int64           `json:"debtID"`
	Name         string          `json:"name"`
	Status       string          `json:"status"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	DatePaid     *time.Time      `json:"datePaid,omitempty"`
	LastModified *time.Time      `json:"lastModified,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	Items        []ItemResponse  `json:"items"`
}

// ListDebtsResponse wraps a list of debts.
type ListDebtsResponse struct {
	Status string         `json:"status"`
	Stale  bool           `json:"stale"`
	Debts  []DebtResponse `json:"debts"`
}

// PartialCreateResponse is returned when the debt header was stored but its items were not.
type PartialCreateResponse struct {
	Error   string              `json:"error"`
	Pending domain.PendingItems `json:"pending"`
}

// ToItemResponse converts a domain.Item to ItemResponse DTO.
func ToItemResponse(item *domain.Item) ItemResponse {
	return ItemResponse{
		ItemID:    item.ID,
		ItemName:  item.ItemName,
		Amount:    item.Amount,
		Quantity:  item.Quantity,
		LineTotal: item.LineTotal(),
		UtangID:   item.UtangID,
	}
}

// ToDebtResponse converts a domain.Debt to DebtResponse DTO.
func ToDebtResponse(d *domain.Debt) DebtResponse {
	items := make([]ItemResponse, len(d.Items))
	for i := range d.Items {
		items[i] = ToItemResponse(&d.Items[i])
	}
	return DebtResponse{
		DebtID:       d.ID,
		Name:         d.Name,
		Status:       string(d.Status),
		TotalAmount:  d.TotalAmount,
		DatePaid:     d.DatePaid,
		LastModified: d.LastModified,
		CreatedAt:    d.CreatedAt,
		Items:        items,
	}
}

// ToDebtResponses converts a slice of domain.Debt.
func ToDebtResponses(debts []domain.Debt) []DebtResponse {
	responses := make([]DebtResponse, len(debts))
	for i := range debts {
		responses[i] = ToDebtResponse(&debts[i])
	}
	return responses
}

// MarkPaidResponse reports the outcome of a mark-paid request. Debt is nil
// when the client did not confirm.
type MarkPaidResponse struct {
	Confirmed bool          `json:"confirmed"`
	Prompt    string        `json:"prompt,omitempty"`
	Debt      *DebtResponse `json:"debt,omitempty"`
}
