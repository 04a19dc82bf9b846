package mapping

import (
	"database/sql"
	"time"

	"github.com/SscSPs/utang_ledger/internal/core/domain"
	"github.com/SscSPs/utang_ledger/internal/models"
)

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// ToModelDebt converts a domain Debt to a model Debt. Items are not part of the row.
func ToModelDebt(d domain.Debt) models.Debt {
	return models.Debt{
		ID:              d.ID,
		Name:            d.Name,
		Status:          models.DebtStatus(d.Status),
		TotalAmount:     d.TotalAmount,
		DatePaid:        nullTime(d.DatePaid),
		LastTimeUtanged: nullTime(d.LastModified),
		CreatedBy:       nullString(d.CreatedBy),
		CreatedAt:       d.CreatedAt,
	}
}

// ToDomainDebt converts a model Debt to a domain Debt with the given items.
func ToDomainDebt(m models.Debt, items []domain.Item) domain.Debt {
	if items == nil {
		items = []domain.Item{}
	}
	return domain.Debt{
		ID:           m.ID,
		Name:         m.Name,
		Status:       domain.DebtStatus(m.Status),
		TotalAmount:  m.TotalAmount,
		DatePaid:     timePtr(m.DatePaid),
		LastModified: timePtr(m.LastTimeUtanged),
		CreatedBy:    stringPtr(m.CreatedBy),
		CreatedAt:    m.CreatedAt,
		Items:        items,
	}
}

// ToDomainItem converts a model Item to a domain Item
func ToDomainItem(m models.Item) domain.Item {
	return domain.Item{
		ID:       m.ID,
		ItemName: m.ItemName,
		Amount:   m.Amount,
		Quantity: m.Quantity,
		UtangID:  m.UtangID,
	}
}

// ToDomainItemSlice converts a slice of model Items to a slice of domain Items
func ToDomainItemSlice(ms []models.Item) []domain.Item {
	ds := make([]domain.Item, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainItem(m)
	}
	return ds
}

// ToModelItem builds the row for a new item of debtID.
func ToModelItem(debtID int64, n domain.NewItem) models.Item {
	item := n.ToItem(debtID)
	return models.Item{
		ItemName: item.ItemName,
		Amount:   item.Amount,
		Quantity: item.Quantity,
		UtangID:  debtID,
	}
}
