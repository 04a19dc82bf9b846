package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// DebtStatus mirrors the CHECK constraint on utangs.status.
type DebtStatus string

const (
	DebtUnpaid DebtStatus = "unpaid"
	DebtPaid   DebtStatus = "paid"
)

// Debt is a row of the utangs table.
type Debt struct {
	ID              int64           `db:"id"`
	Name            string          `db:"name"`
	Status          DebtStatus      `db:"status"`
	TotalAmount     decimal.Decimal `db:"total_amount"`
	DatePaid        sql.NullTime    `db:"date_paid"`
	LastTimeUtanged sql.NullTime    `db:"last_time_utanged"`
	CreatedBy       sql.NullString  `db:"created_by"`
	CreatedAt       time.Time       `db:"created_at"`
}

// Item is a row of the utang_items table.
type Item struct {
	ID       int64           `db:"id"`
	ItemName string          `db:"item_name"`
	Amount   decimal.Decimal `db:"amount"`
	Quantity int             `db:"quantity"`
	UtangID  int64           `db:"utang_id"`
}
