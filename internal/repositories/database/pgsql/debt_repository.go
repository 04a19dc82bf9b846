package pgsql

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/utang_ledger/internal/apperrors"
	"github.com/SscSPs/utang_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/utang_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/utang_ledger/internal/models"
	"github.com/SscSPs/utang_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxDebtRepository implements the debt ports on the utangs table.
type PgxDebtRepository struct {
	BaseRepository
	items *PgxItemRepository
}

func newPgxDebtRepository(pool *pgxpool.Pool, items *PgxItemRepository) *PgxDebtRepository {
	return &PgxDebtRepository{BaseRepository: BaseRepository{Pool: pool}, items: items}
}

var _ portsrepo.DebtRepositoryFacade = (*PgxDebtRepository)(nil)

const debtColumns = `id, name, status, total_amount, date_paid, last_time_utanged, created_by, created_at`

func scanDebt(row pgx.Row) (models.Debt, error) {
	var m models.Debt
	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Status,
		&m.TotalAmount,
		&m.DatePaid,
		&m.LastTimeUtanged,
		&m.CreatedBy,
		&m.CreatedAt,
	)
	return m, err
}

// FindDebtsByStatus loads the debts, then all of their items in one query.
func (r *PgxDebtRepository) FindDebtsByStatus(ctx context.Context, status domain.DebtStatus) ([]domain.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM utangs WHERE status = $1 ORDER BY id;`
	rows, err := r.Pool.Query(ctx, query, string(status))
	if err != nil {
		return nil, translateError(err, "failed to query debts")
	}
	defer rows.Close()

	var modelDebts []models.Debt
	for rows.Next() {
		m, err := scanDebt(rows)
		if err != nil {
			return nil, translateError(err, "failed to scan debt row")
		}
		modelDebts = append(modelDebts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "error iterating debt rows")
	}

	debts := make([]domain.Debt, 0, len(modelDebts))
	if len(modelDebts) == 0 {
		return debts, nil
	}

	ids := make([]int64, len(modelDebts))
	for i, m := range modelDebts {
		ids[i] = m.ID
	}
	itemsByDebt, err := r.items.findItemsByDebtIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, m := range modelDebts {
		debts = append(debts, mapping.ToDomainDebt(m, itemsByDebt[m.ID]))
	}
	return debts, nil
}

func (r *PgxDebtRepository) FindDebtByID(ctx context.Context, debtID int64) (*domain.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM utangs WHERE id = $1;`
	m, err := scanDebt(r.Pool.QueryRow(ctx, query, debtID))
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("failed to find debt %d", debtID))
	}

	items, err := r.items.FindItemsByDebtID(ctx, debtID)
	if err != nil {
		return nil, err
	}
	debt := mapping.ToDomainDebt(m, items)
	return &debt, nil
}

func (r *PgxDebtRepository) SaveDebt(ctx context.Context, debt domain.Debt) (int64, error) {
	m := mapping.ToModelDebt(debt)
	if m.Status == "" {
		m.Status = models.DebtUnpaid
	}
	query := `
		INSERT INTO utangs (name, status, total_amount, date_paid, last_time_utanged, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id;
	`
	var id int64
	err := r.Pool.QueryRow(ctx, query,
		m.Name,
		m.Status,
		m.TotalAmount,
		m.DatePaid,
		m.LastTimeUtanged,
		m.CreatedBy,
		m.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, translateError(err, "failed to insert debt")
	}
	return id, nil
}

func (r *PgxDebtRepository) UpdateDebtTotal(ctx context.Context, debtID int64, total decimal.Decimal, lastModified time.Time) error {
	query := `UPDATE utangs SET total_amount = $1, last_time_utanged = $2 WHERE id = $3 AND status = 'unpaid';`
	cmdTag, err := r.Pool.Exec(ctx, query, total, lastModified, debtID)
	if err != nil {
		return translateError(err, fmt.Sprintf("failed to update total of debt %d", debtID))
	}
	if cmdTag.RowsAffected() == 0 {
		return r.unchangedDebtError(ctx, debtID)
	}
	return nil
}

// unchangedDebtError explains a conditional write that matched no unpaid row.
func (r *PgxDebtRepository) unchangedDebtError(ctx context.Context, debtID int64) error {
	var status string
	err := r.Pool.QueryRow(ctx, `SELECT status FROM utangs WHERE id = $1;`, debtID).Scan(&status)
	if err != nil {
		return translateError(err, fmt.Sprintf("debt %d not found", debtID))
	}
	return apperrors.NewAppError(http.StatusConflict, fmt.Sprintf("debt %d is %s", debtID, status), apperrors.ErrDebtPaid)
}

// MarkDebtPaid only touches unpaid rows, so date_paid is written at most once.
func (r *PgxDebtRepository) MarkDebtPaid(ctx context.Context, debtID int64, datePaid time.Time) (bool, error) {
	query := `UPDATE utangs SET status = 'paid', date_paid = $1 WHERE id = $2 AND status = 'unpaid';`
	cmdTag, err := r.Pool.Exec(ctx, query, datePaid, debtID)
	if err != nil {
		return false, translateError(err, fmt.Sprintf("failed to mark debt %d paid", debtID))
	}
	return cmdTag.RowsAffected() == 1, nil
}
