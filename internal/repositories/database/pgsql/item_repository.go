package pgsql

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SscSPs/utang_ledger/internal/apperrors"
	"github.com/SscSPs/utang_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/utang_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/utang_ledger/internal/models"
	"github.com/SscSPs/utang_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxItemRepository implements the item ports on the utang_items table.
type PgxItemRepository struct {
	BaseRepository
}

func newPgxItemRepository(pool *pgxpool.Pool) *PgxItemRepository {
	return &PgxItemRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ItemRepositoryFacade = (*PgxItemRepository)(nil)

const itemColumns = `id, item_name, amount, quantity, utang_id`

func scanItem(row pgx.Row) (models.Item, error) {
	var m models.Item
	err := row.Scan(&m.ID, &m.ItemName, &m.Amount, &m.Quantity, &m.UtangID)
	return m, err
}

func collectItems(rows pgx.Rows) ([]models.Item, error) {
	defer rows.Close()
	var items []models.Item
	for rows.Next() {
		m, err := scanItem(rows)
		if err != nil {
			return nil, translateError(err, "failed to scan item row")
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "error iterating item rows")
	}
	return items, nil
}

func (r *PgxItemRepository) FindItemByID(ctx context.Context, itemID int64) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM utang_items WHERE id = $1;`
	m, err := scanItem(r.Pool.QueryRow(ctx, query, itemID))
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("failed to find item %d", itemID))
	}
	item := mapping.ToDomainItem(m)
	return &item, nil
}

func (r *PgxItemRepository) FindItemsByDebtID(ctx context.Context, debtID int64) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM utang_items WHERE utang_id = $1 ORDER BY id;`
	rows, err := r.Pool.Query(ctx, query, debtID)
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("failed to query items of debt %d", debtID))
	}
	items, err := collectItems(rows)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainItemSlice(items), nil
}

// findItemsByDebtIDs groups the items of several debts by debt id.
func (r *PgxItemRepository) findItemsByDebtIDs(ctx context.Context, debtIDs []int64) (map[int64][]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM utang_items WHERE utang_id = ANY($1) ORDER BY id;`
	rows, err := r.Pool.Query(ctx, query, debtIDs)
	if err != nil {
		return nil, translateError(err, "failed to query items")
	}
	items, err := collectItems(rows)
	if err != nil {
		return nil, err
	}

	grouped := make(map[int64][]domain.Item, len(debtIDs))
	for _, m := range items {
		grouped[m.UtangID] = append(grouped[m.UtangID], mapping.ToDomainItem(m))
	}
	return grouped, nil
}

// SaveItems inserts all items in one transaction using a single batch round-trip.
func (r *PgxItemRepository) SaveItems(ctx context.Context, debtID int64, items []domain.NewItem) ([]domain.Item, error) {
	if len(items) == 0 {
		return []domain.Item{}, nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	query := `INSERT INTO utang_items (item_name, amount, quantity, utang_id) VALUES ($1, $2, $3, $4) RETURNING id, amount;`
	batch := &pgx.Batch{}
	rowsToSave := make([]models.Item, len(items))
	for i, n := range items {
		m := mapping.ToModelItem(debtID, n)
		rowsToSave[i] = m
		batch.Queue(query, m.ItemName, m.Amount, m.Quantity, m.UtangID)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range rowsToSave {
		if err := br.QueryRow().Scan(&rowsToSave[i].ID, &rowsToSave[i].Amount); err != nil {
			_ = br.Close()
			return nil, translateError(err, fmt.Sprintf("failed to insert item %d of debt %d", i, debtID))
		}
	}
	if err := br.Close(); err != nil {
		return nil, translateError(err, fmt.Sprintf("failed to execute item batch for debt %d", debtID))
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return mapping.ToDomainItemSlice(rowsToSave), nil
}

func (r *PgxItemRepository) SaveItem(ctx context.Context, debtID int64, item domain.NewItem) (*domain.Item, error) {
	m := mapping.ToModelItem(debtID, item)
	query := `INSERT INTO utang_items (item_name, amount, quantity, utang_id) VALUES ($1, $2, $3, $4) RETURNING id, amount;`
	if err := r.Pool.QueryRow(ctx, query, m.ItemName, m.Amount, m.Quantity, m.UtangID).Scan(&m.ID, &m.Amount); err != nil {
		return nil, translateError(err, fmt.Sprintf("failed to insert item for debt %d", debtID))
	}
	saved := mapping.ToDomainItem(m)
	return &saved, nil
}

func (r *PgxItemRepository) UpdateItem(ctx context.Context, itemID int64, patch domain.ItemPatch) error {
	query := `
		UPDATE utang_items i
		SET item_name = $1, amount = $2, quantity = $3
		FROM utangs u
		WHERE i.id = $4 AND u.id = i.utang_id AND u.status = 'unpaid';
	`
	patched := patch.Apply(domain.Item{})
	cmdTag, err := r.Pool.Exec(ctx, query, patched.ItemName, patched.Amount, patched.Quantity, itemID)
	if err != nil {
		return translateError(err, fmt.Sprintf("failed to update item %d", itemID))
	}
	if cmdTag.RowsAffected() == 0 {
		var debtID int64
		err := r.Pool.QueryRow(ctx, `SELECT utang_id FROM utang_items WHERE id = $1;`, itemID).Scan(&debtID)
		if err != nil {
			return translateError(err, fmt.Sprintf("item %d not found", itemID))
		}
		return apperrors.NewAppError(http.StatusConflict, fmt.Sprintf("item %d belongs to paid debt %d", itemID, debtID), apperrors.ErrDebtPaid)
	}
	return nil
}
