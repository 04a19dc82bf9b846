package repositories

import (
	"context"

	"github.com/SscSPs/utang_ledger/internal/core/domain"
)

// ItemReader defines read operations for debt items
type ItemReader interface {
	// FindItemByID retrieves a single item.
	FindItemByID(ctx context.Context, itemID int64) (*domain.Item, error)

	// FindItemsByDebtID retrieves all items of a debt ordered by id.
	FindItemsByDebtID(ctx context.Context, debtID int64) ([]domain.Item, error)
}

// ItemWriter defines write operations for debt items
type ItemWriter interface {
	// SaveItems inserts all items for a debt in one round-trip.
	SaveItems(ctx context.Context, debtID int64, items []domain.NewItem) ([]domain.Item, error)

	// SaveItem inserts one item for a debt.
	SaveItem(ctx context.Context, debtID int64, item domain.NewItem) (*domain.Item, error)

	// UpdateItem overwrites item_name, amount and quantity. Returns ErrNotFound for
	// unknown ids and ErrDebtPaid when the owning debt is paid.
	UpdateItem(ctx context.Context, itemID int64, patch domain.ItemPatch) error
}

// ItemRepositoryFacade combines all item-related repository interfaces
type ItemRepositoryFacade interface {
	ItemReader
	ItemWriter
}
