package pgsql

import (
	portsrepo "github.com/SscSPs/utang_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	itemRepo := newPgxItemRepository(dbPool)
	debtRepo := newPgxDebtRepository(dbPool, itemRepo)
	userRepo := newPgxUserRepository(dbPool)

	return portsrepo.RepositoryProvider{
		DebtRepo: debtRepo,
		ItemRepo: itemRepo,
		UserRepo: userRepo,
	}
}
