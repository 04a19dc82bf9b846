// Package memory implements the repository ports in process memory. It backs
// STORAGE_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/utang_ledger/internal/apperrors"
	"github.com/SscSPs/utang_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/utang_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// Store keeps debts, items and users behind one lock, so every call sees a
// consistent snapshot the way a single database would.
type Store struct {
	mu sync.RWMutex

	debts      map[int64]*domain.Debt // Items is always nil here; see items
	items      map[int64]*domain.Item
	users      map[string]*domain.User
	lastDebtID int64
	lastItemID int64
}

// New returns an empty store.
func New() *Store {
	return &Store{
		debts: make(map[int64]*domain.Debt),
		items: make(map[int64]*domain.Item),
		users: make(map[string]*domain.User),
	}
}

// NewRepositoryProvider wires a Store into every repository slot.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		DebtRepo: s,
		ItemRepo: s,
		UserRepo: s,
	}
}

var (
	_ portsrepo.DebtRepositoryFacade = (*Store)(nil)
	_ portsrepo.ItemRepositoryFacade = (*Store)(nil)
	_ portsrepo.UserRepositoryFacade = (*Store)(nil)
)

// --- debts ---

func (s *Store) FindDebtsByStatus(ctx context.Context, status domain.DebtStatus) ([]domain.Debt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	debts := make([]domain.Debt, 0)
	for _, d := range s.debts {
		if d.Status == status {
			debts = append(debts, s.withItems(d))
		}
	}
	sort.Slice(debts, func(i, j int) bool { return debts[i].ID < debts[j].ID })
	return debts, nil
}

func (s *Store) FindDebtByID(ctx context.Context, debtID int64) (*domain.Debt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.debts[debtID]
	if !ok {
		return nil, fmt.Errorf("debt %d: %w", debtID, apperrors.ErrNotFound)
	}
	debt := s.withItems(d)
	return &debt, nil
}

// withItems must be called with mu held.
func (s *Store) withItems(d *domain.Debt) domain.Debt {
	debt := d.Clone()
	debt.Items = s.itemsOf(d.ID)
	return debt
}

// itemsOf must be called with mu held.
func (s *Store) itemsOf(debtID int64) []domain.Item {
	items := make([]domain.Item, 0)
	for _, it := range s.items {
		if it.UtangID == debtID {
			items = append(items, *it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

func (s *Store) SaveDebt(ctx context.Context, debt domain.Debt) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastDebtID++
	stored := debt.Clone()
	stored.ID = s.lastDebtID
	stored.Items = nil
	if stored.Status == "" {
		stored.Status = domain.Unpaid
	}
	s.debts[stored.ID] = &stored
	return stored.ID, nil
}

func (s *Store) UpdateDebtTotal(ctx context.Context, debtID int64, total decimal.Decimal, lastModified time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.debts[debtID]
	if !ok {
		return fmt.Errorf("debt %d: %w", debtID, apperrors.ErrNotFound)
	}
	if d.Status != domain.Unpaid {
		return fmt.Errorf("debt %d: %w", debtID, apperrors.ErrDebtPaid)
	}
	d.TotalAmount = total
	d.LastModified = &lastModified
	return nil
}

func (s *Store) MarkDebtPaid(ctx context.Context, debtID int64, datePaid time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.debts[debtID]
	if !ok || d.Status != domain.Unpaid {
		return false, nil
	}
	d.Status = domain.Paid
	d.DatePaid = &datePaid
	return true, nil
}

// --- items ---

func (s *Store) FindItemByID(ctx context.Context, itemID int64) (*domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[itemID]
	if !ok {
		return nil, fmt.Errorf("item %d: %w", itemID, apperrors.ErrNotFound)
	}
	item := *it
	return &item, nil
}

func (s *Store) FindItemsByDebtID(ctx context.Context, debtID int64) ([]domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.itemsOf(debtID), nil
}

func (s *Store) SaveItems(ctx context.Context, debtID int64, items []domain.NewItem) ([]domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.debts[debtID]; !ok {
		return nil, fmt.Errorf("debt %d: %w", debtID, apperrors.ErrNotFound)
	}
	saved := make([]domain.Item, 0, len(items))
	for _, n := range items {
		saved = append(saved, s.insertItem(debtID, n))
	}
	return saved, nil
}

func (s *Store) SaveItem(ctx context.Context, debtID int64, item domain.NewItem) (*domain.Item, error) {
	saved, err := s.SaveItems(ctx, debtID, []domain.NewItem{item})
	if err != nil {
		return nil, err
	}
	return &saved[0], nil
}

// insertItem must be called with mu held.
func (s *Store) insertItem(debtID int64, n domain.NewItem) domain.Item {
	s.lastItemID++
	item := n.ToItem(debtID)
	item.ID = s.lastItemID
	s.items[item.ID] = &item
	return item
}

func (s *Store) UpdateItem(ctx context.Context, itemID int64, patch domain.ItemPatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[itemID]
	if !ok {
		return fmt.Errorf("item %d: %w", itemID, apperrors.ErrNotFound)
	}
	if d, ok := s.debts[it.UtangID]; ok && d.Status != domain.Unpaid {
		return fmt.Errorf("item %d of debt %d: %w", itemID, it.UtangID, apperrors.ErrDebtPaid)
	}
	updated := patch.Apply(*it)
	s.items[itemID] = &updated
	return nil
}

// --- users ---

func (s *Store) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	user := *u
	return &user, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			user := *u
			return &user, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *Store) SaveUser(ctx context.Context, user domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.UserID]; ok {
		return apperrors.ErrDuplicate
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return apperrors.ErrDuplicate
		}
	}
	stored := user
	s.users[user.UserID] = &stored
	return nil
}
