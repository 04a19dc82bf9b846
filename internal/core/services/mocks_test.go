package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/utang_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/utang_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/utang_ledger/internal/core/ports/services"
	"github.com/SscSPs/utang_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock DebtRepository ---
type MockDebtRepository struct {
	mock.Mock
}

func (m *MockDebtRepository) FindDebtsByStatus(ctx context.Context, status domain.DebtStatus) ([]domain.Debt, error) {
	args := m.Called(ctx, status)
	var debts []domain.Debt
	if args.Get(0) != nil {
		debts = args.Get(0).([]domain.Debt)
	}
	return debts, args.Error(1)
}

func (m *MockDebtRepository) FindDebtByID(ctx context.Context, debtID int64) (*domain.Debt, error) {
	args := m.Called(ctx, debtID)
	var debt *domain.Debt
	if args.Get(0) != nil {
		debt = args.Get(0).(*domain.Debt)
	}
	return debt, args.Error(1)
}

func (m *MockDebtRepository) SaveDebt(ctx context.Context, debt domain.Debt) (int64, error) {
	args := m.Called(ctx, debt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDebtRepository) UpdateDebtTotal(ctx context.Context, debtID int64, total decimal.Decimal, lastModified time.Time) error {
	args := m.Called(ctx, debtID, total, lastModified)
	return args.Error(0)
}

func (m *MockDebtRepository) MarkDebtPaid(ctx context.Context, debtID int64, datePaid time.Time) (bool, error) {
	args := m.Called(ctx, debtID, datePaid)
	return args.Bool(0), args.Error(1)
}

// --- Mock ItemRepository ---
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindItemByID(ctx context.Context, itemID int64) (*domain.Item, error) {
	args := m.Called(ctx, itemID)
	var item *domain.Item
	if args.Get(0) != nil {
		item = args.Get(0).(*domain.Item)
	}
	return item, args.Error(1)
}

func (m *MockItemRepository) FindItemsByDebtID(ctx context.Context, debtID int64) ([]domain.Item, error) {
	args := m.Called(ctx, debtID)
	var items []domain.Item
	if args.Get(0) != nil {
		items = args.Get(0).([]domain.Item)
	}
	return items, args.Error(1)
}

func (m *MockItemRepository) SaveItems(ctx context.Context, debtID int64, items []domain.NewItem) ([]domain.Item, error) {
	args := m.Called(ctx, debtID, items)
	var saved []domain.Item
	if args.Get(0) != nil {
		saved = args.Get(0).([]domain.Item)
	}
	return saved, args.Error(1)
}

func (m *MockItemRepository) SaveItem(ctx context.Context, debtID int64, item domain.NewItem) (*domain.Item, error) {
	args := m.Called(ctx, debtID, item)
	var saved *domain.Item
	if args.Get(0) != nil {
		saved = args.Get(0).(*domain.Item)
	}
	return saved, args.Error(1)
}

func (m *MockItemRepository) UpdateItem(ctx context.Context, itemID int64, patch domain.ItemPatch) error {
	args := m.Called(ctx, itemID, patch)
	return args.Error(0)
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// recordingNotifier keeps every notification it receives.
type recordingNotifier struct {
	mu      sync.Mutex
	notices []notice
}

type notice struct {
	Title   string
	Message string
	Kind    portssvc.NoticeKind
}

func (n *recordingNotifier) Notify(_ context.Context, title, message string, kind portssvc.NoticeKind) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice{Title: title, Message: message, Kind: kind})
}

func (n *recordingNotifier) kinds() []portssvc.NoticeKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	kinds := make([]portssvc.NoticeKind, len(n.notices))
	for i, nt := range n.notices {
		kinds[i] = nt.Kind
	}
	return kinds
}

// confirmWith returns a Confirmer that answers answer and counts calls.
func confirmWith(answer bool, calls *int) portssvc.Confirmer {
	return portssvc.ConfirmFunc(func(context.Context, string) (bool, error) {
		*calls++
		return answer, nil
	})
}

// portsrepoWithUsers keeps ledger data in memory and routes user calls to userRepo.
func portsrepoWithUsers(userRepo *MockUserRepository) portsrepo.RepositoryProvider {
	store := memory.New()
	return portsrepo.RepositoryProvider{DebtRepo: store, ItemRepo: store, UserRepo: userRepo}
}
