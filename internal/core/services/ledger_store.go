package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/SscSPs/utang_ledger/internal/apperrors"
	"github.com/SscSPs/utang_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/utang_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/utang_ledger/internal/core/ports/services"
	"github.com/SscSPs/utang_ledger/internal/dto"
)

// ledgerStore holds the last loaded unpaid and paid lists and performs every
// debt and item mutation.
type ledgerStore struct {
	BaseService
	debtRepo   portsrepo.DebtRepositoryFacade
	itemRepo   portsrepo.ItemRepositoryFacade
	aggregator portssvc.DebtAggregatorSvc
	clock      domain.Clock

	mu     sync.RWMutex
	unpaid []domain.Debt
	paid   []domain.Debt
}

// LedgerStoreOption is a functional option for configuring the ledger store
type LedgerStoreOption func(*ledgerStore)

// WithLedgerClock overrides the wall clock used for CreatedAt stamps.
func WithLedgerClock(clock domain.Clock) LedgerStoreOption {
	return func(s *ledgerStore) {
		s.clock = clock
	}
}

// NewLedgerStore creates the ledger store. The cached lists start empty.
func NewLedgerStore(debtRepo portsrepo.DebtRepositoryFacade, itemRepo portsrepo.ItemRepositoryFacade, aggregator portssvc.DebtAggregatorSvc, options ...LedgerStoreOption) portssvc.LedgerStoreSvc {
	s := &ledgerStore{
		debtRepo:   debtRepo,
		itemRepo:   itemRepo,
		aggregator: aggregator,
		clock:      domain.SystemClock{},
	}
	for _, option := range options {
		option(s)
	}
	return s
}

var _ portssvc.LedgerStoreSvc = (*ledgerStore)(nil)

func (s *ledgerStore) LoadUnpaid(ctx context.Context) ([]domain.Debt, error) {
	return s.load(ctx, domain.Unpaid)
}

func (s *ledgerStore) LoadPaid(ctx context.Context) ([]domain.Debt, error) {
	return s.load(ctx, domain.Paid)
}

func (s *ledgerStore) load(ctx context.Context, status domain.DebtStatus) ([]domain.Debt, error) {
	debts, err := s.debtRepo.FindDebtsByStatus(ctx, status)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch debts", slog.String("status", string(status)))
		return nil, apperrors.NewLedgerError(apperrors.KindFetch, 0, 0, err)
	}

	fresh := cloneDebts(debts)
	s.mu.Lock()
	if status == domain.Paid {
		s.paid = fresh
	} else {
		s.unpaid = fresh
	}
	s.mu.Unlock()

	s.LogDebug(ctx, "Loaded debts", slog.String("status", string(status)), slog.Int("count", len(debts)))
	return cloneDebts(fresh), nil
}

func (s *ledgerStore) Unpaid() []domain.Debt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneDebts(s.unpaid)
}

func (s *ledgerStore) Paid() []domain.Debt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneDebts(s.paid)
}

// refreshUnpaid reloads the unpaid list after a mutation has already been
// persisted. A failure here must not turn a successful mutation into an error.
func (s *ledgerStore) refreshUnpaid(ctx context.Context) {
	if _, err := s.LoadUnpaid(ctx); err != nil {
		s.LogWarn(ctx, "Unpaid list refresh failed after mutation, cached list is stale", slog.String("error", err.Error()))
	}
}

func (s *ledgerStore) CreateDebt(ctx context.Context, req dto.CreateDebtRequest, creatorUserID string) (*domain.Debt, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewLedgerError(apperrors.KindCreate, 0, 0, fmt.Errorf("%w: debt name is required", apperrors.ErrValidation))
	}
	if err := validateStruct(req); err != nil {
		return nil, apperrors.NewLedgerError(apperrors.KindCreate, 0, 0, err)
	}
	newItems := req.NewItems()
	if err := validateItems(newItems); err != nil {
		return nil, apperrors.NewLedgerError(apperrors.KindCreate, 0, 0, err)
	}

	draft := make([]domain.Item, len(newItems))
	for i, n := range newItems {
		draft[i] = n.ToItem(0)
	}

	debt := domain.Debt{
		Name:        name,
		Status:      domain.Unpaid,
		TotalAmount: s.aggregator.CreationTotal(draft),
		CreatedAt:   s.clock.Now(),
	}
	if creatorUserID != "" {
		debt.CreatedBy = &creatorUserID
	}

	debtID, err := s.debtRepo.SaveDebt(ctx, debt)
	if err != nil {
		s.LogError(ctx, err, "Failed to save debt header", slog.String("name", name))
		return nil, apperrors.NewLedgerError(apperrors.KindCreate, 0, 0, err)
	}
	debt.ID = debtID

	saved, err := s.itemRepo.SaveItems(ctx, debtID, newItems)
	if err != nil {
		s.LogError(ctx, err, "Debt header saved but items failed", slog.Int64("debt_id", debtID), slog.Int("items", len(newItems)))
		return nil, partialCreateError(debtID, newItems, err)
	}
	debt.Items = saved

	s.LogInfo(ctx, "Debt created",
		slog.Int64("debt_id", debtID),
		slog.Int("items", len(saved)),
		slog.String("total", debt.TotalAmount.String()))

	s.refreshUnpaid(ctx)
	return &debt, nil
}

func partialCreateError(debtID int64, items []domain.NewItem, err error) *apperrors.LedgerError {
	le := apperrors.NewLedgerError(apperrors.KindPartialCreate, debtID, 0, err)
	pending := make([]domain.NewItem, len(items))
	copy(pending, items)
	le.Pending = domain.PendingItems{DebtID: debtID, Items: pending}
	return le
}

func (s *ledgerStore) CompletePartialCreate(ctx context.Context, pending domain.PendingItems) (*domain.Debt, error) {
	if pending.DebtID <= 0 {
		return nil, partialCreateError(pending.DebtID, pending.Items, fmt.Errorf("%w: debt id is required", apperrors.ErrValidation))
	}
	if err := validateItems(pending.Items); err != nil {
		return nil, partialCreateError(pending.DebtID, pending.Items, err)
	}

	debt, err := s.debtRepo.FindDebtByID(ctx, pending.DebtID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load debt to complete create", slog.Int64("debt_id", pending.DebtID))
		return nil, partialCreateError(pending.DebtID, pending.Items, err)
	}
	unpaid, err := domain.AsUnpaid(*debt)
	if err != nil {
		return nil, partialCreateError(pending.DebtID, pending.Items, err)
	}

	// Item inserts are all-or-nothing, so an interrupted create leaves a
	// header without items. Anything else was already completed.
	if stored := unpaid.Snapshot().Items; len(stored) > 0 {
		s.LogWarn(ctx, "Refusing to complete a create that already has items",
			slog.Int64("debt_id", pending.DebtID), slog.Int("items", len(stored)))
		err := fmt.Errorf("%w: debt %d already has %d items", apperrors.ErrDuplicate, pending.DebtID, len(stored))
		return nil, apperrors.NewLedgerError(apperrors.KindPartialCreate, pending.DebtID, 0, err)
	}

	// The header total is rewritten before the items so that a retry after
	// an item failure starts from the same stored state.
	draft := make([]domain.Item, len(pending.Items))
	for i, n := range pending.Items {
		draft[i] = n.ToItem(pending.DebtID)
	}
	total := s.aggregator.CreationTotal(draft)
	if err := s.debtRepo.UpdateDebtTotal(ctx, pending.DebtID, total, s.clock.Now()); err != nil {
		s.LogError(ctx, err, "Failed to write creation total", slog.Int64("debt_id", pending.DebtID))
		return nil, partialCreateError(pending.DebtID, pending.Items, err)
	}

	saved, err := s.itemRepo.SaveItems(ctx, pending.DebtID, pending.Items)
	if err != nil {
		s.LogError(ctx, err, "Failed to save pending items", slog.Int64("debt_id", pending.DebtID))
		return nil, partialCreateError(pending.DebtID, pending.Items, err)
	}

	result := unpaid.Snapshot()
	result.Items = saved
	result.TotalAmount = total

	s.LogInfo(ctx, "Completed interrupted create", slog.Int64("debt_id", pending.DebtID), slog.Int("items", len(saved)))
	s.refreshUnpaid(ctx)
	return &result, nil
}

func (s *ledgerStore) AddItem(ctx context.Context, debtID int64, req dto.ItemRequest) (*domain.Item, error) {
	if err := validateStruct(req); err != nil {
		return nil, apperrors.NewLedgerError(apperrors.KindAddItem, debtID, 0, err)
	}

	debt, err := s.debtRepo.FindDebtByID(ctx, debtID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load debt for new item", slog.Int64("debt_id", debtID))
		return nil, apperrors.NewLedgerError(apperrors.KindAddItem, debtID, 0, err)
	}
	unpaid, err := domain.AsUnpaid(*debt)
	if err != nil {
		s.LogWarn(ctx, "Refusing to add an item to a paid debt", slog.Int64("debt_id", debtID))
		return nil, apperrors.NewLedgerError(apperrors.KindAddItem, debtID, 0, err)
	}

	newItem := req.ToNewItem()
	if _, err := unpaid.AppendItem(newItem); err != nil {
		return nil, apperrors.NewLedgerError(apperrors.KindAddItem, debtID, 0, fmt.Errorf("%w: %v", apperrors.ErrValidation, err))
	}

	saved, err := s.itemRepo.SaveItem(ctx, debtID, newItem)
	if err != nil {
		s.LogError(ctx, err, "Failed to save item", slog.Int64("debt_id", debtID))
		return nil, apperrors.NewLedgerError(apperrors.KindAddItem, debtID, 0, err)
	}

	s.LogInfo(ctx, "Item added", slog.Int64("debt_id", debtID), slog.Int64("item_id", saved.ID))
	s.refreshUnpaid(ctx)
	return saved, nil
}

func (s *ledgerStore) UpdateItem(ctx context.Context, itemID int64, req dto.ItemRequest) error {
	_, err := s.patchItem(ctx, itemID, req)
	return err
}

// patchItem persists the patch and returns the owning debt id. The debt id
// is zero when the failure happened before it was known.
func (s *ledgerStore) patchItem(ctx context.Context, itemID int64, req dto.ItemRequest) (int64, error) {
	if err := validateStruct(req); err != nil {
		return 0, apperrors.NewLedgerError(apperrors.KindUpdateItem, 0, itemID, err)
	}

	item, err := s.itemRepo.FindItemByID(ctx, itemID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load item", slog.Int64("item_id", itemID))
		}
		return 0, apperrors.NewLedgerError(apperrors.KindUpdateItem, 0, itemID, err)
	}
	debtID := item.UtangID

	debt, err := s.debtRepo.FindDebtByID(ctx, debtID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load owning debt", slog.Int64("item_id", itemID), slog.Int64("debt_id", debtID))
		return debtID, apperrors.NewLedgerError(apperrors.KindUpdateItem, debtID, itemID, err)
	}
	unpaid, err := domain.AsUnpaid(*debt)
	if err != nil {
		s.LogWarn(ctx, "Refusing to update an item of a paid debt", slog.Int64("item_id", itemID), slog.Int64("debt_id", debtID))
		return debtID, apperrors.NewLedgerError(apperrors.KindUpdateItem, debtID, itemID, err)
	}

	patch := req.ToPatch()
	if _, err := unpaid.PatchItem(itemID, patch); err != nil {
		if errors.Is(err, domain.ErrItemNotInDebt) {
			err = fmt.Errorf("%w: %v", apperrors.ErrNotFound, err)
		} else {
			err = fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		return debtID, apperrors.NewLedgerError(apperrors.KindUpdateItem, debtID, itemID, err)
	}

	if err := s.itemRepo.UpdateItem(ctx, itemID, patch); err != nil {
		s.LogError(ctx, err, "Failed to update item", slog.Int64("item_id", itemID))
		return debtID, apperrors.NewLedgerError(apperrors.KindUpdateItem, debtID, itemID, err)
	}

	s.LogInfo(ctx, "Item updated", slog.Int64("item_id", itemID), slog.Int64("debt_id", debtID))
	return debtID, nil
}

func (s *ledgerStore) UpdateItemAndRecompute(ctx context.Context, itemID int64, req dto.ItemRequest) (*domain.Debt, error) {
	debtID, err := s.patchItem(ctx, itemID, req)
	if err != nil {
		return nil, err
	}

	// From here on the patch is persisted and is not rolled back.
	if _, err := s.aggregator.RecomputeTotal(ctx, debtID); err != nil {
		return nil, recomputeError(debtID, itemID, err)
	}

	s.refreshUnpaid(ctx)
	return s.currentDebt(ctx, debtID, itemID)
}

func (s *ledgerStore) RepairTotal(ctx context.Context, debtID int64) (*domain.Debt, error) {
	if _, err := s.aggregator.RecomputeTotal(ctx, debtID); err != nil {
		return nil, recomputeError(debtID, 0, err)
	}
	s.refreshUnpaid(ctx)
	return s.currentDebt(ctx, debtID, 0)
}

func recomputeError(debtID, itemID int64, err error) error {
	if le, ok := apperrors.AsLedgerError(err); ok && le.Kind == apperrors.KindRecompute {
		if le.ItemID == 0 {
			le.ItemID = itemID
		}
		return le
	}
	return apperrors.NewLedgerError(apperrors.KindRecompute, debtID, itemID, err)
}

// currentDebt returns the debt from the freshly loaded cache, falling back to storage.
func (s *ledgerStore) currentDebt(ctx context.Context, debtID, itemID int64) (*domain.Debt, error) {
	s.mu.RLock()
	for _, d := range s.unpaid {
		if d.ID == debtID {
			c := d.Clone()
			s.mu.RUnlock()
			return &c, nil
		}
	}
	s.mu.RUnlock()

	debt, err := s.debtRepo.FindDebtByID(ctx, debtID)
	if err != nil {
		return nil, apperrors.NewLedgerError(apperrors.KindFetch, debtID, itemID, err)
	}
	return debt, nil
}

func cloneDebts(debts []domain.Debt) []domain.Debt {
	out := make([]domain.Debt, len(debts))
	for i, d := range debts {
		out[i] = d.Clone()
	}
	return out
}
