package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/utang_ledger/internal/apperrors"
	"github.com/SscSPs/utang_ledger/internal/core/domain"
	"github.com/SscSPs/utang_ledger/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCreationTotal(t *testing.T) {
	items := []domain.Item{
		{ItemName: "rice", Amount: dec(50), Quantity: 2},
		{ItemName: "oil", Amount: dec(80), Quantity: 1},
	}

	tests := []struct {
		rule domain.TotalRule
		want int64
	}{
		{rule: domain.RuleAmount, want: 130},
		{rule: domain.RuleExtended, want: 180},
		{rule: "", want: 130},
	}
	for _, tt := range tests {
		agg := services.NewDebtAggregator(nil, nil, tt.rule, nil)
		assert.True(t, agg.CreationTotal(items).Equal(dec(tt.want)), "rule %q", tt.rule)
	}
}

func TestRecomputeTotal_WritesExtendedTotal(t *testing.T) {
	ctx := context.Background()
	debtRepo := new(MockDebtRepository)
	itemRepo := new(MockItemRepository)
	agg := services.NewDebtAggregator(debtRepo, itemRepo, domain.RuleAmount, domain.FixedClock(testNow))

	debtRepo.On("FindDebtByID", ctx, int64(1)).Return(&domain.Debt{ID: 1, Status: domain.Unpaid}, nil).Once()
	itemRepo.On("FindItemsByDebtID", ctx, int64(1)).Return([]domain.Item{
		{ID: 1, Amount: dec(50), Quantity: 2, UtangID: 1},
		{ID: 2, Amount: dec(80), Quantity: 1, UtangID: 1},
	}, nil).Once()
	debtRepo.On("UpdateDebtTotal", ctx, int64(1), mock.MatchedBy(func(total decimal.Decimal) bool {
		return total.Equal(dec(180))
	}), testNow).Return(nil).Once()

	total, err := agg.RecomputeTotal(ctx, 1)
	assert.NoError(t, err)
	assert.True(t, total.Equal(dec(180)))
	debtRepo.AssertExpectations(t)
	itemRepo.AssertExpectations(t)
}

func TestRecomputeTotal_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("paid debt", func(t *testing.T) {
		debtRepo := new(MockDebtRepository)
		itemRepo := new(MockItemRepository)
		agg := services.NewDebtAggregator(debtRepo, itemRepo, domain.RuleAmount, nil)
		debtRepo.On("FindDebtByID", ctx, int64(1)).Return(&domain.Debt{ID: 1, Status: domain.Paid}, nil).Once()

		_, err := agg.RecomputeTotal(ctx, 1)
		assert.ErrorIs(t, err, apperrors.ErrRecompute)
		assert.ErrorIs(t, err, apperrors.ErrDebtPaid)
		itemRepo.AssertNotCalled(t, "FindItemsByDebtID", mock.Anything, mock.Anything)
		debtRepo.AssertNotCalled(t, "UpdateDebtTotal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("items unavailable", func(t *testing.T) {
		debtRepo := new(MockDebtRepository)
		itemRepo := new(MockItemRepository)
		agg := services.NewDebtAggregator(debtRepo, itemRepo, domain.RuleAmount, nil)
		debtRepo.On("FindDebtByID", ctx, int64(1)).Return(&domain.Debt{ID: 1, Status: domain.Unpaid}, nil).Once()
		itemRepo.On("FindItemsByDebtID", ctx, int64(1)).Return(nil, assert.AnError).Once()

		_, err := agg.RecomputeTotal(ctx, 1)
		assert.ErrorIs(t, err, apperrors.ErrRecompute)
		assert.ErrorIs(t, err, assert.AnError)
		le, ok := apperrors.AsLedgerError(err)
		assert.True(t, ok)
		assert.Equal(t, int64(1), le.DebtID)
	})
}
