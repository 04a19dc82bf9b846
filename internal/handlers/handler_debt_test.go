package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/SscSPs/utang_ledger/internal/apperrors"
	"github.com/SscSPs/utang_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/utang_ledger/internal/core/ports/services"
	"github.com/SscSPs/utang_ledger/internal/dto"
	"github.com/SscSPs/utang_ledger/internal/repositories/memory"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type DebtHandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	container *portssvc.ServiceContainer
	store     *memory.Store
	token     string
}

func (suite *DebtHandlerTestSuite) SetupTest() {
	cfg := testConfig()
	container, store, err := newTestContainer(cfg)
	suite.Require().NoError(err)
	suite.container = container
	suite.store = store

	suite.router, err = newTestRouter(cfg, container)
	suite.Require().NoError(err)

	w := doJSON(suite.router, http.MethodPost, "/api/v1/auth/register", dto.RegisterRequest{
		Email: "tindera@example.com", Password: "password123", FirstName: "Aling", LastName: "Nena",
	}, "")
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(suite.router, http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{
		Email: "tindera@example.com", Password: "password123",
	}, "")
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var login dto.LoginResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &login))
	suite.token = login.Token
}

func (suite *DebtHandlerTestSuite) createSariSari() dto.DebtResponse {
	w := doJSON(suite.router, http.MethodPost, "/api/v1/debts", sariSari(), suite.token)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var debt dto.DebtResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &debt))
	return debt
}

func (suite *DebtHandlerTestSuite) listDebts(status string) (dto.ListDebtsResponse, *http.Response) {
	w := doJSON(suite.router, http.MethodGet, "/api/v1/debts?status="+status, nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.ListDebtsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp, w.Result()
}

func (suite *DebtHandlerTestSuite) TestCreateThenRecompute() {
	debt := suite.createSariSari()

	suite.Equal("Sari-sari", debt.Name)
	suite.Equal("unpaid", debt.Status)
	suite.True(debt.TotalAmount.Equal(dec(130)), "creation total is the sum of unit amounts, got %s", debt.TotalAmount)
	suite.Require().Len(debt.Items, 2)
	suite.True(debt.Items[0].LineTotal.Equal(dec(100)))

	w := doJSON(suite.router, http.MethodPost, fmt.Sprintf("/api/v1/debts/%d/recompute", debt.DebtID), nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var recomputed dto.DebtResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &recomputed))
	suite.True(recomputed.TotalAmount.Equal(dec(180)), "got %s", recomputed.TotalAmount)
	suite.NotNil(recomputed.LastModified)
}

func (suite *DebtHandlerTestSuite) TestCreate_RecordsCreator() {
	debt := suite.createSariSari()

	stored, err := suite.store.FindDebtByID(suite.T().Context(), debt.DebtID)
	suite.Require().NoError(err)
	suite.Require().NotNil(stored.CreatedBy)
	suite.NotEmpty(*stored.CreatedBy)
}

func (suite *DebtHandlerTestSuite) TestCreate_InvalidBody() {
	w := doJSON(suite.router, http.MethodPost, "/api/v1/debts", dto.CreateDebtRequest{Name: "No items"}, suite.token)
	suite.Equal(http.StatusBadRequest, w.Code)

	req := sariSari()
	req.Items[0].Quantity = 0
	w = doJSON(suite.router, http.MethodPost, "/api/v1/debts", req, suite.token)
	suite.Equal(http.StatusBadRequest, w.Code)

	req = sariSari()
	req.Name = "   "
	w = doJSON(suite.router, http.MethodPost, "/api/v1/debts", req, suite.token)
	suite.Equal(http.StatusBadRequest, w.Code)

	req = sariSari()
	req.Items[0].Amount = decimal.RequireFromString("0.005")
	w = doJSON(suite.router, http.MethodPost, "/api/v1/debts", req, suite.token)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *DebtHandlerTestSuite) TestListDebts_PartitionsByStatus() {
	debt := suite.createSariSari()

	unpaid, res := suite.listDebts("unpaid")
	suite.Empty(res.Header.Get("X-Ledger-Stale"))
	suite.False(unpaid.Stale)
	suite.Require().Len(unpaid.Debts, 1)
	suite.Equal(debt.DebtID, unpaid.Debts[0].DebtID)

	paid, _ := suite.listDebts("paid")
	suite.Equal("paid", paid.Status)
	suite.Empty(paid.Debts)

	w := doJSON(suite.router, http.MethodGet, "/api/v1/debts", nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)
	var defaulted dto.ListDebtsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &defaulted))
	suite.Equal("unpaid", defaulted.Status)

	w = doJSON(suite.router, http.MethodGet, "/api/v1/debts?status=overdue", nil, suite.token)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *DebtHandlerTestSuite) TestAddItem() {
	debt := suite.createSariSari()

	w := doJSON(suite.router, http.MethodPost, fmt.Sprintf("/api/v1/debts/%d/items", debt.DebtID),
		dto.ItemRequest{ItemName: "sardines", Amount: dec(25), Quantity: 2}, suite.token)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var item dto.ItemResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &item))
	suite.Equal(debt.DebtID, item.UtangID)
	suite.Equal("sardines", item.ItemName)

	unpaid, _ := suite.listDebts("unpaid")
	suite.Require().Len(unpaid.Debts, 1)
	suite.Len(unpaid.Debts[0].Items, 3)
	suite.True(unpaid.Debts[0].TotalAmount.Equal(dec(130)), "adding an item does not recompute the total")

	w = doJSON(suite.router, http.MethodPost, "/api/v1/debts/999/items",
		dto.ItemRequest{ItemName: "x", Amount: dec(1), Quantity: 1}, suite.token)
	suite.Equal(http.StatusNotFound, w.Code)

	w = doJSON(suite.router, http.MethodPost, "/api/v1/debts/abc/items",
		dto.ItemRequest{ItemName: "x", Amount: dec(1), Quantity: 1}, suite.token)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *DebtHandlerTestSuite) TestUpdateItem() {
	debt := suite.createSariSari()
	rice := debt.Items[0]
	patch := dto.ItemRequest{ItemName: "rice", Amount: dec(50), Quantity: 3}

	w := doJSON(suite.router, http.MethodPut, fmt.Sprintf("/api/v1/items/%d?recompute=false", rice.ItemID), patch, suite.token)
	suite.Require().Equal(http.StatusNoContent, w.Code, w.Body.String())

	stored, err := suite.store.FindDebtByID(suite.T().Context(), debt.DebtID)
	suite.Require().NoError(err)
	suite.Equal(3, stored.Items[0].Quantity)
	suite.True(stored.TotalAmount.Equal(dec(130)), "patch only leaves the total alone")

	w = doJSON(suite.router, http.MethodPut, fmt.Sprintf("/api/v1/items/%d", rice.ItemID), patch, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var updated dto.DebtResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &updated))
	suite.True(updated.TotalAmount.Equal(dec(230)), "got %s", updated.TotalAmount)

	w = doJSON(suite.router, http.MethodPut, "/api/v1/items/404", patch, suite.token)
	suite.Equal(http.StatusNotFound, w.Code)

	w = doJSON(suite.router, http.MethodPut, fmt.Sprintf("/api/v1/items/%d?recompute=maybe", rice.ItemID), patch, suite.token)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *DebtHandlerTestSuite) TestMarkPaid_RequiresConfirmation() {
	debt := suite.createSariSari()
	path := fmt.Sprintf("/api/v1/debts/%d/pay", debt.DebtID)

	w := doJSON(suite.router, http.MethodPost, path, dto.MarkPaidRequest{Confirm: false}, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var declined dto.MarkPaidResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &declined))
	suite.False(declined.Confirmed)
	suite.Nil(declined.Debt)
	suite.Contains(declined.Prompt, "Sari-sari")
	suite.Empty(w.Header().Get("X-Ledger-Notice"))

	unpaid, _ := suite.listDebts("unpaid")
	suite.Len(unpaid.Debts, 1)

	w = doJSON(suite.router, http.MethodPost, path, dto.MarkPaidRequest{Confirm: true}, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var paid dto.MarkPaidResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &paid))
	suite.True(paid.Confirmed)
	suite.Require().NotNil(paid.Debt)
	suite.Equal("paid", paid.Debt.Status)
	suite.Require().NotNil(paid.Debt.DatePaid)
	suite.True(strings.HasPrefix(w.Header().Get("X-Ledger-Notice"), "Paid: "))

	unpaid, _ = suite.listDebts("unpaid")
	suite.Empty(unpaid.Debts)
	paidList, _ := suite.listDebts("paid")
	suite.Len(paidList.Debts, 1)

	// Paying again reports the original date without asking.
	w = doJSON(suite.router, http.MethodPost, path, dto.MarkPaidRequest{Confirm: false}, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)
	var again dto.MarkPaidResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &again))
	suite.Require().NotNil(again.Debt)
	suite.True(paid.Debt.DatePaid.Equal(*again.Debt.DatePaid))
}

func (suite *DebtHandlerTestSuite) TestPaidDebtIsFrozen() {
	debt := suite.createSariSari()
	w := doJSON(suite.router, http.MethodPost, fmt.Sprintf("/api/v1/debts/%d/pay", debt.DebtID), dto.MarkPaidRequest{Confirm: true}, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = doJSON(suite.router, http.MethodPost, fmt.Sprintf("/api/v1/debts/%d/items", debt.DebtID),
		dto.ItemRequest{ItemName: "late", Amount: dec(5), Quantity: 1}, suite.token)
	suite.Equal(http.StatusConflict, w.Code)

	w = doJSON(suite.router, http.MethodPut, fmt.Sprintf("/api/v1/items/%d", debt.Items[0].ItemID),
		dto.ItemRequest{ItemName: "rice", Amount: dec(1), Quantity: 1}, suite.token)
	suite.Equal(http.StatusConflict, w.Code)

	w = doJSON(suite.router, http.MethodPost, fmt.Sprintf("/api/v1/debts/%d/recompute", debt.DebtID), nil, suite.token)
	suite.Equal(http.StatusConflict, w.Code)

	stored, err := suite.store.FindDebtByID(suite.T().Context(), debt.DebtID)
	suite.Require().NoError(err)
	suite.True(stored.TotalAmount.Equal(dec(130)))
}

func (suite *DebtHandlerTestSuite) TestMarkPaid_UnknownDebt() {
	w := doJSON(suite.router, http.MethodPost, "/api/v1/debts/77/pay", dto.MarkPaidRequest{Confirm: true}, suite.token)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.True(strings.HasPrefix(w.Header().Get("X-Ledger-Notice"), "Could not mark as paid: "))
}

func (suite *DebtHandlerTestSuite) TestRequiresAuthentication() {
	w := doJSON(suite.router, http.MethodGet, "/api/v1/debts", nil, "")
	suite.Equal(http.StatusUnauthorized, w.Code)

	// A well-signed token for a user that does not exist is not enough.
	w = doJSON(suite.router, http.MethodGet, "/api/v1/debts", nil, generateTestToken("ghost"))
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func TestDebtHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(DebtHandlerTestSuite))
}

// mockedLedgerRouter serves the real session with a mocked ledger.
func mockedLedgerRouter(t *testing.T) (*gin.Engine, *MockLedgerService, string) {
	cfg := testConfig()
	container, store, err := newTestContainer(cfg)
	require.NoError(t, err)
	require.NoError(t, store.SaveUser(t.Context(), domain.User{UserID: "user-1", Email: "user1@example.com", CreatedAt: testNow}))

	ledger := new(MockLedgerService)
	container.Ledger = ledger
	router, err := newTestRouter(cfg, container)
	require.NoError(t, err)
	return router, ledger, generateTestToken("user-1")
}

func TestListDebts_ServesCachedListWhenFetchFails(t *testing.T) {
	router, ledger, token := mockedLedgerRouter(t)

	cached := []domain.Debt{{ID: 1, Name: "Sari-sari", Status: domain.Unpaid, TotalAmount: dec(130), CreatedAt: testNow}}
	ledger.On("LoadUnpaid", mock.Anything).Return(nil, apperrors.NewLedgerError(apperrors.KindFetch, 0, 0, assert.AnError)).Once()
	ledger.On("Unpaid").Return(cached).Once()

	w := doJSON(router, http.MethodGet, "/api/v1/debts?status=unpaid", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "true", w.Header().Get("X-Ledger-Stale"))

	var resp dto.ListDebtsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Stale)
	require.Len(t, resp.Debts, 1)
	assert.Equal(t, int64(1), resp.Debts[0].DebtID)
	ledger.AssertExpectations(t)
}

func TestCreateDebt_PartialCreateReturnsPending(t *testing.T) {
	router, ledger, token := mockedLedgerRouter(t)

	pending := domain.PendingItems{DebtID: 9, Items: sariSari().NewItems()}
	partial := apperrors.NewLedgerError(apperrors.KindPartialCreate, 9, 0, assert.AnError)
	partial.Pending = pending
	ledger.On("CreateDebt", mock.Anything, mock.MatchedBy(func(req dto.CreateDebtRequest) bool {
		return req.Name == "Sari-sari" && len(req.Items) == 2
	}), "user-1").Return(nil, partial).Once()

	w := doJSON(router, http.MethodPost, "/api/v1/debts", sariSari(), token)
	require.Equal(t, http.StatusMultiStatus, w.Code, w.Body.String())

	var resp dto.PartialCreateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(9), resp.Pending.DebtID)
	require.Len(t, resp.Pending.Items, 2)
	assert.Equal(t, "rice", resp.Pending.Items[0].ItemName)
	assert.Contains(t, resp.Error, "PartialCreateError")
	ledger.AssertExpectations(t)
}

func TestCompleteCreate(t *testing.T) {
	router, ledger, token := mockedLedgerRouter(t)

	pending := domain.PendingItems{DebtID: 9, Items: []domain.NewItem{{ItemName: "rice", Amount: dec(50), Quantity: 2}}}
	done := &domain.Debt{ID: 9, Name: "Sari-sari", Status: domain.Unpaid, TotalAmount: dec(50), CreatedAt: testNow,
		Items: []domain.Item{{ID: 1, ItemName: "rice", Amount: dec(50), Quantity: 2, UtangID: 9}}}

	ledger.On("CompletePartialCreate", mock.Anything, mock.MatchedBy(func(p domain.PendingItems) bool {
		return p.DebtID == 9 && len(p.Items) == 1 && p.Items[0].Amount.Equal(dec(50))
	})).Return(done, nil).Once()

	w := doJSON(router, http.MethodPost, "/api/v1/debts/complete", pending, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp dto.DebtResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(9), resp.DebtID)
	assert.Len(t, resp.Items, 1)

	// A storage failure hands the pending record back for another try.
	retry := apperrors.NewLedgerError(apperrors.KindPartialCreate, 9, 0, assert.AnError)
	retry.Pending = pending
	ledger.On("CompletePartialCreate", mock.Anything, mock.Anything).Return(nil, retry).Once()
	w = doJSON(router, http.MethodPost, "/api/v1/debts/complete", pending, token)
	assert.Equal(t, http.StatusMultiStatus, w.Code)

	// A paid debt cannot be completed.
	paid := apperrors.NewLedgerError(apperrors.KindPartialCreate, 9, 0, apperrors.ErrDebtPaid)
	paid.Pending = pending
	ledger.On("CompletePartialCreate", mock.Anything, mock.Anything).Return(nil, paid).Once()
	w = doJSON(router, http.MethodPost, "/api/v1/debts/complete", pending, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	ledger.AssertExpectations(t)
}

func TestRecompute_InternalErrorHidesDetail(t *testing.T) {
	router, ledger, token := mockedLedgerRouter(t)

	ledger.On("RepairTotal", mock.Anything, int64(3)).
		Return(nil, apperrors.NewLedgerError(apperrors.KindRecompute, 3, 0, assert.AnError)).Once()

	w := doJSON(router, http.MethodPost, "/api/v1/debts/3/recompute", nil, token)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
	ledger.AssertExpectations(t)
}
