package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/SscSPs/utang_ledger/internal/adapters/notify"
	"github.com/SscSPs/utang_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/utang_ledger/internal/core/ports/services"
	"github.com/SscSPs/utang_ledger/internal/core/services"
	"github.com/SscSPs/utang_ledger/internal/dto"
	"github.com/SscSPs/utang_ledger/internal/handlers"
	"github.com/SscSPs/utang_ledger/internal/middleware"
	"github.com/SscSPs/utang_ledger/internal/platform/config"
	"github.com/SscSPs/utang_ledger/internal/repositories/memory"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

const testJWTSecret = "test-secret-key-that-is-long-enough"

var testNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func testConfig() *config.Config {
	return &config.Config{
		StorageDriver:         config.StorageMemory,
		IsProduction:          true,
		JWTSecret:             testJWTSecret,
		JWTIssuer:             "utang-ledger-test",
		JWTExpiryDuration:     time.Hour,
		RevokedTokenCacheSize: 16,
		LoginRateLimit:        "100-M",
		CreationTotalRule:     domain.RuleAmount,
		RequestTimeout:        5 * time.Second,
	}
}

// newTestContainer wires real services over an in-memory store. The clock is
// left at the system clock because issued JWTs are validated against real time.
func newTestContainer(cfg *config.Config) (*portssvc.ServiceContainer, *memory.Store, error) {
	store := memory.New()
	container, err := services.NewServiceContainer(cfg, memory.NewRepositoryProvider(store), notify.NewSlogNotifier(), nil)
	return container, store, err
}

func newTestRouter(cfg *config.Config, container *portssvc.ServiceContainer) (*gin.Engine, error) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err := handlers.RegisterRoutes(r, cfg, container); err != nil {
		return nil, err
	}
	return r, nil
}

func doJSON(r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// generateTestToken creates a signed JWT for userID that was never issued by the session.
func generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "utang-ledger-test",
		Subject:   userID,
		ID:        "test-" + userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		panic(err)
	}
	return signed
}

func sariSari() dto.CreateDebtRequest {
	return dto.CreateDebtRequest{
		Name: "Sari-sari",
		Items: []dto.ItemRequest{
			{ItemName: "rice", Amount: dec(50), Quantity: 2},
			{ItemName: "oil", Amount: dec(80), Quantity: 1},
		},
	}
}

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) LoadUnpaid(ctx context.Context) ([]domain.Debt, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Debt), args.Error(1)
}

func (m *MockLedgerService) LoadPaid(ctx context.Context) ([]domain.Debt, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Debt), args.Error(1)
}

func (m *MockLedgerService) Unpaid() []domain.Debt {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Debt)
}

func (m *MockLedgerService) Paid() []domain.Debt {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Debt)
}

func (m *MockLedgerService) CreateDebt(ctx context.Context, req dto.CreateDebtRequest, creatorUserID string) (*domain.Debt, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}

func (m *MockLedgerService) CompletePartialCreate(ctx context.Context, pending domain.PendingItems) (*domain.Debt, error) {
	args := m.Called(ctx, pending)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}

func (m *MockLedgerService) AddItem(ctx context.Context, debtID int64, req dto.ItemRequest) (*domain.Item, error) {
	args := m.Called(ctx, debtID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockLedgerService) UpdateItem(ctx context.Context, itemID int64, req dto.ItemRequest) error {
	args := m.Called(ctx, itemID, req)
	return args.Error(0)
}

func (m *MockLedgerService) UpdateItemAndRecompute(ctx context.Context, itemID int64, req dto.ItemRequest) (*domain.Debt, error) {
	args := m.Called(ctx, itemID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}

func (m *MockLedgerService) RepairTotal(ctx context.Context, debtID int64) (*domain.Debt, error) {
	args := m.Called(ctx, debtID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Debt), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.LedgerStoreSvc = (*MockLedgerService)(nil)
