package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"locadora-erp-backend/internal/config"
	"locadora-erp-backend/internal/domain"
	"locadora-erp-backend/internal/security"
	"locadora-erp-backend/internal/service"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPermissionService struct{ mock.Mock }

func (m *MockPermissionService) GetRBACData(ctx context.Context) (*domain.RBACData, error) {
	args := m.Called(ctx)
	return args.Get(0).(*domain.RBACData), args.Error(1)
}

func (m *MockPermissionService) UpdateRolePermissions(ctx context.Context, roleID int64, ids []int64) error {
	return m.Called(ctx, roleID, ids).Error(0)
}

func (m *MockPermissionService) CheckPermission(ctx context.Context, userID, slug string) (bool, error) {
	args := m.Called(ctx, userID, slug)
	return args.Bool(0), args.Error(1)
}

type MockAvailabilityService struct{ mock.Mock }

func (m *MockAvailabilityService) AvailableQuantity(ctx context.Context, productID string, r domain.DateRange) (domain.Availability, error) {
	args := m.Called(ctx, productID, r)
	return args.Get(0).(domain.Availability), args.Error(1)
}

func (m *MockAvailabilityService) AuditAllocations(ctx context.Context) ([]service.AllocationAudit, error) {
	args := m.Called(ctx)
	return args.Get(0).([]service.AllocationAudit), args.Error(1)
}

type MockOrderService struct{ mock.Mock }

func (m *MockOrderService) ConvertQuoteToOrder(ctx context.Context, quoteID string) (string, error) {
	args := m.Called(ctx, quoteID)
	return args.String(0), args.Error(1)
}

func (m *MockOrderService) TransitionOrderItem(ctx context.Context, itemID string, ev domain.ItemEvent) (domain.OrderItemStatus, error) {
	args := m.Called(ctx, itemID, ev)
	return args.Get(0).(domain.OrderItemStatus), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context) ([]service.OrderSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]service.OrderSummary), args.Error(1)
}

func (m *MockOrderService) GetOrderDetails(ctx context.Context, orderID string) (*service.OrderDetails, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(*service.OrderDetails), args.Error(1)
}

type MockPaymentService struct{ mock.Mock }

func (m *MockPaymentService) CreateInvoice(ctx context.Context, orderID string, amount *decimal.Decimal, due *time.Time) (string, error) {
	args := m.Called(ctx, orderID, amount, due)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentService) MarkPaid(ctx context.Context, paymentID string) error {
	return m.Called(ctx, paymentID).Error(0)
}

func (m *MockPaymentService) ListPayments(ctx context.Context, orderID string) ([]domain.Payment, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentService) MarkOverduePayments(ctx context.Context, today time.Time) (int64, error) {
	args := m.Called(ctx, today)
	return args.Get(0).(int64), args.Error(1)
}

type apiFixture struct {
	router       http.Handler
	token        string
	permissions  *MockPermissionService
	availability *MockAvailabilityService
	orders       *MockOrderService
	payments     *MockPaymentService
}

func newAPIFixture(t *testing.T) *apiFixture {
	tm := security.NewTokenManager("0123456789abcdef0123456789abcdef", "locadora-erp", time.Hour)
	token, err := tm.GenerateAccessToken("u-1", "op@locadora.com.br", []string{"operador"})
	require.NoError(t, err)

	f := &apiFixture{
		token:        token,
		permissions:  new(MockPermissionService),
		availability: new(MockAvailabilityService),
		orders:       new(MockOrderService),
		payments:     new(MockPaymentService),
	}
	f.router = NewRouter(Services{
		Availability: f.availability,
		Orders:       f.orders,
		Payments:     f.payments,
		Permissions:  f.permissions,
	}, tm, 5*time.Second)
	return f
}

func (f *apiFixture) allow(slug string) {
	f.permissions.On("CheckPermission", mock.Anything, "u-1", slug).Return(true, nil)
}

func (f *apiFixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+f.token)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func TestRouter_Health(t *testing.T) {
	f := newAPIFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRouter_Authentication(t *testing.T) {
	f := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_PermissionDenied(t *testing.T) {
	f := newAPIFixture(t)
	f.permissions.On("CheckPermission", mock.Anything, "u-1", domain.PermManageOrders).Return(false, nil).Once()

	rec := f.do(http.MethodPost, "/api/v1/quotes/q-1/convert", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, string(domain.KindPermissionDenied), errorCode(t, rec))
	f.orders.AssertNotCalled(t, "ConvertQuoteToOrder", mock.Anything, mock.Anything)
}

func TestRouter_Availability(t *testing.T) {
	f := newAPIFixture(t)
	f.allow(domain.PermViewInventory)

	rng := domain.DateRange{Start: time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC), End: time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)}
	f.availability.On("AvailableQuantity", mock.Anything, "p-1", rng).
		Return(domain.Availability{ProductID: "p-1", Range: rng, Total: 5, Reserved: 3, Available: 2}, nil).Once()

	rec := f.do(http.MethodGet, "/api/v1/products/p-1/availability?start=2025-01-12&end=2025-01-20", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var av domain.Availability
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &av))
	assert.Equal(t, 2, av.Available)

	rec = f.do(http.MethodGet, "/api/v1/products/p-1/availability?start=2025-01-20&end=2025-01-12", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(domain.KindInvalidInput), errorCode(t, rec))
}

func TestRouter_ConvertQuote(t *testing.T) {
	f := newAPIFixture(t)
	f.allow(domain.PermManageOrders)

	f.orders.On("ConvertQuoteToOrder", mock.Anything, "q-1").Return("o-1", nil).Once()
	rec := f.do(http.MethodPost, "/api/v1/quotes/q-1/convert", "")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":"o-1"}`, rec.Body.String())

	f.orders.On("ConvertQuoteToOrder", mock.Anything, "q-2").Return("", domain.NewError(domain.KindConversion, "quote q-2 is Converted")).Once()
	rec = f.do(http.MethodPost, "/api/v1/quotes/q-2/convert", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, string(domain.KindConversion), errorCode(t, rec))
}

func TestRouter_TransitionItem(t *testing.T) {
	f := newAPIFixture(t)
	f.allow(domain.PermManageOrders)

	rec := f.do(http.MethodPost, "/api/v1/order-items/i-1/transitions", `{"event":"teleport"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPost, "/api/v1/order-items/i-1/transitions", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.orders.On("TransitionOrderItem", mock.Anything, "i-1", domain.EventCheckOut).
		Return(domain.AllocationCheckedIn, domain.NewError(domain.KindInvalidTransition, "cannot checkOut")).Once()
	rec = f.do(http.MethodPost, "/api/v1/order-items/i-1/transitions", `{"event":"checkOut"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, string(domain.KindInvalidTransition), errorCode(t, rec))

	f.orders.On("TransitionOrderItem", mock.Anything, "i-2", domain.EventCheckIn).Return(domain.AllocationCheckedIn, nil).Once()
	rec = f.do(http.MethodPost, "/api/v1/order-items/i-2/transitions", `{"event":"checkIn"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"i-2","status":"CheckedIn"}`, rec.Body.String())
}

func TestRouter_Payments(t *testing.T) {
	f := newAPIFixture(t)
	f.allow(domain.PermManagePayments)

	f.payments.On("CreateInvoice", mock.Anything, "o-1",
		mock.MatchedBy(func(a *decimal.Decimal) bool { return a != nil && a.Equal(decimal.RequireFromString("150.00")) }),
		mock.MatchedBy(func(d *time.Time) bool { return d != nil && d.Format("2006-01-02") == "2025-02-10" }),
	).Return("pay-1", nil).Once()
	rec := f.do(http.MethodPost, "/api/v1/orders/o-1/payments", `{"amount":"150.00","due_date":"2025-02-10"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(http.MethodPost, "/api/v1/orders/o-1/payments", `{"due_date":"10/02/2025"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.payments.On("MarkPaid", mock.Anything, "pay-1").Return(domain.NewError(domain.KindAlreadyPaid, "payment pay-1 is already paid")).Once()
	rec = f.do(http.MethodPost, "/api/v1/payments/pay-1/paid", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, string(domain.KindAlreadyPaid), errorCode(t, rec))
}

func TestStatusFor(t *testing.T) {
	cases := map[domain.ErrorKind]int{
		domain.KindInvalidInput:       http.StatusBadRequest,
		domain.KindValidation:         http.StatusUnprocessableEntity,
		domain.KindInsufficientStock:  http.StatusConflict,
		domain.KindNotFound:           http.StatusNotFound,
		domain.KindPermissionDenied:   http.StatusForbidden,
		domain.KindStorageTimeout:     http.StatusGatewayTimeout,
		domain.KindStorageUnavailable: http.StatusServiceUnavailable,
		"":                            http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, statusFor(kind), string(kind))
	}
}

func TestRouter_EveryAPIRouteHasPermission(t *testing.T) {
	router := NewRouter(Services{}, security.NewTokenManager("0123456789abcdef0123456789abcdef", "locadora-erp", time.Hour), time.Second)

	var names []string
	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		tmpl, err := route.GetPathTemplate()
		if err != nil || !strings.HasPrefix(tmpl, "/api/v1/") || route.GetName() == "" {
			return nil
		}
		names = append(names, route.GetName())
		return nil
	})
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, name := range names {
		_, ok := config.PermissionFor(name)
		assert.True(t, ok, "route %s has no permission", name)
	}
}
