package service_test

import (
	"context"
	"time"

	"locadora-erp-backend/internal/domain"
	"locadora-erp-backend/internal/repository"
	"locadora-erp-backend/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockProductRepo struct{ mock.Mock }

func (m *MockProductRepo) Create(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepo) LockByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

type MockCategoryRepo struct{ mock.Mock }

func (m *MockCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}

type MockClientRepo struct{ mock.Mock }

func (m *MockClientRepo) Create(ctx context.Context, c *domain.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClientRepo) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepo) List(ctx context.Context) ([]domain.Client, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Client), args.Error(1)
}

type MockAllocationRepo struct{ mock.Mock }

func (m *MockAllocationRepo) ListActiveOverlapping(ctx context.Context, productID string, r domain.DateRange) ([]domain.Allocation, error) {
	args := m.Called(ctx, productID, r)
	return args.Get(0).([]domain.Allocation), args.Error(1)
}

func (m *MockAllocationRepo) SumActiveOverlapping(ctx context.Context, productID string, r domain.DateRange) (int, error) {
	args := m.Called(ctx, productID, r)
	return args.Int(0), args.Error(1)
}

func (m *MockAllocationRepo) ListActiveByProduct(ctx context.Context, productID string) ([]domain.Allocation, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]domain.Allocation), args.Error(1)
}

type MockQuoteRepo struct{ mock.Mock }

func (m *MockQuoteRepo) Create(ctx context.Context, q *domain.Quote) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuoteRepo) GetByID(ctx context.Context, id string) (*domain.Quote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}

func (m *MockQuoteRepo) GetForUpdate(ctx context.Context, id string) (*domain.Quote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}

func (m *MockQuoteRepo) MarkConverted(ctx context.Context, quoteID, orderID string) error {
	args := m.Called(ctx, quoteID, orderID)
	return args.Error(0)
}

func (m *MockQuoteRepo) ListByStatus(ctx context.Context, status domain.QuoteStatus) ([]domain.Quote, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.Quote), args.Error(1)
}

type MockOrderRepo struct{ mock.Mock }

func (m *MockOrderRepo) Create(ctx context.Context, o *domain.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepo) List(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepo) GetItemForUpdate(ctx context.Context, itemID string) (*domain.OrderItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderItem), args.Error(1)
}

func (m *MockOrderRepo) UpdateItemStatus(ctx context.Context, itemID string, status domain.OrderItemStatus) error {
	args := m.Called(ctx, itemID, status)
	return args.Error(0)
}

type MockPaymentRepo struct{ mock.Mock }

func (m *MockPaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepo) GetForUpdate(ctx context.Context, id string) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepo) UpdateStatus(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepo) ListByOrder(ctx context.Context, orderID string) ([]domain.Payment, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepo) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	args := m.Called(ctx, today)
	return args.Get(0).(int64), args.Error(1)
}

type MockRBACRepo struct{ mock.Mock }

func (m *MockRBACRepo) ListRoles(ctx context.Context) ([]domain.Role, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Role), args.Error(1)
}

func (m *MockRBACRepo) ListPermissions(ctx context.Context) ([]domain.Permission, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Permission), args.Error(1)
}

func (m *MockRBACRepo) ListRolePermissions(ctx context.Context) ([]domain.RolePermission, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.RolePermission), args.Error(1)
}

func (m *MockRBACRepo) GetRole(ctx context.Context, id int64) (*domain.Role, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Role), args.Error(1)
}

func (m *MockRBACRepo) ReplaceRolePermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	args := m.Called(ctx, roleID, permissionIDs)
	return args.Error(0)
}

func (m *MockRBACRepo) UserHasPermission(ctx context.Context, userID, slug string) (bool, error) {
	args := m.Called(ctx, userID, slug)
	return args.Bool(0), args.Error(1)
}

type MockDashboardRepo struct{ mock.Mock }

func (m *MockDashboardRepo) PaidRevenueBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockDashboardRepo) CountClientsCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	args := m.Called(ctx, from, to)
	return args.Int(0), args.Error(1)
}

func (m *MockDashboardRepo) CountActiveOrders(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockDashboardRepo) SumCheckedOutUnits(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockDashboardRepo) RecentActivity(ctx context.Context, limit int) ([]domain.ActivityItem, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.ActivityItem), args.Error(1)
}

func (m *MockDashboardRepo) CheckedOutEndingBetween(ctx context.Context, from, to time.Time) ([]domain.UpcomingReturn, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]domain.UpcomingReturn), args.Error(1)
}

// MockTransactor runs fn once against the mocked repositories. It counts
// calls so tests can assert how many transactions were opened.
type MockTransactor struct {
	Repos repository.Repositories
	Calls int
}

func (m *MockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	m.Calls++
	return fn(ctx, m.Repos)
}

type MockEmailService struct{ mock.Mock }

func (m *MockEmailService) SendInvoiceNotice(ctx context.Context, client *domain.Client, payment *domain.Payment) error {
	args := m.Called(ctx, client, payment)
	return args.Error(0)
}

type MockCompanyLookup struct{ mock.Mock }

func (m *MockCompanyLookup) Lookup(ctx context.Context, cnpj string) (*domain.CompanyInfo, error) {
	args := m.Called(ctx, cnpj)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompanyInfo), args.Error(1)
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

func day(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func span(start, end string) domain.DateRange {
	return domain.DateRange{Start: day(start), End: day(end)}
}
