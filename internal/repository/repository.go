package repository

import (
	"context"
	"time"

	"locadora-erp-backend/internal/domain"

	"github.com/shopspring/decimal"
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	// LockByIDs takes row locks on the given products in id order and returns
	// them. Must run inside a transaction.
	LockByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
}

type CategoryRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}

type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context) ([]domain.Client, error)
}

// AllocationRepository reads the persisted allocation set, which is the
// order items of every order. Active means Reserved or CheckedOut.
type AllocationRepository interface {
	ListActiveOverlapping(ctx context.Context, productID string, r domain.DateRange) ([]domain.Allocation, error)
	SumActiveOverlapping(ctx context.Context, productID string, r domain.DateRange) (int, error)
	ListActiveByProduct(ctx context.Context, productID string) ([]domain.Allocation, error)
}

type QuoteRepository interface {
	// Create inserts the header and every line.
	Create(ctx context.Context, quote *domain.Quote) error
	GetByID(ctx context.Context, id string) (*domain.Quote, error)
	// GetForUpdate locks the quote header and loads its lines.
	GetForUpdate(ctx context.Context, id string) (*domain.Quote, error)
	MarkConverted(ctx context.Context, quoteID, orderID string) error
	ListByStatus(ctx context.Context, status domain.QuoteStatus) ([]domain.Quote, error)
}

type OrderRepository interface {
	// Create inserts the header and every item.
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	GetItemForUpdate(ctx context.Context, itemID string) (*domain.OrderItem, error)
	UpdateItemStatus(ctx context.Context, itemID string, status domain.OrderItemStatus) error
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetForUpdate(ctx context.Context, id string) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, payment *domain.Payment) error
	ListByOrder(ctx context.Context, orderID string) ([]domain.Payment, error)
	// MarkOverdue flips Pending payments due before today and returns how many changed.
	MarkOverdue(ctx context.Context, today time.Time) (int64, error)
}

type RBACRepository interface {
	ListRoles(ctx context.Context) ([]domain.Role, error)
	ListPermissions(ctx context.Context) ([]domain.Permission, error)
	ListRolePermissions(ctx context.Context) ([]domain.RolePermission, error)
	GetRole(ctx context.Context, id int64) (*domain.Role, error)
	ReplaceRolePermissions(ctx context.Context, roleID int64, permissionIDs []int64) error
	UserHasPermission(ctx context.Context, userID, slug string) (bool, error)
}

type DashboardRepository interface {
	PaidRevenueBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	CountClientsCreatedBetween(ctx context.Context, from, to time.Time) (int, error)
	CountActiveOrders(ctx context.Context) (int, error)
	SumCheckedOutUnits(ctx context.Context) (int, error)
	RecentActivity(ctx context.Context, limit int) ([]domain.ActivityItem, error)
	// CheckedOutEndingBetween returns one row per CheckedOut item whose end
	// date falls in [from, to], ordered by end date.
	CheckedOutEndingBetween(ctx context.Context, from, to time.Time) ([]domain.UpcomingReturn, error)
}

// Repositories bundles every repository bound to the same connection or
// transaction.
type Repositories struct {
	Products    ProductRepository
	Categories  CategoryRepository
	Clients     ClientRepository
	Allocations AllocationRepository
	Quotes      QuoteRepository
	Orders      OrderRepository
	Payments    PaymentRepository
	RBAC        RBACRepository
	Dashboard   DashboardRepository
}

// Transactor runs fn inside one serializable transaction. fn may be invoked
// more than once when the database reports a serialization conflict, so it
// must not have effects outside repos.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
