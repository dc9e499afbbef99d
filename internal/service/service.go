package service

import (
	"context"
	"time"

	"locadora-erp-backend/internal/domain"

	"github.com/shopspring/decimal"
)

type AvailabilityService interface {
	AvailableQuantity(ctx context.Context, productID string, r domain.DateRange) (domain.Availability, error)
	// AuditAllocations checks every product for days on which active
	// allocations exceed stock.
	AuditAllocations(ctx context.Context) ([]AllocationAudit, error)
}

type QuoteService interface {
	NewCart(ctx context.Context) (*domain.Cart, error)
	GetCart(ctx context.Context, cartID string) (*domain.Cart, error)
	AddLine(ctx context.Context, cartID, productID string, qty int, r domain.DateRange) (string, error)
	RemoveLine(ctx context.Context, cartID, lineID string) error
	ValidateLine(ctx context.Context, cartID, lineID string) (domain.LineValidation, error)
	Submit(ctx context.Context, cartID, clientID string) (string, error)
	GetQuote(ctx context.Context, quoteID string) (*domain.Quote, error)
	ListConvertible(ctx context.Context) ([]domain.Quote, error)
}

type OrderService interface {
	ConvertQuoteToOrder(ctx context.Context, quoteID string) (string, error)
	TransitionOrderItem(ctx context.Context, itemID string, ev domain.ItemEvent) (domain.OrderItemStatus, error)
	ListOrders(ctx context.Context) ([]OrderSummary, error)
	GetOrderDetails(ctx context.Context, orderID string) (*OrderDetails, error)
}

type PaymentService interface {
	CreateInvoice(ctx context.Context, orderID string, amount *decimal.Decimal, due *time.Time) (string, error)
	MarkPaid(ctx context.Context, paymentID string) error
	ListPayments(ctx context.Context, orderID string) ([]domain.Payment, error)
	MarkOverduePayments(ctx context.Context, today time.Time) (int64, error)
}

type ClientService interface {
	CreateClient(ctx context.Context, input ClientInput) (*domain.Client, error)
	ListClients(ctx context.Context) ([]domain.Client, error)
	LookupCNPJ(ctx context.Context, cnpj string) (*domain.CompanyInfo, error)
}

type ProductService interface {
	CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

type PermissionService interface {
	GetRBACData(ctx context.Context) (*domain.RBACData, error)
	UpdateRolePermissions(ctx context.Context, roleID int64, permissionIDs []int64) error
	CheckPermission(ctx context.Context, userID, slug string) (bool, error)
}

type DashboardService interface {
	GetKPIs(ctx context.Context, now time.Time) (*domain.KPIs, error)
	GetRecentActivity(ctx context.Context) ([]domain.ActivityItem, error)
	GetUpcomingReturns(ctx context.Context, today time.Time) ([]domain.UpcomingReturn, error)
}

type EmailService interface {
	SendInvoiceNotice(ctx context.Context, client *domain.Client, payment *domain.Payment) error
}

// CompanyLookup resolves a CNPJ against the company registry.
type CompanyLookup interface {
	Lookup(ctx context.Context, cnpj string) (*domain.CompanyInfo, error)
}

type ClientInput struct {
	Name     string
	Document string
	Email    string
	Phone    string
}

type ProductInput struct {
	Name          string
	CategoryID    string
	TotalQuantity int
	RentValue     decimal.Decimal
}

type OrderSummary struct {
	domain.Order
	Status domain.OrderStatus `json:"status"`
	Total  decimal.Decimal    `json:"total"`
}

type OrderDetails struct {
	Order  *domain.Order      `json:"order"`
	Client *domain.Client     `json:"client,omitempty"`
	Status domain.OrderStatus `json:"status"`
	Total  decimal.Decimal    `json:"total"`
}

type AllocationAudit struct {
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name"`
	TotalQuantity int       `json:"total_quantity"`
	PeakDemand    int       `json:"peak_demand"`
	PeakDay       time.Time `json:"peak_day"`
}

func (a AllocationAudit) Overallocated() bool {
	return a.PeakDemand > a.TotalQuantity
}
