package postgres

import (
	"context"
	"time"

	"locadora-erp-backend/internal/domain"
	"locadora-erp-backend/internal/repository"

	"github.com/shopspring/decimal"
)

type dashboardRepository struct {
	db DBTX
}

func NewDashboardRepository(db DBTX) repository.DashboardRepository {
	return &dashboardRepository{db: db}
}

// PaidRevenueBetween sums payments paid in [from, to).
func (r *dashboardRepository) PaidRevenueBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM order_payments WHERE status = $1 AND paid_at >= $2 AND paid_at < $3`
	var sum decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, domain.PaymentPaid, from, to).Scan(&sum); err != nil {
		return decimal.Zero, mapError("sum paid revenue", err)
	}
	return sum, nil
}

func (r *dashboardRepository) CountClientsCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients WHERE created_at >= $1 AND created_at < $2`, from, to).Scan(&n)
	return n, mapError("count new clients", err)
}

// CountActiveOrders counts orders holding at least one Reserved or CheckedOut item.
func (r *dashboardRepository) CountActiveOrders(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT order_id) FROM order_items WHERE status = ANY($1)`, activeStatuses()).Scan(&n)
	return n, mapError("count active orders", err)
}

func (r *dashboardRepository) SumCheckedOutUnits(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(quantity), 0) FROM order_items WHERE status = $1`, domain.AllocationCheckedOut).Scan(&n)
	return n, mapError("sum checked out units", err)
}

func (r *dashboardRepository) RecentActivity(ctx context.Context, limit int) ([]domain.ActivityItem, error) {
	query := `SELECT id, kind, label, created_at FROM (
	            (SELECT c.id, 'client' AS kind, c.name AS label, c.created_at FROM clients c ORDER BY c.created_at DESC LIMIT $1)
	            UNION ALL
	            (SELECT q.id, 'quote', COALESCE(c.name, ''), q.created_at FROM quotes q LEFT JOIN clients c ON c.id = q.client_id ORDER BY q.created_at DESC LIMIT $1)
	            UNION ALL
	            (SELECT o.id, 'order', COALESCE(c.name, ''), o.created_at FROM orders o LEFT JOIN clients c ON c.id = o.client_id ORDER BY o.created_at DESC LIMIT $1)
	          ) activity ORDER BY created_at DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, mapError("recent activity", err)
	}
	defer rows.Close()

	var items []domain.ActivityItem
	for rows.Next() {
		var it domain.ActivityItem
		var label string
		if err := rows.Scan(&it.ID, &it.Type, &label, &it.Timestamp); err != nil {
			return nil, mapError("scan activity", err)
		}
		it.Description = describeActivity(it, label)
		items = append(items, it)
	}
	return items, mapError("recent activity", rows.Err())
}

func describeActivity(it domain.ActivityItem, label string) string {
	if label == "" {
		label = "N/A"
	}
	short := it.ID
	if len(short) > 8 {
		short = short[:8]
	}
	switch it.Type {
	case domain.ActivityClient:
		return "New client: " + label
	case domain.ActivityQuote:
		return "Quote #" + short + " for " + label
	default:
		return "Order #" + short + " for " + label
	}
}

func (r *dashboardRepository) CheckedOutEndingBetween(ctx context.Context, from, to time.Time) ([]domain.UpcomingReturn, error) {
	query := `SELECT i.order_id, COALESCE(c.name, ''), i.end_date
	          FROM order_items i
	          JOIN orders o ON o.id = i.order_id
	          LEFT JOIN clients c ON c.id = o.client_id
	          WHERE i.status = $1 AND i.end_date >= $2 AND i.end_date <= $3
	          ORDER BY i.end_date, i.order_id`
	rows, err := r.db.QueryContext(ctx, query, domain.AllocationCheckedOut, domain.Day(from), domain.Day(to))
	if err != nil {
		return nil, mapError("upcoming returns", err)
	}
	defer rows.Close()

	var out []domain.UpcomingReturn
	for rows.Next() {
		ur := domain.UpcomingReturn{ItemCount: 1}
		if err := rows.Scan(&ur.OrderID, &ur.ClientName, &ur.EndDate); err != nil {
			return nil, mapError("scan upcoming return", err)
		}
		out = append(out, ur)
	}
	return out, mapError("upcoming returns", rows.Err())
}

