package postgres

import (
	"context"

	"locadora-erp-backend/internal/domain"
	"locadora-erp-backend/internal/logger"
	"locadora-erp-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type orderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) repository.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, o *domain.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Type == "" {
		o.Type = domain.OrderTypeRental
	}
	query := `INSERT INTO orders (id, client_id, quote_id, type, created_at) VALUES ($1, $2, $3, $4, NOW()) RETURNING created_at`
	logger.DatabaseCall("orders.Create", query, "order_id", o.ID, "quote_id", o.QuoteID, "items", len(o.Items))
	if err := r.db.QueryRowContext(ctx, query, o.ID, o.ClientID, o.QuoteID, o.Type).Scan(&o.CreatedAt); err != nil {
		return mapError("insert order", err)
	}

	itemQuery := `INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, start_date, end_date, status)
	              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i := range o.Items {
		it := &o.Items[i]
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		it.OrderID = o.ID
		if _, err := r.db.ExecContext(ctx, itemQuery, it.ID, o.ID, it.ProductID, it.Quantity, it.UnitPrice, it.Range.Start, it.Range.End, it.Status); err != nil {
			return mapError("insert order item", err)
		}
	}
	return nil
}

const orderItemColumns = `i.id, i.order_id, i.product_id, COALESCE(p.name, ''), i.quantity, i.unit_price, i.start_date, i.end_date, i.status`

func scanOrderItem(row interface{ Scan(...any) error }, it *domain.OrderItem) error {
	if err := row.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice, &it.Range.Start, &it.Range.End, &it.Status); err != nil {
		return err
	}
	it.Range.Start, it.Range.End = domain.Day(it.Range.Start), domain.Day(it.Range.End)
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT o.id, o.client_id, COALESCE(c.name, ''), o.quote_id, o.type, o.created_at
	          FROM orders o LEFT JOIN clients c ON c.id = o.client_id WHERE o.id = $1`
	o := &domain.Order{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&o.ID, &o.ClientID, &o.ClientName, &o.QuoteID, &o.Type, &o.CreatedAt)
	if err != nil {
		return nil, notFoundOr("get order", "order", id, err)
	}
	items, err := r.itemsFor(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	o.Items = items[id]
	return o, nil
}

// List returns every order, newest first, with items loaded so callers can
// derive the status.
func (r *orderRepository) List(ctx context.Context) ([]domain.Order, error) {
	query := `SELECT o.id, o.client_id, COALESCE(c.name, ''), o.quote_id, o.type, o.created_at
	          FROM orders o LEFT JOIN clients c ON c.id = o.client_id ORDER BY o.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError("list orders", err)
	}
	defer rows.Close()

	var orders []domain.Order
	var ids []string
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.ClientID, &o.ClientName, &o.QuoteID, &o.Type, &o.CreatedAt); err != nil {
			return nil, mapError("scan order", err)
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list orders", err)
	}
	if len(ids) == 0 {
		return orders, nil
	}

	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (r *orderRepository) itemsFor(ctx context.Context, orderIDs []string) (map[string][]domain.OrderItem, error) {
	query := `SELECT ` + orderItemColumns + ` FROM order_items i LEFT JOIN products p ON p.id = i.product_id
	          WHERE i.order_id = ANY($1) ORDER BY i.start_date, i.id`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(orderIDs))
	if err != nil {
		return nil, mapError("list order items", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.OrderItem, len(orderIDs))
	for rows.Next() {
		var it domain.OrderItem
		if err := scanOrderItem(rows, &it); err != nil {
			return nil, mapError("scan order item", err)
		}
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, mapError("list order items", rows.Err())
}

func (r *orderRepository) GetItemForUpdate(ctx context.Context, itemID string) (*domain.OrderItem, error) {
	query := `SELECT i.id, i.order_id, i.product_id, '', i.quantity, i.unit_price, i.start_date, i.end_date, i.status
	          FROM order_items i WHERE i.id = $1 FOR UPDATE`
	it := &domain.OrderItem{}
	if err := scanOrderItem(r.db.QueryRowContext(ctx, query, itemID), it); err != nil {
		return nil, notFoundOr("get order item", "order item", itemID, err)
	}
	return it, nil
}

func (r *orderRepository) UpdateItemStatus(ctx context.Context, itemID string, status domain.OrderItemStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE order_items SET status = $1 WHERE id = $2`, status, itemID)
	if err != nil {
		return mapError("update order item", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError("update order item", err)
	}
	logger.DatabaseResult("orders.UpdateItemStatus", n, nil, "item_id", itemID, "status", status)
	if n == 0 {
		return domain.NotFound("order item", itemID)
	}
	return nil
}
