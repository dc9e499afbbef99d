package postgres

import (
	"context"
	"time"

	"locadora-erp-backend/internal/domain"
	"locadora-erp-backend/internal/logger"
	"locadora-erp-backend/internal/repository"

	"github.com/google/uuid"
)

type paymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `id, order_id, amount, due_date, status, paid_at, created_at`

func scanPayment(row interface{ Scan(...any) error }, p *domain.Payment) error {
	return row.Scan(&p.ID, &p.OrderID, &p.Amount, &p.DueDate, &p.Status, &p.PaidAt, &p.CreatedAt)
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	query := `INSERT INTO order_payments (id, order_id, amount, due_date, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING created_at`
	logger.DatabaseCall("payments.Create", query, "payment_id", p.ID, "order_id", p.OrderID)
	err := r.db.QueryRowContext(ctx, query, p.ID, p.OrderID, p.Amount, p.DueDate, p.Status).Scan(&p.CreatedAt)
	return mapError("insert payment", err)
}

func (r *paymentRepository) GetForUpdate(ctx context.Context, id string) (*domain.Payment, error) {
	p := &domain.Payment{}
	query := `SELECT ` + paymentColumns + ` FROM order_payments WHERE id = $1 FOR UPDATE`
	if err := scanPayment(r.db.QueryRowContext(ctx, query, id), p); err != nil {
		return nil, notFoundOr("get payment", "payment", id, err)
	}
	return p, nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, p *domain.Payment) error {
	_, err := r.db.ExecContext(ctx, `UPDATE order_payments SET status = $1, paid_at = $2 WHERE id = $3`, p.Status, p.PaidAt, p.ID)
	return mapError("update payment", err)
}

func (r *paymentRepository) ListByOrder(ctx context.Context, orderID string) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM order_payments WHERE order_id = $1 ORDER BY due_date NULLS LAST, created_at`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, mapError("list payments", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := scanPayment(rows, &p); err != nil {
			return nil, mapError("scan payment", err)
		}
		payments = append(payments, p)
	}
	return payments, mapError("list payments", rows.Err())
}

func (r *paymentRepository) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	query := `UPDATE order_payments SET status = $1 WHERE status = $2 AND due_date IS NOT NULL AND due_date < $3`
	logger.DatabaseCall("payments.MarkOverdue", query)
	res, err := r.db.ExecContext(ctx, query, domain.PaymentOverdue, domain.PaymentPending, domain.Day(today))
	if err != nil {
		return 0, mapError("mark overdue payments", err)
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("payments.MarkOverdue", n, err)
	return n, mapError("mark overdue payments", err)
}
