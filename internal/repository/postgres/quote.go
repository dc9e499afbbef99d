package postgres

import (
	"context"

	"locadora-erp-backend/internal/domain"
	"locadora-erp-backend/internal/logger"
	"locadora-erp-backend/internal/repository"

	"github.com/google/uuid"
)

type quoteRepository struct {
	db DBTX
}

func NewQuoteRepository(db DBTX) repository.QuoteRepository {
	return &quoteRepository{db: db}
}

func (r *quoteRepository) Create(ctx context.Context, q *domain.Quote) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	query := `INSERT INTO quotes (id, client_id, status, created_at) VALUES ($1, $2, $3, NOW()) RETURNING created_at`
	logger.DatabaseCall("quotes.Create", query, "quote_id", q.ID, "lines", len(q.Lines))
	if err := r.db.QueryRowContext(ctx, query, q.ID, q.ClientID, q.Status).Scan(&q.CreatedAt); err != nil {
		return mapError("insert quote", err)
	}

	lineQuery := `INSERT INTO quote_items (id, quote_id, product_id, quantity, unit_price, start_date, end_date)
	              VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i := range q.Lines {
		l := &q.Lines[i]
		if l.ID == "" {
			l.ID = uuid.NewString()
		}
		l.QuoteID = q.ID
		if _, err := r.db.ExecContext(ctx, lineQuery, l.ID, q.ID, l.ProductID, l.Quantity, l.UnitPrice, l.Range.Start, l.Range.End); err != nil {
			return mapError("insert quote line", err)
		}
	}
	return nil
}

func (r *quoteRepository) GetByID(ctx context.Context, id string) (*domain.Quote, error) {
	return r.get(ctx, id, false)
}

func (r *quoteRepository) GetForUpdate(ctx context.Context, id string) (*domain.Quote, error) {
	return r.get(ctx, id, true)
}

func (r *quoteRepository) get(ctx context.Context, id string, lock bool) (*domain.Quote, error) {
	query := `SELECT id, client_id, status, converted_order_id, created_at FROM quotes WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	q := &domain.Quote{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&q.ID, &q.ClientID, &q.Status, &q.ConvertedOrderID, &q.CreatedAt)
	if err != nil {
		return nil, notFoundOr("get quote", "quote", id, err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, quote_id, product_id, quantity, unit_price, start_date, end_date
	                                     FROM quote_items WHERE quote_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, mapError("list quote lines", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l domain.QuoteLine
		if err := rows.Scan(&l.ID, &l.QuoteID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Range.Start, &l.Range.End); err != nil {
			return nil, mapError("scan quote line", err)
		}
		l.Range.Start, l.Range.End = domain.Day(l.Range.Start), domain.Day(l.Range.End)
		q.Lines = append(q.Lines, l)
	}
	return q, mapError("list quote lines", rows.Err())
}

func (r *quoteRepository) MarkConverted(ctx context.Context, quoteID, orderID string) error {
	query := `UPDATE quotes SET status = $1, converted_order_id = $2 WHERE id = $3 AND status = $4`
	res, err := r.db.ExecContext(ctx, query, domain.QuoteConverted, orderID, quoteID, domain.QuoteDraft)
	if err != nil {
		return mapError("mark quote converted", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError("mark quote converted", err)
	}
	if n == 0 {
		return domain.NewError(domain.KindConversion, "quote %s is not a draft", quoteID)
	}
	return nil
}

func (r *quoteRepository) ListByStatus(ctx context.Context, status domain.QuoteStatus) ([]domain.Quote, error) {
	query := `SELECT q.id, q.client_id, COALESCE(c.name, ''), q.status, q.converted_order_id, q.created_at
	          FROM quotes q LEFT JOIN clients c ON c.id = q.client_id
	          WHERE q.status = $1 ORDER BY q.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, mapError("list quotes", err)
	}
	defer rows.Close()

	var quotes []domain.Quote
	for rows.Next() {
		var q domain.Quote
		if err := rows.Scan(&q.ID, &q.ClientID, &q.ClientName, &q.Status, &q.ConvertedOrderID, &q.CreatedAt); err != nil {
			return nil, mapError("scan quote", err)
		}
		quotes = append(quotes, q)
	}
	return quotes, mapError("list quotes", rows.Err())
}
