package postgres

import (
	"context"

	"locadora-erp-backend/internal/domain"
	"locadora-erp-backend/internal/logger"
	"locadora-erp-backend/internal/repository"

	"github.com/lib/pq"
)

type allocationRepository struct {
	db DBTX
}

func NewAllocationRepository(db DBTX) repository.AllocationRepository {
	return &allocationRepository{db: db}
}

func activeStatuses() any {
	statuses := make([]string, len(domain.BlockingStatuses))
	for i, s := range domain.BlockingStatuses {
		statuses[i] = string(s)
	}
	return pq.Array(statuses)
}

// Overlap is inclusive on both ends, matching domain.DateRange.Overlaps.
const overlapClause = `product_id = $1 AND status = ANY($2) AND start_date <= $4 AND end_date >= $3`

func (r *allocationRepository) ListActiveOverlapping(ctx context.Context, productID string, dr domain.DateRange) ([]domain.Allocation, error) {
	query := `SELECT id, product_id, quantity, start_date, end_date, status FROM order_items WHERE ` + overlapClause + ` ORDER BY start_date`
	logger.DatabaseCall("allocations.ListActiveOverlapping", query, "product_id", productID, "range", dr.String())
	return r.list(ctx, "list overlapping allocations", query, productID, activeStatuses(), dr.Start, dr.End)
}

func (r *allocationRepository) SumActiveOverlapping(ctx context.Context, productID string, dr domain.DateRange) (int, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM order_items WHERE ` + overlapClause
	var sum int
	err := r.db.QueryRowContext(ctx, query, productID, activeStatuses(), dr.Start, dr.End).Scan(&sum)
	if err != nil {
		return 0, mapError("sum overlapping allocations", err)
	}
	return sum, nil
}

func (r *allocationRepository) ListActiveByProduct(ctx context.Context, productID string) ([]domain.Allocation, error) {
	query := `SELECT id, product_id, quantity, start_date, end_date, status FROM order_items
	          WHERE product_id = $1 AND status = ANY($2) ORDER BY start_date`
	return r.list(ctx, "list product allocations", query, productID, activeStatuses())
}

func (r *allocationRepository) list(ctx context.Context, op, query string, args ...any) ([]domain.Allocation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	var allocations []domain.Allocation
	for rows.Next() {
		var a domain.Allocation
		if err := rows.Scan(&a.ID, &a.ProductID, &a.Quantity, &a.Range.Start, &a.Range.End, &a.Status); err != nil {
			return nil, mapError("scan allocation", err)
		}
		a.Range.Start, a.Range.End = domain.Day(a.Range.Start), domain.Day(a.Range.End)
		allocations = append(allocations, a)
	}
	logger.DatabaseResult(op, int64(len(allocations)), rows.Err())
	return allocations, mapError(op, rows.Err())
}
