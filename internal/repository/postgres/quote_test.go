package postgres_test

import (
	"context"
	"testing"
	"time"

	"locadora-erp-backend/internal/domain"
	"locadora-erp-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewQuoteRepository(db)
	ctx := context.Background()
	start := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("Create inserts header and lines", func(t *testing.T) {
		q := &domain.Quote{ClientID: "c1", Status: domain.QuoteDraft, Lines: []domain.QuoteLine{
			{ProductID: "p1", Quantity: 2, UnitPrice: decimal.RequireFromString("12.50"), Range: domain.DateRange{Start: start, End: end}},
		}}
		mock.ExpectQuery("INSERT INTO quotes").
			WithArgs(sqlmock.AnyArg(), "c1", "Draft").
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
		mock.ExpectExec("INSERT INTO quote_items").
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "p1", 2, "12.5", start, end).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(ctx, q))
		assert.NotEmpty(t, q.ID)
		assert.Equal(t, q.ID, q.Lines[0].QuoteID)
	})

	t.Run("GetForUpdate locks and loads lines", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM quotes WHERE id = \$1 FOR UPDATE`).
			WithArgs("q1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "client_id", "status", "converted_order_id", "created_at"}).
				AddRow("q1", "c1", "Draft", nil, time.Now()))
		mock.ExpectQuery("SELECT (.+) FROM quote_items WHERE quote_id").
			WithArgs("q1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "quote_id", "product_id", "quantity", "unit_price", "start_date", "end_date"}).
				AddRow("l1", "q1", "p1", 2, "12.50", start, end))

		q, err := repo.GetForUpdate(ctx, "q1")
		require.NoError(t, err)
		assert.Equal(t, domain.QuoteDraft, q.Status)
		assert.Nil(t, q.ConvertedOrderID)
		require.Len(t, q.Lines, 1)
		assert.True(t, decimal.RequireFromString("12.5").Equal(q.Lines[0].UnitPrice))
	})

	t.Run("Missing quote is not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM quotes WHERE id").
			WithArgs("nope").
			WillReturnRows(sqlmock.NewRows([]string{"id", "client_id", "status", "converted_order_id", "created_at"}))

		_, err := repo.GetByID(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("MarkConverted on a converted quote fails", func(t *testing.T) {
		mock.ExpectExec("UPDATE quotes SET status").
			WithArgs("Converted", "o1", "q1", "Draft").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkConverted(ctx, "q1", "o1")
		assert.ErrorIs(t, err, domain.ErrConversion)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
