package postgres_test

import (
	"context"
	"testing"
	"time"

	"locadora-erp-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepository_LockByIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewProductRepository(db)
	rows := sqlmock.NewRows([]string{"id", "name", "category_id", "category_name", "total_quantity", "rent_value", "created_at"}).
		AddRow("p1", "Scaffold", "cat1", "", 5, "25.00", time.Now()).
		AddRow("p2", "Mixer", nil, "", 2, "80.00", time.Now())
	mock.ExpectQuery(`SELECT (.+) FROM products p WHERE p.id = ANY\(\$1\) ORDER BY p.id FOR UPDATE`).
		WillReturnRows(rows)

	products, err := repo.LockByIDs(context.Background(), []string{"p2", "p1"})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, 5, products[0].TotalQuantity)
	require.NotNil(t, products[0].CategoryID)
	assert.Nil(t, products[1].CategoryID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRBACRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRBACRepository(db)
	ctx := context.Background()

	t.Run("ReplaceRolePermissions", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM role_permissions WHERE role_id").WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec("INSERT INTO role_permissions").WithArgs(int64(2), sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 2))

		assert.NoError(t, repo.ReplaceRolePermissions(ctx, 2, []int64{1, 4}))
	})

	t.Run("Empty set only deletes", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM role_permissions").WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 2))

		assert.NoError(t, repo.ReplaceRolePermissions(ctx, 2, nil))
	})

	t.Run("UserHasPermission", func(t *testing.T) {
		mock.ExpectQuery("SELECT EXISTS").WithArgs("u1", "manage:roles").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		ok, err := repo.UserHasPermission(ctx, "u1", "manage:roles")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
