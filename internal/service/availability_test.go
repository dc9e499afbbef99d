package service_test

import (
	"context"
	"errors"
	"testing"

	"locadora-erp-backend/internal/domain"
	"locadora-erp-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityService_AvailableQuantity(t *testing.T) {
	ctx := context.Background()
	product := &domain.Product{ID: "p-1", Name: "Andaime", TotalQuantity: 5}
	existing := domain.Allocation{ID: "i-1", ProductID: "p-1", Quantity: 3, Range: span("2025-01-10", "2025-01-15"), Status: domain.AllocationReserved}

	t.Run("Overlap subtracts reserved units", func(t *testing.T) {
		products := new(MockProductRepo)
		allocations := new(MockAllocationRepo)
		svc := service.NewAvailabilityService(products, allocations)

		r := span("2025-01-12", "2025-01-20")
		products.On("GetByID", ctx, "p-1").Return(product, nil).Once()
		allocations.On("ListActiveOverlapping", ctx, "p-1", r).Return([]domain.Allocation{existing}, nil).Once()

		av, err := svc.AvailableQuantity(ctx, "p-1", r)
		require.NoError(t, err)
		assert.Equal(t, 2, av.Available)
		assert.Equal(t, 3, av.Reserved)
		assert.False(t, av.ConsistencyWarning)
		products.AssertExpectations(t)
		allocations.AssertExpectations(t)
	})

	t.Run("No overlap returns full stock", func(t *testing.T) {
		products := new(MockProductRepo)
		allocations := new(MockAllocationRepo)
		svc := service.NewAvailabilityService(products, allocations)

		r := span("2025-01-20", "2025-01-25")
		products.On("GetByID", ctx, "p-1").Return(product, nil).Once()
		allocations.On("ListActiveOverlapping", ctx, "p-1", r).Return([]domain.Allocation{}, nil).Once()

		av, err := svc.AvailableQuantity(ctx, "p-1", r)
		require.NoError(t, err)
		assert.Equal(t, 5, av.Available)
	})

	t.Run("Over-allocation clamps to zero", func(t *testing.T) {
		products := new(MockProductRepo)
		allocations := new(MockAllocationRepo)
		svc := service.NewAvailabilityService(products, allocations)

		r := span("2025-01-12", "2025-01-13")
		over := existing
		over.Quantity = 7
		products.On("GetByID", ctx, "p-1").Return(product, nil).Once()
		allocations.On("ListActiveOverlapping", ctx, "p-1", r).Return([]domain.Allocation{over}, nil).Once()

		av, err := svc.AvailableQuantity(ctx, "p-1", r)
		require.NoError(t, err)
		assert.Equal(t, 0, av.Available)
		assert.True(t, av.ConsistencyWarning)
		assert.Equal(t, -2, av.Raw())
	})

	t.Run("Reversed range", func(t *testing.T) {
		svc := service.NewAvailabilityService(new(MockProductRepo), new(MockAllocationRepo))
		_, err := svc.AvailableQuantity(ctx, "p-1", span("2025-01-20", "2025-01-10"))
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("Unknown product", func(t *testing.T) {
		products := new(MockProductRepo)
		svc := service.NewAvailabilityService(products, new(MockAllocationRepo))
		products.On("GetByID", ctx, "missing").Return(nil, domain.NotFound("product", "missing")).Once()

		_, err := svc.AvailableQuantity(ctx, "missing", span("2025-01-10", "2025-01-11"))
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestAvailabilityService_AuditAllocations(t *testing.T) {
	ctx := context.Background()
	products := new(MockProductRepo)
	allocations := new(MockAllocationRepo)
	svc := service.NewAvailabilityService(products, allocations)

	products.On("List", ctx).Return([]domain.Product{
		{ID: "p-1", Name: "Betoneira", TotalQuantity: 2},
		{ID: "p-2", Name: "Escora", TotalQuantity: 10},
	}, nil).Once()
	allocations.On("ListActiveByProduct", ctx, "p-1").Return([]domain.Allocation{
		{Quantity: 2, Range: span("2025-03-01", "2025-03-10"), Status: domain.AllocationReserved},
		{Quantity: 1, Range: span("2025-03-05", "2025-03-06"), Status: domain.AllocationCheckedOut},
	}, nil).Once()
	allocations.On("ListActiveByProduct", ctx, "p-2").Return([]domain.Allocation{}, nil).Once()

	audits, err := svc.AuditAllocations(ctx)
	require.NoError(t, err)
	require.Len(t, audits, 2)

	assert.True(t, audits[0].Overallocated())
	assert.Equal(t, 3, audits[0].PeakDemand)
	assert.Equal(t, day("2025-03-05"), audits[0].PeakDay)
	assert.False(t, audits[1].Overallocated())
	allocations.AssertExpectations(t)
}
