package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"locadora-erp-backend/internal/config"
	"locadora-erp-backend/internal/domain"
	"locadora-erp-backend/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockPaymentService struct{ mock.Mock }

func (m *mockPaymentService) CreateInvoice(ctx context.Context, orderID string, amount *decimal.Decimal, due *time.Time) (string, error) {
	args := m.Called(ctx, orderID, amount, due)
	return args.String(0), args.Error(1)
}

func (m *mockPaymentService) MarkPaid(ctx context.Context, paymentID string) error {
	return m.Called(ctx, paymentID).Error(0)
}

func (m *mockPaymentService) ListPayments(ctx context.Context, orderID string) ([]domain.Payment, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *mockPaymentService) MarkOverduePayments(ctx context.Context, today time.Time) (int64, error) {
	args := m.Called(ctx, today)
	return args.Get(0).(int64), args.Error(1)
}

type mockAvailabilityService struct{ mock.Mock }

func (m *mockAvailabilityService) AvailableQuantity(ctx context.Context, productID string, r domain.DateRange) (domain.Availability, error) {
	args := m.Called(ctx, productID, r)
	return args.Get(0).(domain.Availability), args.Error(1)
}

func (m *mockAvailabilityService) AuditAllocations(ctx context.Context) ([]service.AllocationAudit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.AllocationAudit), args.Error(1)
}

func newRunner() (*JobRunner, *mockPaymentService, *mockAvailabilityService) {
	payments := new(mockPaymentService)
	availability := new(mockAvailabilityService)
	jr := NewJobRunner(&Services{Payment: payments, Availability: availability}, &config.Config{})
	fixed := time.Date(2025, 3, 1, 2, 0, 0, 0, time.UTC)
	jr.now = func() time.Time { return fixed }
	return jr, payments, availability
}

func TestJobRunner_MarkOverduePayments(t *testing.T) {
	jr, payments, _ := newRunner()
	payments.On("MarkOverduePayments", mock.Anything, time.Date(2025, 3, 1, 2, 0, 0, 0, time.UTC)).Return(int64(3), nil).Once()

	jr.MarkOverduePayments()
	payments.AssertExpectations(t)
}

func TestJobRunner_AuditAllocations(t *testing.T) {
	jr, _, availability := newRunner()
	availability.On("AuditAllocations", mock.Anything).Return([]service.AllocationAudit{
		{ProductID: "p-1", TotalQuantity: 2, PeakDemand: 3},
		{ProductID: "p-2", TotalQuantity: 5, PeakDemand: 1},
	}, nil).Once()

	jr.AuditAllocations()
	availability.AssertExpectations(t)
}

func TestJobRunner_RunAllNightlyJobs(t *testing.T) {
	jr, payments, availability := newRunner()
	payments.On("MarkOverduePayments", mock.Anything, mock.Anything).Return(int64(0), errors.New("database down")).Once()
	availability.On("AuditAllocations", mock.Anything).Return(nil, errors.New("database down")).Once()

	// Failures are logged; the second job still runs.
	jr.RunAllNightlyJobs()
	payments.AssertExpectations(t)
	availability.AssertExpectations(t)
}

func TestJobRunner_RecoversFromPanic(t *testing.T) {
	jr, _, _ := newRunner()
	assert.NotPanics(t, func() {
		jr.runWithRecovery("Boom", func(ctx context.Context) {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			panic("boom")
		})
	})
}
