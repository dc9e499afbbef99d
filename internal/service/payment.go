package service

import (
	"context"
	"errors"
	"time"

	"locadora-erp-backend/internal/domain"
	"locadora-erp-backend/internal/logger"
	"locadora-erp-backend/internal/repository"

	"github.com/shopspring/decimal"
)

type paymentService struct {
	paymentRepo    repository.PaymentRepository
	orderRepo      repository.OrderRepository
	clientRepo     repository.ClientRepository
	emailService   EmailService
	tx             repository.Transactor
	defaultDueDays int
	now            func() time.Time
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	clientRepo repository.ClientRepository,
	emailService EmailService,
	tx repository.Transactor,
	defaultDueDays int,
) PaymentService {
	return &paymentService{
		paymentRepo:    paymentRepo,
		orderRepo:      orderRepo,
		clientRepo:     clientRepo,
		emailService:   emailService,
		tx:             tx,
		defaultDueDays: defaultDueDays,
		now:            time.Now,
	}
}

// CreateInvoice records a Pending payment for the order's current total.
func (s *paymentService) CreateInvoice(ctx context.Context, orderID string, amount *decimal.Decimal, due *time.Time) (string, error) {
	logger.EnterMethod("PaymentService.CreateInvoice", "order_id", orderID)

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		logger.ExitMethodWithError("PaymentService.CreateInvoice", err, "order_id", orderID)
		return "", err
	}
	if due == nil && s.defaultDueDays > 0 {
		d := domain.Day(s.now()).AddDate(0, 0, s.defaultDueDays)
		due = &d
	}
	payment, err := domain.NewInvoice(order, amount, due)
	if err != nil {
		logger.ExitMethodWithError("PaymentService.CreateInvoice", err, "order_id", orderID)
		return "", err
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		logger.ExitMethodWithError("PaymentService.CreateInvoice", err, "order_id", orderID)
		return "", err
	}

	s.notify(ctx, order.ClientID, payment)

	logger.ExitMethod("PaymentService.CreateInvoice", "payment_id", payment.ID, "amount", payment.Amount.String())
	return payment.ID, nil
}

func (s *paymentService) notify(ctx context.Context, clientID string, payment *domain.Payment) {
	if s.emailService == nil {
		return
	}
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.WarnContext(ctx, "Failed to load client for invoice notice", "client_id", clientID, "error", err)
		}
		return
	}
	if err := s.emailService.SendInvoiceNotice(ctx, client, payment); err != nil {
		logger.WarnContext(ctx, "Failed to send invoice notice", "payment_id", payment.ID, "error", err)
	}
}

func (s *paymentService) MarkPaid(ctx context.Context, paymentID string) error {
	logger.EnterMethod("PaymentService.MarkPaid", "payment_id", paymentID)

	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		payment, err := repos.Payments.GetForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if err := payment.MarkPaid(s.now().UTC()); err != nil {
			return err
		}
		return repos.Payments.UpdateStatus(ctx, payment)
	})
	if err != nil {
		logger.ExitMethodWithError("PaymentService.MarkPaid", err, "payment_id", paymentID)
		return err
	}

	logger.ExitMethod("PaymentService.MarkPaid", "payment_id", paymentID)
	return nil
}

func (s *paymentService) ListPayments(ctx context.Context, orderID string) ([]domain.Payment, error) {
	return s.paymentRepo.ListByOrder(ctx, orderID)
}

func (s *paymentService) MarkOverduePayments(ctx context.Context, today time.Time) (int64, error) {
	n, err := s.paymentRepo.MarkOverdue(ctx, domain.Day(today))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.InfoContext(ctx, "Marked payments overdue", "count", n)
	}
	return n, nil
}
