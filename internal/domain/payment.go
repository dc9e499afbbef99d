package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
	PaymentOverdue PaymentStatus = "Overdue"
)

type Payment struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	Amount    decimal.Decimal `json:"amount"`
	DueDate   *time.Time      `json:"due_date,omitempty"`
	Status    PaymentStatus   `json:"status"`
	PaidAt    *time.Time      `json:"paid_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewInvoice snapshots the order total into a Pending payment. A supplied
// amount must match the snapshot exactly, and free orders are not invoiced.
func NewInvoice(o *Order, amount *decimal.Decimal, due *time.Time) (*Payment, error) {
	if len(o.Items) == 0 {
		return nil, InvalidInput("order %s has no items to invoice", o.ID)
	}
	total := o.Total()
	if !total.IsPositive() {
		return nil, InvalidInput("order %s totals %s, there is nothing to invoice", o.ID, total.StringFixed(2))
	}
	if amount != nil && !amount.Equal(total) {
		return nil, InvalidInput("invoice amount %s does not match order total %s", amount.StringFixed(2), total.StringFixed(2))
	}
	p := &Payment{
		OrderID: o.ID,
		Amount:  total,
		Status:  PaymentPending,
	}
	if due != nil {
		d := Day(*due)
		p.DueDate = &d
	}
	return p, nil
}

// MarkPaid moves a Pending or Overdue payment to Paid.
func (p *Payment) MarkPaid(at time.Time) error {
	switch p.Status {
	case PaymentPaid:
		return NewError(KindAlreadyPaid, "payment %s is already paid", p.ID)
	case PaymentPending, PaymentOverdue:
		p.Status = PaymentPaid
		p.PaidAt = &at
		return nil
	}
	return NewError(KindInvalidTransition, "payment %s has unknown status %s", p.ID, p.Status)
}

// IsOverdue reports whether a Pending payment's due date is before today.
func (p *Payment) IsOverdue(today time.Time) bool {
	return p.Status == PaymentPending && p.DueDate != nil && p.DueDate.Before(Day(today))
}
