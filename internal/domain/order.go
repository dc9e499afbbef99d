package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemStatus is the allocation status of a persisted order item. Order
// items never sit in Draft.
type OrderItemStatus = AllocationStatus

type ItemEvent string

const (
	EventCheckOut      ItemEvent = "checkOut"
	EventCheckIn       ItemEvent = "checkIn"
	EventCancel        ItemEvent = "cancel"
	EventReportLost    ItemEvent = "reportLost"
	EventReportDamaged ItemEvent = "reportDamaged"
)

var itemTransitions = map[AllocationStatus]map[ItemEvent]AllocationStatus{
	AllocationReserved: {
		EventCheckOut: AllocationCheckedOut,
		EventCancel:   AllocationCancelled,
	},
	AllocationCheckedOut: {
		EventCheckIn:       AllocationCheckedIn,
		EventCancel:        AllocationCancelled,
		EventReportLost:    AllocationLost,
		EventReportDamaged: AllocationDamaged,
	},
}

func ParseItemEvent(s string) (ItemEvent, error) {
	ev := ItemEvent(s)
	switch ev {
	case EventCheckOut, EventCheckIn, EventCancel, EventReportLost, EventReportDamaged:
		return ev, nil
	}
	return "", InvalidInput("unknown item event %q", s)
}

// Terminal reports whether no event is accepted from s.
func (s AllocationStatus) Terminal() bool {
	return len(itemTransitions[s]) == 0
}

// Transition returns the status reached from s on ev, or an InvalidTransition
// error. It never mutates anything.
func Transition(s AllocationStatus, ev ItemEvent) (AllocationStatus, error) {
	next, ok := itemTransitions[s][ev]
	if !ok {
		return s, NewError(KindInvalidTransition, "cannot %s an item in status %s", ev, s)
	}
	return next, nil
}

type OrderItem struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"order_id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Range       DateRange       `json:"range"`
	Status      OrderItemStatus `json:"status"`
}

func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i *OrderItem) Allocation() Allocation {
	return Allocation{ID: i.ID, ProductID: i.ProductID, Quantity: i.Quantity, Range: i.Range, Status: i.Status}
}

const OrderTypeRental = "Rental"

type OrderStatus string

const (
	OrderReserved   OrderStatus = "Reserved"
	OrderCheckedOut OrderStatus = "CheckedOut"
	OrderCompleted  OrderStatus = "Completed"
	OrderCancelled  OrderStatus = "Cancelled"
)

type Order struct {
	ID         string      `json:"id"`
	ClientID   string      `json:"client_id"`
	ClientName string      `json:"client_name,omitempty"`
	QuoteID    string      `json:"quote_id"`
	Type       string      `json:"type"`
	Items      []OrderItem `json:"items,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// OrderFromQuote copies the quote lines into Reserved items. Prices are the
// quote's snapshot.
func OrderFromQuote(q *Quote) *Order {
	o := &Order{
		ClientID: q.ClientID,
		QuoteID:  q.ID,
		Type:     OrderTypeRental,
		Items:    make([]OrderItem, 0, len(q.Lines)),
	}
	for _, l := range q.Lines {
		o.Items = append(o.Items, OrderItem{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Range:     l.Range,
			Status:    AllocationReserved,
		})
	}
	return o
}

// Status derives the aggregate order status from its items:
// any CheckedOut item wins, then any Reserved; otherwise the order is
// Cancelled when every item was cancelled and Completed when all are closed.
func (o *Order) Status() OrderStatus {
	return DeriveOrderStatus(o.itemStatuses())
}

func (o *Order) itemStatuses() []OrderItemStatus {
	out := make([]OrderItemStatus, len(o.Items))
	for i, it := range o.Items {
		out[i] = it.Status
	}
	return out
}

func DeriveOrderStatus(statuses []OrderItemStatus) OrderStatus {
	if len(statuses) == 0 {
		return OrderCancelled
	}
	reserved, cancelled := false, 0
	for _, s := range statuses {
		switch s {
		case AllocationCheckedOut:
			return OrderCheckedOut
		case AllocationReserved:
			reserved = true
		case AllocationCancelled:
			cancelled++
		}
	}
	if reserved {
		return OrderReserved
	}
	if cancelled == len(statuses) {
		return OrderCancelled
	}
	return OrderCompleted
}

// Total is the sum of unit price times quantity over every item.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].Subtotal())
	}
	return total
}
