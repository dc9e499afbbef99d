package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type QuoteStatus string

const (
	QuoteDraft     QuoteStatus = "Draft"
	QuoteConverted QuoteStatus = "Converted"
)

type QuoteLine struct {
	ID        string          `json:"id"`
	QuoteID   string          `json:"quote_id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Range     DateRange       `json:"range"`
}

// Quote is a submitted cart. It never allocates stock; conversion copies its
// lines into order items and freezes it.
type Quote struct {
	ID               string      `json:"id"`
	ClientID         string      `json:"client_id"`
	ClientName       string      `json:"client_name,omitempty"`
	Status           QuoteStatus `json:"status"`
	Lines            []QuoteLine `json:"lines,omitempty"`
	ConvertedOrderID *string     `json:"converted_order_id,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
}

func (q *Quote) Convertible() bool {
	return q.Status == QuoteDraft
}

// LinesByProduct groups lines by product, in line order.
func (q *Quote) LinesByProduct() map[string][]QuoteLine {
	out := make(map[string][]QuoteLine)
	for _, l := range q.Lines {
		out[l.ProductID] = append(out[l.ProductID], l)
	}
	return out
}

// QuoteFromCart builds a Draft quote from a ready cart.
func QuoteFromCart(c *Cart, clientID string) (*Quote, error) {
	if len(c.Lines) == 0 {
		return nil, NewError(KindValidation, "cart %s is empty", c.ID)
	}
	if clientID == "" {
		return nil, NewError(KindValidation, "no client selected")
	}
	for _, l := range c.Lines {
		if !l.Validation.OK() {
			return nil, NewError(KindValidation, "line %s has not been validated successfully", l.ID)
		}
	}
	q := &Quote{
		ClientID: clientID,
		Status:   QuoteDraft,
		Lines:    make([]QuoteLine, 0, len(c.Lines)),
	}
	for _, l := range c.Lines {
		q.Lines = append(q.Lines, QuoteLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Range:     l.Range,
		})
	}
	return q, nil
}
