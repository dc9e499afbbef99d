package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ValidationStatus string

const (
	ValidationPending      ValidationStatus = "PENDING"
	ValidationOK           ValidationStatus = "OK"
	ValidationInsufficient ValidationStatus = "INSUFFICIENT"
)

// LineValidation is the last availability verdict for a cart line.
type LineValidation struct {
	Status      ValidationStatus `json:"status"`
	Available   int              `json:"available_quantity"`
	Requested   int              `json:"requested_quantity"` // line quantity plus overlapping cart lines
	ValidatedAt time.Time        `json:"validated_at"`
}

func (v LineValidation) OK() bool {
	return v.Status == ValidationOK
}

// CartLine is a provisional allocation that lives only in a cart.
type CartLine struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Range      DateRange       `json:"range"`
	Validation LineValidation  `json:"validation"`
}

// Cart is the in-progress quote. It is never persisted to the relational
// store; Submit turns it into a Quote.
type Cart struct {
	ID        string     `json:"id"`
	ClientID  string     `json:"client_id,omitempty"`
	Lines     []CartLine `json:"lines"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	// SubmittedAt is set while a submission owns the cart. A claimed cart
	// accepts no edits and no second submission.
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

func (c *Cart) Submitted() bool {
	return c.SubmittedAt != nil
}

// EnsureOpen fails once the cart has been claimed by a submission.
func (c *Cart) EnsureOpen() error {
	if c.Submitted() {
		return NewError(KindValidation, "cart %s has already been submitted", c.ID)
	}
	return nil
}

// Claim builds the quote for clientID and marks the cart as submitted in one
// step. It fails when the cart is already claimed or not ready.
func (c *Cart) Claim(clientID string, at time.Time) (*Quote, error) {
	if err := c.EnsureOpen(); err != nil {
		return nil, err
	}
	q, err := QuoteFromCart(c, clientID)
	if err != nil {
		return nil, err
	}
	c.SubmittedAt = &at
	return q, nil
}

// Release reopens a cart whose submission did not go through.
func (c *Cart) Release() {
	c.SubmittedAt = nil
}

func (c *Cart) Line(lineID string) (*CartLine, bool) {
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			return &c.Lines[i], true
		}
	}
	return nil, false
}

// AddLine appends a line and invalidates earlier verdicts for the same
// product, since their in-cart competition changed.
func (c *Cart) AddLine(line CartLine) {
	line.Validation = LineValidation{Status: ValidationPending}
	c.resetProduct(line.ProductID)
	c.Lines = append(c.Lines, line)
}

func (c *Cart) RemoveLine(lineID string) bool {
	for i, l := range c.Lines {
		if l.ID == lineID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			c.resetProduct(l.ProductID)
			return true
		}
	}
	return false
}

// CompetingQuantity sums the other lines of the same product whose ranges
// overlap the given line.
func (c *Cart) CompetingQuantity(line CartLine) int {
	sum := 0
	for _, other := range c.Lines {
		if other.ID == line.ID || other.ProductID != line.ProductID {
			continue
		}
		if other.Range.Overlaps(line.Range) {
			sum += other.Quantity
		}
	}
	return sum
}

// Ready reports whether every line's last validation passed.
func (c *Cart) Ready() bool {
	for _, l := range c.Lines {
		if !l.Validation.OK() {
			return false
		}
	}
	return true
}

func (c *Cart) resetProduct(productID string) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Validation = LineValidation{Status: ValidationPending}
		}
	}
}
