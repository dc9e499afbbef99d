package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	CategoryID    *string         `json:"category_id,omitempty"`
	CategoryName  string          `json:"category_name,omitempty"` // Populated by list queries
	TotalQuantity int             `json:"total_quantity"`
	RentValue     decimal.Decimal `json:"rent_value"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NewProduct validates the catalog fields of a product. The ID is assigned
// on insert.
func NewProduct(name string, categoryID string, totalQuantity int, rentValue decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, InvalidInput("product name is required")
	}
	if categoryID == "" {
		return nil, InvalidInput("product category is required")
	}
	if totalQuantity < 0 {
		return nil, InvalidInput("total quantity must not be negative")
	}
	if rentValue.IsNegative() {
		return nil, InvalidInput("rent value must not be negative")
	}
	return &Product{
		Name:          name,
		CategoryID:    &categoryID,
		TotalQuantity: totalQuantity,
		RentValue:     rentValue,
	}, nil
}
