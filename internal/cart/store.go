// Package cart keeps in-progress quotes outside the relational store.
package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"locadora-erp-backend/internal/domain"
)

// Store persists carts between requests. Update applies fn to the current
// cart and saves the result atomically with respect to other Updates of the
// same cart; when fn fails nothing is saved.
type Store interface {
	Create(ctx context.Context, cart *domain.Cart) error
	Get(ctx context.Context, id string) (*domain.Cart, error)
	Update(ctx context.Context, id string, fn func(cart *domain.Cart) error) (*domain.Cart, error)
	Delete(ctx context.Context, id string) error
}

func Key(id string) string { return fmt.Sprintf("cart:%s", id) }

func encode(c *domain.Cart) ([]byte, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode cart %s: %w", c.ID, err)
	}
	return b, nil
}

func decode(b []byte) (*domain.Cart, error) {
	var c domain.Cart
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return &c, nil
}

func notFound(id string) error {
	return domain.NotFound("cart", id)
}
