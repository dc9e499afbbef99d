package service

import (
	"context"
	"errors"
	"time"

	"locadora-erp-backend/internal/cart"
	"locadora-erp-backend/internal/domain"
	"locadora-erp-backend/internal/logger"
	"locadora-erp-backend/internal/repository"

	"github.com/google/uuid"
)

type quoteService struct {
	carts        cart.Store
	productRepo  repository.ProductRepository
	clientRepo   repository.ClientRepository
	quoteRepo    repository.QuoteRepository
	availability AvailabilityService
	tx           repository.Transactor
	now          func() time.Time
}

func NewQuoteService(
	carts cart.Store,
	productRepo repository.ProductRepository,
	clientRepo repository.ClientRepository,
	quoteRepo repository.QuoteRepository,
	availability AvailabilityService,
	tx repository.Transactor,
) QuoteService {
	return &quoteService{
		carts:        carts,
		productRepo:  productRepo,
		clientRepo:   clientRepo,
		quoteRepo:    quoteRepo,
		availability: availability,
		tx:           tx,
		now:          time.Now,
	}
}

func (s *quoteService) NewCart(ctx context.Context) (*domain.Cart, error) {
	now := s.now().UTC()
	c := &domain.Cart{ID: uuid.NewString(), Lines: []domain.CartLine{}, CreatedAt: now, UpdatedAt: now}
	if err := s.carts.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *quoteService) GetCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	return s.carts.Get(ctx, cartID)
}

func (s *quoteService) AddLine(ctx context.Context, cartID, productID string, qty int, r domain.DateRange) (string, error) {
	logger.EnterMethod("QuoteService.AddLine", "cart_id", cartID, "product_id", productID, "quantity", qty)

	if qty <= 0 {
		return "", domain.InvalidInput("quantity must be positive, got %d", qty)
	}
	if err := checkRange(r); err != nil {
		return "", err
	}
	product, err := s.productRepo.GetByID(ctx, productID)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.InvalidInput("unknown product %s", productID)
	}
	if err != nil {
		logger.ExitMethodWithError("QuoteService.AddLine", err)
		return "", err
	}

	line := domain.CartLine{
		ID:        uuid.NewString(),
		ProductID: product.ID,
		Quantity:  qty,
		UnitPrice: product.RentValue,
		Range:     domain.DateRange{Start: domain.Day(r.Start), End: domain.Day(r.End)},
	}
	if _, err := s.carts.Update(ctx, cartID, func(c *domain.Cart) error {
		if err := c.EnsureOpen(); err != nil {
			return err
		}
		c.AddLine(line)
		return nil
	}); err != nil {
		logger.ExitMethodWithError("QuoteService.AddLine", err)
		return "", err
	}

	logger.ExitMethod("QuoteService.AddLine", "line_id", line.ID)
	return line.ID, nil
}

func (s *quoteService) RemoveLine(ctx context.Context, cartID, lineID string) error {
	_, err := s.carts.Update(ctx, cartID, func(c *domain.Cart) error {
		if err := c.EnsureOpen(); err != nil {
			return err
		}
		if !c.RemoveLine(lineID) {
			return domain.NotFound("cart line", lineID)
		}
		return nil
	})
	return err
}

// ValidateLine checks the line against stock, counting overlapping lines of
// the same product in this cart as already taken, and records the verdict on
// the line.
func (s *quoteService) ValidateLine(ctx context.Context, cartID, lineID string) (domain.LineValidation, error) {
	logger.EnterMethod("QuoteService.ValidateLine", "cart_id", cartID, "line_id", lineID)

	c, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return domain.LineValidation{}, err
	}
	line, ok := c.Line(lineID)
	if !ok {
		return domain.LineValidation{}, domain.NotFound("cart line", lineID)
	}
	product, err := s.productRepo.GetByID(ctx, line.ProductID)
	if err != nil {
		logger.ExitMethodWithError("QuoteService.ValidateLine", err)
		return domain.LineValidation{}, err
	}

	combined := line.Quantity + c.CompetingQuantity(*line)
	verdict := domain.LineValidation{Requested: combined, ValidatedAt: s.now().UTC()}
	if combined > product.TotalQuantity {
		verdict.Status = domain.ValidationInsufficient
		verdict.Available = product.TotalQuantity
	} else {
		av, err := s.availability.AvailableQuantity(ctx, line.ProductID, line.Range)
		if err != nil {
			logger.ExitMethodWithError("QuoteService.ValidateLine", err)
			return domain.LineValidation{}, err
		}
		verdict.Available = av.Available
		verdict.Status = domain.ValidationOK
		if combined > av.Available {
			verdict.Status = domain.ValidationInsufficient
		}
	}

	_, err = s.carts.Update(ctx, cartID, func(current *domain.Cart) error {
		if err := current.EnsureOpen(); err != nil {
			return err
		}
		l, ok := current.Line(lineID)
		if !ok {
			return domain.NotFound("cart line", lineID)
		}
		if l.Quantity+current.CompetingQuantity(*l) != combined {
			return domain.NewError(domain.KindValidation, "cart %s changed during validation, validate again", cartID)
		}
		l.Validation = verdict
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("QuoteService.ValidateLine", err)
		return domain.LineValidation{}, err
	}

	logger.ExitMethod("QuoteService.ValidateLine", "status", verdict.Status, "available", verdict.Available)
	return verdict, nil
}

// Submit persists the cart as a Draft quote and discards the cart. Stock is
// not touched until conversion. The cart is claimed before anything is
// written, so concurrent submissions of one cart yield a single quote; the
// claim is released when the quote cannot be saved.
func (s *quoteService) Submit(ctx context.Context, cartID, clientID string) (string, error) {
	logger.EnterMethod("QuoteService.Submit", "cart_id", cartID, "client_id", clientID)

	var quote *domain.Quote
	_, err := s.carts.Update(ctx, cartID, func(c *domain.Cart) error {
		q, err := c.Claim(clientID, s.now().UTC())
		if err != nil {
			return err
		}
		quote = q
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("QuoteService.Submit", err)
		return "", err
	}

	if err := s.persistQuote(ctx, quote); err != nil {
		s.releaseCart(ctx, cartID)
		logger.ExitMethodWithError("QuoteService.Submit", err)
		return "", err
	}

	if err := s.carts.Delete(ctx, cartID); err != nil {
		logger.WarnContext(ctx, "Failed to discard submitted cart", "cart_id", cartID, "error", err)
	}

	logger.ExitMethod("QuoteService.Submit", "quote_id", quote.ID)
	return quote.ID, nil
}

func (s *quoteService) persistQuote(ctx context.Context, quote *domain.Quote) error {
	if _, err := s.clientRepo.GetByID(ctx, quote.ClientID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewError(domain.KindValidation, "client %s does not exist", quote.ClientID)
		}
		return err
	}
	return s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		return repos.Quotes.Create(ctx, quote)
	})
}

func (s *quoteService) releaseCart(ctx context.Context, cartID string) {
	_, err := s.carts.Update(context.WithoutCancel(ctx), cartID, func(c *domain.Cart) error {
		c.Release()
		return nil
	})
	if err != nil {
		logger.WarnContext(ctx, "Failed to release cart after failed submit", "cart_id", cartID, "error", err)
	}
}

func (s *quoteService) GetQuote(ctx context.Context, quoteID string) (*domain.Quote, error) {
	return s.quoteRepo.GetByID(ctx, quoteID)
}

// ListConvertible returns Draft quotes, newest first.
func (s *quoteService) ListConvertible(ctx context.Context) ([]domain.Quote, error) {
	return s.quoteRepo.ListByStatus(ctx, domain.QuoteDraft)
}
