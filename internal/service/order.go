package service

import (
	"context"
	"errors"
	"sort"

	"locadora-erp-backend/internal/domain"
	"locadora-erp-backend/internal/logger"
	"locadora-erp-backend/internal/repository"
)

type orderService struct {
	orderRepo  repository.OrderRepository
	clientRepo repository.ClientRepository
	tx         repository.Transactor
}

func NewOrderService(orderRepo repository.OrderRepository, clientRepo repository.ClientRepository, tx repository.Transactor) OrderService {
	return &orderService{
		orderRepo:  orderRepo,
		clientRepo: clientRepo,
		tx:         tx,
	}
}

// ConvertQuoteToOrder turns a Draft quote into an order with Reserved items.
// Everything happens in one serializable transaction holding row locks on the
// quote and its products, so either the order exists with every item and the
// quote is Converted, or nothing changed.
func (s *orderService) ConvertQuoteToOrder(ctx context.Context, quoteID string) (string, error) {
	logger.EnterMethod("OrderService.ConvertQuoteToOrder", "quote_id", quoteID)

	var orderID string
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		quote, err := repos.Quotes.GetForUpdate(ctx, quoteID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewError(domain.KindConversion, "quote %s does not exist", quoteID)
		}
		if err != nil {
			return err
		}
		if !quote.Convertible() {
			return domain.NewError(domain.KindConversion, "quote %s is %s, only Draft quotes can be converted", quoteID, quote.Status)
		}
		if len(quote.Lines) == 0 {
			return domain.NewError(domain.KindConversion, "quote %s has no lines", quoteID)
		}

		products, err := lockProducts(ctx, repos.Products, quote)
		if err != nil {
			return err
		}
		if err := checkQuoteStock(ctx, repos.Allocations, products, quote); err != nil {
			return err
		}

		order := domain.OrderFromQuote(quote)
		if err := repos.Orders.Create(ctx, order); err != nil {
			return err
		}
		if err := repos.Quotes.MarkConverted(ctx, quote.ID, order.ID); err != nil {
			return err
		}
		orderID = order.ID
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("OrderService.ConvertQuoteToOrder", err, "quote_id", quoteID)
		return "", err
	}

	logger.ExitMethod("OrderService.ConvertQuoteToOrder", "order_id", orderID)
	return orderID, nil
}

func lockProducts(ctx context.Context, repo repository.ProductRepository, quote *domain.Quote) (map[string]domain.Product, error) {
	grouped := quote.LinesByProduct()
	ids := make([]string, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	locked, err := repo.LockByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	products := make(map[string]domain.Product, len(locked))
	for _, p := range locked {
		products[p.ID] = p
	}
	for _, id := range ids {
		if _, ok := products[id]; !ok {
			return nil, domain.NewError(domain.KindConversion, "product %s no longer exists", id)
		}
	}
	return products, nil
}

// checkQuoteStock re-checks every line against persisted allocations plus the
// quote's own overlapping lines for the same product.
func checkQuoteStock(ctx context.Context, repo repository.AllocationRepository, products map[string]domain.Product, quote *domain.Quote) error {
	for i, line := range quote.Lines {
		reserved, err := repo.SumActiveOverlapping(ctx, line.ProductID, line.Range)
		if err != nil {
			return err
		}
		av := domain.NewAvailability(products[line.ProductID], line.Range, reserved)
		if av.ConsistencyWarning {
			logger.ConsistencyWarning(ctx, line.ProductID, line.Range, av.Raw(), "quote_id", quote.ID)
		}

		requested := line.Quantity
		for j, other := range quote.Lines {
			if j != i && other.ProductID == line.ProductID && other.Range.Overlaps(line.Range) {
				requested += other.Quantity
			}
		}
		if requested > av.Available {
			return domain.NewError(domain.KindInsufficientStock,
				"product %s: requested %d for %s, available %d", line.ProductID, requested, line.Range, av.Available)
		}
	}
	return nil
}

// TransitionOrderItem applies ev to one item under a row lock. Invalid
// transitions leave the item untouched.
func (s *orderService) TransitionOrderItem(ctx context.Context, itemID string, ev domain.ItemEvent) (domain.OrderItemStatus, error) {
	logger.EnterMethod("OrderService.TransitionOrderItem", "item_id", itemID, "event", ev)

	var next domain.OrderItemStatus
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		item, err := repos.Orders.GetItemForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		status, err := domain.Transition(item.Status, ev)
		if err != nil {
			return err
		}
		if err := repos.Orders.UpdateItemStatus(ctx, itemID, status); err != nil {
			return err
		}
		next = status
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("OrderService.TransitionOrderItem", err, "item_id", itemID)
		return "", err
	}

	logger.ExitMethod("OrderService.TransitionOrderItem", "status", next)
	return next, nil
}

func (s *orderService) ListOrders(ctx context.Context) ([]OrderSummary, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]OrderSummary, 0, len(orders))
	for _, o := range orders {
		out = append(out, OrderSummary{Order: o, Status: o.Status(), Total: o.Total()})
	}
	return out, nil
}

func (s *orderService) GetOrderDetails(ctx context.Context, orderID string) (*OrderDetails, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	details := &OrderDetails{Order: order, Status: order.Status(), Total: order.Total()}
	client, err := s.clientRepo.GetByID(ctx, order.ClientID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	details.Client = client
	return details, nil
}
