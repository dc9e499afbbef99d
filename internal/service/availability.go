package service

import (
	"context"

	"locadora-erp-backend/internal/domain"
	"locadora-erp-backend/internal/logger"
	"locadora-erp-backend/internal/repository"
)

type availabilityService struct {
	productRepo    repository.ProductRepository
	allocationRepo repository.AllocationRepository
}

func NewAvailabilityService(productRepo repository.ProductRepository, allocationRepo repository.AllocationRepository) AvailabilityService {
	return &availabilityService{
		productRepo:    productRepo,
		allocationRepo: allocationRepo,
	}
}

func (s *availabilityService) AvailableQuantity(ctx context.Context, productID string, r domain.DateRange) (domain.Availability, error) {
	logger.EnterMethod("AvailabilityService.AvailableQuantity", "product_id", productID, "range", r.String())

	if err := checkRange(r); err != nil {
		return domain.Availability{}, err
	}
	r = domain.DateRange{Start: domain.Day(r.Start), End: domain.Day(r.End)}
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		logger.ExitMethodWithError("AvailabilityService.AvailableQuantity", err, "product_id", productID)
		return domain.Availability{}, err
	}
	allocations, err := s.allocationRepo.ListActiveOverlapping(ctx, productID, r)
	if err != nil {
		logger.ExitMethodWithError("AvailabilityService.AvailableQuantity", err, "product_id", productID)
		return domain.Availability{}, err
	}

	ledger := domain.Ledger{Product: *product, Allocations: allocations}
	av := ledger.AvailableIn(r)
	if av.ConsistencyWarning {
		logger.ConsistencyWarning(ctx, productID, r, av.Raw(), "reserved", av.Reserved, "total", av.Total)
	}

	logger.ExitMethod("AvailabilityService.AvailableQuantity", "available", av.Available)
	return av, nil
}

func (s *availabilityService) AuditAllocations(ctx context.Context) ([]AllocationAudit, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	audits := make([]AllocationAudit, 0, len(products))
	for _, p := range products {
		allocations, err := s.allocationRepo.ListActiveByProduct(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		peak, day := domain.Ledger{Product: p, Allocations: allocations}.PeakDemand()
		audit := AllocationAudit{
			ProductID:     p.ID,
			ProductName:   p.Name,
			TotalQuantity: p.TotalQuantity,
			PeakDemand:    peak,
			PeakDay:       day,
		}
		if audit.Overallocated() {
			logger.ConsistencyWarning(ctx, p.ID, domain.DateRange{Start: day, End: day}, p.TotalQuantity-peak, "peak_demand", peak)
		}
		audits = append(audits, audit)
	}
	return audits, nil
}

func checkRange(r domain.DateRange) error {
	if r.Start.IsZero() || r.End.IsZero() {
		return domain.InvalidInput("start and end dates are required")
	}
	if r.Start.After(r.End) {
		return domain.InvalidInput("start date %s is after end date %s", r.Start.Format(domain.DateLayout), r.End.Format(domain.DateLayout))
	}
	return nil
}
