package service

import (
	"context"
	"errors"

	"locadora-erp-backend/internal/domain"
	"locadora-erp-backend/internal/logger"
	"locadora-erp-backend/internal/repository"
)

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *productService) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	logger.EnterMethod("ProductService.CreateProduct", "name", input.Name, "category_id", input.CategoryID)

	product, err := domain.NewProduct(input.Name, input.CategoryID, input.TotalQuantity, input.RentValue)
	if err != nil {
		logger.ExitMethodWithError("ProductService.CreateProduct", err)
		return nil, err
	}
	category, err := s.categoryRepo.GetByID(ctx, input.CategoryID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.InvalidInput("unknown category %s", input.CategoryID)
	}
	if err != nil {
		logger.ExitMethodWithError("ProductService.CreateProduct", err)
		return nil, err
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		logger.ExitMethodWithError("ProductService.CreateProduct", err)
		return nil, err
	}
	product.CategoryName = category.Name

	logger.ExitMethod("ProductService.CreateProduct", "product_id", product.ID)
	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

func (s *productService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.productRepo.List(ctx)
}

func (s *productService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categoryRepo.List(ctx)
}
