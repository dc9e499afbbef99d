package postgres

import (
	"context"

	"locadora-erp-backend/internal/domain"
	"locadora-erp-backend/internal/logger"
	"locadora-erp-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type productRepository struct {
	db DBTX
}

func NewProductRepository(db DBTX) repository.ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `p.id, p.name, p.category_id, COALESCE(c.name, ''), p.total_quantity, p.rent_value, p.created_at`

func scanProduct(row interface{ Scan(...any) error }, p *domain.Product) error {
	return row.Scan(&p.ID, &p.Name, &p.CategoryID, &p.CategoryName, &p.TotalQuantity, &p.RentValue, &p.CreatedAt)
}

func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	query := `INSERT INTO products (id, name, category_id, total_quantity, rent_value, created_at)
	          VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING created_at`
	logger.DatabaseCall("products.Create", query, "product_id", p.ID)
	err := r.db.QueryRowContext(ctx, query, p.ID, p.Name, p.CategoryID, p.TotalQuantity, p.RentValue).Scan(&p.CreatedAt)
	return mapError("insert product", err)
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	p := &domain.Product{}
	query := `SELECT ` + productColumns + ` FROM products p LEFT JOIN categories c ON c.id = p.category_id WHERE p.id = $1`
	if err := scanProduct(r.db.QueryRowContext(ctx, query, id), p); err != nil {
		return nil, notFoundOr("get product", "product", id, err)
	}
	return p, nil
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p LEFT JOIN categories c ON c.id = p.category_id ORDER BY p.name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError("list products", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, mapError("scan product", err)
		}
		products = append(products, p)
	}
	return products, mapError("list products", rows.Err())
}

func (r *productRepository) LockByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	query := `SELECT p.id, p.name, p.category_id, '', p.total_quantity, p.rent_value, p.created_at
	          FROM products p WHERE p.id = ANY($1) ORDER BY p.id FOR UPDATE`
	logger.DatabaseCall("products.LockByIDs", query, "count", len(ids))
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, mapError("lock products", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, mapError("scan product", err)
		}
		products = append(products, p)
	}
	return products, mapError("lock products", rows.Err())
}

type categoryRepository struct {
	db DBTX
}

func NewCategoryRepository(db DBTX) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	c := &domain.Category{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM categories WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	if err != nil {
		return nil, notFoundOr("get category", "category", id, err)
	}
	return c, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, mapError("list categories", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, mapError("scan category", err)
		}
		categories = append(categories, c)
	}
	return categories, mapError("list categories", rows.Err())
}
