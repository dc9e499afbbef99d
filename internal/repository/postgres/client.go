package postgres

import (
	"context"

	"locadora-erp-backend/internal/domain"
	"locadora-erp-backend/internal/repository"

	"github.com/google/uuid"
)

type clientRepository struct {
	db DBTX
}

func NewClientRepository(db DBTX) repository.ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, c *domain.Client) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	query := `INSERT INTO clients (id, name, document, email, phone, created_at)
	          VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NOW()) RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, c.ID, c.Name, c.Document, c.Email, c.Phone).Scan(&c.CreatedAt)
	return mapError("insert client", err)
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	c := &domain.Client{}
	query := `SELECT id, name, document, COALESCE(email, ''), COALESCE(phone, ''), created_at FROM clients WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Document, &c.Email, &c.Phone, &c.CreatedAt)
	if err != nil {
		return nil, notFoundOr("get client", "client", id, err)
	}
	return c, nil
}

func (r *clientRepository) List(ctx context.Context) ([]domain.Client, error) {
	query := `SELECT id, name, document, COALESCE(email, ''), COALESCE(phone, ''), created_at FROM clients ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError("list clients", err)
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Document, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
			return nil, mapError("scan client", err)
		}
		clients = append(clients, c)
	}
	return clients, mapError("list clients", rows.Err())
}
