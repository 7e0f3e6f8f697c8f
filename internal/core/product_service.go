package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProductInput is the request to add a catalog item.
type ProductInput struct {
	Code string `json:"code" validate:"required"`
	Name string `json:"name" validate:"required"`
	Unit string `json:"unit"`
}

type ProductService interface {
	Create(ctx context.Context, input ProductInput) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	GetByCode(ctx context.Context, code string) (*Product, error)
	Deactivate(ctx context.Context, id int) error
}

type productService struct {
	pool *pgxpool.Pool
}

// NewProductService constructs a ProductService backed by PostgreSQL.
func NewProductService(pool *pgxpool.Pool) ProductService {
	return &productService{pool: pool}
}

func (s *productService) Create(ctx context.Context, input ProductInput) (*Product, error) {
	unit := input.Unit
	if unit == "" {
		unit = "kg"
	}

	p := &Product{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO products (code, name, unit)
		VALUES ($1, $2, $3)
		RETURNING id, code, name, unit, is_active, created_at`,
		input.Code, input.Name, unit,
	).Scan(&p.ID, &p.Code, &p.Name, &p.Unit, &p.IsActive, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create product %q: %w", input.Code, err)
	}
	return p, nil
}

func (s *productService) List(ctx context.Context) ([]Product, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, code, name, unit, is_active, created_at
		FROM products
		WHERE is_active = true
		ORDER BY code`,
	)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.Unit, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *productService) GetByCode(ctx context.Context, code string) (*Product, error) {
	p := &Product{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, code, name, unit, is_active, created_at
		FROM products
		WHERE code = $1`,
		code,
	).Scan(&p.ID, &p.Code, &p.Name, &p.Unit, &p.IsActive, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %q not found", code)
		}
		return nil, fmt.Errorf("get product %q: %w", code, err)
	}
	return p, nil
}

func (s *productService) Deactivate(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, "UPDATE products SET is_active = false WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deactivate product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %d not found", id)
	}
	return nil
}
