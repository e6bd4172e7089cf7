package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"oohunt/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for the local catalog mirror
type ProductRepository interface {
	Upsert(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindPublishedByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Product, error)
}

const productColumns = `id, slug, title, price, image, primary_image, images, rating, status, created_at, updated_at`

// publishedByIDsQuery compares against the primary key so the lookup stays
// on products_pkey
const publishedByIDsQuery = `
	SELECT ` + productColumns + `
	FROM products
	WHERE id = ANY($1::uuid[]) AND status = 'published'
`

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var (
		price  sql.NullFloat64
		rating sql.NullFloat64
		status string
	)

	err := row.Scan(
		&product.ID,
		&product.Slug,
		&product.Title,
		&price,
		&product.Image,
		&product.PrimaryImage,
		textArray(&product.Images),
		&rating,
		&status,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	product.Status = domain.ProductStatus(status)
	if price.Valid {
		product.Price = &price.Float64
	}
	if rating.Valid {
		product.Rating = &rating.Float64
	}

	return product, nil
}

// Upsert inserts a product or refreshes the mirrored fields of an existing one
func (r *productRepository) Upsert(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE
		SET slug = EXCLUDED.slug, title = EXCLUDED.title, price = EXCLUDED.price,
		    image = EXCLUDED.image, primary_image = EXCLUDED.primary_image, images = EXCLUDED.images,
		    rating = EXCLUDED.rating, status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Slug,
		product.Title,
		product.Price,
		product.Image,
		product.PrimaryImage,
		orEmpty(product.Images),
		product.Rating,
		string(product.Status),
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert product: %w", err)
	}

	return nil
}

// FindByID retrieves a product of any status
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// FindPublishedByIDs fetches every published product among ids in a single
// round trip. Result order is unspecified and unknown ids are absent.
func (r *productRepository) FindPublishedByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Product, error) {
	products := []*domain.Product{}
	if len(ids) == 0 {
		return products, nil
	}

	params := make([]string, len(ids))
	for i, id := range ids {
		params[i] = id.String()
	}

	rows, err := r.db.QueryContext(ctx, publishedByIDsQuery, params)
	if err != nil {
		return nil, fmt.Errorf("failed to find products by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
