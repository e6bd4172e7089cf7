package service

import (
	"context"
	"fmt"

	"oohunt/internal/domain"
	"oohunt/internal/repository"

	"github.com/google/uuid"
)

// ProductResolver turns a page's productIds into display references
type ProductResolver interface {
	Resolve(ctx context.Context, ids []string) ([]domain.ProductReference, error)
}

type productResolver struct {
	productRepo repository.ProductRepository
}

// NewProductResolver creates a new instance of ProductResolver
func NewProductResolver(productRepo repository.ProductRepository) ProductResolver {
	return &productResolver{productRepo: productRepo}
}

// Resolve looks every id up in a single batch query. Ids that are malformed,
// unknown or unpublished are dropped. The result follows the store's order;
// input order and repeated ids are not preserved.
func (r *productResolver) Resolve(ctx context.Context, ids []string) ([]domain.ProductReference, error) {
	refs := []domain.ProductReference{}

	parsed := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		u, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		parsed = append(parsed, u)
	}
	if len(parsed) == 0 {
		return refs, nil
	}

	products, err := r.productRepo.FindPublishedByIDs(ctx, parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve products: %w", err)
	}

	for _, p := range products {
		refs = append(refs, p.Reference())
	}
	return refs, nil
}
