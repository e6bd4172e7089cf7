package service

import (
	"context"
	"errors"
	"time"

	"oohunt/internal/catalog"
	"oohunt/internal/domain"
	"oohunt/internal/repository"

	"github.com/google/uuid"
)

const DefaultCatalogPageSize = 20

// CatalogService proxies product listings and keeps the local mirror that
// content pages embed from
type CatalogService interface {
	Search(ctx context.Context, params catalog.SearchParams) (*catalog.SearchResult, error)
	Get(ctx context.Context, id string) (*catalog.Product, error)
	MirrorProduct(ctx context.Context, id string) (*domain.Product, error)
}

type catalogService struct {
	client      catalog.Client
	productRepo repository.ProductRepository
	now         func() time.Time
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(client catalog.Client, productRepo repository.ProductRepository) CatalogService {
	return &catalogService{client: client, productRepo: productRepo, now: time.Now}
}

// Search lists upstream products with normalized paging
func (s *catalogService) Search(ctx context.Context, params catalog.SearchParams) (*catalog.SearchResult, error) {
	pagination := normalizePagination(params.Page, params.PageSize, DefaultCatalogPageSize)
	params.Page = pagination.Page
	params.PageSize = pagination.PageSize
	return s.client.Search(ctx, params)
}

// Get fetches one upstream product
func (s *catalogService) Get(ctx context.Context, id string) (*catalog.Product, error) {
	return s.client.Get(ctx, id)
}

// MirrorProduct copies an upstream product into the local mirror, keeping
// the original creation time of an existing row
func (s *catalogService) MirrorProduct(ctx context.Context, id string) (*domain.Product, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.NewValidationError("product id must be a uuid")
	}

	upstream, err := s.client.Get(ctx, productID.String())
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	product, err := upstream.ToDomain(now)
	if err != nil {
		return nil, domain.NewInternalError("invalid catalog product", err)
	}
	if product.ID != productID {
		return nil, domain.NewInternalError("catalog returned a different product", nil)
	}

	existing, err := s.productRepo.FindByID(ctx, productID)
	switch {
	case err == nil:
		product.CreatedAt = existing.CreatedAt
	case !errors.Is(err, repository.ErrProductNotFound):
		return nil, domain.NewInternalError("failed to load product", err)
	}

	if err := s.productRepo.Upsert(ctx, product); err != nil {
		return nil, domain.NewInternalError("failed to save product", err)
	}
	return product, nil
}
