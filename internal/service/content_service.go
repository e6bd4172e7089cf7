package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"oohunt/internal/domain"
	"oohunt/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultPublishedLimit = 20
	MaxPublishedLimit     = 100
	DefaultAdminPageSize  = 20
)

// CreatePageInput carries the fields accepted when creating a page
type CreatePageInput struct {
	Title         string            `json:"title"`
	Slug          string            `json:"slug"`
	Content       string            `json:"content"`
	Excerpt       *string           `json:"excerpt"`
	Status        domain.PageStatus `json:"status"`
	Author        string            `json:"author"`
	Categories    []string          `json:"categories"`
	Tags          []string          `json:"tags"`
	ProductIDs    []string          `json:"productIds"`
	FeaturedImage *string           `json:"featuredImage"`
	SEOData       *domain.SEOData   `json:"seoData"`
}

// UpdatePageInput is a partial update; nil fields are left unchanged
type UpdatePageInput struct {
	Title         *string            `json:"title"`
	Slug          *string            `json:"slug"`
	Content       *string            `json:"content"`
	Excerpt       *string            `json:"excerpt"`
	Status        *domain.PageStatus `json:"status"`
	Author        *string            `json:"author"`
	Categories    *[]string          `json:"categories"`
	Tags          *[]string          `json:"tags"`
	ProductIDs    *[]string          `json:"productIds"`
	FeaturedImage *string            `json:"featuredImage"`
	SEOData       *domain.SEOData    `json:"seoData"`
}

// PageQuery selects pages for the admin listing
type PageQuery struct {
	Status *domain.PageStatus
	Page   int
	Limit  int
}

// PageList is one page of the admin listing
type PageList struct {
	Pages       []domain.PageSummary `json:"pages"`
	TotalPages  int                  `json:"totalPages"`
	CurrentPage int                  `json:"currentPage"`
	TotalItems  int                  `json:"totalItems"`
}

// ContentService defines the interface for content page business logic
type ContentService interface {
	GetPublishedPageBySlug(ctx context.Context, slug string) (*domain.ResolvedPage, error)
	GetPageByID(ctx context.Context, id string) (*domain.ResolvedPage, error)
	ListPublishedPages(ctx context.Context, limit int) ([]domain.PageSummary, error)
	ListPages(ctx context.Context, query PageQuery) (*PageList, error)
	CreatePage(ctx context.Context, input CreatePageInput) (*domain.ContentPage, error)
	UpdatePage(ctx context.Context, id string, input UpdatePageInput) (*domain.ContentPage, error)
	DeletePage(ctx context.Context, id string) error
}

type contentService struct {
	pageRepo repository.PageRepository
	products ProductResolver
	logger   *zap.Logger
	now      func() time.Time
}

// NewContentService creates a new instance of ContentService
func NewContentService(pageRepo repository.PageRepository, products ProductResolver, logger *zap.Logger) ContentService {
	return &contentService{
		pageRepo: pageRepo,
		products: products,
		logger:   logger,
		now:      time.Now,
	}
}

func pageError(err error) error {
	switch {
	case errors.Is(err, repository.ErrPageNotFound):
		return domain.NewNotFoundError("page not found")
	case errors.Is(err, repository.ErrPageSlugTaken):
		return domain.NewConflictError("a page with this slug already exists")
	default:
		return domain.NewInternalError("failed to access pages", err)
	}
}

// resolve attaches product references. A lookup failure is logged and the
// page is served without products.
func (s *contentService) resolve(ctx context.Context, page *domain.ContentPage) *domain.ResolvedPage {
	resolved := &domain.ResolvedPage{ContentPage: page}
	if len(page.ProductIDs) == 0 {
		return resolved
	}

	refs, err := s.products.Resolve(ctx, page.ProductIDs)
	if err != nil {
		s.logger.Warn("product resolution failed, serving page without products",
			zap.String("slug", page.Slug),
			zap.Error(err),
		)
		resolved.Products = []domain.ProductReference{}
		return resolved
	}

	resolved.Products = refs
	return resolved
}

// GetPublishedPageBySlug returns a published page with its products
func (s *contentService) GetPublishedPageBySlug(ctx context.Context, slug string) (*domain.ResolvedPage, error) {
	if slug == "" {
		return nil, domain.NewNotFoundError("page not found")
	}

	page, err := s.pageRepo.FindPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, pageError(err)
	}

	return s.resolve(ctx, page), nil
}

// GetPageByID returns a page of any status with its products
func (s *contentService) GetPageByID(ctx context.Context, id string) (*domain.ResolvedPage, error) {
	pageID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.NewNotFoundError("page not found")
	}

	page, err := s.pageRepo.FindByID(ctx, pageID)
	if err != nil {
		return nil, pageError(err)
	}

	return s.resolve(ctx, page), nil
}

// ClampLimit bounds a list limit to [1, MaxPublishedLimit]; zero selects
// the default
func ClampLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultPublishedLimit
	case limit < 1:
		return 1
	case limit > MaxPublishedLimit:
		return MaxPublishedLimit
	}
	return limit
}

// ListPublishedPages returns the newest published pages without content
func (s *contentService) ListPublishedPages(ctx context.Context, limit int) ([]domain.PageSummary, error) {
	pages, err := s.pageRepo.ListPublished(ctx, ClampLimit(limit))
	if err != nil {
		return nil, pageError(err)
	}

	summaries := make([]domain.PageSummary, len(pages))
	for i, p := range pages {
		summaries[i] = p.Summary()
	}
	return summaries, nil
}

// ListPages returns pages of any status for the admin dashboard
func (s *contentService) ListPages(ctx context.Context, query PageQuery) (*PageList, error) {
	if query.Status != nil && !query.Status.Valid() {
		return nil, domain.NewValidationError("status must be one of draft, published, archived")
	}

	pagination := normalizePagination(query.Page, query.Limit, DefaultAdminPageSize)
	pages, total, err := s.pageRepo.List(ctx, repository.PageFilter{
		Status:     query.Status,
		Pagination: pagination,
	})
	if err != nil {
		return nil, pageError(err)
	}

	summaries := make([]domain.PageSummary, len(pages))
	for i, p := range pages {
		summaries[i] = p.Summary()
	}

	return &PageList{
		Pages:       summaries,
		TotalPages:  totalPages(total, pagination.PageSize),
		CurrentPage: pagination.Page,
		TotalItems:  total,
	}, nil
}

// CreatePage validates and stores a new page. Status defaults to draft.
func (s *contentService) CreatePage(ctx context.Context, input CreatePageInput) (*domain.ContentPage, error) {
	title := strings.TrimSpace(input.Title)
	slug := strings.TrimSpace(input.Slug)
	if title == "" || slug == "" || strings.TrimSpace(input.Content) == "" {
		return nil, domain.NewValidationError("title, slug and content are required")
	}

	status := input.Status
	if status == "" {
		status = domain.PageStatusDraft
	}
	if !status.Valid() {
		return nil, domain.NewValidationError("status must be one of draft, published, archived")
	}

	if _, err := s.pageRepo.FindBySlug(ctx, slug); err == nil {
		return nil, domain.NewConflictError("a page with this slug already exists")
	} else if !errors.Is(err, repository.ErrPageNotFound) {
		return nil, pageError(err)
	}

	now := s.now().UTC()
	page := &domain.ContentPage{
		ID:            uuid.New(),
		Title:         title,
		Slug:          slug,
		Content:       input.Content,
		Excerpt:       input.Excerpt,
		Author:        input.Author,
		Categories:    nonNil(input.Categories),
		Tags:          nonNil(input.Tags),
		ProductIDs:    nonNil(input.ProductIDs),
		FeaturedImage: input.FeaturedImage,
		SEOData:       input.SEOData,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	page.SetStatus(status, now)

	if err := s.pageRepo.Create(ctx, page); err != nil {
		return nil, pageError(err)
	}

	return page, nil
}

// UpdatePage applies a partial update to an existing page
func (s *contentService) UpdatePage(ctx context.Context, id string, input UpdatePageInput) (*domain.ContentPage, error) {
	pageID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.NewNotFoundError("page not found")
	}

	page, err := s.pageRepo.FindByID(ctx, pageID)
	if err != nil {
		return nil, pageError(err)
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, domain.NewValidationError("title cannot be empty")
		}
		page.Title = title
	}
	if input.Content != nil {
		if strings.TrimSpace(*input.Content) == "" {
			return nil, domain.NewValidationError("content cannot be empty")
		}
		page.Content = *input.Content
	}
	if input.Slug != nil {
		slug := strings.TrimSpace(*input.Slug)
		if slug == "" {
			return nil, domain.NewValidationError("slug cannot be empty")
		}
		if slug != page.Slug {
			existing, err := s.pageRepo.FindBySlug(ctx, slug)
			switch {
			case err == nil && existing.ID != page.ID:
				return nil, domain.NewConflictError("a page with this slug already exists")
			case err != nil && !errors.Is(err, repository.ErrPageNotFound):
				return nil, pageError(err)
			}
			page.Slug = slug
		}
	}
	if input.Excerpt != nil {
		page.Excerpt = input.Excerpt
	}
	if input.Author != nil {
		page.Author = *input.Author
	}
	if input.Categories != nil {
		page.Categories = nonNil(*input.Categories)
	}
	if input.Tags != nil {
		page.Tags = nonNil(*input.Tags)
	}
	if input.ProductIDs != nil {
		page.ProductIDs = nonNil(*input.ProductIDs)
	}
	if input.FeaturedImage != nil {
		page.FeaturedImage = input.FeaturedImage
	}
	if input.SEOData != nil {
		page.SEOData = input.SEOData
	}

	now := s.now().UTC()
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, domain.NewValidationError("status must be one of draft, published, archived")
		}
		page.SetStatus(*input.Status, now)
	}
	page.UpdatedAt = now

	if err := s.pageRepo.Update(ctx, page); err != nil {
		return nil, pageError(err)
	}

	return page, nil
}

// DeletePage removes a page permanently
func (s *contentService) DeletePage(ctx context.Context, id string) error {
	pageID, err := uuid.Parse(id)
	if err != nil {
		return domain.NewNotFoundError("page not found")
	}

	if err := s.pageRepo.Delete(ctx, pageID); err != nil {
		return pageError(err)
	}
	return nil
}
