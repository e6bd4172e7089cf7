package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"oohunt/internal/domain"
	"oohunt/internal/repository"
	"oohunt/internal/util"

	"github.com/google/uuid"
)

// RootParentSentinel is the parentId query value that selects top-level
// categories
const RootParentSentinel = "null"

const DefaultCategoryPageSize = 20

// TagInput carries the fields accepted when creating or updating a tag.
// Nil fields are left unchanged on update.
type TagInput struct {
	Name *string `json:"name"`
	Slug *string `json:"slug"`
}

// CategoryInput carries the fields accepted when creating or updating a
// category. An empty or "null" ParentID clears the parent on update.
type CategoryInput struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	ParentID    *string `json:"parentId"`
}

// CategoryQuery selects categories for listing. ParentID is the raw query
// value and HasParent whether it was supplied at all.
type CategoryQuery struct {
	Search    string
	ParentID  string
	HasParent bool
	Page      int
	Limit     int
}

// TagList is the tag listing with post counts
type TagList struct {
	Tags       []*domain.Tag `json:"tags"`
	TotalItems int           `json:"totalItems"`
}

// CategoryList is one page of the category listing with post counts
type CategoryList struct {
	Categories  []*domain.Category `json:"categories"`
	TotalPages  int                `json:"totalPages"`
	CurrentPage int                `json:"currentPage"`
	TotalItems  int                `json:"totalItems"`
}

// TaxonomyService defines the interface for tag and category business logic
type TaxonomyService interface {
	ListTags(ctx context.Context, search string) (*TagList, error)
	ListCategories(ctx context.Context, query CategoryQuery) (*CategoryList, error)
	CreateTag(ctx context.Context, input TagInput) (*domain.Tag, error)
	UpdateTag(ctx context.Context, id string, input TagInput) (*domain.Tag, error)
	DeleteTag(ctx context.Context, id string) error
	CreateCategory(ctx context.Context, input CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, input CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

type taxonomyService struct {
	tagRepo      repository.TagRepository
	categoryRepo repository.CategoryRepository
	pageRepo     repository.PageRepository
	now          func() time.Time
}

// NewTaxonomyService creates a new instance of TaxonomyService
func NewTaxonomyService(
	tagRepo repository.TagRepository,
	categoryRepo repository.CategoryRepository,
	pageRepo repository.PageRepository,
) TaxonomyService {
	return &taxonomyService{
		tagRepo:      tagRepo,
		categoryRepo: categoryRepo,
		pageRepo:     pageRepo,
		now:          time.Now,
	}
}

// ParseParentFilter maps the raw parentId query value to a filter. Absent
// or empty matches any parent, "null" matches top-level categories, and
// anything else must be a category id.
func ParseParentFilter(raw string, present bool) (repository.ParentFilter, error) {
	if !present || raw == "" {
		return repository.AnyParent(), nil
	}
	if raw == RootParentSentinel {
		return repository.RootOnly(), nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return repository.ParentFilter{}, domain.NewValidationError("parentId must be a category id or \"null\"")
	}
	return repository.ChildrenOf(id), nil
}

func tagError(err error) error {
	switch {
	case errors.Is(err, repository.ErrTagNotFound):
		return domain.NewNotFoundError("tag not found")
	case errors.Is(err, repository.ErrTagSlugTaken):
		return domain.NewConflictError("a tag with this slug already exists")
	default:
		return domain.NewInternalError("failed to access tags", err)
	}
}

func categoryError(err error) error {
	switch {
	case errors.Is(err, repository.ErrCategoryNotFound):
		return domain.NewNotFoundError("category not found")
	case errors.Is(err, repository.ErrCategorySlugTaken):
		return domain.NewConflictError("a category with this slug already exists")
	case errors.Is(err, repository.ErrCategoryHasChildren):
		return domain.NewConflictError("category has child categories")
	case errors.Is(err, repository.ErrCategoryParent):
		return domain.NewValidationError("parent category does not exist")
	default:
		return domain.NewInternalError("failed to access categories", err)
	}
}

// resolveSlug validates an explicit slug or derives one from name
func resolveSlug(name string, slug *string) (string, error) {
	if slug != nil && strings.TrimSpace(*slug) != "" {
		s := strings.TrimSpace(*slug)
		if !util.IsValidSlug(s) {
			return "", domain.NewValidationError("slug may only contain lowercase letters, digits and hyphens")
		}
		return s, nil
	}
	s := util.Slugify(name)
	if s == "" {
		return "", domain.NewValidationError("name must contain letters or digits")
	}
	return s, nil
}

func requiredName(name *string) (string, error) {
	if name == nil || strings.TrimSpace(*name) == "" {
		return "", domain.NewValidationError("name is required")
	}
	return strings.TrimSpace(*name), nil
}

func (s *taxonomyService) publishedCounts(ctx context.Context, kind domain.TaxonomyKind) (map[string]int, error) {
	counts, err := s.pageRepo.CountPublishedByTaxonomy(ctx, kind)
	if err != nil {
		return nil, domain.NewInternalError("failed to count pages", err)
	}
	return counts, nil
}

// ListTags returns tags sorted by name, each with its published page count
func (s *taxonomyService) ListTags(ctx context.Context, search string) (*TagList, error) {
	tags, err := s.tagRepo.List(ctx, repository.TagFilter{Search: strings.TrimSpace(search)})
	if err != nil {
		return nil, tagError(err)
	}

	counts, err := s.publishedCounts(ctx, domain.TaxonomyTags)
	if err != nil {
		return nil, err
	}
	for _, tag := range tags {
		tag.PostCount = counts[tag.ID.String()]
	}

	return &TagList{Tags: tags, TotalItems: len(tags)}, nil
}

// ListCategories returns one page of categories sorted by name, each with
// its published page count
func (s *taxonomyService) ListCategories(ctx context.Context, query CategoryQuery) (*CategoryList, error) {
	parent, err := ParseParentFilter(query.ParentID, query.HasParent)
	if err != nil {
		return nil, err
	}

	pagination := normalizePagination(query.Page, query.Limit, DefaultCategoryPageSize)
	categories, total, err := s.categoryRepo.List(ctx, repository.CategoryFilter{
		Search:     strings.TrimSpace(query.Search),
		Parent:     parent,
		Pagination: pagination,
	})
	if err != nil {
		return nil, categoryError(err)
	}

	counts, err := s.publishedCounts(ctx, domain.TaxonomyCategories)
	if err != nil {
		return nil, err
	}
	for _, category := range categories {
		category.PostCount = counts[category.ID.String()]
	}

	return &CategoryList{
		Categories:  categories,
		TotalPages:  totalPages(total, pagination.PageSize),
		CurrentPage: pagination.Page,
		TotalItems:  total,
	}, nil
}

// CreateTag stores a new tag, deriving its slug from the name when omitted
func (s *taxonomyService) CreateTag(ctx context.Context, input TagInput) (*domain.Tag, error) {
	name, err := requiredName(input.Name)
	if err != nil {
		return nil, err
	}
	slug, err := resolveSlug(name, input.Slug)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	tag := &domain.Tag{ID: uuid.New(), Name: name, Slug: slug, CreatedAt: now, UpdatedAt: now}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, tagError(err)
	}
	return tag, nil
}

// UpdateTag renames a tag or changes its slug
func (s *taxonomyService) UpdateTag(ctx context.Context, id string, input TagInput) (*domain.Tag, error) {
	tagID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.NewNotFoundError("tag not found")
	}

	tag, err := s.tagRepo.FindByID(ctx, tagID)
	if err != nil {
		return nil, tagError(err)
	}

	if input.Name != nil {
		name, err := requiredName(input.Name)
		if err != nil {
			return nil, err
		}
		tag.Name = name
	}
	if input.Slug != nil {
		slug, err := resolveSlug(tag.Name, input.Slug)
		if err != nil {
			return nil, err
		}
		tag.Slug = slug
	}
	tag.UpdatedAt = s.now().UTC()

	if err := s.tagRepo.Update(ctx, tag); err != nil {
		return nil, tagError(err)
	}
	return tag, nil
}

// DeleteTag removes a tag no page references
func (s *taxonomyService) DeleteTag(ctx context.Context, id string) error {
	tagID, err := uuid.Parse(id)
	if err != nil {
		return domain.NewNotFoundError("tag not found")
	}

	if _, err := s.tagRepo.FindByID(ctx, tagID); err != nil {
		return tagError(err)
	}

	refs, err := s.pageRepo.CountReferences(ctx, domain.TaxonomyTags, tagID.String())
	if err != nil {
		return domain.NewInternalError("failed to count pages", err)
	}
	if refs > 0 {
		return domain.NewConflictError("tag is used by content pages")
	}

	if err := s.tagRepo.Delete(ctx, tagID); err != nil {
		return tagError(err)
	}
	return nil
}

// parseParentID reads an optional parent id. Empty and "null" mean none.
func parseParentID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" || *raw == RootParentSentinel {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, domain.NewValidationError("parentId must be a category id")
	}
	return &id, nil
}

// CreateCategory stores a new category, deriving its slug from the name
// when omitted
func (s *taxonomyService) CreateCategory(ctx context.Context, input CategoryInput) (*domain.Category, error) {
	name, err := requiredName(input.Name)
	if err != nil {
		return nil, err
	}
	slug, err := resolveSlug(name, input.Slug)
	if err != nil {
		return nil, err
	}
	parentID, err := parseParentID(input.ParentID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	category := &domain.Category{
		ID:        uuid.New(),
		Name:      name,
		Slug:      slug,
		ParentID:  parentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.Description != nil {
		category.Description = strings.TrimSpace(*input.Description)
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, categoryError(err)
	}
	return category, nil
}

// UpdateCategory applies a partial update to a category
func (s *taxonomyService) UpdateCategory(ctx context.Context, id string, input CategoryInput) (*domain.Category, error) {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.NewNotFoundError("category not found")
	}

	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, categoryError(err)
	}

	if input.Name != nil {
		name, err := requiredName(input.Name)
		if err != nil {
			return nil, err
		}
		category.Name = name
	}
	if input.Slug != nil {
		slug, err := resolveSlug(category.Name, input.Slug)
		if err != nil {
			return nil, err
		}
		category.Slug = slug
	}
	if input.Description != nil {
		category.Description = strings.TrimSpace(*input.Description)
	}
	if input.ParentID != nil {
		parentID, err := parseParentID(input.ParentID)
		if err != nil {
			return nil, err
		}
		if parentID != nil && *parentID == category.ID {
			return nil, domain.NewValidationError("a category cannot be its own parent")
		}
		category.ParentID = parentID
	}
	category.UpdatedAt = s.now().UTC()

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, categoryError(err)
	}
	return category, nil
}

// DeleteCategory removes a category without children that no page
// references
func (s *taxonomyService) DeleteCategory(ctx context.Context, id string) error {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return domain.NewNotFoundError("category not found")
	}

	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return categoryError(err)
	}

	children, err := s.categoryRepo.CountChildren(ctx, categoryID)
	if err != nil {
		return categoryError(err)
	}
	if children > 0 {
		return domain.NewConflictError("category has child categories")
	}

	refs, err := s.pageRepo.CountReferences(ctx, domain.TaxonomyCategories, categoryID.String())
	if err != nil {
		return domain.NewInternalError("failed to count pages", err)
	}
	if refs > 0 {
		return domain.NewConflictError("category is used by content pages")
	}

	if err := s.categoryRepo.Delete(ctx, categoryID); err != nil {
		return categoryError(err)
	}
	return nil
}
