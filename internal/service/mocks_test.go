package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"oohunt/internal/domain"
	"oohunt/internal/repository"

	"github.com/google/uuid"
)

// Mock repositories for testing
type mockPageRepository struct {
	pages map[uuid.UUID]*domain.ContentPage
	err   error
}

func newMockPageRepository() *mockPageRepository {
	return &mockPageRepository{pages: make(map[uuid.UUID]*domain.ContentPage)}
}

func clonePage(p *domain.ContentPage) *domain.ContentPage {
	c := *p
	return &c
}

func (m *mockPageRepository) Create(ctx context.Context, page *domain.ContentPage) error {
	if m.err != nil {
		return m.err
	}
	for _, p := range m.pages {
		if p.Slug == page.Slug {
			return repository.ErrPageSlugTaken
		}
	}
	m.pages[page.ID] = clonePage(page)
	return nil
}

func (m *mockPageRepository) Update(ctx context.Context, page *domain.ContentPage) error {
	if _, ok := m.pages[page.ID]; !ok {
		return repository.ErrPageNotFound
	}
	for _, p := range m.pages {
		if p.Slug == page.Slug && p.ID != page.ID {
			return repository.ErrPageSlugTaken
		}
	}
	m.pages[page.ID] = clonePage(page)
	return nil
}

func (m *mockPageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.pages[id]; !ok {
		return repository.ErrPageNotFound
	}
	delete(m.pages, id)
	return nil
}

func (m *mockPageRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ContentPage, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.pages[id]
	if !ok {
		return nil, repository.ErrPageNotFound
	}
	return clonePage(p), nil
}

func (m *mockPageRepository) FindBySlug(ctx context.Context, slug string) (*domain.ContentPage, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.pages {
		if p.Slug == slug {
			return clonePage(p), nil
		}
	}
	return nil, repository.ErrPageNotFound
}

func (m *mockPageRepository) FindPublishedBySlug(ctx context.Context, slug string) (*domain.ContentPage, error) {
	p, err := m.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if p.Status != domain.PageStatusPublished {
		return nil, repository.ErrPageNotFound
	}
	return p, nil
}

func (m *mockPageRepository) sorted(keep func(*domain.ContentPage) bool) []*domain.ContentPage {
	pages := []*domain.ContentPage{}
	for _, p := range m.pages {
		if keep(p) {
			pages = append(pages, clonePage(p))
		}
	}
	sort.Slice(pages, func(i, j int) bool {
		return pages[i].PublishedAt != nil && pages[j].PublishedAt != nil &&
			pages[i].PublishedAt.After(*pages[j].PublishedAt)
	})
	return pages
}

func (m *mockPageRepository) ListPublished(ctx context.Context, limit int) ([]*domain.ContentPage, error) {
	if m.err != nil {
		return nil, m.err
	}
	pages := m.sorted(func(p *domain.ContentPage) bool { return p.Status == domain.PageStatusPublished })
	if len(pages) > limit {
		pages = pages[:limit]
	}
	return pages, nil
}

func (m *mockPageRepository) List(ctx context.Context, filter repository.PageFilter) ([]*domain.ContentPage, int, error) {
	pages := m.sorted(func(p *domain.ContentPage) bool {
		return filter.Status == nil || p.Status == *filter.Status
	})
	total := len(pages)
	start := filter.Offset()
	if start > total {
		start = total
	}
	end := start + filter.PageSize
	if end > total {
		end = total
	}
	return pages[start:end], total, nil
}

func taxonomyIDs(p *domain.ContentPage, kind domain.TaxonomyKind) []string {
	if kind == domain.TaxonomyTags {
		return p.Tags
	}
	return p.Categories
}

func (m *mockPageRepository) CountPublishedByTaxonomy(ctx context.Context, kind domain.TaxonomyKind) (map[string]int, error) {
	if m.err != nil {
		return nil, m.err
	}
	counts := make(map[string]int)
	for _, p := range m.pages {
		if p.Status != domain.PageStatusPublished {
			continue
		}
		seen := make(map[string]bool)
		for _, id := range taxonomyIDs(p, kind) {
			if !seen[id] {
				seen[id] = true
				counts[id]++
			}
		}
	}
	return counts, nil
}

func (m *mockPageRepository) CountReferences(ctx context.Context, kind domain.TaxonomyKind, id string) (int, error) {
	count := 0
	for _, p := range m.pages {
		for _, ref := range taxonomyIDs(p, kind) {
			if ref == id {
				count++
				break
			}
		}
	}
	return count, nil
}

type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
	err      error
	calls    int
}

func newMockProductRepository(products ...*domain.Product) *mockProductRepository {
	m := &mockProductRepository{products: make(map[uuid.UUID]*domain.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockProductRepository) Upsert(ctx context.Context, product *domain.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return p, nil
}

func (m *mockProductRepository) FindPublishedByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Product, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	products := []*domain.Product{}
	seen := make(map[uuid.UUID]bool)
	for _, id := range ids {
		p, ok := m.products[id]
		if ok && !seen[id] && p.Status == domain.ProductStatusPublished {
			seen[id] = true
			products = append(products, p)
		}
	}
	return products, nil
}

type mockTagRepository struct {
	tags map[uuid.UUID]*domain.Tag
}

func newMockTagRepository() *mockTagRepository {
	return &mockTagRepository{tags: make(map[uuid.UUID]*domain.Tag)}
}

func (m *mockTagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	for _, t := range m.tags {
		if t.Slug == tag.Slug {
			return repository.ErrTagSlugTaken
		}
	}
	c := *tag
	m.tags[tag.ID] = &c
	return nil
}

func (m *mockTagRepository) Update(ctx context.Context, tag *domain.Tag) error {
	if _, ok := m.tags[tag.ID]; !ok {
		return repository.ErrTagNotFound
	}
	for _, t := range m.tags {
		if t.Slug == tag.Slug && t.ID != tag.ID {
			return repository.ErrTagSlugTaken
		}
	}
	c := *tag
	m.tags[tag.ID] = &c
	return nil
}

func (m *mockTagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.tags[id]; !ok {
		return repository.ErrTagNotFound
	}
	delete(m.tags, id)
	return nil
}

func (m *mockTagRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error) {
	t, ok := m.tags[id]
	if !ok {
		return nil, repository.ErrTagNotFound
	}
	c := *t
	return &c, nil
}

func (m *mockTagRepository) List(ctx context.Context, filter repository.TagFilter) ([]*domain.Tag, error) {
	tags := []*domain.Tag{}
	search := strings.ToLower(filter.Search)
	for _, t := range m.tags {
		if search == "" || strings.Contains(strings.ToLower(t.Name), search) || strings.Contains(t.Slug, search) {
			c := *t
			tags = append(tags, &c)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}

type mockCategoryRepository struct {
	categories map[uuid.UUID]*domain.Category
	lastFilter repository.CategoryFilter
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{categories: make(map[uuid.UUID]*domain.Category)}
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	for _, c := range m.categories {
		if c.Slug == category.Slug {
			return repository.ErrCategorySlugTaken
		}
	}
	if category.ParentID != nil {
		if _, ok := m.categories[*category.ParentID]; !ok {
			return repository.ErrCategoryParent
		}
	}
	c := *category
	m.categories[category.ID] = &c
	return nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if _, ok := m.categories[category.ID]; !ok {
		return repository.ErrCategoryNotFound
	}
	c := *category
	m.categories[category.ID] = &c
	return nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	cc := *c
	return &cc, nil
}

func (m *mockCategoryRepository) List(ctx context.Context, filter repository.CategoryFilter) ([]*domain.Category, int, error) {
	m.lastFilter = filter
	categories := []*domain.Category{}
	for _, c := range m.categories {
		switch {
		case filter.Parent.IsRoot():
			if c.ParentID != nil {
				continue
			}
		default:
			if id, ok := filter.Parent.ID(); ok && (c.ParentID == nil || *c.ParentID != id) {
				continue
			}
		}
		cc := *c
		categories = append(categories, &cc)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, len(categories), nil
}

func (m *mockCategoryRepository) CountChildren(ctx context.Context, id uuid.UUID) (int, error) {
	count := 0
	for _, c := range m.categories {
		if c.ParentID != nil && *c.ParentID == id {
			count++
		}
	}
	return count, nil
}

type mockSubscriptionRepository struct {
	byEmail map[string]*domain.Subscription
}

func (m *mockSubscriptionRepository) Upsert(ctx context.Context, subscription *domain.Subscription) error {
	if existing, ok := m.byEmail[subscription.Email]; ok {
		subscription.ID = existing.ID
		subscription.CreatedAt = existing.CreatedAt
		return nil
	}
	m.byEmail[subscription.Email] = subscription
	return nil
}

type mockContactRepository struct {
	messages []*domain.ContactMessage
}

func (m *mockContactRepository) Create(ctx context.Context, message *domain.ContactMessage) error {
	m.messages = append(m.messages, message)
	return nil
}

type mockUserRepository struct {
	users map[uuid.UUID]*domain.User
	err   error
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

var errStoreDown = errors.New("connection refused")
