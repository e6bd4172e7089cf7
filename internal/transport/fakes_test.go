package transport

import (
	"context"
	"sync"
	"time"

	"oohunt/internal/catalog"
	"oohunt/internal/domain"
	"oohunt/internal/service"

	"github.com/google/uuid"
)

// fakeContentService returns canned results; nil funcs panic so tests only
// stub what they exercise
type fakeContentService struct {
	getPublished func(slug string) (*domain.ResolvedPage, error)
	getByID      func(id string) (*domain.ResolvedPage, error)
	listed       func(limit int) ([]domain.PageSummary, error)
	listPages    func(q service.PageQuery) (*service.PageList, error)
	create       func(in service.CreatePageInput) (*domain.ContentPage, error)
	update       func(id string, in service.UpdatePageInput) (*domain.ContentPage, error)
	remove       func(id string) error
}

func (f *fakeContentService) GetPublishedPageBySlug(ctx context.Context, slug string) (*domain.ResolvedPage, error) {
	return f.getPublished(slug)
}

func (f *fakeContentService) GetPageByID(ctx context.Context, id string) (*domain.ResolvedPage, error) {
	return f.getByID(id)
}

func (f *fakeContentService) ListPublishedPages(ctx context.Context, limit int) ([]domain.PageSummary, error) {
	return f.listed(limit)
}

func (f *fakeContentService) ListPages(ctx context.Context, q service.PageQuery) (*service.PageList, error) {
	return f.listPages(q)
}

func (f *fakeContentService) CreatePage(ctx context.Context, in service.CreatePageInput) (*domain.ContentPage, error) {
	return f.create(in)
}

func (f *fakeContentService) UpdatePage(ctx context.Context, id string, in service.UpdatePageInput) (*domain.ContentPage, error) {
	return f.update(id, in)
}

func (f *fakeContentService) DeletePage(ctx context.Context, id string) error {
	return f.remove(id)
}

type fakeTaxonomyService struct {
	lastCategoryQuery service.CategoryQuery
	categories        *service.CategoryList
	tags              *service.TagList
	err               error
	deleteErr         error
}

func (f *fakeTaxonomyService) ListTags(ctx context.Context, search string) (*service.TagList, error) {
	return f.tags, f.err
}

func (f *fakeTaxonomyService) ListCategories(ctx context.Context, q service.CategoryQuery) (*service.CategoryList, error) {
	f.lastCategoryQuery = q
	return f.categories, f.err
}

func (f *fakeTaxonomyService) CreateTag(ctx context.Context, in service.TagInput) (*domain.Tag, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Tag{ID: uuid.New(), Name: *in.Name, Slug: "derived"}, nil
}

func (f *fakeTaxonomyService) UpdateTag(ctx context.Context, id string, in service.TagInput) (*domain.Tag, error) {
	return &domain.Tag{ID: uuid.MustParse(id), Name: *in.Name}, f.err
}

func (f *fakeTaxonomyService) DeleteTag(ctx context.Context, id string) error {
	return f.deleteErr
}

func (f *fakeTaxonomyService) CreateCategory(ctx context.Context, in service.CategoryInput) (*domain.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Category{ID: uuid.New(), Name: *in.Name}, nil
}

func (f *fakeTaxonomyService) UpdateCategory(ctx context.Context, id string, in service.CategoryInput) (*domain.Category, error) {
	return &domain.Category{ID: uuid.MustParse(id)}, f.err
}

func (f *fakeTaxonomyService) DeleteCategory(ctx context.Context, id string) error {
	return f.deleteErr
}

type fakeCatalogService struct {
	lastParams catalog.SearchParams
	result     *catalog.SearchResult
	product    *catalog.Product
	mirrored   *domain.Product
	err        error
}

func (f *fakeCatalogService) Search(ctx context.Context, params catalog.SearchParams) (*catalog.SearchResult, error) {
	f.lastParams = params
	return f.result, f.err
}

func (f *fakeCatalogService) Get(ctx context.Context, id string) (*catalog.Product, error) {
	return f.product, f.err
}

func (f *fakeCatalogService) MirrorProduct(ctx context.Context, id string) (*domain.Product, error) {
	return f.mirrored, f.err
}

type fakeFormService struct {
	emails   []string
	contacts []service.ContactInput
	err      error
}

func (f *fakeFormService) Subscribe(ctx context.Context, email string) (*domain.Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.emails = append(f.emails, email)
	return &domain.Subscription{ID: uuid.New(), Email: email}, nil
}

func (f *fakeFormService) SubmitContact(ctx context.Context, in service.ContactInput) (*domain.ContactMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.contacts = append(f.contacts, in)
	return &domain.ContactMessage{ID: uuid.New(), Name: in.Name}, nil
}

type fakeUserService struct {
	deleted []string
	err     error
}

func (f *fakeUserService) DeleteUser(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

// recordingCache remembers revalidated tags
type recordingCache struct {
	mu   sync.Mutex
	tags []string
}

func (c *recordingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (c *recordingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	return nil
}

func (c *recordingCache) RevalidateTag(ctx context.Context, tag string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags = append(c.tags, tag)
	return nil
}

func (c *recordingCache) revalidated() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.tags...)
}
