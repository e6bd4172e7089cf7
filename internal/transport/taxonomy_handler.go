package transport

import (
	"net/http"

	"oohunt/internal/cache"
	"oohunt/internal/middleware"
	"oohunt/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TaxonomyHandler serves tags and categories
type TaxonomyHandler struct {
	taxonomyService service.TaxonomyService
	cache           cache.Store
	responder
}

// NewTaxonomyHandler creates a new TaxonomyHandler
func NewTaxonomyHandler(taxonomyService service.TaxonomyService, store cache.Store, logger *zap.Logger, debug bool) *TaxonomyHandler {
	return &TaxonomyHandler{
		taxonomyService: taxonomyService,
		cache:           store,
		responder:       responder{logger: logger, debug: debug},
	}
}

// RegisterPublicRoutes registers the cached listing routes
func (h *TaxonomyHandler) RegisterPublicRoutes(r chi.Router, cached func(http.Handler) http.Handler) {
	r.With(cached).Get("/api/tags", h.ListTags)
	r.With(cached).Get("/api/categories", h.ListCategories)
}

// RegisterAdminRoutes registers tag and category management
func (h *TaxonomyHandler) RegisterAdminRoutes(r chi.Router, guard ...func(http.Handler) http.Handler) {
	r.Route("/api/admin/tags", func(r chi.Router) {
		r.Use(guard...)
		r.Post("/", h.CreateTag)
		r.Put("/{id}", h.UpdateTag)
		r.Delete("/{id}", h.DeleteTag)
	})
	r.Route("/api/admin/categories", func(r chi.Router) {
		r.Use(guard...)
		r.Post("/", h.CreateCategory)
		r.Put("/{id}", h.UpdateCategory)
		r.Delete("/{id}", h.DeleteCategory)
	})
}

// ListTags handles GET /api/tags?search=
func (h *TaxonomyHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	list, err := h.taxonomyService.ListTags(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithData(w, http.StatusOK, list)
}

// ListCategories handles GET /api/categories?search=&parentId=&page=&limit=
func (h *TaxonomyHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	_, hasParent := values["parentId"]

	list, err := h.taxonomyService.ListCategories(r.Context(), service.CategoryQuery{
		Search:    values.Get("search"),
		ParentID:  values.Get("parentId"),
		HasParent: hasParent,
		Page:      queryInt(r, "page"),
		Limit:     queryInt(r, "limit"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithData(w, http.StatusOK, list)
}

// written finishes a successful taxonomy write
func (h *TaxonomyHandler) written(w http.ResponseWriter, r *http.Request, data interface{}) {
	revalidate(r, h.cache, h.logger, cache.TagTaxonomy, cache.TagContent)
	middleware.RespondWithData(w, http.StatusOK, data)
}

// CreateTag handles POST /api/admin/tags
func (h *TaxonomyHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var input service.TagInput
	if err := middleware.DecodeJSON(w, r, &input); err != nil {
		h.badBody(w, r, err)
		return
	}

	tag, err := h.taxonomyService.CreateTag(r.Context(), input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("Tag created", zap.String("tag_id", tag.ID.String()), zap.String("slug", tag.Slug))
	h.written(w, r, tag)
}

// UpdateTag handles PUT /api/admin/tags/{id}
func (h *TaxonomyHandler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	var input service.TagInput
	if err := middleware.DecodeJSON(w, r, &input); err != nil {
		h.badBody(w, r, err)
		return
	}

	tag, err := h.taxonomyService.UpdateTag(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.written(w, r, tag)
}

// DeleteTag handles DELETE /api/admin/tags/{id}
func (h *TaxonomyHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.taxonomyService.DeleteTag(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("Tag deleted", zap.String("tag_id", id))
	h.written(w, r, nil)
}

// CreateCategory handles POST /api/admin/categories
func (h *TaxonomyHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var input service.CategoryInput
	if err := middleware.DecodeJSON(w, r, &input); err != nil {
		h.badBody(w, r, err)
		return
	}

	category, err := h.taxonomyService.CreateCategory(r.Context(), input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("Category created", zap.String("category_id", category.ID.String()), zap.String("slug", category.Slug))
	h.written(w, r, category)
}

// UpdateCategory handles PUT /api/admin/categories/{id}
func (h *TaxonomyHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var input service.CategoryInput
	if err := middleware.DecodeJSON(w, r, &input); err != nil {
		h.badBody(w, r, err)
		return
	}

	category, err := h.taxonomyService.UpdateCategory(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.written(w, r, category)
}

// DeleteCategory handles DELETE /api/admin/categories/{id}
func (h *TaxonomyHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.taxonomyService.DeleteCategory(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("Category deleted", zap.String("category_id", id))
	h.written(w, r, nil)
}
