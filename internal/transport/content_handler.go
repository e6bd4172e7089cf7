package transport

import (
	"net/http"

	"oohunt/internal/cache"
	"oohunt/internal/domain"
	"oohunt/internal/middleware"
	"oohunt/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ContentHandler serves published pages and the admin page editor
type ContentHandler struct {
	contentService service.ContentService
	cache          cache.Store
	responder
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(contentService service.ContentService, store cache.Store, logger *zap.Logger, debug bool) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
		cache:          store,
		responder:      responder{logger: logger, debug: debug},
	}
}

// RegisterPublicRoutes registers the published content routes. cached wraps
// the GET handlers with the response cache.
func (h *ContentHandler) RegisterPublicRoutes(r chi.Router, cached func(http.Handler) http.Handler) {
	r.Route("/api/content", func(r chi.Router) {
		r.Use(cached)
		r.Get("/", h.ListPublished)
		r.Get("/{slug}", h.GetPublished)
	})
}

// RegisterAdminRoutes registers page management routes. guard must
// authenticate and authorize the caller.
func (h *ContentHandler) RegisterAdminRoutes(r chi.Router, guard ...func(http.Handler) http.Handler) {
	r.Route("/api/admin/pages", func(r chi.Router) {
		r.Use(guard...)
		r.Get("/", h.ListPages)
		r.Post("/", h.CreatePage)
		r.Get("/{id}", h.GetPage)
		r.Put("/{id}", h.UpdatePage)
		r.Delete("/{id}", h.DeletePage)
	})
}

// ListPublished handles GET /api/content?limit=
func (h *ContentHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	pages, err := h.contentService.ListPublishedPages(r.Context(), queryInt(r, "limit"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithData(w, http.StatusOK, pages)
}

// GetPublished handles GET /api/content/{slug}
func (h *ContentHandler) GetPublished(w http.ResponseWriter, r *http.Request) {
	page, err := h.contentService.GetPublishedPageBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithData(w, http.StatusOK, page)
}

// ListPages handles GET /api/admin/pages?status=&page=&limit=
func (h *ContentHandler) ListPages(w http.ResponseWriter, r *http.Request) {
	query := service.PageQuery{
		Page:  queryInt(r, "page"),
		Limit: queryInt(r, "limit"),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.PageStatus(raw)
		if !status.Valid() {
			h.fail(w, r, domain.NewValidationError("status must be draft, published or archived"))
			return
		}
		query.Status = &status
	}

	list, err := h.contentService.ListPages(r.Context(), query)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithData(w, http.StatusOK, list)
}

// GetPage handles GET /api/admin/pages/{id}, any status
func (h *ContentHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.contentService.GetPageByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithData(w, http.StatusOK, page)
}

// CreatePage handles POST /api/admin/pages
func (h *ContentHandler) CreatePage(w http.ResponseWriter, r *http.Request) {
	var input service.CreatePageInput
	if err := middleware.DecodeJSON(w, r, &input); err != nil {
		h.badBody(w, r, err)
		return
	}
	if input.Author == "" {
		if userID, ok := middleware.GetUserID(r.Context()); ok {
			input.Author = userID
		}
	}

	page, err := h.contentService.CreatePage(r.Context(), input)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	revalidate(r, h.cache, h.logger, cache.TagContent, cache.TagTaxonomy)
	h.logger.Info("Page created", zap.String("page_id", page.ID.String()), zap.String("slug", page.Slug))
	middleware.RespondWithData(w, http.StatusOK, page)
}

// UpdatePage handles PUT /api/admin/pages/{id}
func (h *ContentHandler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	var input service.UpdatePageInput
	if err := middleware.DecodeJSON(w, r, &input); err != nil {
		h.badBody(w, r, err)
		return
	}

	page, err := h.contentService.UpdatePage(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	revalidate(r, h.cache, h.logger, cache.TagContent, cache.TagTaxonomy)
	h.logger.Info("Page updated", zap.String("page_id", page.ID.String()))
	middleware.RespondWithData(w, http.StatusOK, page)
}

// DeletePage handles DELETE /api/admin/pages/{id}
func (h *ContentHandler) DeletePage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.contentService.DeletePage(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}

	revalidate(r, h.cache, h.logger, cache.TagContent, cache.TagTaxonomy)
	h.logger.Info("Page deleted", zap.String("page_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, middleware.Envelope{Status: true, Message: "page deleted"})
}
