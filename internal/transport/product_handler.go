package transport

import (
	"net/http"

	"oohunt/internal/cache"
	"oohunt/internal/catalog"
	"oohunt/internal/middleware"
	"oohunt/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductHandler proxies the upstream catalog and mirrors products locally
type ProductHandler struct {
	catalogService service.CatalogService
	cache          cache.Store
	responder
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalogService service.CatalogService, store cache.Store, logger *zap.Logger, debug bool) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		cache:          store,
		responder:      responder{logger: logger, debug: debug},
	}
}

// RegisterRoutes registers the public catalog routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/products", h.Search)
	r.Get("/api/products/{id}", h.Get)
}

// RegisterAdminRoutes registers the mirror route
func (h *ProductHandler) RegisterAdminRoutes(r chi.Router, guard ...func(http.Handler) http.Handler) {
	r.With(guard...).Post("/api/admin/products/{id}/mirror", h.Mirror)
}

// Search handles GET /api/products?q=&category=&page=&page_size=
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	result, err := h.catalogService.Search(r.Context(), catalog.SearchParams{
		Query:    values.Get("q"),
		Category: values.Get("category"),
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "page_size"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithData(w, http.StatusOK, result)
}

// Get handles GET /api/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalogService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithData(w, http.StatusOK, product)
}

// Mirror handles POST /api/admin/products/{id}/mirror
func (h *ProductHandler) Mirror(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalogService.MirrorProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	revalidate(r, h.cache, h.logger, cache.TagContent)
	h.logger.Info("Product mirrored", zap.String("product_id", product.ID.String()))
	middleware.RespondWithData(w, http.StatusOK, product)
}
