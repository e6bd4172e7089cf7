package transport

import (
	"bytes"
	"fmt"
	"net/http"

	"oohunt/internal/domain"
	"oohunt/internal/favorites"
	"oohunt/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// FavoritesHandler serves one owner kind's favorites. Mount it once per kind
// behind the middleware that establishes that owner.
type FavoritesHandler struct {
	store favorites.Store
	kind  domain.OwnerKind
	responder
}

// NewFavoritesHandler creates a FavoritesHandler for kind
func NewFavoritesHandler(stores favorites.Stores, kind domain.OwnerKind, logger *zap.Logger) (*FavoritesHandler, error) {
	store, err := stores.For(kind)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("no favorites store for %s owners", kind)
	}
	return &FavoritesHandler{
		store:     store,
		kind:      kind,
		responder: responder{logger: logger.With(zap.Stringer("owner_kind", kind))},
	}, nil
}

// RegisterRoutes registers the favorites routes under pattern. identify
// must put the owner into the request context.
func (h *FavoritesHandler) RegisterRoutes(r chi.Router, pattern string, identify ...func(http.Handler) http.Handler) {
	r.Route(pattern, func(r chi.Router) {
		r.Use(identify...)
		r.Get("/", h.List)
		r.Post("/", h.Add)
		r.Put("/", h.Sync)
		r.Delete("/{productId}", h.Remove)
	})
}

func (h *FavoritesHandler) owner(r *http.Request) (string, error) {
	var (
		id string
		ok bool
	)
	switch h.kind {
	case domain.OwnerAnonymous:
		id, ok = middleware.GetClientID(r.Context())
	case domain.OwnerUser:
		id, ok = middleware.GetUserID(r.Context())
	}
	if !ok || id == "" {
		return "", domain.NewUnauthorizedError("owner identity is required")
	}
	return id, nil
}

// respondList writes the owner's favorites after a successful operation
func (h *FavoritesHandler) respondList(w http.ResponseWriter, r *http.Request, owner, message string) {
	list, err := h.store.List(r.Context(), owner)
	if err != nil {
		h.failCode(w, r, err)
		return
	}
	middleware.RespondWithCode(w, http.StatusOK, message, list)
}

func (h *FavoritesHandler) decodeObject(w http.ResponseWriter, r *http.Request) (map[string]json.RawMessage, error) {
	var body map[string]json.RawMessage
	if err := middleware.DecodeJSON(w, r, &body); err != nil || body == nil {
		return nil, domain.NewValidationError("request body must be a JSON object")
	}
	return body, nil
}

// jsonString decodes raw only when it is a JSON string literal
func jsonString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// ParseProductIDs extracts the string elements of a JSON array. Anything
// other than an array is a validation error; non-string elements are skipped.
func ParseProductIDs(raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, domain.NewValidationError("productIds must be an array")
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, domain.NewValidationError("productIds must be an array")
	}

	ids := make([]string, 0, len(elements))
	for _, element := range elements {
		if id, ok := jsonString(element); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// List handles GET
func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, err := h.owner(r)
	if err != nil {
		h.failCode(w, r, err)
		return
	}
	h.respondList(w, r, owner, "favorites retrieved")
}

// Add handles POST {productId}
func (h *FavoritesHandler) Add(w http.ResponseWriter, r *http.Request) {
	owner, err := h.owner(r)
	if err != nil {
		h.failCode(w, r, err)
		return
	}

	body, err := h.decodeObject(w, r)
	if err != nil {
		h.failCode(w, r, err)
		return
	}
	productID, ok := jsonString(body["productId"])
	if !ok {
		h.failCode(w, r, domain.NewValidationError("productId must be a string"))
		return
	}

	if err := h.store.Add(r.Context(), owner, productID); err != nil {
		h.failCode(w, r, err)
		return
	}
	h.respondList(w, r, owner, "favorite added")
}

// Sync handles PUT {productIds: []}
func (h *FavoritesHandler) Sync(w http.ResponseWriter, r *http.Request) {
	owner, err := h.owner(r)
	if err != nil {
		h.failCode(w, r, err)
		return
	}

	body, err := h.decodeObject(w, r)
	if err != nil {
		h.failCode(w, r, err)
		return
	}
	ids, err := ParseProductIDs(body["productIds"])
	if err != nil {
		h.failCode(w, r, err)
		return
	}

	if err := h.store.Sync(r.Context(), owner, ids); err != nil {
		h.failCode(w, r, err)
		return
	}
	h.logger.Debug("Favorites synced", zap.Int("count", len(ids)))
	h.respondList(w, r, owner, "favorites synced")
}

// Remove handles DELETE /{productId}
func (h *FavoritesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	owner, err := h.owner(r)
	if err != nil {
		h.failCode(w, r, err)
		return
	}

	if err := h.store.Remove(r.Context(), owner, chi.URLParam(r, "productId")); err != nil {
		h.failCode(w, r, err)
		return
	}
	h.respondList(w, r, owner, "favorite removed")
}
