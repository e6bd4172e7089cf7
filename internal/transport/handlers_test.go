package transport

import (
	"net/http"
	"testing"

	"oohunt/internal/cache"
	"oohunt/internal/catalog"
	"oohunt/internal/domain"
	"oohunt/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProperty_ErrorKindsMapToStatus(t *testing.T) {
	expected := map[domain.ErrorKind]int{
		domain.KindValidation:   http.StatusBadRequest,
		domain.KindConflict:     http.StatusBadRequest,
		domain.KindNotFound:     http.StatusNotFound,
		domain.KindUnauthorized: http.StatusUnauthorized,
		domain.KindInternal:     http.StatusInternalServerError,
	}

	properties := gopter.NewProperties(nil)

	properties.Property("every kind has a fixed status", prop.ForAll(
		func(kind string) bool {
			return statusFor(domain.ErrorKind(kind)) == expected[domain.ErrorKind(kind)]
		},
		gen.OneConstOf("validation", "conflict", "not_found", "unauthorized", "internal"),
	))

	properties.Property("unknown kinds are internal", prop.ForAll(
		func(kind string) bool {
			if _, known := expected[domain.ErrorKind(kind)]; known {
				return true
			}
			return statusFor(domain.ErrorKind(kind)) == http.StatusInternalServerError
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProductHandler(t *testing.T) {
	svc := &fakeCatalogService{
		result: &catalog.SearchResult{Items: []catalog.Product{{ID: "p1", Title: "Fan"}}, Total: 1, Page: 2, PageSize: 5},
	}
	store := &recordingCache{}
	h := NewProductHandler(svc, store, zap.NewNop(), false)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	h.RegisterAdminRoutes(r, asEditor)

	w, body := do(t, r, http.MethodGet, "/api/products?q=fan&category=home&page=2&page_size=5", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, catalog.SearchParams{Query: "fan", Category: "home", Page: 2, PageSize: 5}, svc.lastParams)
	assert.Equal(t, float64(5), body["data"].(map[string]interface{})["page_size"])

	svc.err = domain.NewNotFoundError("product not found")
	w, _ = do(t, r, http.MethodGet, "/api/products/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	svc.err = domain.NewInternalError("product catalog unavailable", nil)
	w, body = do(t, r, http.MethodGet, "/api/products?q=x", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "product catalog unavailable", body["message"])

	svc.err = nil
	svc.mirrored = &domain.Product{ID: uuid.New(), Title: "Fan", Status: domain.ProductStatusPublished}
	w, _ = do(t, r, http.MethodPost, "/api/admin/products/"+svc.mirrored.ID.String()+"/mirror", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{cache.TagContent}, store.revalidated())
}

func TestFormHandler(t *testing.T) {
	svc := &fakeFormService{}
	h := NewFormHandler(svc, zap.NewNop(), false)
	r := chi.NewRouter()
	h.RegisterRoutes(r, passthrough)

	w, body := do(t, r, http.MethodPost, "/api/subscribe", `{"email":"ann@example.com"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "subscribed", body["message"])
	assert.Equal(t, []string{"ann@example.com"}, svc.emails)

	w, _ = do(t, r, http.MethodPost, "/api/contact", `{"name":"Ann","email":"ann@example.com","message":"hi"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, svc.contacts, 1)
	assert.Equal(t, "hi", svc.contacts[0].Message)

	svc.err = domain.NewValidationError("a valid email is required")
	w, body = do(t, r, http.MethodPost, "/api/subscribe", `{"email":"ann@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "a valid email is required", body["message"])
}

func TestFormHandler_FieldErrorsBeforeService(t *testing.T) {
	svc := &fakeFormService{}
	h := NewFormHandler(svc, zap.NewNop(), false)
	r := chi.NewRouter()
	h.RegisterRoutes(r, passthrough)

	w, body := do(t, r, http.MethodPost, "/api/subscribe", `{"email":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation failed", body["message"])
	data := body["data"].(map[string]interface{})
	fields := data["validation_errors"].([]interface{})
	require.Len(t, fields, 1)
	assert.Equal(t, "email", fields[0].(map[string]interface{})["field"])

	w, body = do(t, r, http.MethodPost, "/api/contact", `{"email":"ann@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	data = body["data"].(map[string]interface{})
	assert.Len(t, data["validation_errors"], 2)

	assert.Empty(t, svc.emails)
	assert.Empty(t, svc.contacts)
}

func TestUserHandler_AdminOnly(t *testing.T) {
	svc := &fakeUserService{}
	h := NewUserHandler(svc, zap.NewNop(), false)
	r := chi.NewRouter()
	h.RegisterRoutes(r, asEditor, middleware.RequireAdmin(zap.NewNop()))

	id := uuid.NewString()
	w, _ := do(t, r, http.MethodDelete, "/api/admin/users/"+id, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, svc.deleted)

	asAdmin := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithSession(r.Context(), middleware.Session{UserID: "admin-1", Role: domain.RoleAdmin})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
	admin := chi.NewRouter()
	h.RegisterRoutes(admin, asAdmin, middleware.RequireAdmin(zap.NewNop()))

	w, _ = do(t, admin, http.MethodDelete, "/api/admin/users/"+id, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{id}, svc.deleted)

	svc.err = domain.NewNotFoundError("user not found")
	w, _ = do(t, admin, http.MethodDelete, "/api/admin/users/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
