package transport

import (
	"net/http"

	"oohunt/internal/middleware"
	"oohunt/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserHandler handles account administration
type UserHandler struct {
	userService service.UserService
	responder
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *zap.Logger, debug bool) *UserHandler {
	return &UserHandler{
		userService: userService,
		responder:   responder{logger: logger, debug: debug},
	}
}

// RegisterRoutes registers the admin user routes behind guard
func (h *UserHandler) RegisterRoutes(r chi.Router, guard ...func(http.Handler) http.Handler) {
	r.With(guard...).Delete("/api/admin/users/{id}", h.DeleteUser)
}

// DeleteUser handles DELETE /api/admin/users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.userService.DeleteUser(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}

	actor, _ := middleware.GetUserID(r.Context())
	h.logger.Info("User deleted", zap.String("user_id", id), zap.String("deleted_by", actor))
	middleware.RespondWithJSON(w, http.StatusOK, middleware.Envelope{Status: true, Message: "user deleted"})
}
