package transport

import (
	"net/http"

	"oohunt/internal/middleware"
	"oohunt/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SubscribeRequest represents the newsletter sign-up payload
type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

// FormHandler handles the public subscription and contact forms
type FormHandler struct {
	formService service.FormService
	responder
}

// NewFormHandler creates a new FormHandler
func NewFormHandler(formService service.FormService, logger *zap.Logger, debug bool) *FormHandler {
	return &FormHandler{
		formService: formService,
		responder:   responder{logger: logger, debug: debug},
	}
}

// RegisterRoutes registers the form routes behind limit
func (h *FormHandler) RegisterRoutes(r chi.Router, limit func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(limit)
		r.Post("/api/subscribe", h.Subscribe)
		r.Post("/api/contact", h.Contact)
	})
}

// Subscribe handles POST /api/subscribe
func (h *FormHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := middleware.DecodeAndValidate(w, r, &req); err != nil {
		h.badBody(w, r, err)
		return
	}

	if _, err := h.formService.Subscribe(r.Context(), req.Email); err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, middleware.Envelope{Status: true, Message: "subscribed"})
}

// Contact handles POST /api/contact
func (h *FormHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var input service.ContactInput
	if err := middleware.DecodeAndValidate(w, r, &input); err != nil {
		h.badBody(w, r, err)
		return
	}

	message, err := h.formService.SubmitContact(r.Context(), input)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger.Info("Contact message received", zap.String("message_id", message.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, middleware.Envelope{Status: true, Message: "message received"})
}
