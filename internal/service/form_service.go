package service

import (
	"context"
	"strings"
	"time"

	"oohunt/internal/domain"
	"oohunt/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ContactInput is a contact form submission
type ContactInput struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Subject string `json:"subject" validate:"max=500"`
	Message string `json:"message" validate:"required,max=10000"`
}

// FormService defines the interface for public form submissions
type FormService interface {
	Subscribe(ctx context.Context, email string) (*domain.Subscription, error)
	SubmitContact(ctx context.Context, input ContactInput) (*domain.ContactMessage, error)
}

type formService struct {
	subscriptionRepo repository.SubscriptionRepository
	contactRepo      repository.ContactRepository
	validate         *validator.Validate
	now              func() time.Time
}

// NewFormService creates a new instance of FormService
func NewFormService(subscriptionRepo repository.SubscriptionRepository, contactRepo repository.ContactRepository) FormService {
	return &formService{
		subscriptionRepo: subscriptionRepo,
		contactRepo:      contactRepo,
		validate:         validator.New(),
		now:              time.Now,
	}
}

// Subscribe records a newsletter sign-up. Subscribing twice is not an error.
func (s *formService) Subscribe(ctx context.Context, email string) (*domain.Subscription, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.validate.Var(email, "required,email,max=255"); err != nil {
		return nil, domain.NewValidationError("a valid email is required")
	}

	now := s.now().UTC()
	subscription := &domain.Subscription{ID: uuid.New(), Email: email, CreatedAt: now, UpdatedAt: now}
	if err := s.subscriptionRepo.Upsert(ctx, subscription); err != nil {
		return nil, domain.NewInternalError("failed to save subscription", err)
	}
	return subscription, nil
}

// SubmitContact stores a contact message
func (s *formService) SubmitContact(ctx context.Context, input ContactInput) (*domain.ContactMessage, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Subject = strings.TrimSpace(input.Subject)
	input.Message = strings.TrimSpace(input.Message)

	if err := s.validate.Struct(input); err != nil {
		return nil, domain.NewValidationError("name, a valid email and message are required")
	}

	message := &domain.ContactMessage{
		ID:        uuid.New(),
		Name:      input.Name,
		Email:     input.Email,
		Subject:   input.Subject,
		Message:   input.Message,
		CreatedAt: s.now().UTC(),
	}
	if err := s.contactRepo.Create(ctx, message); err != nil {
		return nil, domain.NewInternalError("failed to save contact message", err)
	}
	return message, nil
}
