package repository

import (
	"context"
	"database/sql"
	"fmt"

	"oohunt/internal/domain"
)

// SubscriptionRepository stores newsletter sign-ups
type SubscriptionRepository interface {
	Upsert(ctx context.Context, subscription *domain.Subscription) error
}

// ContactRepository stores contact form submissions
type ContactRepository interface {
	Create(ctx context.Context, message *domain.ContactMessage) error
}

type subscriptionRepository struct {
	db *sql.DB
}

// NewSubscriptionRepository creates a new instance of SubscriptionRepository
func NewSubscriptionRepository(db *sql.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Upsert records the email once; repeated sign-ups only bump updated_at
func (r *subscriptionRepository) Upsert(ctx context.Context, subscription *domain.Subscription) error {
	query := `
		INSERT INTO subscriptions (id, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		subscription.ID,
		subscription.Email,
		subscription.CreatedAt,
		subscription.UpdatedAt,
	).Scan(&subscription.ID, &subscription.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}

	return nil
}

type contactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new instance of ContactRepository
func NewContactRepository(db *sql.DB) ContactRepository {
	return &contactRepository{db: db}
}

// Create inserts a contact message
func (r *contactRepository) Create(ctx context.Context, message *domain.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (id, name, email, subject, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		message.ID,
		message.Name,
		message.Email,
		message.Subject,
		message.Message,
		message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}

	return nil
}
