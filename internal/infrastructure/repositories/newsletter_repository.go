package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nivaran/storefront/internal/core/domain/newsletter"
	"github.com/nivaran/storefront/internal/core/ports"
	"github.com/nivaran/storefront/internal/infrastructure/db"
	"github.com/sirupsen/logrus"
)

// NewsletterRepository implements the newsletter repository interface
type NewsletterRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewNewsletterRepository creates a new newsletter repository
func NewNewsletterRepository(database *db.Database, logger *logrus.Logger) ports.NewsletterRepository {
	return &NewsletterRepository{
		db:     database,
		logger: logger,
	}
}

// Create inserts a new subscriber
func (r *NewsletterRepository) Create(ctx context.Context, s *newsletter.Subscriber) error {
	query := `
		INSERT INTO newsletter_subscribers (id, email, subscribed_at, welcomed_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.DB.ExecContext(ctx, query, s.ID, s.Email, s.SubscribedAt, s.WelcomedAt)
	if err != nil {
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"email": s.Email}).WithError(err).Error("db: failed to create subscriber")
		}
		return fmt.Errorf("failed to create subscriber: %w", err)
	}
	return nil
}

// GetByEmail retrieves a subscriber by email; (nil, nil) when not subscribed
func (r *NewsletterRepository) GetByEmail(ctx context.Context, email string) (*newsletter.Subscriber, error) {
	var s newsletter.Subscriber
	query := `
		SELECT id, email, subscribed_at, welcomed_at
		FROM newsletter_subscribers
		WHERE email = $1`

	err := r.db.DB.GetContext(ctx, &s, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{"email": email}).WithError(err).Error("db: failed to get subscriber by email")
		}
		return nil, fmt.Errorf("failed to get subscriber by email: %w", err)
	}

	return &s, nil
}

// MarkWelcomed records when the welcome email was sent
func (r *NewsletterRepository) MarkWelcomed(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE newsletter_subscribers SET welcomed_at = $2 WHERE id = $1`

	_, err := r.db.DB.ExecContext(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("failed to mark subscriber welcomed: %w", err)
	}
	return nil
}

// Count returns the number of subscribers
func (r *NewsletterRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM newsletter_subscribers`)
	if err != nil {
		return 0, fmt.Errorf("failed to count subscribers: %w", err)
	}
	return count, nil
}
