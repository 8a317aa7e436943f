package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nivaran/storefront/internal/core/domain/newsletter"
)

// NewsletterRepository persists newsletter subscribers.
type NewsletterRepository interface {
	Create(ctx context.Context, s *newsletter.Subscriber) error
	// GetByEmail returns (nil, nil) when the address is not subscribed.
	GetByEmail(ctx context.Context, email string) (*newsletter.Subscriber, error)
	MarkWelcomed(ctx context.Context, id uuid.UUID, at time.Time) error
	Count(ctx context.Context) (int, error)
}

// NewsletterService handles public subscription requests.
type NewsletterService interface {
	// Subscribe registers the address. isNew is false when it was already
	// subscribed; repeat subscriptions are not an error.
	Subscribe(ctx context.Context, email string) (isNew bool, err error)
}
