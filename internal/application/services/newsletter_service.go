package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nivaran/storefront/internal/core/domain/newsletter"
	"github.com/nivaran/storefront/internal/core/ports"
	"github.com/sirupsen/logrus"
)

type NewsletterService struct {
	repo   ports.NewsletterRepository
	email  ports.EmailService
	logger *logrus.Logger
}

func NewNewsletterService(repo ports.NewsletterRepository, email ports.EmailService, logger *logrus.Logger) ports.NewsletterService {
	return &NewsletterService{repo: repo, email: email, logger: logger}
}

// Subscribe registers the address and sends the welcome email. Subscribing an
// already-registered address is not an error; it just reports isNew=false.
// A failed welcome email never fails the subscription.
func (s *NewsletterService) Subscribe(ctx context.Context, email string) (bool, error) {
	if !newsletter.ValidEmail(email) {
		return false, newsletter.ErrInvalidEmail
	}
	email = newsletter.Normalize(email)

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("failed to look up subscriber: %w", err)
	}
	if existing != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"email": email}).Debug("newsletter: already subscribed")
		}
		return false, nil
	}

	sub := &newsletter.Subscriber{
		ID:           uuid.New(),
		Email:        email,
		SubscribedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return false, fmt.Errorf("failed to create subscriber: %w", err)
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"email": email, "id": sub.ID}).Info("newsletter: subscriber created")
	}

	if s.email != nil {
		if err := s.email.SendWelcomeEmail(ctx, email); err != nil {
			if s.logger != nil {
				s.logger.WithFields(logrus.Fields{"email": email}).WithError(err).Warn("newsletter: welcome email failed")
			}
		} else {
			now := time.Now()
			if err := s.repo.MarkWelcomed(ctx, sub.ID, now); err != nil && s.logger != nil {
				s.logger.WithFields(logrus.Fields{"id": sub.ID}).WithError(err).Warn("newsletter: failed to record welcome email")
			}
		}
	}

	return true, nil
}
