package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/nivaran/storefront/internal/core/domain/cart"
	"github.com/nivaran/storefront/internal/core/domain/catalog"
	"github.com/nivaran/storefront/internal/core/ports"
	"github.com/sirupsen/logrus"
)

// cartIDKey is the durable store key for the active cart id. It is the only
// piece of cart state that survives a restart.
const cartIDKey = "cart_id"

// CartService is the cart synchronization engine. It owns the single active
// cart: Initialize recovers the persisted cart id or creates a fresh cart,
// and every mutation replaces the held cart with the normalized upstream
// response. An engine left unready by a failed Initialize re-runs recovery
// on the next operation, so a transient upstream outage at startup does not
// disable the cart for the life of the process. Mutations are serialized
// behind a mutex, so a second submission waits for the first instead of
// racing it; a failed mutation leaves the previously held cart untouched.
type CartService struct {
	gateway ports.CartGateway
	store   ports.KeyValueStore
	logger  *logrus.Logger

	mu      sync.Mutex
	state   cart.State
	current *cart.Cart
}

func NewCartService(gateway ports.CartGateway, store ports.KeyValueStore, logger *logrus.Logger) ports.CartService {
	return &CartService{
		gateway: gateway,
		store:   store,
		logger:  logger,
		state:   cart.StateUninitialized,
	}
}

func (s *CartService) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == cart.StateReady {
		return nil
	}
	return s.recoverLocked(ctx)
}

// recoverLocked runs the Uninitialized -> Recovering -> Ready transition.
// A persisted id that the upstream rejects or no longer knows falls through
// to cart creation; only a failed creation leaves the engine unready.
func (s *CartService) recoverLocked(ctx context.Context) error {
	s.state = cart.StateRecovering
	s.current = nil

	if savedID, ok := s.store.Get(ctx, cartIDKey); ok && savedID != "" {
		recovered, err := s.gateway.FetchCart(ctx, savedID)
		if err != nil {
			if s.logger != nil {
				s.logger.WithFields(logrus.Fields{"cart_id": savedID}).WithError(err).Warn("cart: recovery fetch failed, creating a new cart")
			}
		} else if recovered != nil {
			s.current = recovered
			s.state = cart.StateReady
			if s.logger != nil {
				s.logger.WithFields(logrus.Fields{"cart_id": recovered.ID, "lines": len(recovered.Lines)}).Info("cart: recovered persisted cart")
			}
			return nil
		} else if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"cart_id": savedID}).Info("cart: persisted cart unknown upstream, creating a new cart")
		}
	}

	created, err := s.gateway.CreateCart(ctx)
	if err != nil {
		s.state = cart.StateUninitialized
		return fmt.Errorf("failed to create cart: %w", err)
	}

	s.store.Set(ctx, cartIDKey, created.ID)
	s.current = created
	s.state = cart.StateReady
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"cart_id": created.ID}).Info("cart: created new cart")
	}
	return nil
}

// ensureReadyLocked retries recovery when the engine is not ready. The
// returned error wraps cart.ErrNotInitialized so callers can still detect
// the unready state when recovery keeps failing.
func (s *CartService) ensureReadyLocked(ctx context.Context) error {
	if s.state == cart.StateReady {
		return nil
	}
	if err := s.recoverLocked(ctx); err != nil {
		return fmt.Errorf("%w: %v", cart.ErrNotInitialized, err)
	}
	return nil
}

// Reset drops the held cart and runs recovery again.
func (s *CartService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recoverLocked(ctx)
}

func (s *CartService) State() cart.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *CartService) Cart() *cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *CartService) AddItem(ctx context.Context, variantID string, quantity int) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureReadyLocked(ctx); err != nil {
		return nil, err
	}

	updated, err := s.gateway.AddToCart(ctx, s.current.ID, []ports.CartLineInput{
		{MerchandiseID: variantID, Quantity: quantity},
	})
	if err != nil {
		return nil, err
	}
	s.current = updated
	return updated, nil
}

// UpdateQuantity treats quantity <= 0 as removal, not as an error.
func (s *CartService) UpdateQuantity(ctx context.Context, lineID string, quantity int) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureReadyLocked(ctx); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return s.removeLocked(ctx, lineID)
	}

	updated, err := s.gateway.UpdateCartLines(ctx, s.current.ID, []ports.CartLineUpdate{
		{LineID: lineID, Quantity: quantity},
	})
	if err != nil {
		return nil, err
	}
	s.current = updated
	return updated, nil
}

func (s *CartService) RemoveItem(ctx context.Context, lineID string) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureReadyLocked(ctx); err != nil {
		return nil, err
	}
	return s.removeLocked(ctx, lineID)
}

func (s *CartService) removeLocked(ctx context.Context, lineID string) (*cart.Cart, error) {
	updated, err := s.gateway.RemoveFromCart(ctx, s.current.ID, []string{lineID})
	if err != nil {
		return nil, err
	}
	s.current = updated
	return updated, nil
}

// CheckoutURL returns the upstream checkout URL. The actual navigation is the
// caller's concern; no engine state changes beyond a possible lazy recovery.
func (s *CartService) CheckoutURL(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureReadyLocked(ctx); err != nil {
		return "", err
	}
	return s.current.CheckoutURL, nil
}

// ItemCount is derived from the held cart on every call so it can never
// drift from the authoritative cart object.
func (s *CartService) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.ItemCount()
}

func (s *CartService) Subtotal() catalog.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Subtotal()
}
