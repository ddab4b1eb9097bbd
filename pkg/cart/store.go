package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/storefront/pkg/apiclient"
	"github.com/dmitrymomot/storefront/pkg/logger"
)

// API is the part of the API client the cart needs.
type API interface {
	Cart(ctx context.Context) (*apiclient.Cart, error)
	AddToCart(ctx context.Context, productID apiclient.ID, quantity int) (*apiclient.Cart, error)
	IncrementItem(ctx context.Context, itemID apiclient.ID) (*apiclient.Cart, error)
	DecrementItem(ctx context.Context, itemID apiclient.ID) (*apiclient.Cart, error)
	RemoveItem(ctx context.Context, itemID apiclient.ID) error
	ClearCart(ctx context.Context) error
}

// Identity is the session the cart belongs to.
type Identity interface {
	User() *apiclient.User
	OnIdentityChange(fn func(ctx context.Context, user *apiclient.User)) (unsubscribe func())
	Expire(ctx context.Context)
}

// Option configures a Store.
type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// Store keeps the signed-in visitor's cart in step with the API.
//
// Every mutation replaces the local snapshot with the one the server
// returns. Responses are ordered by the sequence number taken when the
// request was issued: a response older than the last applied one is
// dropped, and so is any response issued for a previous identity. Removal
// is the exception; once acknowledged, the line is filtered out of
// whatever snapshot is current.
type Store struct {
	api      API
	identity Identity
	log      *slog.Logger

	mu       sync.Mutex
	cart     *apiclient.Cart
	issued   uint64
	applied  uint64
	inflight int

	unsubscribe func()
}

type ticket struct {
	seq   uint64
	owner apiclient.ID
}

// New creates a Store bound to identity. The cart is fetched whenever a
// visitor signs in and dropped when they sign out.
func New(api API, identity Identity, opts ...Option) *Store {
	s := &Store{
		api:      api,
		identity: identity,
		log:      logger.NewNope(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.unsubscribe = identity.OnIdentityChange(s.identityChanged)
	return s
}

func (s *Store) identityChanged(ctx context.Context, user *apiclient.User) {
	if user == nil {
		s.reset()
		return
	}
	if err := s.Refresh(ctx); err != nil {
		s.log.WarnContext(ctx, "cart refresh after sign-in failed", slog.String("error", err.Error()))
	}
}

// Refresh fetches the cart. Signed-out visitors have no cart and no request
// is made.
func (s *Store) Refresh(ctx context.Context) error {
	t, ok := s.begin()
	if !ok {
		s.reset()
		return nil
	}

	s.mu.Lock()
	s.inflight++
	s.mu.Unlock()

	snap, err := s.api.Cart(ctx)

	s.mu.Lock()
	s.inflight--
	s.mu.Unlock()

	if err != nil {
		return s.fail(ctx, "load", err)
	}
	s.apply(t, snap)
	return nil
}

// AddToCart adds quantity units of a product.
func (s *Store) AddToCart(ctx context.Context, productID apiclient.ID, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	t, ok := s.begin()
	if !ok {
		return ErrNotAuthenticated
	}
	snap, err := s.api.AddToCart(ctx, productID, quantity)
	if err != nil {
		return s.fail(ctx, "add", err)
	}
	s.apply(t, snap)
	return nil
}

// UpdateCartItem increments or decrements a line by one.
//
// currentQuantity is the line's quantity as the caller last saw it. A
// decrement at one returns ErrInvalidQuantity without a request; removing
// the line instead is up to the caller. Zero means unknown and skips the
// check.
func (s *Store) UpdateCartItem(ctx context.Context, itemID apiclient.ID, currentQuantity int, increment bool) error {
	if !increment && currentQuantity == 1 {
		return ErrInvalidQuantity
	}
	t, ok := s.begin()
	if !ok {
		return ErrNotAuthenticated
	}
	var (
		snap *apiclient.Cart
		err  error
	)
	if increment {
		snap, err = s.api.IncrementItem(ctx, itemID)
	} else {
		snap, err = s.api.DecrementItem(ctx, itemID)
	}
	if err != nil {
		return s.fail(ctx, "update", err)
	}
	s.apply(t, snap)
	return nil
}

// RemoveFromCart deletes a line. On acknowledgment the line is filtered
// out of the current snapshot; the total is left as the server last
// reported it.
func (s *Store) RemoveFromCart(ctx context.Context, itemID apiclient.ID) error {
	t, ok := s.begin()
	if !ok {
		return ErrNotAuthenticated
	}
	if err := s.api.RemoveItem(ctx, itemID); err != nil {
		return s.fail(ctx, "remove", err)
	}
	if !s.owns(t) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart != nil {
		s.cart = s.cart.Without(itemID)
	}
	s.applied = max(s.applied, t.seq)
	return nil
}

// Clear empties the cart, e.g. after checkout.
func (s *Store) Clear(ctx context.Context) error {
	t, ok := s.begin()
	if !ok {
		return ErrNotAuthenticated
	}
	if err := s.api.ClearCart(ctx); err != nil {
		return s.fail(ctx, "clear", err)
	}
	s.apply(t, &apiclient.Cart{Items: []apiclient.CartItem{}})
	return nil
}

// Cart returns a copy of the current snapshot, or nil when there is none.
func (s *Store) Cart() *apiclient.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// Count returns the number of units in the cart.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Count()
}

// Loading reports whether a fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}

// Close stops following the identity.
func (s *Store) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// begin issues a sequence number for the signed-in visitor.
func (s *Store) begin() (ticket, bool) {
	user := s.identity.User()
	if user == nil {
		return ticket{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return ticket{seq: s.issued, owner: user.ID}, true
}

func (s *Store) owns(t ticket) bool {
	user := s.identity.User()
	return user != nil && user.ID == t.owner
}

// apply installs snap unless a newer response has already been applied or
// the identity changed since the request was issued.
func (s *Store) apply(t ticket, snap *apiclient.Cart) bool {
	if !s.owns(t) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.seq <= s.applied {
		return false
	}
	s.cart = snap.Clone()
	s.applied = t.seq
	return true
}

// reset drops the snapshot and invalidates every request in flight.
func (s *Store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	s.applied = s.issued
	s.cart = nil
}

// fail expires the session on authorization errors and wraps err.
func (s *Store) fail(ctx context.Context, op string, err error) error {
	if errors.Is(err, apiclient.ErrUnauthorized) {
		s.identity.Expire(ctx)
	}
	s.log.WarnContext(ctx, "cart operation failed",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
	return fmt.Errorf("cart: %s: %w", op, err)
}
