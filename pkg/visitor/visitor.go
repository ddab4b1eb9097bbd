// Package visitor wires a visitor's session and cart together for the
// lifetime of one request.
//
// There is no process-wide session: each request opens a Visitor from the
// token it carries, passes it down explicitly through the request context,
// and closes it when the response is written.
package visitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/storefront/pkg/apiclient"
	"github.com/dmitrymomot/storefront/pkg/cache"
	"github.com/dmitrymomot/storefront/pkg/cart"
	"github.com/dmitrymomot/storefront/pkg/logger"
	"github.com/dmitrymomot/storefront/pkg/session"
)

// Visitor is the per-request state of one browser.
type Visitor struct {
	Session *session.Store
	Cart    *cart.Store
}

type config struct {
	users    cache.Cache[apiclient.User]
	usersTTL time.Duration
	log      *slog.Logger
}

// Option configures Open.
type Option func(*config)

// WithSessionCache shares verified users between requests.
func WithSessionCache(c cache.Cache[apiclient.User], ttl time.Duration) Option {
	return func(cfg *config) {
		cfg.users = c
		cfg.usersTTL = ttl
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) {
		if l != nil {
			cfg.log = l
		}
	}
}

// Open builds the visitor's stores on top of api, reading and writing the
// bearer token through tokens, and verifies the session.
//
// The cart subscribes before verification, so a verified visitor arrives
// with their cart already loaded. Verification failures are logged and
// leave the visitor signed out.
func Open(ctx context.Context, api *apiclient.Client, tokens apiclient.TokenStore, opts ...Option) *Visitor {
	cfg := config{log: logger.NewNope()}
	for _, opt := range opts {
		opt(&cfg)
	}

	client := api.WithTokens(tokens)
	sessOpts := []session.Option{session.WithLogger(cfg.log)}
	if cfg.users != nil {
		sessOpts = append(sessOpts, session.WithCache(cfg.users, cfg.usersTTL))
	}

	v := &Visitor{Session: session.New(client, tokens, sessOpts...)}
	v.Cart = cart.New(client, v.Session, cart.WithLogger(cfg.log))

	if err := v.Session.Verify(ctx); err != nil {
		cfg.log.DebugContext(ctx, "visitor signed out", slog.String("reason", err.Error()))
	}
	return v
}

// Close detaches the cart from the session.
func (v *Visitor) Close() {
	if v != nil && v.Cart != nil {
		v.Cart.Close()
	}
}

// User returns the signed-in user, or nil.
func (v *Visitor) User() *apiclient.User {
	if v == nil || v.Session == nil {
		return nil
	}
	return v.Session.User()
}

type contextKey struct{}

// WithContext stores v in ctx.
func WithContext(ctx context.Context, v *Visitor) context.Context {
	return context.WithValue(ctx, contextKey{}, v)
}

// FromContext returns the visitor stored in ctx, or nil.
func FromContext(ctx context.Context) *Visitor {
	v, _ := ctx.Value(contextKey{}).(*Visitor)
	return v
}
