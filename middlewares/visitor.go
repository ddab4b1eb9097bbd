package middlewares

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/storefront/internal"
	"github.com/dmitrymomot/storefront/pkg/apiclient"
	"github.com/dmitrymomot/storefront/pkg/cookie"
	"github.com/dmitrymomot/storefront/pkg/logger"
	"github.com/dmitrymomot/storefront/pkg/visitor"
)

// Token cookie defaults.
const (
	DefaultTokenCookie = "token"
	DefaultTokenMaxAge = 7 * 24 * time.Hour
)

// VisitorConfig configures the visitor middleware.
type VisitorConfig struct {
	CookieName string
	Options    []visitor.Option
	MaxAge     time.Duration
}

// VisitorOption configures VisitorConfig.
type VisitorOption func(*VisitorConfig)

// WithTokenCookie sets the name and lifetime of the sealed cookie holding
// the bearer token.
func WithTokenCookie(name string, maxAge time.Duration) VisitorOption {
	return func(cfg *VisitorConfig) {
		if name != "" {
			cfg.CookieName = name
		}
		if maxAge > 0 {
			cfg.MaxAge = maxAge
		}
	}
}

// WithVisitorOptions passes options through to visitor.Open.
func WithVisitorOptions(opts ...visitor.Option) VisitorOption {
	return func(cfg *VisitorConfig) {
		cfg.Options = append(cfg.Options, opts...)
	}
}

// Visitor opens the visitor for the request: it reads the bearer token
// from a sealed cookie, verifies the session, loads the cart and stores
// the result in the request context for visitor.FromContext.
//
// Token changes made during the request (login, logout, a 401 from the
// API) are written back as a single Set-Cookie right before the response
// goes out.
func Visitor(api *apiclient.Client, opts ...VisitorOption) internal.Middleware {
	cfg := &VisitorConfig{
		CookieName: DefaultTokenCookie,
		MaxAge:     DefaultTokenMaxAge,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			tokens := newCookieTokens(c, cfg.CookieName, cfg.MaxAge)

			options := append([]visitor.Option{visitor.WithLogger(c.Logger())}, cfg.Options...)
			v := visitor.Open(c, api, tokens, options...)
			defer v.Close()

			c.SetContext(visitor.WithContext(c.Context(), v))
			return next(c)
		}
	}
}

// UserIDExtractor adds "user_id" to log records once the visitor is
// signed in.
func UserIDExtractor() logger.Extractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if u := visitor.FromContext(ctx).User(); u != nil {
			return slog.String("user_id", string(u.ID)), true
		}
		return slog.Attr{}, false
	}
}

// cookieTokens is an apiclient.TokenStore backed by a sealed cookie.
// Reads see writes made earlier in the same request.
type cookieTokens struct {
	c      internal.Context
	name   string
	token  string
	maxAge time.Duration
	mu     sync.Mutex
	dirty  bool
}

func newCookieTokens(c internal.Context, name string, maxAge time.Duration) *cookieTokens {
	t := &cookieTokens{c: c, name: name, maxAge: maxAge}

	token, err := c.SealedCookie(name)
	switch {
	case err == nil:
		t.token = token
	case errors.Is(err, cookie.ErrTampered):
		c.LogWarn("discarding unreadable token cookie")
		t.dirty = true
	case !errors.Is(err, cookie.ErrNotFound):
		c.LogError("read token cookie", "error", err)
	}

	c.ResponseWriter().OnBeforeWrite(t.flush)
	return t
}

func (t *cookieTokens) Token(context.Context) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.token, t.token != ""
}

func (t *cookieTokens) SetToken(_ context.Context, token string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = token
	t.dirty = true
	return nil
}

func (t *cookieTokens) DeleteToken(context.Context) error {
	return t.SetToken(context.Background(), "")
}

func (t *cookieTokens) flush() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.dirty {
		return
	}
	t.dirty = false

	if t.token == "" {
		t.c.DeleteCookie(t.name)
		return
	}
	if err := t.c.SetSealedCookie(t.name, t.token, int(t.maxAge.Seconds())); err != nil {
		t.c.LogError("write token cookie", "error", err)
	}
}
