package session

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/storefront/pkg/apiclient"
	"github.com/dmitrymomot/storefront/pkg/cache"
)

// Option configures a Store.
type Option func(*Store)

// WithCache remembers verified users by token hash so that a page load
// does not hit /auth/verify every time. A zero ttl uses the cache default.
func WithCache(c cache.Cache[apiclient.User], ttl time.Duration) Option {
	return func(s *Store) {
		s.users = c
		s.cacheTTL = ttl
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}
