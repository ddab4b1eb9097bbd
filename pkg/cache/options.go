package cache

import "time"

type config struct {
	ttl    time.Duration
	sweep  time.Duration
	limit  int
	prefix string
}

func newConfig(opts []Option) config {
	cfg := config{
		ttl:   time.Hour,
		sweep: time.Minute,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option configures Memory and Redis caches.
// Options that do not apply to a backend are ignored by it.
type Option func(*config)

// WithTTL sets the expiration used when Set is called with a zero ttl.
// Default: 1 hour.
func WithTTL(d time.Duration) Option {
	return func(c *config) { c.ttl = d }
}

// WithSweepInterval sets how often Memory drops expired entries in the
// background. Zero disables the sweeper; expired entries are still
// never returned. Default: 1 minute.
func WithSweepInterval(d time.Duration) Option {
	return func(c *config) { c.sweep = d }
}

// WithLimit caps the number of entries Memory holds. The least recently
// used entry is evicted first. Zero means unbounded.
func WithLimit(n int) Option {
	return func(c *config) { c.limit = n }
}

// WithPrefix namespaces Redis keys as "prefix:key".
func WithPrefix(prefix string) Option {
	return func(c *config) { c.prefix = prefix }
}
