package catalog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/storefront/pkg/apiclient"
	"github.com/dmitrymomot/storefront/pkg/cache"
	"github.com/dmitrymomot/storefront/pkg/logger"
)

const (
	listKey       = "products:all"
	featuredCount = 3
)

// API is the read-only part of the API client used by the catalog.
type API interface {
	Products(ctx context.Context, q apiclient.ProductQuery) ([]apiclient.Product, error)
	Product(ctx context.Context, id apiclient.ID) (*apiclient.Product, error)
}

// Service serves catalog reads from a cache in front of the API.
// The full product list is fetched once per TTL and filtered in memory.
type Service struct {
	api      API
	lists    cache.Cache[[]apiclient.Product]
	products cache.Cache[apiclient.Product]
	ttl      time.Duration
	log      *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithListCache caches full product lists.
func WithListCache(c cache.Cache[[]apiclient.Product]) ServiceOption {
	return func(s *Service) { s.lists = c }
}

// WithProductCache caches single product records.
func WithProductCache(c cache.Cache[apiclient.Product]) ServiceOption {
	return func(s *Service) { s.products = c }
}

// WithTTL sets how long catalog entries are kept. Zero uses the cache default.
func WithTTL(d time.Duration) ServiceOption {
	return func(s *Service) { s.ttl = d }
}

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// NewService creates a Service. Without caches every call goes to the API.
func NewService(api API, opts ...ServiceOption) *Service {
	s := &Service{api: api, log: logger.NewNope()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Products returns the whole catalog.
func (s *Service) Products(ctx context.Context) ([]apiclient.Product, error) {
	load := func(ctx context.Context) ([]apiclient.Product, time.Duration, error) {
		list, err := s.api.Products(ctx, apiclient.ProductQuery{})
		return list, s.ttl, err
	}
	if s.lists == nil {
		list, _, err := load(ctx)
		return list, err
	}
	return cache.GetOrSet(ctx, s.lists, listKey, load)
}

// Search returns the filtered catalog along with the category facets of the
// unfiltered list.
func (s *Service) Search(ctx context.Context, f Filter) (products []apiclient.Product, categories []string, err error) {
	all, err := s.Products(ctx)
	if err != nil {
		return nil, nil, err
	}
	return Apply(all, f), Categories(all), nil
}

// Featured returns the first few products for the home page.
func (s *Service) Featured(ctx context.Context) ([]apiclient.Product, error) {
	all, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	return all[:min(featuredCount, len(all))], nil
}

// Product returns one product. A missing product matches apiclient.ErrNotFound.
func (s *Service) Product(ctx context.Context, id apiclient.ID) (*apiclient.Product, error) {
	load := func(ctx context.Context) (apiclient.Product, time.Duration, error) {
		p, err := s.api.Product(ctx, id)
		if err != nil {
			return apiclient.Product{}, 0, err
		}
		return *p, s.ttl, nil
	}
	if s.products == nil {
		p, _, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return &p, nil
	}
	p, err := cache.GetOrSet(ctx, s.products, "product:"+id.String(), load)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Warm reloads the product list into the cache and primes each product.
func (s *Service) Warm(ctx context.Context) error {
	list, err := s.api.Products(ctx, apiclient.ProductQuery{})
	if err != nil {
		return err
	}
	var errs []error
	if s.lists != nil {
		errs = append(errs, s.lists.Set(ctx, listKey, list, s.ttl))
	}
	if s.products != nil {
		for _, p := range list {
			errs = append(errs, s.products.Set(ctx, "product:"+p.ID.String(), p, s.ttl))
		}
	}
	s.log.DebugContext(ctx, "catalog warmed", slog.Int("products", len(list)))
	return errors.Join(errs...)
}
