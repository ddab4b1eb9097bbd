package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/dmitrymomot/storefront"
	"github.com/dmitrymomot/storefront/handlers"
	"github.com/dmitrymomot/storefront/internal/config"
	"github.com/dmitrymomot/storefront/middlewares"
	"github.com/dmitrymomot/storefront/pkg/apiclient"
	"github.com/dmitrymomot/storefront/pkg/cache"
	"github.com/dmitrymomot/storefront/pkg/catalog"
	"github.com/dmitrymomot/storefront/pkg/cookie"
	"github.com/dmitrymomot/storefront/pkg/logger"
	"github.com/dmitrymomot/storefront/pkg/redis"
	"github.com/dmitrymomot/storefront/pkg/visitor"
	"github.com/dmitrymomot/storefront/views"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log, middlewares.RequestIDExtractor(), middlewares.UserIDExtractor())
	if err := run(cfg, log); err != nil {
		log.Error("application error", "error", err)
		logger.Flush(2 * time.Second)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx := context.Background()

	api, err := apiclient.New(cfg.BaseURL(),
		apiclient.WithTimeout(cfg.APITimeout),
		apiclient.WithLogger(log),
	)
	if err != nil {
		return err
	}

	jar, err := cookie.New(cfg.CookieSecret,
		cookie.WithSecure(cfg.CookieSecure),
		cookie.WithSameSite(http.SameSiteLaxMode),
	)
	if err != nil {
		return fmt.Errorf("cookie manager: %w", err)
	}

	store, err := openCaches(ctx, cfg, log)
	if err != nil {
		return err
	}

	svc := catalog.NewService(api,
		catalog.WithListCache(store.lists),
		catalog.WithProductCache(store.products),
		catalog.WithTTL(cfg.CatalogCacheTTL),
		catalog.WithLogger(log),
	)
	warmer, err := catalog.NewWarmer(svc, cfg.CatalogWarm, 0)
	if err != nil {
		return fmt.Errorf("catalog warmer: %w", err)
	}

	app := storefront.New(
		storefront.WithLogger(log),
		storefront.WithCookieManager(jar),
		storefront.WithStaticFiles("/static/", views.Assets, "static"),

		// Visitor sits inside Timeout: verification and the cart fetch
		// count against the request deadline.
		storefront.WithMiddleware(
			middlewares.RequestID(),
			middlewares.Recover(),
			middlewares.RequestLogger(),
			middlewares.Timeout(cfg.RequestTimeout),
			middlewares.Visitor(api,
				middlewares.WithTokenCookie(middlewares.DefaultTokenCookie, cfg.TokenMaxAge),
				middlewares.WithVisitorOptions(visitor.WithSessionCache(store.users, cfg.SessionCacheTTL)),
			),
		),

		storefront.WithHandlers(
			handlers.NewAuth(),
			handlers.NewCatalog(svc),
			handlers.NewCart(),
			handlers.NewCheckout(),
			handlers.NewProfile(),
		),

		storefront.WithErrorHandler(handlers.ErrorHandler),
		storefront.WithNotFoundHandler(handlers.NotFound),
		storefront.WithMethodNotAllowedHandler(handlers.MethodNotAllowed),

		storefront.WithHealthChecks(store.checks(api)...),
	)

	runOpts := []storefront.RunOption{
		storefront.Logger(log),
		storefront.ShutdownTimeout(cfg.ShutdownTimeout),
		storefront.StartupHook(warmer.Start),
		storefront.ShutdownHook(warmer.Stop),
	}
	for _, hook := range store.closers {
		runOpts = append(runOpts, storefront.ShutdownHook(hook))
	}
	runOpts = append(runOpts, storefront.ShutdownHook(func(context.Context) error {
		logger.Flush(2 * time.Second)
		return nil
	}))

	return app.Run(cfg.Address, runOpts...)
}

// caches holds the shared caches, backed by Redis when REDIS_URL is set
// and by process memory otherwise.
type caches struct {
	users    cache.Cache[apiclient.User]
	lists    cache.Cache[[]apiclient.Product]
	products cache.Cache[apiclient.Product]
	ping     func(context.Context) error
	closers  []func(context.Context) error
}

func openCaches(ctx context.Context, cfg config.Config, log *slog.Logger) (*caches, error) {
	if !cfg.Redis.Enabled() {
		users := cache.NewMemory[apiclient.User](cache.WithLimit(10_000))
		lists := cache.NewMemory[[]apiclient.Product]()
		products := cache.NewMemory[apiclient.Product](cache.WithLimit(5_000))
		return &caches{
			users:    users,
			lists:    lists,
			products: products,
			closers: []func(context.Context) error{
				func(context.Context) error { return users.Close() },
				func(context.Context) error { return lists.Close() },
				func(context.Context) error { return products.Close() },
			},
		}, nil
	}

	client, err := redis.Open(ctx, cfg.Redis, log)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	return &caches{
		users:    cache.NewRedis(client, cache.JSON[apiclient.User]{}, cache.WithPrefix("storefront:users:")),
		lists:    cache.NewRedis(client, cache.JSON[[]apiclient.Product]{}, cache.WithPrefix("storefront:catalog:")),
		products: cache.NewRedis(client, cache.JSON[apiclient.Product]{}, cache.WithPrefix("storefront:products:")),
		ping:     redis.Healthcheck(client),
		closers:  []func(context.Context) error{redis.Shutdown(client)},
	}, nil
}

func (c *caches) checks(api *apiclient.Client) []storefront.HealthOption {
	checks := []storefront.HealthOption{storefront.WithReadinessCheck("api", api.Ping)}
	if c.ping != nil {
		checks = append(checks, storefront.WithReadinessCheck("redis", c.ping))
	}
	return checks
}
