// Package redis opens the optional Redis connection used to share session
// and catalog caches across storefront instances.
//
//	client, err := redis.Open(ctx, cfg.Redis, log)
//	if err != nil {
//	    return err
//	}
//	storefront.Run(app,
//	    storefront.ShutdownHook(redis.Shutdown(client)),
//	)
//
// Healthcheck adapts a client to the readiness probe.
package redis
