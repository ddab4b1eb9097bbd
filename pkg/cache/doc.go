// Package cache provides a typed key-value cache with in-memory and Redis
// backends.
//
// The storefront caches verified sessions (keyed by a hash of the bearer
// token) and catalog pages. A single process uses [Memory]; several
// instances behind a load balancer share a [Redis] cache.
//
// [GetOrSet] is the usual entry point. It collapses concurrent misses for
// the same key into one load:
//
//	user, err := cache.GetOrSet(ctx, sessions, key,
//	    func(ctx context.Context) (apiclient.User, time.Duration, error) {
//	        u, err := api.Verify(ctx)
//	        if err != nil {
//	            return apiclient.User{}, 0, err
//	        }
//	        return *u, 0, nil
//	    })
package cache
