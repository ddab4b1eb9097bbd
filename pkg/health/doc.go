// Package health serves liveness and readiness probes.
//
// Liveness always answers 200. Readiness runs the registered checks
// concurrently under a shared timeout and answers 503 when any fails:
//
//	r.Get("/health/ready", health.Readiness(health.Checks{
//	    "api":   api.Ping,
//	    "redis": redis.Healthcheck(client),
//	}))
//
// Both endpoints reply in plain text unless the client asks for JSON with
// an Accept header or ?format=json.
package health
