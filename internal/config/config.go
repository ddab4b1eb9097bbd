// Package config loads the storefront configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/storefront/pkg/logger"
	"github.com/dmitrymomot/storefront/pkg/redis"
)

// Production is the APP_ENV value of deployed instances.
const Production = "production"

// devCookieSecret keeps local runs working without COOKIE_SECRET.
const devCookieSecret = "development-only-cookie-secret-0000"

// ErrMissingSecret is returned in production when COOKIE_SECRET is unset.
var ErrMissingSecret = errors.New("config: COOKIE_SECRET is required in production")

// Config is the process configuration.
type Config struct {
	Env     string `env:"APP_ENV" envDefault:"development"`
	Address string `env:"ADDRESS" envDefault:":8080"`

	// APIURL overrides the environment's default API base URL.
	APIURL         string        `env:"API_URL"`
	LocalAPIURL    string        `env:"API_URL_LOCAL"    envDefault:"http://localhost:5000/api"`
	DeployedAPIURL string        `env:"API_URL_DEPLOYED" envDefault:"https://gamestore-api.onrender.com/api"`
	APITimeout     time.Duration `env:"API_TIMEOUT"      envDefault:"10s"`

	CookieSecret string        `env:"COOKIE_SECRET"`
	CookieSecure bool          `env:"COOKIE_SECURE"`
	TokenMaxAge  time.Duration `env:"TOKEN_MAX_AGE" envDefault:"168h"`

	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT"  envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	SessionCacheTTL time.Duration `env:"SESSION_CACHE_TTL"     envDefault:"1m"`
	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL"     envDefault:"5m"`
	CatalogWarm     string        `env:"CATALOG_WARM_SCHEDULE" envDefault:"@every 5m"`

	Log   logger.Config
	Redis redis.Config
}

// Load reads .env outside production and parses the environment.
func Load() (Config, error) {
	if !strings.EqualFold(os.Getenv("APP_ENV"), Production) {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load .env: %w", err)
		}
	}
	return Parse(nil)
}

// Parse builds the configuration from environ, or from the process
// environment when environ is nil.
func Parse(environ map[string]string) (Config, error) {
	var cfg Config
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	if cfg.CookieSecret == "" {
		if cfg.IsProduction() {
			return Config{}, ErrMissingSecret
		}
		cfg.CookieSecret = devCookieSecret
	}
	if cfg.IsProduction() {
		cfg.CookieSecure = true
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, Production)
}

// BaseURL returns API_URL when set, else the deployed API in production
// and the local one everywhere else.
func (c Config) BaseURL() string {
	switch {
	case c.APIURL != "":
		return c.APIURL
	case c.IsProduction():
		return c.DeployedAPIURL
	}
	return c.LocalAPIURL
}
