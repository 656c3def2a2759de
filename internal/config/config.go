package config

import (
	"fmt"

	pkgconfig "github.com/jwaldorf05/fhp-storefront/pkg/config"
)

// Catalog backend selectors.
const (
	BackendStatic   = "static"
	BackendCommerce = "commerce"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`

	// SiteOrigin overrides the request origin in checkout redirect URLs,
	// e.g. "https://shop.example.com". Empty uses the request's own origin.
	SiteOrigin string `env:"SITE_ORIGIN" envDefault:""`

	// CORSOrigin restricts browser API access to one origin. Empty echoes
	// the request origin (development mode).
	CORSOrigin string `env:"CORS_ORIGIN" envDefault:""`

	// Cart cookie
	CartCookieName   string `env:"CART_COOKIE_NAME" envDefault:"fhp-cart"`
	CartCookieMaxAge int    `env:"CART_COOKIE_MAX_AGE" envDefault:"2592000"`

	// Stripe
	StripeSecretKey string `env:"STRIPE_SECRET_KEY" envDefault:""`
	StripeAPIURL    string `env:"STRIPE_API_URL" envDefault:"https://api.stripe.com"`

	// Catalog backend: static or commerce
	CatalogBackend      string `env:"CATALOG_BACKEND" envDefault:"static"`
	CommerceStoreDomain string `env:"COMMERCE_STORE_DOMAIN" envDefault:""`
	CommerceAccessToken string `env:"COMMERCE_ACCESS_TOKEN" envDefault:""`
	CommerceAPIVersion  string `env:"COMMERCE_API_VERSION" envDefault:"2024-01"`

	// Redis catalog cache. Empty address disables caching.
	RedisAddr       string `env:"REDIS_ADDR" envDefault:""`
	RedisPass       string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0"`
	CatalogCacheTTL int    `env:"CATALOG_CACHE_TTL_SECONDS" envDefault:"300"`

	// Kafka. Empty disables event publishing.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"" envSeparator:","`

	// Tracing
	TracingEnabled    bool    `env:"TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint   string  `env:"TRACING_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TracingSampleRate float64 `env:"TRACING_SAMPLE_RATE" envDefault:"1.0"`

	// Pprof debug endpoints, allowed only from these CIDRs.
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.1/32" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.CartCookieMaxAge < 1 {
		return fmt.Errorf("invalid cart cookie max age: %d", c.CartCookieMaxAge)
	}
	switch c.CatalogBackend {
	case BackendStatic:
	case BackendCommerce:
		if c.CommerceStoreDomain == "" || c.CommerceAccessToken == "" {
			return fmt.Errorf("commerce backend requires COMMERCE_STORE_DOMAIN and COMMERCE_ACCESS_TOKEN")
		}
	default:
		return fmt.Errorf("invalid catalog backend: %s", c.CatalogBackend)
	}
	return nil
}
