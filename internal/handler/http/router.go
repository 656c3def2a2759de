package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jwaldorf05/fhp-storefront/internal/repository/commerce"
	"github.com/jwaldorf05/fhp-storefront/internal/repository/cookie"
	"github.com/jwaldorf05/fhp-storefront/internal/service"
	apperrors "github.com/jwaldorf05/fhp-storefront/pkg/errors"
	"github.com/jwaldorf05/fhp-storefront/pkg/health"
	"github.com/jwaldorf05/fhp-storefront/pkg/httputil"
	"github.com/jwaldorf05/fhp-storefront/pkg/middleware"
)

// RouterDeps bundles everything the router mounts. CommerceCart is nil when
// the static catalog backend is configured.
type RouterDeps struct {
	Cookies       *cookie.Store
	Carts         *service.CartService
	Catalog       *service.CatalogService
	Checkout      *service.CheckoutService
	CommerceCart  *commerce.Client
	Health        *health.Handler
	Logger        *slog.Logger
	PprofCIDRs    []string
	CORSOrigin    string
	Environment   string
	CatalogMaxAge int
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(CORS(deps.CORSOrigin, deps.Environment))

	// Health check endpoints
	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, deps.PprofCIDRs, deps.Logger)

	cartHandler := NewCartHandler(deps.Cookies, deps.Carts, deps.Logger)
	checkoutHandler := NewCheckoutHandler(deps.Cookies, deps.Checkout, deps.Logger)
	productHandler := NewProductHandler(deps.Catalog, deps.Logger)
	collectionHandler := NewCollectionHandler(deps.Catalog, deps.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.Get)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{lineID}", cartHandler.UpdateLine)
			r.Delete("/items/{lineID}", cartHandler.RemoveLine)
		})

		r.Post("/checkout", checkoutHandler.Start)

		// Catalog reads are safe to cache at the edge.
		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(deps.CatalogMaxAge))

			r.Get("/products", productHandler.List)
			r.Get("/products/{handle}", productHandler.Get)
			r.Get("/collections", collectionHandler.List)
			r.Get("/collections/{handle}", collectionHandler.Get)
		})

		r.Route("/commerce/cart", func(r chi.Router) {
			if deps.CommerceCart == nil {
				r.Handle("/*", commerceUnavailable(deps.Logger))
				r.Handle("/", commerceUnavailable(deps.Logger))
				return
			}
			commerceHandler := NewCommerceCartHandler(deps.CommerceCart, deps.Logger)
			r.Get("/", commerceHandler.Get)
			r.Post("/", commerceHandler.CreateOrAdd)
			r.Put("/lines", commerceHandler.UpdateLines)
			r.Delete("/lines", commerceHandler.RemoveLines)
		})
	})

	return r
}

// commerceUnavailable answers remote-cart requests when the service runs on
// the static catalog backend.
func commerceUnavailable(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteError(w, r, apperrors.ServiceUnavailable("commerce backend not configured"), logger)
	}
}
