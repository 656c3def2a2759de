package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jwaldorf05/fhp-storefront/internal/domain"
	"github.com/jwaldorf05/fhp-storefront/internal/service"
	apperrors "github.com/jwaldorf05/fhp-storefront/pkg/errors"
	"github.com/jwaldorf05/fhp-storefront/pkg/httputil"
)

const maxPageSize = 100

// ProductHandler serves catalog read endpoints.
type ProductHandler struct {
	catalog *service.CatalogService
	logger  *slog.Logger
}

// NewProductHandler creates a product handler.
func NewProductHandler(catalog *service.CatalogService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, logger: logger}
}

type productListResponse struct {
	Products   []domain.Product `json:"products"`
	NextCursor string           `json:"nextCursor,omitempty"`
}

// List handles GET /api/v1/products?q=&first=&after=.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	after := r.URL.Query().Get("after")

	first := 20
	if raw := r.URL.Query().Get("first"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxPageSize {
			httputil.WriteError(w, r, apperrors.InvalidInput("first must be an integer between 1 and 100"), h.logger)
			return
		}
		first = n
	}

	products, next, err := h.catalog.ListProducts(r.Context(), query, first, after)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: productListResponse{Products: products, NextCursor: next},
	})
}

// Get handles GET /api/v1/products/{handle}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")

	product, err := h.catalog.GetProduct(r.Context(), handle)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}
