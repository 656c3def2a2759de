package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jwaldorf05/fhp-storefront/internal/domain"
	"github.com/jwaldorf05/fhp-storefront/internal/service"
	"github.com/jwaldorf05/fhp-storefront/pkg/httputil"
)

// CollectionHandler serves collection browse endpoints.
type CollectionHandler struct {
	catalog *service.CatalogService
	logger  *slog.Logger
}

// NewCollectionHandler creates a collection handler.
func NewCollectionHandler(catalog *service.CatalogService, logger *slog.Logger) *CollectionHandler {
	return &CollectionHandler{catalog: catalog, logger: logger}
}

type collectionResponse struct {
	Collection domain.Collection `json:"collection"`
	Products   []domain.Product  `json:"products"`
}

// List handles GET /api/v1/collections.
func (h *CollectionHandler) List(w http.ResponseWriter, r *http.Request) {
	collections, err := h.catalog.ListCollections(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: collections})
}

// Get handles GET /api/v1/collections/{handle}.
func (h *CollectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")

	collection, products, err := h.catalog.GetCollection(r.Context(), handle)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: collectionResponse{Collection: *collection, Products: products},
	})
}
