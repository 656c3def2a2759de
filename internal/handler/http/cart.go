package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jwaldorf05/fhp-storefront/internal/domain"
	"github.com/jwaldorf05/fhp-storefront/internal/repository/cookie"
	"github.com/jwaldorf05/fhp-storefront/internal/service"
	apperrors "github.com/jwaldorf05/fhp-storefront/pkg/errors"
	"github.com/jwaldorf05/fhp-storefront/pkg/httputil"
	"github.com/jwaldorf05/fhp-storefront/pkg/validator"
)

// CartHandler serves the cookie cart endpoints. Every mutation loads the
// cart from the request cookie, applies the change, and writes the whole
// cart back in the response cookie.
type CartHandler struct {
	cookies *cookie.Store
	carts   *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a cart handler.
func NewCartHandler(cookies *cookie.Store, carts *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{cookies: cookies, carts: carts, logger: logger}
}

type addItemRequest struct {
	Handle       string  `json:"handle" validate:"required"`
	Quantity     int     `json:"quantity" validate:"required,gte=1"`
	SelectedSize *string `json:"selectedSize"`
}

type updateLineRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

type cartResponse struct {
	Items         []domain.CartLine `json:"items"`
	TotalQuantity int               `json:"totalQuantity"`
}

func toCartResponse(cart domain.CartState) cartResponse {
	items := cart.Items
	if items == nil {
		items = []domain.CartLine{}
	}
	return cartResponse{Items: items, TotalQuantity: cart.TotalQuantity()}
}

// writeCart sets the refreshed cookie and responds with the cart.
func (h *CartHandler) writeCart(w http.ResponseWriter, r *http.Request, cart domain.CartState, status int) {
	if err := h.cookies.Write(w, cart); err != nil {
		httputil.WriteError(w, r, apperrors.Internal(err), h.logger)
		return
	}
	httputil.WriteJSON(w, status, httputil.Response{Data: toCartResponse(cart)})
}

// Get handles GET /api/v1/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart := h.cookies.Load(r)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: toCartResponse(cart)})
}

// AddItem handles POST /api/v1/cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart := h.cookies.Load(r)
	updated, err := h.carts.AddItem(r.Context(), cart, req.Handle, req.Quantity, req.SelectedSize)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	h.writeCart(w, r, updated, http.StatusCreated)
}

// UpdateLine handles PUT /api/v1/cart/items/{lineID}.
func (h *CartHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "lineID")

	var req updateLineRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart := h.cookies.Load(r)
	updated, err := h.carts.UpdateLineQuantity(r.Context(), cart, lineID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	h.writeCart(w, r, updated, http.StatusOK)
}

// RemoveLine handles DELETE /api/v1/cart/items/{lineID}.
func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "lineID")

	cart := h.cookies.Load(r)
	updated, err := h.carts.RemoveLine(r.Context(), cart, lineID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	h.writeCart(w, r, updated, http.StatusOK)
}
