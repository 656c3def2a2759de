package http

import (
	"log/slog"
	"net/http"

	"github.com/jwaldorf05/fhp-storefront/internal/repository/commerce"
	apperrors "github.com/jwaldorf05/fhp-storefront/pkg/errors"
	"github.com/jwaldorf05/fhp-storefront/pkg/httputil"
	"github.com/jwaldorf05/fhp-storefront/pkg/validator"
)

// CommerceCartHandler proxies platform-hosted carts for clients that use
// the remote cart instead of the cookie cart. Only mounted when a commerce
// backend is configured.
type CommerceCartHandler struct {
	client *commerce.Client
	logger *slog.Logger
}

// NewCommerceCartHandler creates a commerce cart handler.
func NewCommerceCartHandler(client *commerce.Client, logger *slog.Logger) *CommerceCartHandler {
	return &CommerceCartHandler{client: client, logger: logger}
}

type commerceCartRequest struct {
	CartID string               `json:"cartId"`
	Lines  []commerce.LineInput `json:"lines" validate:"required,min=1,dive"`
}

type commerceUpdateRequest struct {
	CartID string                     `json:"cartId" validate:"required"`
	Lines  []commerce.LineUpdateInput `json:"lines" validate:"required,min=1,dive"`
}

type commerceRemoveRequest struct {
	CartID  string   `json:"cartId" validate:"required"`
	LineIDs []string `json:"lineIds" validate:"required,min=1"`
}

// Get handles GET /api/v1/commerce/cart?cartId=...
func (h *CommerceCartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cartID := r.URL.Query().Get("cartId")
	if cartID == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("missing cartId query parameter"), h.logger)
		return
	}

	cart, err := h.client.GetCart(r.Context(), cartID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// CreateOrAdd handles POST /api/v1/commerce/cart. Without a cartId it
// creates a new hosted cart; with one it adds lines to the existing cart.
func (h *CommerceCartHandler) CreateOrAdd(w http.ResponseWriter, r *http.Request) {
	var req commerceCartRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	var cart *commerce.Cart
	var err error
	status := http.StatusCreated
	if req.CartID != "" {
		cart, err = h.client.AddCartLines(r.Context(), req.CartID, req.Lines)
		status = http.StatusOK
	} else {
		cart, err = h.client.CreateCart(r.Context(), req.Lines)
	}
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, status, httputil.Response{Data: cart})
}

// UpdateLines handles PUT /api/v1/commerce/cart/lines.
func (h *CommerceCartHandler) UpdateLines(w http.ResponseWriter, r *http.Request) {
	var req commerceUpdateRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.client.UpdateCartLines(r.Context(), req.CartID, req.Lines)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// RemoveLines handles DELETE /api/v1/commerce/cart/lines.
func (h *CommerceCartHandler) RemoveLines(w http.ResponseWriter, r *http.Request) {
	var req commerceRemoveRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.client.RemoveCartLines(r.Context(), req.CartID, req.LineIDs)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}
