package http

import (
	"log/slog"
	"net/http"

	"github.com/jwaldorf05/fhp-storefront/internal/repository/cookie"
	"github.com/jwaldorf05/fhp-storefront/internal/service"
	apperrors "github.com/jwaldorf05/fhp-storefront/pkg/errors"
	"github.com/jwaldorf05/fhp-storefront/pkg/httputil"
	"github.com/jwaldorf05/fhp-storefront/pkg/validator"
)

// CheckoutHandler starts hosted payment sessions.
type CheckoutHandler struct {
	cookies  *cookie.Store
	checkout *service.CheckoutService
	logger   *slog.Logger
}

// NewCheckoutHandler creates a checkout handler.
func NewCheckoutHandler(cookies *cookie.Store, checkout *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{cookies: cookies, checkout: checkout, logger: logger}
}

type checkoutRequest struct {
	FromCart     bool    `json:"fromCart"`
	Handle       string  `json:"handle"`
	Quantity     int     `json:"quantity"`
	SelectedSize *string `json:"selectedSize"`
}

type checkoutResponse struct {
	URL string `json:"url"`
}

// requestOrigin reconstructs the scheme and host the customer hit, for
// redirect URLs when no site origin is configured.
func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// Start handles POST /api/v1/checkout. The body selects between checking
// out the whole cookie cart and a single product.
func (h *CheckoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if !req.FromCart && req.Handle == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("missing product handle"), h.logger)
		return
	}

	origin := requestOrigin(r)

	var redirect string
	var err error
	if req.FromCart {
		cart := h.cookies.Load(r)
		redirect, err = h.checkout.StartFromCart(r.Context(), cart, origin)
	} else {
		redirect, err = h.checkout.StartSingleItem(r.Context(), req.Handle, req.Quantity, req.SelectedSize, origin)
	}
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: checkoutResponse{URL: redirect}})
}
