package service

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jwaldorf05/fhp-storefront/internal/domain"
	"github.com/jwaldorf05/fhp-storefront/internal/event"
	"github.com/jwaldorf05/fhp-storefront/internal/payment"
	"github.com/jwaldorf05/fhp-storefront/internal/repository"
	apperrors "github.com/jwaldorf05/fhp-storefront/pkg/errors"
)

// CheckoutService builds payment sessions from either the whole cart or a
// single product, then hands the customer to the hosted payment page.
type CheckoutService struct {
	catalog    repository.Catalog
	payments   *payment.Client
	events     *event.Publisher
	siteOrigin string
	logger     *slog.Logger
}

// NewCheckoutService creates a checkout service. siteOrigin overrides the
// request origin in redirect URLs when set; leave it empty behind a proxy
// that preserves the public host.
func NewCheckoutService(catalog repository.Catalog, payments *payment.Client, events *event.Publisher, siteOrigin string, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		catalog:    catalog,
		payments:   payments,
		events:     events,
		siteOrigin: siteOrigin,
		logger:     logger,
	}
}

// resolveOrigin picks the origin used in success and cancel URLs. The
// configured site origin wins over whatever host the request came in on.
func (s *CheckoutService) resolveOrigin(requestOrigin string) string {
	if s.siteOrigin != "" {
		return s.siteOrigin
	}
	return requestOrigin
}

func (s *CheckoutService) requireConfigured() error {
	if !s.payments.Configured() {
		return &apperrors.AppError{
			Code:    "PAYMENT_NOT_CONFIGURED",
			Message: "missing payment configuration, set STRIPE_SECRET_KEY",
			Status:  http.StatusInternalServerError,
			Err:     apperrors.ErrInternal,
		}
	}
	return nil
}

// StartFromCart creates a checkout session covering every cart line and
// returns the hosted payment URL.
func (s *CheckoutService) StartFromCart(ctx context.Context, cart domain.CartState, requestOrigin string) (string, error) {
	if err := s.requireConfigured(); err != nil {
		return "", err
	}
	if len(cart.Items) == 0 {
		return "", apperrors.InvalidInput("your cart is empty")
	}

	lineItems, err := cart.CheckoutLineItems()
	if err != nil {
		return "", err
	}

	shopURL := s.resolveOrigin(requestOrigin) + "/?shop=1"
	session, err := s.payments.CreateCheckoutSession(ctx, payment.SessionParams{
		LineItems:  lineItems,
		SuccessURL: shopURL + "&checkout=success",
		CancelURL:  shopURL + "&checkout=cancel",
		Metadata: map[string]string{
			"checkoutType": "cart",
			"itemCount":    strconv.Itoa(len(cart.Items)),
		},
	})
	if err != nil {
		return "", err
	}

	s.publishSessionCreated(ctx, session.ID, "cart", lineItems)
	return session.URL, nil
}

// StartSingleItem creates a checkout session for one product without
// touching the cart, the buy-it-now path on product pages.
func (s *CheckoutService) StartSingleItem(ctx context.Context, handle string, quantity int, selectedSize *string, requestOrigin string) (string, error) {
	if err := s.requireConfigured(); err != nil {
		return "", err
	}
	if quantity < 1 {
		return "", apperrors.InvalidInput("quantity must be a positive integer")
	}

	product, err := s.catalog.GetProductByHandle(ctx, handle)
	if err != nil {
		return "", err
	}
	if err := validateSizeSelection(product, selectedSize); err != nil {
		return "", err
	}
	if !product.HasSizes() {
		selectedSize = nil
	}

	cents, err := domain.ParsePriceToCents(product.PriceFor(selectedSize))
	if err != nil {
		return "", err
	}

	metadata := map[string]string{"handle": product.Handle}
	sessionMetadata := map[string]string{
		"checkoutType": "single-item",
		"handle":       product.Handle,
		"quantity":     strconv.Itoa(quantity),
	}
	if selectedSize != nil && *selectedSize != "" {
		metadata["size"] = *selectedSize
		sessionMetadata["size"] = *selectedSize
	}

	lineItems := []domain.CheckoutLineItem{{
		Name:        product.Name,
		Description: product.ShortDescription,
		AmountCents: cents,
		Quantity:    quantity,
		Currency:    domain.DefaultCurrency,
		Metadata:    metadata,
	}}

	productURL := s.resolveOrigin(requestOrigin) + "/items/" + product.Handle + "?shop=1"
	session, err := s.payments.CreateCheckoutSession(ctx, payment.SessionParams{
		LineItems:  lineItems,
		SuccessURL: productURL + "&checkout=success",
		CancelURL:  productURL + "&checkout=cancel",
		Metadata:   sessionMetadata,
	})
	if err != nil {
		return "", err
	}

	s.publishSessionCreated(ctx, session.ID, "single-item", lineItems)
	return session.URL, nil
}

func (s *CheckoutService) publishSessionCreated(ctx context.Context, sessionID, checkoutType string, items []domain.CheckoutLineItem) {
	var total int64
	var count int
	for _, item := range items {
		total += item.AmountCents * int64(item.Quantity)
		count += item.Quantity
	}

	s.logger.InfoContext(ctx, "checkout session created",
		slog.String("session_id", sessionID),
		slog.String("checkout_type", checkoutType),
		slog.Int64("total_cents", total),
	)
	s.events.CheckoutSessionCreated(ctx, event.CheckoutSessionCreated{
		SessionID:    sessionID,
		CheckoutType: checkoutType,
		ItemCount:    count,
		TotalCents:   total,
		Currency:     domain.DefaultCurrency,
	})
}
