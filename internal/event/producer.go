// Package event publishes storefront analytics events to Kafka. Publishing
// is best effort: a broker outage is logged, never surfaced to the customer.
package event

import (
	"context"
	"log/slog"

	"github.com/jwaldorf05/fhp-storefront/pkg/kafka"
	"github.com/jwaldorf05/fhp-storefront/pkg/logger"
)

const (
	// TopicCheckout carries checkout session lifecycle events.
	TopicCheckout = "storefront.checkout.session_created"

	sourceService = "fhp-storefront"
)

// CheckoutSessionCreated is the payload published when a customer is handed
// off to the payment provider.
type CheckoutSessionCreated struct {
	SessionID    string `json:"session_id"`
	CheckoutType string `json:"checkout_type"`
	ItemCount    int    `json:"item_count"`
	TotalCents   int64  `json:"total_cents"`
	Currency     string `json:"currency"`
}

// Publisher sends storefront events. Nil-safe: a nil Publisher drops all
// events, which is how deployments without Kafka run.
type Publisher struct {
	producer *kafka.Producer
	logger   *slog.Logger
}

// NewPublisher wraps a Kafka producer.
func NewPublisher(producer *kafka.Producer, logger *slog.Logger) *Publisher {
	return &Publisher{producer: producer, logger: logger}
}

// CheckoutSessionCreated publishes a session-created event keyed by session
// id. Failures are logged and swallowed.
func (p *Publisher) CheckoutSessionCreated(ctx context.Context, payload CheckoutSessionCreated) {
	if p == nil || p.producer == nil {
		return
	}

	evt, err := kafka.NewEvent("checkout.session_created", payload.SessionID, "checkout_session", sourceService, payload)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build checkout event",
			slog.String("error", err.Error()),
		)
		return
	}
	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		evt.WithCorrelationID(cid)
	}

	if err := p.producer.Publish(ctx, TopicCheckout, evt); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish checkout event",
			slog.String("session_id", payload.SessionID),
			slog.String("error", err.Error()),
		)
	}
}

// Close flushes and closes the underlying producer.
func (p *Publisher) Close() error {
	if p == nil || p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
