// Package payment handles Stripe billing for premium analysis
// subscriptions: checkout session creation and webhook event
// processing.
package payment

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/subscription"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/Hamid14147/market-analysis/internal/model"
)

// Service wraps the Stripe API for subscription billing.
type Service struct {
	priceID       string
	webhookSecret string
	successURL    string
	cancelURL     string
	logger        zerolog.Logger
}

// Options configures the Stripe service.
type Options struct {
	APIKey        string
	PriceID       string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}

// New creates a Stripe payment service. The API key is process-global
// per the stripe-go client model.
func New(opts Options) *Service {
	stripe.Key = opts.APIKey

	return &Service{
		priceID:       opts.PriceID,
		webhookSecret: opts.WebhookSecret,
		successURL:    opts.SuccessURL,
		cancelURL:     opts.CancelURL,
		logger:        log.With().Str("component", "payment").Logger(),
	}
}

// CreateCheckoutSession creates a subscription checkout session. The
// metadata carries the user and the market they follow so the webhook
// can activate the right subscription.
func (s *Service) CreateCheckoutSession(userID int64, countryCode string) (string, string, error) {
	if s.priceID == "" {
		return "", "", fmt.Errorf("stripe price id not configured")
	}

	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(s.successURL),
		CancelURL:  stripe.String(s.cancelURL),
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(s.priceID),
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"user_id":      strconv.FormatInt(userID, 10),
			"country_code": countryCode,
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"user_id":      strconv.FormatInt(userID, 10),
				"country_code": countryCode,
			},
		},
	}

	sess, err := session.New(params)
	if err != nil {
		return "", "", err
	}

	s.logger.Info().Int64("user_id", userID).Str("country", countryCode).Str("session", sess.ID).Msg("checkout session created")
	return sess.ID, sess.URL, nil
}

// VerifyWebhookSignature verifies the signature of a Stripe webhook
// payload and returns the parsed event.
func (s *Service) VerifyWebhookSignature(payload []byte, signature string) (*stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	return &event, err
}

// ProcessEvent maps a verified webhook event to a subscription state
// change: the affected user and their new status.
func (s *Service) ProcessEvent(event *stripe.Event) (int64, string, error) {
	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return 0, "", fmt.Errorf("parse checkout session: %w", err)
		}
		userID, err := userIDFromMetadata(sess.Metadata)
		if err != nil {
			return 0, "", err
		}
		return userID, model.PaymentStatusAccepted, nil

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return 0, "", fmt.Errorf("parse subscription: %w", err)
		}
		userID, err := userIDFromMetadata(sub.Metadata)
		if err != nil {
			return 0, "", err
		}
		return userID, model.PaymentStatusClosed, nil

	case "invoice.payment_failed":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return 0, "", fmt.Errorf("parse invoice: %w", err)
		}
		userID, err := userIDFromMetadata(invoice.Metadata)
		if err != nil {
			return 0, "", err
		}
		return userID, model.PaymentStatusClosed, nil

	default:
		return 0, "", fmt.Errorf("unhandled event type: %s", event.Type)
	}
}

// CancelSubscription cancels a Stripe subscription immediately.
func (s *Service) CancelSubscription(subscriptionID string) error {
	_, err := subscription.Cancel(subscriptionID, &stripe.SubscriptionCancelParams{})
	return err
}

func userIDFromMetadata(metadata map[string]string) (int64, error) {
	raw, ok := metadata["user_id"]
	if !ok {
		return 0, fmt.Errorf("user_id not found in metadata")
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user_id %q: %w", raw, err)
	}
	return userID, nil
}
