package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/matheus/courseplatform/internal/pkg/apperrors"
	"github.com/matheus/courseplatform/internal/pkg/logger"
)

// StripeConfig holds the Stripe credentials and checkout URLs
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
	SuccessURL    string
	CancelURL     string
}

// StripeGateway implements Gateway on top of the Stripe API
type StripeGateway struct {
	api           *client.API
	webhookSecret string
	currency      string
	successURL    string
	cancelURL     string
}

// NewStripeGateway creates a Stripe-backed payment gateway
func NewStripeGateway(cfg StripeConfig) *StripeGateway {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)

	currency := cfg.Currency
	if currency == "" {
		currency = "brl"
	}

	return &StripeGateway{
		api:           api,
		webhookSecret: cfg.WebhookSecret,
		currency:      currency,
		successURL:    cfg.SuccessURL,
		cancelURL:     cfg.CancelURL,
	}
}

// CreateCheckout opens a Stripe Checkout session for a course purchase.
// Course and user IDs travel in the session metadata and come back on
// the webhook, which is what ties the payment to the entitlement.
func (g *StripeGateway) CreateCheckout(ctx context.Context, input CheckoutInput) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
			"boleto",
		}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(g.currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(input.Title),
						Description: stripe.String(input.Description),
					},
					UnitAmount: stripe.Int64(input.AmountMinor),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(g.successURL),
		CancelURL:  stripe.String(g.cancelURL),
	}
	params.AddMetadata("courseId", strconv.FormatInt(input.CourseID, 10))
	params.AddMetadata("userId", strconv.FormatInt(input.UserID, 10))

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, apperrors.NewDependencyError(fmt.Sprintf("failed to create checkout session: %v", err))
	}

	return &CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

// VerifyWebhook authenticates a Stripe webhook delivery and maps it to
// a provider-neutral event
func (g *StripeGateway) VerifyWebhook(payload []byte, signature string) (*Event, error) {
	stripeEvent, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidSignature, "Webhook signature verification failed")
	}

	return mapStripeEvent(&stripeEvent)
}

// mapStripeEvent translates Stripe event types into the neutral model
func mapStripeEvent(stripeEvent *stripe.Event) (*Event, error) {
	event := &Event{
		ID:   stripeEvent.ID,
		Type: EventIgnored,
	}

	switch stripeEvent.Type {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		session, err := parseSession(stripeEvent)
		if err != nil {
			return nil, err
		}
		// Boleto payments complete asynchronously; the completed event
		// arrives while the session is still unpaid and the grant waits
		// for the async_payment_succeeded follow-up.
		if stripeEvent.Type == "checkout.session.completed" && session.PaymentStatus == stripe.CheckoutSessionPaymentStatusUnpaid {
			return event, nil
		}
		event.Type = EventPaymentSucceeded
		event.PaymentRef = session.ID
		event.CourseID, event.UserID = parsePurchaseMetadata(session.Metadata)

	case "checkout.session.async_payment_failed", "checkout.session.expired":
		session, err := parseSession(stripeEvent)
		if err != nil {
			return nil, err
		}
		event.Type = EventPaymentFailed
		event.PaymentRef = session.ID
		event.FailureMessage = string(stripeEvent.Type)
		event.CourseID, event.UserID = parsePurchaseMetadata(session.Metadata)

	default:
		logger.Debug().Str("type", string(stripeEvent.Type)).Msg("Ignoring unhandled webhook event type")
	}

	return event, nil
}

func parseSession(stripeEvent *stripe.Event) (*stripe.CheckoutSession, error) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(stripeEvent.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("failed to parse checkout session payload: %w", err)
	}
	return &session, nil
}

// parsePurchaseMetadata extracts the course and user IDs stamped on the
// session at checkout time. Returns zeros when absent or malformed.
func parsePurchaseMetadata(metadata map[string]string) (courseID, userID int64) {
	courseID, _ = strconv.ParseInt(metadata["courseId"], 10, 64)
	userID, _ = strconv.ParseInt(metadata["userId"], 10, 64)
	return courseID, userID
}
