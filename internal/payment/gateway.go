package payment

import "context"

// EventType classifies provider webhook notifications
type EventType string

// Event types the unlock workflow reacts to. Anything else maps to
// EventIgnored and is acknowledged without side effects.
const (
	EventPaymentSucceeded EventType = "payment_succeeded"
	EventPaymentFailed    EventType = "payment_failed"
	EventIgnored          EventType = "ignored"
)

// CheckoutInput describes the purchase a checkout session is created for
type CheckoutInput struct {
	CourseID    int64
	UserID      int64
	Title       string
	Description string
	AmountMinor int64 // price in the currency's minor unit
}

// CheckoutSession is the provider-hosted payment session
type CheckoutSession struct {
	ID  string
	URL string
}

// Event is a verified, provider-neutral webhook notification.
// CourseID and UserID are zero when the provider payload carried no
// usable purchase metadata.
type Event struct {
	ID             string
	Type           EventType
	CourseID       int64
	UserID         int64
	PaymentRef     string
	FailureMessage string
}

// Gateway abstracts the payment provider so services never touch
// provider SDK types directly.
type Gateway interface {
	// CreateCheckout opens a hosted payment session for the purchase
	CreateCheckout(ctx context.Context, input CheckoutInput) (*CheckoutSession, error)

	// VerifyWebhook authenticates a raw webhook delivery and maps it to
	// a provider-neutral event. Signature failures return an error
	// wrapping apperrors.ErrInvalidSignature.
	VerifyWebhook(payload []byte, signature string) (*Event, error)
}
