package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheus/courseplatform/internal/pkg/apperrors"
)

const testWebhookSecret = "whsec_test_secret"

func newTestGateway() *StripeGateway {
	return NewStripeGateway(StripeConfig{
		SecretKey:     "sk_test_key",
		WebhookSecret: testWebhookSecret,
		Currency:      "brl",
		SuccessURL:    "http://localhost:3000/success",
		CancelURL:     "http://localhost:3000/cancel",
	})
}

// signPayload produces a Stripe-Signature header value for payload
func signPayload(secret string, payload []byte, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func eventPayload(eventType, paymentStatus string, metadata string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_test_1",
		"api_version": %q,
		"type": %q,
		"data": {
			"object": {
				"id": "cs_test_123",
				"object": "checkout.session",
				"payment_status": %q,
				"metadata": %s
			}
		}
	}`, stripe.APIVersion, eventType, paymentStatus, metadata))
}

func TestVerifyWebhook_PaymentSucceeded(t *testing.T) {
	gw := newTestGateway()
	payload := eventPayload("checkout.session.completed", "paid", `{"courseId": "7", "userId": "3"}`)
	sig := signPayload(testWebhookSecret, payload, time.Now())

	event, err := gw.VerifyWebhook(payload, sig)
	require.NoError(t, err)

	assert.Equal(t, "evt_test_1", event.ID)
	assert.Equal(t, EventPaymentSucceeded, event.Type)
	assert.Equal(t, int64(7), event.CourseID)
	assert.Equal(t, int64(3), event.UserID)
	assert.Equal(t, "cs_test_123", event.PaymentRef)
}

func TestVerifyWebhook_InvalidSignature(t *testing.T) {
	gw := newTestGateway()
	payload := eventPayload("checkout.session.completed", "paid", `{"courseId": "7", "userId": "3"}`)
	sig := signPayload("whsec_wrong_secret", payload, time.Now())

	_, err := gw.VerifyWebhook(payload, sig)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidSignature))
}

func TestVerifyWebhook_TamperedPayload(t *testing.T) {
	gw := newTestGateway()
	payload := eventPayload("checkout.session.completed", "paid", `{"courseId": "7", "userId": "3"}`)
	sig := signPayload(testWebhookSecret, payload, time.Now())

	tampered := eventPayload("checkout.session.completed", "paid", `{"courseId": "99", "userId": "3"}`)

	_, err := gw.VerifyWebhook(tampered, sig)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidSignature))
}

func TestVerifyWebhook_StaleTimestamp(t *testing.T) {
	gw := newTestGateway()
	payload := eventPayload("checkout.session.completed", "paid", `{"courseId": "7", "userId": "3"}`)
	sig := signPayload(testWebhookSecret, payload, time.Now().Add(-time.Hour))

	_, err := gw.VerifyWebhook(payload, sig)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidSignature))
}

func TestVerifyWebhook_UnknownEventTypeIgnored(t *testing.T) {
	gw := newTestGateway()
	payload := eventPayload("invoice.paid", "paid", `{}`)
	sig := signPayload(testWebhookSecret, payload, time.Now())

	event, err := gw.VerifyWebhook(payload, sig)
	require.NoError(t, err)
	assert.Equal(t, EventIgnored, event.Type)
}

func TestVerifyWebhook_UnpaidCompletionDeferred(t *testing.T) {
	gw := newTestGateway()
	payload := eventPayload("checkout.session.completed", "unpaid", `{"courseId": "7", "userId": "3"}`)
	sig := signPayload(testWebhookSecret, payload, time.Now())

	event, err := gw.VerifyWebhook(payload, sig)
	require.NoError(t, err)
	assert.Equal(t, EventIgnored, event.Type, "boleto completion waits for async payment confirmation")
}

func TestVerifyWebhook_AsyncPaymentSucceeded(t *testing.T) {
	gw := newTestGateway()
	payload := eventPayload("checkout.session.async_payment_succeeded", "paid", `{"courseId": "7", "userId": "3"}`)
	sig := signPayload(testWebhookSecret, payload, time.Now())

	event, err := gw.VerifyWebhook(payload, sig)
	require.NoError(t, err)
	assert.Equal(t, EventPaymentSucceeded, event.Type)
}

func TestVerifyWebhook_PaymentFailed(t *testing.T) {
	gw := newTestGateway()
	payload := eventPayload("checkout.session.async_payment_failed", "unpaid", `{"courseId": "7", "userId": "3"}`)
	sig := signPayload(testWebhookSecret, payload, time.Now())

	event, err := gw.VerifyWebhook(payload, sig)
	require.NoError(t, err)
	assert.Equal(t, EventPaymentFailed, event.Type)
	assert.Equal(t, int64(7), event.CourseID)
	assert.Equal(t, "checkout.session.async_payment_failed", event.FailureMessage)
}

func TestVerifyWebhook_MissingMetadata(t *testing.T) {
	gw := newTestGateway()
	payload := eventPayload("checkout.session.completed", "paid", `{}`)
	sig := signPayload(testWebhookSecret, payload, time.Now())

	event, err := gw.VerifyWebhook(payload, sig)
	require.NoError(t, err)
	assert.Equal(t, EventPaymentSucceeded, event.Type)
	assert.Zero(t, event.CourseID)
	assert.Zero(t, event.UserID)
}
