package dto

// CheckoutRequest starts a payment flow for a course
type CheckoutRequest struct {
	CourseID int64 `json:"courseId" binding:"required,gt=0"`
}

// CheckoutResponse carries the provider-hosted payment page URL
type CheckoutResponse struct {
	RedirectURL string `json:"redirectUrl"`
}

// WebhookAck is returned to the payment provider after a webhook
// delivery has been accepted, regardless of processing outcome.
type WebhookAck struct {
	Received bool `json:"received"`
}

// GrantEntitlementRequest manually grants course access to a user
type GrantEntitlementRequest struct {
	UserID   int64 `json:"userId" binding:"required,gt=0"`
	CourseID int64 `json:"courseId" binding:"required,gt=0"`
}
