package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/matheus/courseplatform/internal/app/models/dto"
	"github.com/matheus/courseplatform/internal/app/services"
	"github.com/matheus/courseplatform/internal/middleware"
)

// maxWebhookBodySize caps webhook payload reads at 1 MiB
const maxWebhookBodySize = 1 << 20

// PurchaseController handles checkout, webhooks and entitlements
type PurchaseController struct {
	purchaseService *services.PurchaseService
	logger          zerolog.Logger
}

// NewPurchaseController creates a new PurchaseController
func NewPurchaseController(purchaseService *services.PurchaseService, logger zerolog.Logger) *PurchaseController {
	return &PurchaseController{
		purchaseService: purchaseService,
		logger:          logger,
	}
}

// Checkout starts a payment flow for a course
// @Summary Create checkout session
// @Description Creates a provider-hosted checkout session for a course and returns its URL
// @Tags purchases
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CheckoutRequest true "Course to purchase"
// @Success 200 {object} dto.APIResponse{data=dto.CheckoutResponse} "Checkout session created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Course already purchased"
// @Failure 502 {object} dto.ErrorResponse "Payment provider unavailable"
// @Router /purchases/checkout [post]
func (c *PurchaseController) Checkout(ctx *gin.Context) {
	userID, ok := requireAuthenticatedUser(ctx)
	if !ok {
		return
	}

	var req dto.CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	session, err := c.purchaseService.CreateCheckout(ctx.Request.Context(), userID, req.CourseID)
	if err != nil {
		c.logger.Warn().Err(err).
			Int64("userID", userID).
			Int64("courseID", req.CourseID).
			Msg("Checkout failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("userID", userID).
		Int64("courseID", req.CourseID).
		Str("sessionID", session.ID).
		Msg("Checkout session created")

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.CheckoutResponse{RedirectURL: session.URL},
	})
}

// Webhook receives payment provider event deliveries
// @Summary Payment webhook
// @Description Receives signed payment events. Verified events are acknowledged even when processing is skipped, so the provider does not retry them.
// @Tags purchases
// @Accept json
// @Produce json
// @Success 200 {object} dto.WebhookAck "Event acknowledged"
// @Failure 400 {object} dto.ErrorResponse "Invalid signature"
// @Failure 500 {object} dto.ErrorResponse "Processing failed, delivery will be retried"
// @Router /purchases/webhook [post]
func (c *PurchaseController) Webhook(ctx *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxWebhookBodySize))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Failed to read webhook payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	signature := ctx.GetHeader("Stripe-Signature")
	outcome, err := c.purchaseService.HandleWebhook(ctx.Request.Context(), payload, signature)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Webhook processing failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("outcome", string(outcome)).Msg("Webhook processed")
	ctx.JSON(http.StatusOK, dto.WebhookAck{Received: true})
}

// Grant manually unlocks a course for a user
// @Summary Grant entitlement
// @Description Manually grants course access to a user. Granting an already unlocked course returns the existing entitlement. Admin only.
// @Tags purchases
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.GrantEntitlementRequest true "User and course"
// @Success 201 {object} dto.APIResponse{data=models.Entitlement} "Entitlement granted"
// @Failure 404 {object} dto.ErrorResponse "User or course not found"
// @Router /purchases/grants [post]
func (c *PurchaseController) Grant(ctx *gin.Context) {
	var req dto.GrantEntitlementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	entitlement, err := c.purchaseService.GrantManually(ctx.Request.Context(), req.UserID, req.CourseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("userID", req.UserID).
		Int64("courseID", req.CourseID).
		Msg("Entitlement granted manually")
	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: entitlement})
}

// Revoke removes a user's access to a course
// @Summary Revoke entitlement
// @Description Removes a previously granted course entitlement. Admin only.
// @Tags purchases
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Entitlement revoked"
// @Failure 404 {object} dto.ErrorResponse "Entitlement not found"
// @Router /purchases/grants/{userId}/{courseId} [delete]
func (c *PurchaseController) Revoke(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "userId")
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "courseId")
	if !ok {
		return
	}

	if err := c.purchaseService.RevokeEntitlement(ctx.Request.Context(), userID, courseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("userID", userID).
		Int64("courseID", courseID).
		Msg("Entitlement revoked")
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Entitlement revoked successfully"},
	})
}
