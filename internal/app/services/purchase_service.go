package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/matheus/courseplatform/internal/app/models"
	"github.com/matheus/courseplatform/internal/app/repositories"
	"github.com/matheus/courseplatform/internal/idempotency"
	"github.com/matheus/courseplatform/internal/payment"
	"github.com/matheus/courseplatform/internal/pkg/apperrors"
	"github.com/matheus/courseplatform/internal/pkg/email"
)

// WebhookOutcome describes what processing a webhook delivery did
type WebhookOutcome string

// Webhook processing outcomes. All of them are acknowledged to the
// provider; the distinction only matters for logging and tests.
const (
	OutcomeGranted   WebhookOutcome = "granted"
	OutcomeFailed    WebhookOutcome = "failure_recorded"
	OutcomeDuplicate WebhookOutcome = "duplicate"
	OutcomeIgnored   WebhookOutcome = "ignored"
	OutcomeSkipped   WebhookOutcome = "skipped"
)

// PurchaseService orchestrates the checkout and course-unlock workflow
type PurchaseService struct {
	userRepo        repositories.IUserRepository
	courseRepo      repositories.ICourseRepository
	entitlementRepo repositories.IEntitlementRepository
	gateway         payment.Gateway
	guard           idempotency.Guard
	emailService    email.EmailService
	claimTTL        time.Duration
	logger          zerolog.Logger
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(
	userRepo repositories.IUserRepository,
	courseRepo repositories.ICourseRepository,
	entitlementRepo repositories.IEntitlementRepository,
	gateway payment.Gateway,
	guard idempotency.Guard,
	emailService email.EmailService,
	claimTTL time.Duration,
	logger zerolog.Logger,
) *PurchaseService {
	return &PurchaseService{
		userRepo:        userRepo,
		courseRepo:      courseRepo,
		entitlementRepo: entitlementRepo,
		gateway:         gateway,
		guard:           guard,
		emailService:    emailService,
		claimTTL:        claimTTL,
		logger:          logger,
	}
}

// CreateCheckout opens a hosted payment session for a course purchase
func (s *PurchaseService) CreateCheckout(ctx context.Context, userID, courseID int64) (*payment.CheckoutSession, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	purchased, err := s.entitlementRepo.HasApproved(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if purchased {
		return nil, apperrors.ErrAlreadyPurchased
	}

	session, err := s.gateway.CreateCheckout(ctx, payment.CheckoutInput{
		CourseID:    courseID,
		UserID:      userID,
		Title:       course.Title,
		Description: course.Description,
		AmountMinor: int64(math.Round(course.Price * 100)),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("userId", userID).
		Int64("courseId", courseID).
		Str("sessionId", session.ID).
		Msg("Checkout session created")

	return session, nil
}

// HandleWebhook verifies and processes a payment provider notification.
// An invalid signature is the only error a caller should turn into a
// rejection; every verified delivery is acknowledged regardless of
// outcome, and the claim guard plus the entitlement upsert keep
// replays and concurrent deliveries from double-granting.
func (s *PurchaseService) HandleWebhook(ctx context.Context, payload []byte, signature string) (WebhookOutcome, error) {
	event, err := s.gateway.VerifyWebhook(payload, signature)
	if err != nil {
		return "", err
	}

	if event.Type == payment.EventIgnored {
		return OutcomeIgnored, nil
	}

	won, err := s.guard.Claim(ctx, event.ID, s.claimTTL)
	if err != nil {
		return "", err
	}
	if !won {
		s.logger.Info().Str("eventId", event.ID).Msg("Duplicate webhook delivery skipped")
		return OutcomeDuplicate, nil
	}

	outcome, err := s.processEvent(ctx, event)
	if err != nil {
		// Release so the provider's retry can reprocess the event
		if relErr := s.guard.Release(ctx, event.ID); relErr != nil {
			s.logger.Error().Err(relErr).Str("eventId", event.ID).Msg("Failed to release webhook claim")
		}
		return "", err
	}

	return outcome, nil
}

func (s *PurchaseService) processEvent(ctx context.Context, event *payment.Event) (WebhookOutcome, error) {
	if event.CourseID == 0 || event.UserID == 0 {
		s.logger.Warn().Str("eventId", event.ID).Msg("Webhook event carries no purchase metadata")
		return OutcomeSkipped, nil
	}

	user, err := s.userRepo.GetByID(ctx, event.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.logger.Warn().Str("eventId", event.ID).Int64("userId", event.UserID).Msg("Webhook references unknown user")
			return OutcomeSkipped, nil
		}
		return "", err
	}

	course, err := s.courseRepo.GetByID(ctx, event.CourseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			s.logger.Warn().Str("eventId", event.ID).Int64("courseId", event.CourseID).Msg("Webhook references unknown course")
			return OutcomeSkipped, nil
		}
		return "", err
	}

	var paymentRef *string
	if event.PaymentRef != "" {
		paymentRef = &event.PaymentRef
	}

	switch event.Type {
	case payment.EventPaymentSucceeded:
		if _, err := s.entitlementRepo.Grant(ctx, user.ID, course.ID, paymentRef); err != nil {
			return "", fmt.Errorf("error granting entitlement: %w", err)
		}

		// The grant is committed; a failed email must not make the
		// provider retry the event.
		if err := s.emailService.SendPurchaseConfirmationEmail(user.Email, user.Name, course.Title); err != nil {
			s.logger.Error().Err(err).Str("eventId", event.ID).Msg("Failed to send purchase confirmation email")
		}

		s.logger.Info().
			Str("eventId", event.ID).
			Int64("userId", user.ID).
			Int64("courseId", course.ID).
			Msg("Course unlocked")
		return OutcomeGranted, nil

	case payment.EventPaymentFailed:
		if err := s.entitlementRepo.RecordFailed(ctx, user.ID, course.ID, paymentRef); err != nil {
			return "", fmt.Errorf("error recording failed payment: %w", err)
		}

		s.logger.Info().
			Str("eventId", event.ID).
			Int64("userId", user.ID).
			Int64("courseId", course.ID).
			Str("reason", event.FailureMessage).
			Msg("Payment failure recorded")
		return OutcomeFailed, nil
	}

	return OutcomeIgnored, nil
}

// GrantManually grants course access without a payment, for admin use.
// Granting an already-unlocked course is a no-op that returns the
// existing entitlement.
func (s *PurchaseService) GrantManually(ctx context.Context, userID, courseID int64) (*models.Entitlement, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	entitlement, err := s.entitlementRepo.Grant(ctx, userID, courseID, nil)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userId", userID).Int64("courseId", courseID).Msg("Course granted manually")
	return entitlement, nil
}

// RevokeEntitlement removes a user's access to a course
func (s *PurchaseService) RevokeEntitlement(ctx context.Context, userID, courseID int64) error {
	if err := s.entitlementRepo.Revoke(ctx, userID, courseID); err != nil {
		return err
	}

	s.logger.Info().Int64("userId", userID).Int64("courseId", courseID).Msg("Entitlement revoked")
	return nil
}

// HasAccess reports whether a user has unlocked a course
func (s *PurchaseService) HasAccess(ctx context.Context, userID, courseID int64) (bool, error) {
	return s.entitlementRepo.HasApproved(ctx, userID, courseID)
}
