package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/matheus/courseplatform/internal/app/models"
	"github.com/matheus/courseplatform/internal/pkg/apperrors"
	"github.com/matheus/courseplatform/internal/pkg/dberrors"
)

// IEntitlementRepository defines the interface for entitlement database operations
type IEntitlementRepository interface {
	Grant(ctx context.Context, userID, courseID int64, paymentRef *string) (*models.Entitlement, error)
	RecordFailed(ctx context.Context, userID, courseID int64, paymentRef *string) error
	Revoke(ctx context.Context, userID, courseID int64) error
	HasApproved(ctx context.Context, userID, courseID int64) (bool, error)
	GetByUserAndCourse(ctx context.Context, userID, courseID int64) (*models.Entitlement, error)
}

// EntitlementRepository handles entitlement database operations
type EntitlementRepository struct {
	db *pgxpool.Pool
}

// NewEntitlementRepository creates a new EntitlementRepository
func NewEntitlementRepository(db *pgxpool.Pool) *EntitlementRepository {
	return &EntitlementRepository{db: db}
}

// Grant upserts an approved entitlement for (userID, courseID). The
// unique constraint plus ON CONFLICT makes concurrent grants converge
// on a single approved row, so replayed payment events are harmless.
// An already-approved row keeps its original granted_at.
func (r *EntitlementRepository) Grant(ctx context.Context, userID, courseID int64, paymentRef *string) (*models.Entitlement, error) {
	entitlement := &models.Entitlement{}
	err := r.db.QueryRow(ctx, `
		INSERT INTO entitlements (user_id, course_id, status, payment_ref)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, course_id)
		DO UPDATE SET status = EXCLUDED.status,
		              payment_ref = COALESCE(EXCLUDED.payment_ref, entitlements.payment_ref),
		              granted_at = CASE WHEN entitlements.status = 'approved'
		                                THEN entitlements.granted_at
		                                ELSE NOW() END
		RETURNING id, user_id, course_id, status, payment_ref, granted_at`,
		userID, courseID, models.EntitlementApproved, paymentRef).
		Scan(&entitlement.ID, &entitlement.UserID, &entitlement.CourseID,
			&entitlement.Status, &entitlement.PaymentRef, &entitlement.GrantedAt)

	if err != nil {
		if dberrors.IsForeignKeyViolation(err, "entitlements_user_id_fkey") {
			return nil, apperrors.ErrUserNotFound
		}
		if dberrors.IsForeignKeyViolation(err, "entitlements_course_id_fkey") {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error granting entitlement: %w", err)
	}

	return entitlement, nil
}

// RecordFailed records a failed payment attempt. An approved
// entitlement is never downgraded by a late failure notification.
func (r *EntitlementRepository) RecordFailed(ctx context.Context, userID, courseID int64, paymentRef *string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO entitlements (user_id, course_id, status, payment_ref)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, course_id)
		DO UPDATE SET status = EXCLUDED.status,
		              payment_ref = COALESCE(EXCLUDED.payment_ref, entitlements.payment_ref)
		WHERE entitlements.status <> 'approved'`,
		userID, courseID, models.EntitlementFailed, paymentRef)

	if err != nil {
		if dberrors.IsForeignKeyViolation(err, "entitlements_user_id_fkey") {
			return apperrors.ErrUserNotFound
		}
		if dberrors.IsForeignKeyViolation(err, "entitlements_course_id_fkey") {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error recording failed payment: %w", err)
	}

	return nil
}

// Revoke removes a user's entitlement to a course
func (r *EntitlementRepository) Revoke(ctx context.Context, userID, courseID int64) error {
	result, err := r.db.Exec(ctx, `
		DELETE FROM entitlements
		WHERE user_id = $1 AND course_id = $2`,
		userID, courseID)

	if err != nil {
		return fmt.Errorf("error revoking entitlement: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrEntitlementNotFound
	}

	return nil
}

// HasApproved reports whether a user holds an approved entitlement
func (r *EntitlementRepository) HasApproved(ctx context.Context, userID, courseID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM entitlements
			WHERE user_id = $1 AND course_id = $2 AND status = $3)`,
		userID, courseID, models.EntitlementApproved).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking entitlement: %w", err)
	}

	return exists, nil
}

// GetByUserAndCourse retrieves the entitlement row for a purchase
func (r *EntitlementRepository) GetByUserAndCourse(ctx context.Context, userID, courseID int64) (*models.Entitlement, error) {
	entitlement := &models.Entitlement{}
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, course_id, status, payment_ref, granted_at
		FROM entitlements
		WHERE user_id = $1 AND course_id = $2`,
		userID, courseID).
		Scan(&entitlement.ID, &entitlement.UserID, &entitlement.CourseID,
			&entitlement.Status, &entitlement.PaymentRef, &entitlement.GrantedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEntitlementNotFound
		}
		return nil, fmt.Errorf("error retrieving entitlement: %w", err)
	}

	return entitlement, nil
}
