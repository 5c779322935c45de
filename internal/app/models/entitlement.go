package models

import (
	"time"
)

// EntitlementStatus represents the purchase state of a (user, course) pair
type EntitlementStatus string

// Entitlement statuses
const (
	EntitlementPending  EntitlementStatus = "pending"
	EntitlementApproved EntitlementStatus = "approved"
	EntitlementFailed   EntitlementStatus = "failed"
)

// Entitlement is the durable record granting a user access to a course.
// At most one row exists per (UserID, CourseID); the database enforces
// this with a unique constraint so concurrent grants converge on a
// single row.
type Entitlement struct {
	ID         int64             `json:"id" db:"id"`
	UserID     int64             `json:"userId" db:"user_id"`
	CourseID   int64             `json:"courseId" db:"course_id"`
	Status     EntitlementStatus `json:"status" db:"status"`
	PaymentRef *string           `json:"paymentRef,omitempty" db:"payment_ref"` // External payment reference
	GrantedAt  time.Time         `json:"grantedAt" db:"granted_at"`
}
