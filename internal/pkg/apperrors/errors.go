package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token revoked")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidRole      = errors.New("invalid role")
	ErrInvalidPassword  = errors.New("password does not meet the security requirements")
	ErrInvalidCPF       = errors.New("invalid CPF format")
	ErrBadRequest       = errors.New("bad request")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrCPFAlreadyExists   = errors.New("CPF already registered")
	ErrSamePassword       = errors.New("new password must differ from the current one")
)

// Course errors
var (
	ErrCourseNotFound    = errors.New("course not found")
	ErrCourseHasChildren = errors.New("course has sub-courses and cannot be deleted")
	ErrQuestionNotFound  = errors.New("question not found")
)

// Purchase and entitlement errors
var (
	ErrEntitlementNotFound = errors.New("entitlement not found")
	ErrAlreadyPurchased    = errors.New("course already purchased")
	ErrInvalidSignature    = errors.New("webhook signature verification failed")
	ErrPaymentProvider     = errors.New("payment provider unavailable")
)

// Password reset errors
var (
	ErrResetTokenInvalid = errors.New("invalid or expired password reset token")
	ErrResetTokenUsed    = errors.New("password reset token has already been used")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// NewCustomError creates a CustomError wrapping err with a message
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// NewNotFoundError creates an error that unwraps to ErrResourceNotFound
func NewNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates an error that unwraps to ErrConflict
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewValidationError creates an error that unwraps to ErrValidationFailed
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewDependencyError creates an error that unwraps to ErrPaymentProvider
func NewDependencyError(message string) error {
	return &CustomError{
		Err:     ErrPaymentProvider,
		Message: message,
	}
}

// Is reports whether err matches target or any error in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
