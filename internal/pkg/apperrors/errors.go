package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
)

// User and membership errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrClubNotFound       = errors.New("club not found")
	ErrClubNameTaken      = errors.New("club name already exists")
	ErrAlreadyExec        = errors.New("user is already an exec of this club")
	ErrMembershipExists   = errors.New("user already has a pending or active club membership")
	ErrNoPendingRequest   = errors.New("user has no pending join request for this club")
)

// Recruitment errors
var (
	ErrOpenRoleNotFound     = errors.New("open role not found")
	ErrApplicationNotFound  = errors.New("application not found")
	ErrDuplicateApplication = errors.New("application already submitted for this role")
)

// Discussion errors
var (
	ErrThreadNotFound  = errors.New("thread not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrThreadLocked    = errors.New("thread is locked")
	ErrCommentDeleted  = errors.New("comment has been deleted")
)

// Kind is the coarse error taxonomy surfaced to callers.
type Kind string

const (
	KindNotFound     Kind = "NOT_FOUND"
	KindForbidden    Kind = "FORBIDDEN"
	KindConflict     Kind = "CONFLICT"
	KindValidation   Kind = "VALIDATION"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindInternal     Kind = "INTERNAL"
)

// KindOf classifies err into one of the taxonomy kinds.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case Is(err, ErrResourceNotFound, ErrUserNotFound, ErrClubNotFound, ErrOpenRoleNotFound,
		ErrApplicationNotFound, ErrThreadNotFound, ErrCommentNotFound, ErrNoPendingRequest):
		return KindNotFound
	case Is(err, ErrPermissionDenied, ErrThreadLocked):
		return KindForbidden
	case Is(err, ErrEmailAlreadyExists, ErrClubNameTaken, ErrAlreadyExec,
		ErrMembershipExists, ErrDuplicateApplication, ErrCommentDeleted):
		return KindConflict
	case errors.Is(err, ErrValidationFailed):
		return KindValidation
	case Is(err, ErrInvalidCredentials, ErrTokenExpired, ErrTokenInvalid):
		return KindUnauthorized
	default:
		return KindInternal
	}
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewValidationError creates a new custom error for invalid input with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// Is returns whether err matches target or any of the errors in errList
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

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Wrap attaches a user-facing message to a sentinel error.
func Wrap(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}
