// backend/shared/go-utils/errors.go
package utils

import (
	"errors"
	"net/http"
)

// Domain-level errors used by the service layer to provide
// fine-grained failure reasons. AppError.Err wraps one of these
// so callers can match with errors.Is.
var (
	ErrMissingField       = errors.New("missing_required_field")
	ErrInvalidField       = errors.New("invalid_field")
	ErrAmbiguousReference = errors.New("ambiguous_reference")

	ErrLocationNotFound = errors.New("location_not_found")
	ErrLandNotFound     = errors.New("land_not_found")
	ErrBuildingNotFound = errors.New("building_not_found")
	ErrUnitNotFound     = errors.New("unit_not_found")
	ErrProductNotFound  = errors.New("product_not_found")

	ErrProductExists      = errors.New("product_exists")
	ErrLocationInUse      = errors.New("location_in_use")
	ErrCapacityExhausted  = errors.New("capacity_exhausted")
	ErrRowVersionConflict = errors.New("row_version_conflict")

	// Transaction / connectivity failures. Retryable by the caller.
	ErrStorage = errors.New("storage_failure")
)

// AppError for structured error handling from services to controllers.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
	Details    any
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// HandleAppError centralizes responding to AppErrors.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, appErr.Details, appErr.Err)
	} else {
		// Fallback for unexpected error types
		RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
	}
}

// ErrorCode returns the AppError code carried by err, or "" when err is not
// an AppError.
func ErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
