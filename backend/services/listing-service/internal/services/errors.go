package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v4"
	shared_dtos "github.com/plotline/mono-repo/backend/shared/go-dtos"
	"github.com/plotline/mono-repo/backend/shared/go-utils"
)

func missingField(field string) error {
	return &utils.AppError{
		StatusCode: http.StatusBadRequest,
		Code:       utils.ErrCodeValidation,
		Message:    fmt.Sprintf("%s is required", field),
		Err:        fmt.Errorf("%s: %w", field, utils.ErrMissingField),
		Details: []shared_dtos.ValidationErrorDetail{{
			Field:   field,
			Message: fmt.Sprintf("Field '%s' is required", field),
			Code:    "validation_required",
		}},
	}
}

func invalidField(field, reason string) error {
	return &utils.AppError{
		StatusCode: http.StatusBadRequest,
		Code:       utils.ErrCodeValidation,
		Message:    fmt.Sprintf("%s is invalid: %s", field, reason),
		Err:        fmt.Errorf("%s: %w", field, utils.ErrInvalidField),
		Details: []shared_dtos.ValidationErrorDetail{{
			Field:   field,
			Message: reason,
			Code:    "validation_invalid",
		}},
	}
}

// structValidationError wraps a validator failure for a payload struct.
func structValidationError(what string, err error) error {
	return &utils.AppError{
		StatusCode: http.StatusBadRequest,
		Code:       utils.ErrCodeValidation,
		Message:    fmt.Sprintf("invalid %s payload", what),
		Err:        fmt.Errorf("%w: %v", utils.ErrInvalidField, err),
		Details:    shared_dtos.FormatValidationErrors(err),
	}
}

func ambiguousReference(what string) error {
	return &utils.AppError{
		StatusCode: http.StatusBadRequest,
		Code:       utils.ErrCodeValidation,
		Message:    fmt.Sprintf("%s reference must carry either id or custom_id, not both", what),
		Err:        utils.ErrAmbiguousReference,
	}
}

func notFound(sentinel error, message string) error {
	return &utils.AppError{
		StatusCode: http.StatusNotFound,
		Code:       utils.ErrCodeNotFound,
		Message:    message,
		Err:        sentinel,
	}
}

func conflict(sentinel error, message string) error {
	return &utils.AppError{
		StatusCode: http.StatusConflict,
		Code:       utils.ErrCodeConflict,
		Message:    message,
		Err:        sentinel,
	}
}

func capacityExhausted(parentCode string) error {
	return &utils.AppError{
		StatusCode: http.StatusConflict,
		Code:       utils.ErrCodeCapacityExhausted,
		Message:    "no more available codes under this parent",
		Err:        fmt.Errorf("parent %s: %w", parentCode, utils.ErrCapacityExhausted),
	}
}

func rowVersionConflict(what string, err error) error {
	return &utils.AppError{
		StatusCode: http.StatusConflict,
		Code:       utils.ErrCodeRowVersionConflict,
		Message:    what + " is being modified concurrently, please retry",
		Err:        fmt.Errorf("%w: %w", utils.ErrRowVersionConflict, err),
	}
}

func storageError(op string, err error) error {
	return &utils.AppError{
		StatusCode: http.StatusInternalServerError,
		Code:       utils.ErrCodeStorage,
		Message:    "storage failure, please retry",
		Err:        fmt.Errorf("%s: %w: %w", op, utils.ErrStorage, err),
	}
}

// asAppError leaves AppErrors untouched and classifies everything else as a
// storage failure of op.
func asAppError(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound(err, "referenced record no longer exists")
	}
	return storageError(op, err)
}
