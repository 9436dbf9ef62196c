package services

import (
	"errors"
	"fmt"
)

// ServiceError carries the HTTP status a failure should map to. Validation
// failures surface as 400s with the message shown to the user directly.
type ServiceError struct {
	Status  int
	Message string
}

func (e ServiceError) Error() string {
	return e.Message
}

func ErrNotFound(msg string) error {
	return ServiceError{Status: 404, Message: msg}
}

func ErrBadRequest(msg string) error {
	return ServiceError{Status: 400, Message: msg}
}

func ErrForbidden(msg string) error {
	return ServiceError{Status: 403, Message: msg}
}

func ErrUnauthorized(msg string) error {
	return ServiceError{Status: 401, Message: msg}
}

func ErrConflict(msg string) error {
	return ServiceError{Status: 409, Message: msg}
}

// StatusOf extracts the mapped status from err, defaulting to 500.
func StatusOf(err error) (int, string) {
	var svcErr ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Status, svcErr.Message
	}
	return 500, "Internal server error"
}

func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
