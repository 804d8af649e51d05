package bookings

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/payment"
)

type Kind string

const (
	KindInvalidRequest  Kind = "INVALID_REQUEST"
	KindNotFound        Kind = "NOT_FOUND"
	KindExternalService Kind = "EXTERNAL_SERVICE_ERROR"
)

// Error is returned by every service operation that fails. Code is the stable
// machine-readable value sent to clients.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func ErrMissingField(field string) *Error {
	return &Error{
		Kind:    KindInvalidRequest,
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("%s is required", field),
	}
}

func ErrInvalidField(field, reason string) *Error {
	return &Error{
		Kind:    KindInvalidRequest,
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("%s %s", field, reason),
	}
}

func ErrAccountNotLinked(companyID string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    "ACCOUNT_NOT_FOUND",
		Message: fmt.Sprintf("No connected account found for company %s", companyID),
	}
}

// ErrProcessor wraps a payment processor failure and surfaces its message verbatim.
func ErrProcessor(err error) *Error {
	return &Error{
		Kind:    KindExternalService,
		Code:    "PAYMENT_PROCESSOR_ERROR",
		Message: payment.ErrorMessage(err),
		Err:     err,
	}
}

func ErrDirectory(err error) *Error {
	return &Error{
		Kind:    KindExternalService,
		Code:    "DIRECTORY_ERROR",
		Message: err.Error(),
		Err:     err,
	}
}

// AsError returns the *Error inside err, or an external-service error wrapping it.
func AsError(err error) *Error {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return &Error{
		Kind:    KindExternalService,
		Code:    "INTERNAL_ERROR",
		Message: err.Error(),
		Err:     err,
	}
}
