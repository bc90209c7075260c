package checkout

import (
	"errors"

	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/coupon"
)

// Error kinds. Every failure returned by this package is an *Error whose
// Kind is one of these, so callers can match with errors.Is.
var (
	ErrMissingField     = errors.New("missing field")
	ErrInvalidType      = errors.New("invalid type")
	ErrEmptyInput       = errors.New("empty input")
	ErrInvalidItem      = errors.New("invalid item")
	ErrInvalidValue     = errors.New("invalid value")
	ErrUnknownCoupon    = coupon.ErrUnknownCoupon
	ErrMalformedRequest = errors.New("malformed request")
)

// Error is a checkout failure with a human-readable message
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindName returns a stable name for the kind of err, for logs, metric
// labels and API responses.
func KindName(err error) string {
	switch {
	case err == nil:
		return "None"
	case errors.Is(err, ErrMissingField):
		return "MissingField"
	case errors.Is(err, ErrInvalidType):
		return "InvalidType"
	case errors.Is(err, ErrEmptyInput):
		return "EmptyInput"
	case errors.Is(err, ErrInvalidItem):
		return "InvalidItem"
	case errors.Is(err, ErrInvalidValue):
		return "InvalidValue"
	case errors.Is(err, ErrUnknownCoupon):
		return "UnknownCoupon"
	case errors.Is(err, ErrMalformedRequest):
		return "MalformedRequest"
	default:
		return "Internal"
	}
}

// IsClientError reports whether err was caused by the request contents
func IsClientError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
