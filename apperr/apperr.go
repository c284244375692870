// Package apperr is the error taxonomy for business-rule violations.
// Handlers surface these as structured responses; anything else is an
// internal failure that gets logged and returned generically.
package apperr

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindNotFound         Kind = "NOT_FOUND"
	KindValidation       Kind = "VALIDATION"
	KindUnauthorized     Kind = "UNAUTHORIZED"
	KindForbidden        Kind = "FORBIDDEN"
	KindInvalidState     Kind = "INVALID_STATE"
	KindDuplicate        Kind = "DUPLICATE"
	KindInvalidOperation Kind = "INVALID_OPERATION"
	KindVerification     Kind = "VERIFICATION_FAILED"
	KindEmptyCart        Kind = "EMPTY_CART"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Status() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized, KindVerification:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

func NotFound(msg string) *Error         { return &Error{Kind: KindNotFound, Message: msg} }
func Validation(msg string) *Error       { return &Error{Kind: KindValidation, Message: msg} }
func Unauthorized(msg string) *Error     { return &Error{Kind: KindUnauthorized, Message: msg} }
func Forbidden(msg string) *Error        { return &Error{Kind: KindForbidden, Message: msg} }
func InvalidState(msg string) *Error     { return &Error{Kind: KindInvalidState, Message: msg} }
func Duplicate(msg string) *Error        { return &Error{Kind: KindDuplicate, Message: msg} }
func InvalidOperation(msg string) *Error { return &Error{Kind: KindInvalidOperation, Message: msg} }
func Verification(msg string) *Error     { return &Error{Kind: KindVerification, Message: msg} }
func EmptyCart(msg string) *Error        { return &Error{Kind: KindEmptyCart, Message: msg} }

// IsKind reports whether err is (or wraps) a taxonomy error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
