package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies every failure an engine operation can return.
type Kind string

const (
	KindNotFound             Kind = "RESOURCE_NOT_FOUND"
	KindInsufficientBalance  Kind = "INSUFFICIENT_BALANCE"
	KindInsufficientCredit   Kind = "INSUFFICIENT_CREDIT_BALANCE"
	KindHavePendingQuotation Kind = "HAVE_PENDING_QUOTATION"
	KindPromotionNotFound    Kind = "PROMOTION_NOT_FOUND"
	KindInvalidState         Kind = "INVALID_STATE"
	KindValidation           Kind = "VALIDATION_FAILED"
	KindInternal             Kind = "INTERNAL_ERROR"
)

// Error is the typed outcome returned across package boundaries.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrNotFound             = &Error{Kind: KindNotFound, Message: "resource not found"}
	ErrInsufficientBalance  = &Error{Kind: KindInsufficientBalance, Message: "insufficient balance"}
	ErrInsufficientCredit   = &Error{Kind: KindInsufficientCredit, Message: "insufficient credit balance"}
	ErrHavePendingQuotation = &Error{Kind: KindHavePendingQuotation, Message: "provider already has a pending quotation for this job"}
	ErrPromotionNotFound    = &Error{Kind: KindPromotionNotFound, Message: "promotion not found"}
	ErrInvalidState         = &Error{Kind: KindInvalidState, Message: "invalid state"}
	ErrValidation           = &Error{Kind: KindValidation, Message: "validation failed"}
)

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(resource string) *Error {
	return New(KindNotFound, resource+" not found")
}

func InvalidState(format string, args ...interface{}) *Error {
	return New(KindInvalidState, fmt.Sprintf(format, args...))
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

// KindOf returns KindInternal for errors that did not originate here.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindNotFound, KindPromotionNotFound:
		return http.StatusNotFound
	case KindInsufficientBalance, KindInsufficientCredit:
		return http.StatusPaymentRequired
	case KindHavePendingQuotation, KindInvalidState:
		return http.StatusConflict
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
