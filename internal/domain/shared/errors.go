package shared

import (
	"errors"
	"fmt"
)

// Domain error codes
const (
	ErrCodeNotFound               = "NOT_FOUND"
	ErrCodeAlreadyExists          = "ALREADY_EXISTS"
	ErrCodeInvalidInput           = "INVALID_INPUT"
	ErrCodeConcurrentModification = "CONCURRENT_MODIFICATION"
	ErrCodeInternal               = "INTERNAL_ERROR"

	// Purchase order lifecycle
	ErrCodeInvalidTransition   = "INVALID_TRANSITION"
	ErrCodeOrderLocked         = "ORDER_LOCKED"
	ErrCodeIncompleteReceiving = "INCOMPLETE_RECEIVING"

	// Receiving
	ErrCodeAlreadyReceived         = "ALREADY_RECEIVED"
	ErrCodeInvalidReceivedQuantity = "INVALID_RECEIVED_QUANTITY"
	ErrCodeInvalidDateRange        = "INVALID_DATE_RANGE"
	ErrCodeReceivingFailed         = "RECEIVING_FAILED"

	// Payments
	ErrCodeInvalidAmount            = "INVALID_AMOUNT"
	ErrCodePaymentLocked            = "PAYMENT_LOCKED"
	ErrCodeRefundNotAllowed         = "REFUND_NOT_ALLOWED"
	ErrCodeInvalidPaymentTransition = "INVALID_PAYMENT_TRANSITION"
)

// DomainError represents a business rule violation
type DomainError struct {
	Code    string
	Message string
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As
func (e *DomainError) Unwrap() error {
	return e.cause
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// NewDomainErrorf creates a new domain error with a formatted message
func NewDomainErrorf(code, format string, args ...any) *DomainError {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapDomainError creates a domain error that preserves an underlying cause
func WrapDomainError(code, message string, cause error) *DomainError {
	return &DomainError{Code: code, Message: message, cause: cause}
}

// NewNotFoundError creates a NOT_FOUND error for the given resource
func NewNotFoundError(resource string) *DomainError {
	return NewDomainError(ErrCodeNotFound, resource+" not found")
}

// NewInvalidInputError creates an INVALID_INPUT error
func NewInvalidInputError(message string) *DomainError {
	return NewDomainError(ErrCodeInvalidInput, message)
}

// NewConcurrentModificationError creates a CONCURRENT_MODIFICATION error
func NewConcurrentModificationError(resource string) *DomainError {
	return NewDomainError(ErrCodeConcurrentModification, resource+" was modified by another operation")
}

// IsDomainErrorWithCode reports whether err carries a DomainError with the given code
func IsDomainErrorWithCode(err error, code string) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}
