package dto

import (
	"net/http"

	"github.com/storeops/backoffice/internal/domain/shared"
)

// Error codes surfaced by the HTTP layer itself
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = shared.ErrCodeNotFound
	ErrCodeConflict     = "CONFLICT"
	ErrCodeInternal     = shared.ErrCodeInternal
	ErrCodeDuplicate    = "DUPLICATE_REQUEST"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes. Business rule
// violations map to 422, lock and concurrency conflicts to 409, input
// problems to 400.
var errorCodeHTTPStatus = map[string]int{
	shared.ErrCodeNotFound:               http.StatusNotFound,
	shared.ErrCodeAlreadyExists:          http.StatusConflict,
	shared.ErrCodeInvalidInput:           http.StatusBadRequest,
	shared.ErrCodeConcurrentModification: http.StatusConflict,
	shared.ErrCodeInternal:               http.StatusInternalServerError,

	shared.ErrCodeInvalidTransition:   http.StatusUnprocessableEntity,
	shared.ErrCodeOrderLocked:         http.StatusConflict,
	shared.ErrCodeIncompleteReceiving: http.StatusUnprocessableEntity,

	shared.ErrCodeAlreadyReceived:         http.StatusConflict,
	shared.ErrCodeInvalidReceivedQuantity: http.StatusBadRequest,
	shared.ErrCodeInvalidDateRange:        http.StatusBadRequest,
	shared.ErrCodeReceivingFailed:         http.StatusInternalServerError,

	shared.ErrCodeInvalidAmount:            http.StatusBadRequest,
	shared.ErrCodePaymentLocked:            http.StatusConflict,
	shared.ErrCodeRefundNotAllowed:         http.StatusUnprocessableEntity,
	shared.ErrCodeInvalidPaymentTransition: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeConflict:     http.StatusConflict,
	ErrCodeDuplicate:    http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status for an error code, defaulting to 500
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
