package dto

import (
	"net/http"
	"strings"
)

// Transport-level error codes produced by middleware rather than the domain
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	ErrCodeDuplicateRequest = "DUPLICATE_REQUEST"
	ErrCodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeUnauthenticated  = "UNAUTHENTICATED"
	ErrCodeNoOrganization   = "NO_ORGANIZATION"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes. Codes not
// listed here fall through to the prefix rules in GetHTTPStatus.
var errorCodeHTTPStatus = map[string]int{
	// Authentication
	"UNAUTHENTICATED":      http.StatusUnauthorized,
	"INVALID_CREDENTIALS":  http.StatusUnauthorized,
	"INVALID_GOOGLE_TOKEN": http.StatusUnauthorized,
	"TOKEN_INVALID":        http.StatusUnauthorized,
	"TOKEN_EXPIRED":        http.StatusUnauthorized,
	"TOKEN_REVOKED":        http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":    http.StatusUnauthorized,
	"TOKEN_ERROR":          http.StatusUnauthorized,

	// Authorization
	"FORBIDDEN":           http.StatusForbidden,
	"ACCOUNT_DEACTIVATED": http.StatusForbidden,
	"NO_ORGANIZATION":     http.StatusForbidden,
	"OWNER_IMMUTABLE":     http.StatusForbidden,
	"SELF_REMOVAL":        http.StatusForbidden,

	// Cross-tenant access reads as not-found so foreign ids leak nothing
	"NOT_FOUND":            http.StatusNotFound,
	"CROSS_TENANT":         http.StatusNotFound,
	"INVITATION_NOT_FOUND": http.StatusNotFound,

	// Conflicts
	"ALREADY_EXISTS":            http.StatusConflict,
	"EMAIL_TAKEN":               http.StatusConflict,
	"ALREADY_IN_ORGANIZATION":   http.StatusConflict,
	"ALREADY_MEMBER":            http.StatusConflict,
	"ALREADY_ACCEPTED":          http.StatusConflict,
	"NUMBER_ASSIGNED":           http.StatusConflict,
	"DUPLICATE_REQUEST":         http.StatusConflict,
	"INVITATION_EMAIL_MISMATCH": http.StatusConflict,

	// Expired invitations are gone, not retryable
	"INVITATION_EXPIRED": http.StatusGone,

	// State machine violations
	"INVALID_STATE":      http.StatusUnprocessableEntity,
	"INVALID_TRANSITION": http.StatusUnprocessableEntity,
	"DOCUMENT_FINALIZED": http.StatusUnprocessableEntity,
	"NOT_DELETED":        http.StatusUnprocessableEntity,
	"NO_RECIPIENT":       http.StatusUnprocessableEntity,

	// Upstream failures (SMTP relay, PDF renderer, object storage)
	"EXTERNAL_SERVICE_FAILURE": http.StatusBadGateway,

	"VALIDATION_ERROR":    http.StatusBadRequest,
	"RATE_LIMIT_EXCEEDED": http.StatusTooManyRequests,
	"PAYLOAD_TOO_LARGE":   http.StatusRequestEntityTooLarge,
	"INTERNAL_ERROR":      http.StatusInternalServerError,
}

// GetHTTPStatus resolves a domain error code to an HTTP status. Validation
// codes follow naming conventions, so unknown INVALID_* codes degrade to 400
// rather than 500.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasPrefix(code, "INVALID_"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "ALREADY_"):
		return http.StatusConflict
	case strings.HasPrefix(code, "TOKEN_"):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
