// Package apperrors turns domain and infrastructure errors into HTTP
// responses so handlers stay free of status-code switches.
package apperrors

import (
	"context"
	"errors"
	"net/http"

	"videomatch/backend/internal/chathub"
	"videomatch/backend/internal/identity"
	"videomatch/backend/internal/storage"

	jwt "github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// HTTPError is the status and client-facing message for an error.
type HTTPError struct {
	Status  int
	Message string
}

// Map converts an error into an HTTPError. Unknown errors become 500 with a
// generic message; the cause is for the logs only.
func Map(err error) HTTPError {
	switch {
	case err == nil:
		return HTTPError{Status: http.StatusOK}

	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, chathub.ErrNotFound):
		return HTTPError{Status: http.StatusNotFound, Message: "record not found"}

	case errors.Is(err, storage.ErrNoStats):
		return HTTPError{Status: http.StatusNotFound, Message: "no stats published yet"}

	case errors.Is(err, chathub.ErrInvalidInput), errors.Is(err, storage.ErrInvalidProfile):
		return HTTPError{Status: http.StatusBadRequest, Message: err.Error()}

	case errors.Is(err, identity.ErrMissingIdentity),
		errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenExpired),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenInvalidClaims):
		return HTTPError{Status: http.StatusUnauthorized, Message: "invalid or expired token"}

	case errors.Is(err, chathub.ErrHubStopped):
		return HTTPError{Status: http.StatusServiceUnavailable, Message: "service shutting down"}

	case errors.Is(err, context.DeadlineExceeded):
		return HTTPError{Status: http.StatusGatewayTimeout, Message: "request timed out"}

	case errors.Is(err, context.Canceled):
		// nginx's "client closed request"
		return HTTPError{Status: 499, Message: "request was canceled"}

	default:
		return HTTPError{Status: http.StatusInternalServerError, Message: "internal error"}
	}
}
