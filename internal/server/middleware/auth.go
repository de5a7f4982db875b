// Package middleware provides HTTP middleware for pairing token
// authentication.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// deviceIDKey is the context key for storing the authenticated device ID.
const deviceIDKey ContextKey = "deviceID"

// TokenValidator is an interface for validating pairing tokens. This lets
// the middleware work with any JWT service implementation without an import
// cycle.
type TokenValidator interface {
	ValidateToken(tokenString string) (DeviceIDGetter, error)
}

// DeviceIDGetter extracts the paired device ID from token claims.
type DeviceIDGetter interface {
	GetDeviceID() uuid.UUID
}

// Auth creates middleware that validates Bearer tokens and adds the device
// ID to the request context.
func Auth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			// "Bearer" is matched case-insensitively.
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimSpace(parts[1])
			if tokenString == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := validator.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), deviceIDKey, claims.GetDeviceID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetDeviceID extracts the authenticated device ID from the request context.
func GetDeviceID(r *http.Request) (uuid.UUID, error) {
	deviceID, ok := r.Context().Value(deviceIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("device ID not found in request context")
	}
	return deviceID, nil
}

// DeviceIDKey returns the context key for the device ID (for testing).
func DeviceIDKey() ContextKey {
	return deviceIDKey
}
