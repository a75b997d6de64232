// Package middleware holds the HTTP middleware chain pieces.
package middleware

import (
	"encoding/json"
	"net/http"

	"mtp-backend/pkg/auth"
	apperrors "mtp-backend/pkg/errors"
)

// Authenticate resolves the caller identity and stores it in the request
// context. Requests with no resolvable identity are rejected with 401.
func Authenticate(resolver *auth.Resolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := resolver.Resolve(r)
			if err != nil {
				message := "Unauthorized"
				if appErr := apperrors.GetAppError(err); appErr != nil {
					message = appErr.Message
				}
				respondUnauthorized(w, message)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.SetUserID(r.Context(), userID)))
		})
	}
}

// respondUnauthorized sends an unauthorized response
func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
