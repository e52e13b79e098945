package authz

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tair/smart-inventory/pkg/auth"
)

type contextKey string

const principalKey contextKey = "principal"

// Principal is the verified caller identity supplied by the external
// authentication collaborator.
type Principal struct {
	ID       uint
	Username string
	Roles    []string
}

// FromContext returns the principal stored by Require, if any.
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok
}

// Require validates the bearer token and enforces the access policy for
// op before the handler runs. Authorization failures never touch state.
func Require(op Operation, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := auth.ValidateToken(parts[1])
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		principal := &Principal{
			ID:       claims.UserID,
			Username: claims.Username,
			Roles:    []string{claims.Role},
		}

		if !Allowed(principal.Roles, op) {
			respondError(w, http.StatusForbidden, "Insufficient role for this operation")
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
