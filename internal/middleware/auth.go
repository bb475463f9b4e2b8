package middleware

import (
	"context"
	"net/http"

	"github.com/mmynk/billminder/internal/auth"
	"github.com/mmynk/billminder/internal/metrics"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// OwnerIDKey is the context key for storing the authenticated owner ID.
	OwnerIDKey contextKey = "owner_id"
	// requestInfoKey carries per-request details shared with the logging middleware.
	requestInfoKey contextKey = "request_info"
)

// GetOwnerID extracts the owner ID from the context.
// Returns empty string if not found.
func GetOwnerID(ctx context.Context) string {
	ownerID, _ := ctx.Value(OwnerIDKey).(string)
	return ownerID
}

// WithOwnerID returns a copy of ctx carrying ownerID.
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, OwnerIDKey, ownerID)
}

// RequireOwner returns a middleware that resolves the caller's owner ID and
// rejects the request with 401 when there is none. The owner ID is added to
// the request context.
func RequireOwner(resolver auth.OwnerResolver, m *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ownerID, ok := resolver.ResolveOwner(r)
			if !ok || ownerID == "" {
				if m != nil {
					m.AuthFailures.WithLabelValues(routeName(r)).Inc()
				}
				writeError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			if info, ok := r.Context().Value(requestInfoKey).(*requestInfo); ok {
				info.ownerID = ownerID
			}

			next.ServeHTTP(w, r.WithContext(WithOwnerID(r.Context(), ownerID)))
		})
	}
}
