package middleware

import (
	"net/http"
	"strings"
)

// CORS returns a middleware adding CORS headers for browser access. extraHeaders
// are appended to the allowed request headers (e.g. the principal header).
func CORS(extraHeaders ...string) func(http.Handler) http.Handler {
	allowed := strings.Join(append([]string{"Content-Type", "Authorization"}, extraHeaders...), ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", allowed)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
