package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const (
	tokenKey     contextKey = "token"
	requestIDKey contextKey = "request_id"
)

// TokenMiddleware pulls the session token from the Authorization header and
// stores it on the request context. Verification happens in the service; the
// middleware only makes the raw token available.
func TokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := r.Header.Get("Authorization")
		tok = strings.TrimPrefix(tok, "Bearer ")

		ctx := context.WithValue(r.Context(), tokenKey, tok)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getToken(ctx context.Context) string {
	if tok, ok := ctx.Value(tokenKey).(string); ok {
		return tok
	}
	return ""
}
