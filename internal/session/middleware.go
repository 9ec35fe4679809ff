package session

import (
	"context"
	"net/http"
)

type contextKey string

const ctxKey contextKey = "session"

// Middleware loads the visitor's session into the request context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data := m.Load(r.Context(), r)
		ctx := context.WithValue(r.Context(), ctxKey, data)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the session loaded by Middleware, or an empty one.
func FromContext(ctx context.Context) *Data {
	if ctx == nil {
		return &Data{}
	}
	data, ok := ctx.Value(ctxKey).(*Data)
	if !ok || data == nil {
		return &Data{}
	}
	return data
}
