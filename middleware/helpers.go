package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Dosada05/swiss-tables/models"
)

type contextKey string

const callerContextKey contextKey = "caller"

// WithCaller returns a copy of ctx carrying caller.
func WithCaller(ctx context.Context, caller models.Caller) context.Context {
	return context.WithValue(ctx, callerContextKey, caller)
}

// CallerFromContext returns the caller stored by Authenticate, or Anonymous.
func CallerFromContext(ctx context.Context) models.Caller {
	caller, ok := ctx.Value(callerContextKey).(models.Caller)
	if !ok {
		return models.Anonymous
	}
	return caller
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
