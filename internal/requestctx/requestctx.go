// Package requestctx carries the per-request correlation ID through
// context, away from the http packages so domain services can log it too.
package requestctx

import "context"

type requestIDKey struct{}

// WithRequestID stores the correlation ID set by the request-ID middleware.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// GetRequestID returns the correlation ID, or "" outside a request scope.
func GetRequestID(ctx context.Context) string {
	value, _ := ctx.Value(requestIDKey{}).(string)
	return value
}
