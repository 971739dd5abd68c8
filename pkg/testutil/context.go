package testutil

import (
	"context"
	"net/http"
	"time"

	"schoolgate/internal/platform/middleware"
	"schoolgate/pkg/requestcontext"
)

// WithStaffID adds an authenticated staff ID to the request context. This
// simulates what the auth middleware would do for authenticated requests.
func WithStaffID(req *http.Request, staffID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.ContextKeyStaffID, staffID)
	return req.WithContext(ctx)
}

// WithRequestTime pins the request-scoped clock so handlers under test
// produce deterministic timestamps.
func WithRequestTime(req *http.Request, at time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), at))
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
