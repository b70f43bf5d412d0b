package middleware

import (
	"context"
	"net/http"

	"github.com/rs/xid"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// maxInboundIDLen bounds client-supplied IDs so they cannot bloat log lines.
const maxInboundIDLen = 64

// contextKey is unexported so no other package can collide with our keys.
type contextKey string

const requestIDKey contextKey = "requestID"

// RequestID tags every request with an ID. A well-formed inbound
// X-Request-ID is kept so traces line up across services; otherwise a new
// xid is generated (20 URL-safe chars, sortable by time). The ID is echoed in
// the response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > maxInboundIDLen {
			id = xid.New().String()
		}

		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the request ID, or "" outside RequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
