package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/voyagerlabs/ap2-go/pkg/protocol"
)

type contextKey string

const (
	callerAgentKey  contextKey = "caller_agent"
	ap2ExtensionKey contextKey = "ap2_extension"
)

// AP2ExtensionMiddleware reads the AP2 extension and caller identity headers
// on inbound requests and exposes them through the request context. When the
// extension is active the response echoes it, confirming activation to the
// caller.
type AP2ExtensionMiddleware struct {
	required bool
}

// NewAP2ExtensionMiddleware creates the middleware. When required is true,
// protocol requests without the AP2 extension header are rejected.
func NewAP2ExtensionMiddleware(required bool) *AP2ExtensionMiddleware {
	return &AP2ExtensionMiddleware{required: required}
}

// Wrap wraps an HTTP handler with AP2 extension handling.
func (m *AP2ExtensionMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		active := strings.Contains(strings.ToLower(r.Header.Get(protocol.ExtensionHeader)), "ap2")
		if m.required && !active {
			http.Error(w, "AP2 extension header required", http.StatusBadRequest)
			return
		}
		if active {
			w.Header().Set(protocol.ExtensionHeader, protocol.ExtensionURI)
		}

		ctx := context.WithValue(r.Context(), ap2ExtensionKey, active)
		if caller := r.Header.Get(protocol.AgentHeader); caller != "" {
			ctx = context.WithValue(ctx, callerAgentKey, caller)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CallerAgent returns the agent name announced by the caller, if any.
func CallerAgent(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(callerAgentKey).(string)
	return name, ok
}

// AP2Active reports whether the caller activated the AP2 extension.
func AP2Active(ctx context.Context) bool {
	active, _ := ctx.Value(ap2ExtensionKey).(bool)
	return active
}
