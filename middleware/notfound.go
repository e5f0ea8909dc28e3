// middleware/notfound.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/atgs/landing/httputil"
	"go.uber.org/zap"
)

// wantsJSON reports whether the caller is an API client rather than a browser.
func wantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/") ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

// NotFoundHandler logs the miss and answers with a JSON envelope for API
// callers and a plain 404 for everyone else.
func NotFoundHandler(logger *zap.Logger) http.HandlerFunc {
	return miss(logger, http.StatusNotFound, "not_found", "The requested resource was not found")
}

// MethodNotAllowedHandler is NotFoundHandler for 405.
func MethodNotAllowedHandler(logger *zap.Logger) http.HandlerFunc {
	return miss(logger, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed for this resource")
}

func miss(logger *zap.Logger, status int, code, msg string) http.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Debug(code, zap.String("method", r.Method), zap.String("path", r.URL.Path))
		if wantsJSON(r) {
			httputil.JSONError(w, status, code, msg)
			return
		}
		http.Error(w, msg, status)
	}
}
