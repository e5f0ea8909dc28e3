// health/health.go
package health

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/atgs/landing/httputil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Check returns nil when the named dependency is usable.
type Check func(ctx context.Context) error

// Response is the /health body.
type Response struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Handler runs every check with a per-request timeout. All passing gives
// 200 {"status":"ok"}; any failure gives 503 with per-check results.
func Handler(checks map[string]Check, timeout time.Duration, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	names := make([]string, 0, len(checks))
	for n := range checks {
		names = append(names, n)
	}
	sort.Strings(names)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		resp := Response{Status: "ok"}
		if len(names) > 0 {
			resp.Checks = make(map[string]string, len(names))
		}
		for _, name := range names {
			check := checks[name]
			if check == nil {
				resp.Checks[name] = "ok"
				continue
			}
			if err := check(ctx); err != nil {
				logger.Warn("health check failed", zap.String("check", name), zap.Error(err))
				resp.Status = "error"
				resp.Checks[name] = "error: " + err.Error()
				continue
			}
			resp.Checks[name] = "ok"
		}

		status := http.StatusOK
		if resp.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		httputil.WriteJSON(w, status, resp)
	})
}

// Mount attaches GET /health.
func Mount(r chi.Router, checks map[string]Check, logger *zap.Logger) {
	r.Method(http.MethodGet, "/health", Handler(checks, 2*time.Second, logger))
}
