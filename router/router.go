// router/router.go
package router

import (
	"github.com/atgs/landing/config"
	"github.com/atgs/landing/logging"
	"github.com/atgs/landing/metrics"
	"github.com/atgs/landing/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// New returns a chi.Router carrying the shared middleware stack, outermost
// first: request ID, real IP, panic recovery, body limit, metrics, access
// log, security headers, compression. CORS is left to the routes that
// need it.
func New(cfg *config.CoreConfig, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logging.Recoverer(logger))
	r.Use(middleware.LimitBodySize(cfg.MaxRequestBodyBytes))
	r.Use(metrics.HTTPMetrics)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.SecurityHeadersFromConfig(cfg))
	r.Use(middleware.CompressFromConfig(cfg))

	r.NotFound(middleware.NotFoundHandler(logger))
	r.MethodNotAllowed(middleware.MethodNotAllowedHandler(logger))
	return r
}
