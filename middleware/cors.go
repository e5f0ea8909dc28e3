// middleware/cors.go
package middleware

import (
	"net/http"

	"github.com/atgs/landing/config"
	"github.com/go-chi/cors"
)

// CORSFromConfig builds a go-chi/cors handler from the CORS keys, or a
// passthrough when enable_cors is false. Apply it to the JSON routes only.
func CORSFromConfig(cfg *config.CoreConfig) func(next http.Handler) http.Handler {
	if cfg == nil || !cfg.CORS.EnableCORS {
		return passthrough
	}
	c := cfg.CORS
	return cors.Handler(cors.Options{
		AllowedOrigins:   c.CORSAllowedOrigins,
		AllowedMethods:   c.CORSAllowedMethods,
		AllowedHeaders:   c.CORSAllowedHeaders,
		ExposedHeaders:   c.CORSExposedHeaders,
		AllowCredentials: c.CORSAllowCredentials,
		MaxAge:           c.CORSMaxAge,
	})
}
