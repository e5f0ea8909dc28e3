// middleware/compress.go
package middleware

import (
	"net/http"

	"github.com/atgs/landing/config"
	"github.com/go-chi/chi/v5/middleware"
)

// compressibleTypes are the response types the site actually produces as text.
var compressibleTypes = []string{
	"text/html",
	"text/css",
	"text/plain",
	"application/json",
	"image/svg+xml",
	"message/rfc822",
}

// CompressFromConfig gzips/deflates text responses at cfg.CompressionLevel,
// or passes through when compression is disabled.
func CompressFromConfig(cfg *config.CoreConfig) func(next http.Handler) http.Handler {
	if cfg == nil || !cfg.EnableCompression {
		return passthrough
	}
	return middleware.Compress(clampLevel(cfg.CompressionLevel), compressibleTypes...)
}

func clampLevel(level int) int {
	return min(max(level, 1), 9)
}

func passthrough(next http.Handler) http.Handler { return next }
