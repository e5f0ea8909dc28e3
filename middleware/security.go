// middleware/security.go
package middleware

import (
	"net/http"
	"strconv"

	"github.com/atgs/landing/config"
)

// SecurityHeadersOptions lists the response headers SecurityHeaders sets.
// An empty string (or zero HSTSMaxAge) leaves that header out.
type SecurityHeadersOptions struct {
	XFrameOptions         string
	XContentTypeOptions   string
	ReferrerPolicy        string
	HSTSMaxAge            int // seconds; sent on TLS requests only
	HSTSIncludeSubDomains bool
	ContentSecurityPolicy string
	PermissionsPolicy     string
}

// DefaultSecurityHeadersOptions matches the config defaults minus CSP.
func DefaultSecurityHeadersOptions() SecurityHeadersOptions {
	return SecurityHeadersOptions{
		XFrameOptions:         "SAMEORIGIN",
		XContentTypeOptions:   "nosniff",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		HSTSMaxAge:            31536000,
		HSTSIncludeSubDomains: true,
	}
}

// SecurityHeaders sets the configured headers before calling next.
func SecurityHeaders(opts SecurityHeadersOptions) func(next http.Handler) http.Handler {
	static := map[string]string{
		"X-Frame-Options":         opts.XFrameOptions,
		"X-Content-Type-Options":  opts.XContentTypeOptions,
		"Referrer-Policy":         opts.ReferrerPolicy,
		"Content-Security-Policy": opts.ContentSecurityPolicy,
		"Permissions-Policy":      opts.PermissionsPolicy,
	}
	for k, v := range static {
		if v == "" {
			delete(static, k)
		}
	}

	var hsts string
	if opts.HSTSMaxAge > 0 {
		hsts = "max-age=" + strconv.Itoa(opts.HSTSMaxAge)
		if opts.HSTSIncludeSubDomains {
			hsts += "; includeSubDomains"
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for k, v := range static {
				h.Set(k, v)
			}
			if hsts != "" && r.TLS != nil {
				h.Set("Strict-Transport-Security", hsts)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeadersFromConfig is SecurityHeaders driven by the security keys,
// or a passthrough when enable_security_headers is false.
func SecurityHeadersFromConfig(cfg *config.CoreConfig) func(next http.Handler) http.Handler {
	if cfg == nil || !cfg.Security.EnableSecurityHeaders {
		return passthrough
	}
	s := cfg.Security
	return SecurityHeaders(SecurityHeadersOptions{
		XFrameOptions:         s.XFrameOptions,
		XContentTypeOptions:   s.XContentTypeOptions,
		ReferrerPolicy:        s.ReferrerPolicy,
		HSTSMaxAge:            s.HSTSMaxAge,
		HSTSIncludeSubDomains: s.HSTSIncludeSubDomains,
		ContentSecurityPolicy: s.ContentSecurityPolicy,
		PermissionsPolicy:     s.PermissionsPolicy,
	})
}
