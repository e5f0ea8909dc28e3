// middleware/contenttype.go
package middleware

import (
	"mime"
	"net/http"
	"strings"

	"github.com/atgs/landing/httputil"
)

// RequireJSON answers 415 unless the request body is declared as
// application/json or a +json subtype.
func RequireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || (mt != "application/json" && !strings.HasSuffix(mt, "+json")) {
			httputil.JSONError(w, http.StatusUnsupportedMediaType,
				"unsupported_media_type", "Content-Type must be application/json")
			return
		}
		next.ServeHTTP(w, r)
	})
}
