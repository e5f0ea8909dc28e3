// pprof/pprof.go
package pprof

import (
	stdpprof "net/http/pprof"

	"github.com/go-chi/chi/v5"
)

// Mount attaches the runtime profiling handlers under /debug/pprof. The
// landing server only does this when env is "dev".
func Mount(r chi.Router) {
	r.Route("/debug/pprof", func(r chi.Router) {
		r.Get("/", stdpprof.Index)
		r.Get("/cmdline", stdpprof.Cmdline)
		r.Get("/profile", stdpprof.Profile)
		r.Get("/symbol", stdpprof.Symbol)
		r.Post("/symbol", stdpprof.Symbol)
		r.Get("/trace", stdpprof.Trace)
		r.Get("/{name}", stdpprof.Index)
	})
}
