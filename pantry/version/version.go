// version/version.go
package version

import (
	"net/http"
	"runtime"
	"runtime/debug"

	"github.com/atgs/landing/httputil"
	"github.com/go-chi/chi/v5"
)

// Set with -ldflags "-X github.com/atgs/landing/pantry/version.Version=1.4.0 ...".
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

// Info is the /version body.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// Get fills Commit and BuildTime from the module's VCS stamp when ldflags
// did not set them.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && info.Commit == "":
				info.Commit = s.Value
			case s.Key == "vcs.time" && info.BuildTime == "":
				info.BuildTime = s.Value
			}
		}
	}
	if info.Commit == "" {
		info.Commit = "unknown"
	}
	if info.BuildTime == "" {
		info.BuildTime = "unknown"
	}
	return info
}

// String is a one-line form for logs and the service description.
func String() string {
	i := Get()
	if i.Version == "dev" {
		return "dev"
	}
	return i.Version + " (" + i.Commit + ", built " + i.BuildTime + ")"
}

// Mount attaches GET /version.
func Mount(r chi.Router) {
	info := Get()
	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, info)
	})
}
