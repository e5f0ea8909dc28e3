// pantry/fileserver/fileserver.go

// Package fileserver serves static assets from an fs.FS, preferring a
// pre-compressed sibling (name.br, name.gz) when the client accepts it.
package fileserver

import (
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"
)

// Options tunes Handler.
type Options struct {
	// CacheControl is sent on every hit, e.g. "public, max-age=31536000, immutable"
	// for fingerprinted URLs.
	CacheControl string
	// DisablePrecompressed skips the .br/.gz lookup.
	DisablePrecompressed bool
}

var encodings = []struct{ ext, name string }{
	{".br", "br"},
	{".gz", "gzip"},
}

// Handler serves fsys under urlPrefix. Directory listings are not served.
func Handler(urlPrefix string, fsys fs.FS, opts Options) http.Handler {
	plain := http.FileServerFS(fsys)

	return http.StripPrefix(urlPrefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if name == "" || name == "." || isDir(fsys, name) {
			http.NotFound(w, r)
			return
		}
		if opts.CacheControl != "" {
			w.Header().Set("Cache-Control", opts.CacheControl)
		}

		if !opts.DisablePrecompressed && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
			for _, enc := range encodings {
				if !accepts(r, enc.name) {
					continue
				}
				if serveVariant(w, r, fsys, name, enc.ext, enc.name) {
					return
				}
			}
		}
		plain.ServeHTTP(w, r)
	}))
}

func isDir(fsys fs.FS, name string) bool {
	fi, err := fs.Stat(fsys, name)
	return err == nil && fi.IsDir()
}

func serveVariant(w http.ResponseWriter, r *http.Request, fsys fs.FS, name, ext, encoding string) bool {
	f, err := fsys.Open(name + ext)
	if err != nil {
		return false
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil || fi.IsDir() {
		return false
	}
	rs, ok := f.(io.ReadSeeker)
	if !ok {
		return false
	}

	w.Header().Set("Content-Encoding", encoding)
	w.Header().Add("Vary", "Accept-Encoding")
	w.Header().Set("Content-Type", contentType(name))
	http.ServeContent(w, r, name, fi.ModTime(), rs)
	return true
}

func accepts(r *http.Request, encoding string) bool {
	for _, part := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		enc, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if !strings.EqualFold(strings.TrimSpace(enc), encoding) {
			continue
		}
		return strings.ReplaceAll(strings.TrimSpace(params), " ", "") != "q=0"
	}
	return false
}

func contentType(name string) string {
	if mt := mime.TypeByExtension(path.Ext(name)); mt != "" {
		return mt
	}
	return "application/octet-stream"
}
