// Package assets fingerprints embedded static files for cache busting.
package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"path"
)

// ContentHash is the first 10 hex digits of SHA-256 over the named files
// in order. Unreadable files are skipped.
func ContentHash(fsys fs.FS, paths ...string) string {
	h := sha256.New()
	for _, name := range paths {
		if data, err := fs.ReadFile(fsys, name); err == nil {
			h.Write(data)
		}
	}
	return hex.EncodeToString(h.Sum(nil))[:10]
}

// Fingerprints maps asset names to "?v=<hash>" URLs under a prefix.
type Fingerprints struct {
	prefix string
	urls   map[string]string
}

// NewFingerprints hashes each name in fsys once.
func NewFingerprints(fsys fs.FS, prefix string, names ...string) *Fingerprints {
	f := &Fingerprints{prefix: prefix, urls: make(map[string]string, len(names))}
	for _, n := range names {
		f.urls[n] = path.Join(prefix, n) + "?v=" + ContentHash(fsys, n)
	}
	return f
}

// URL returns the fingerprinted URL for name, or the plain URL if name was
// not hashed.
func (f *Fingerprints) URL(name string) string {
	if u, ok := f.urls[name]; ok {
		return u
	}
	return path.Join(f.prefix, name)
}
