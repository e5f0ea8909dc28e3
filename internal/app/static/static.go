// Package static embeds the stylesheet and images served under /static/.
package static

import (
	"embed"
	"io/fs"
)

//go:embed assets
var embedded embed.FS

// Names are the files the page links to. They are fingerprinted at startup.
var Names = []string{"site.css", "logo.svg", "demo.svg"}

// FS returns the embedded files rooted at assets/.
func FS() fs.FS {
	sub, err := fs.Sub(embedded, "assets")
	if err != nil {
		// fs.Sub only fails on an invalid path, and "assets" is valid.
		panic(err)
	}
	return sub
}
