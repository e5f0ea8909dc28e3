// Package urlutil checks URLs that come from configuration before they are
// written into pages.
package urlutil

import (
	"net/url"
	"strings"
)

// IsValidAbsHTTPURL reports whether s is an absolute http(s) URL with a host
// and no credentials.
//
//	IsValidAbsHTTPURL("https://cdn.example.com/demo.gif") // true
//	IsValidAbsHTTPURL("cdn.example.com/demo.gif")         // false (no scheme)
//	IsValidAbsHTTPURL("javascript:alert(1)")              // false
//	IsValidAbsHTTPURL("https://u:p@example.com")          // false
func IsValidAbsHTTPURL(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	return u.User == nil
}

// IsLocalPath reports whether s is a path on this site: it starts with a
// single "/" and cannot be read as another host ("//evil", "/\evil").
func IsLocalPath(s string) bool {
	if !strings.HasPrefix(s, "/") || strings.HasPrefix(s, "//") || strings.HasPrefix(s, `/\`) {
		return false
	}
	if strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && u.Scheme == "" && u.Host == ""
}

// IsAssetURL accepts what a page may link to for an image or stylesheet:
// an absolute http(s) URL or a local path.
func IsAssetURL(s string) bool {
	return IsValidAbsHTTPURL(s) || IsLocalPath(s)
}
