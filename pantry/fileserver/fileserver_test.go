package fileserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"site.css":     {Data: []byte("body{color:#0b1f3a}")},
		"site.css.gz":  {Data: []byte("gzipped")},
		"logo.svg":     {Data: []byte("<svg/>")},
		"img/demo.svg": {Data: []byte("<svg/>")},
	}
}

func TestHandler(t *testing.T) {
	h := Handler("/static", testFS(), Options{CacheControl: "public, max-age=60"})

	tests := []struct {
		name         string
		path         string
		acceptEnc    string
		wantStatus   int
		wantEncoding string
		wantBody     string
	}{
		{"plain", "/static/site.css", "", http.StatusOK, "", "body{color:#0b1f3a}"},
		{"gzip variant", "/static/site.css", "gzip, br;q=0", http.StatusOK, "gzip", "gzipped"},
		{"gzip refused", "/static/site.css", "gzip;q=0", http.StatusOK, "", "body{color:#0b1f3a}"},
		{"no variant", "/static/logo.svg", "gzip", http.StatusOK, "", "<svg/>"},
		{"nested", "/static/img/demo.svg", "", http.StatusOK, "", "<svg/>"},
		{"directory", "/static/img/", "", http.StatusNotFound, "", ""},
		{"root", "/static/", "", http.StatusNotFound, "", ""},
		{"missing", "/static/nope.js", "", http.StatusNotFound, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.acceptEnc != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEnc)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			if got := rec.Header().Get("Content-Encoding"); got != tt.wantEncoding {
				t.Errorf("Content-Encoding = %q, want %q", got, tt.wantEncoding)
			}
			if got := rec.Body.String(); got != tt.wantBody {
				t.Errorf("body = %q, want %q", got, tt.wantBody)
			}
			if got := rec.Header().Get("Cache-Control"); got != "public, max-age=60" {
				t.Errorf("Cache-Control = %q", got)
			}
		})
	}
}

func TestHandler_VariantContentType(t *testing.T) {
	h := Handler("/static", testFS(), Options{})
	req := httptest.NewRequest(http.MethodGet, "/static/site.css", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/css") {
		t.Errorf("Content-Type = %q, want text/css", ct)
	}
}
