package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestValidHost(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"example.com", true},
		{"example.com:8443", true},
		{"[::1]:8080", true},
		{"[fe80::1%25eth0]", true},
		{"::1", true},
		{"", false},
		{"example.com:0", false},
		{"example.com:99999", false},
		{"example.com\r\nX-Evil: 1", false},
		{"evil.com/path", false},
		{"user@evil.com", false},
		{"[nothex]:80", false},
		{"[::1", false},
	}
	for _, tt := range tests {
		if got := validHost(tt.host); got != tt.want {
			t.Errorf("validHost(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}
}

func TestRedirectHandler(t *testing.T) {
	h := redirectHandler()

	req := httptest.NewRequest(http.MethodGet, "http://atgs.example/?email=a%40b.co", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("status = %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "https://atgs.example/?email=a%40b.co" {
		t.Errorf("Location = %q", loc)
	}

	req = httptest.NewRequest(http.MethodGet, "http://atgs.example/", nil)
	req.Host = "bad host"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad host status = %d, want 400", rec.Code)
	}
}

func TestCheckTLSFiles(t *testing.T) {
	dir := t.TempDir()
	cert := filepath.Join(dir, "cert.pem")
	key := filepath.Join(dir, "key.pem")
	if err := os.WriteFile(cert, []byte("c"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(key, []byte("k"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := checkTLSFiles(cert, key); err != nil {
		t.Errorf("valid files: %v", err)
	}
	if err := checkTLSFiles(filepath.Join(dir, "missing.pem"), key); err == nil {
		t.Error("missing cert should fail")
	}
	if err := checkTLSFiles(dir, key); err == nil {
		t.Error("directory should fail")
	}
	if runtime.GOOS != "windows" {
		if err := os.Chmod(key, 0o644); err != nil {
			t.Fatal(err)
		}
		if err := checkTLSFiles(cert, key); !errors.Is(err, errInsecureKey) {
			t.Errorf("err = %v, want errInsecureKey", err)
		}
	}
}

func TestServe_GracefulShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv, ln, nil, time.Second, zap.NewNop()) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("body = %q", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
