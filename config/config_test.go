package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func loadForTest(t *testing.T, args []string, dir string, keys []AppKey) (*CoreConfig, AppConfigValues, error) {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	return load(nil, fs, args, dir, keys)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, _, err := loadForTest(t, nil, "", nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Env != "dev" || cfg.HTTP.HTTPPort != 8080 {
		t.Errorf("defaults not applied: env=%q port=%d", cfg.Env, cfg.HTTP.HTTPPort)
	}
	if cfg.HTTP.ShutdownTimeout != 15*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.HTTP.ShutdownTimeout)
	}
	if !cfg.Security.EnableSecurityHeaders || cfg.Security.ContentSecurityPolicy == "" {
		t.Errorf("security defaults missing: %+v", cfg.Security)
	}
	if cfg.CompressionLevel != 5 {
		t.Errorf("CompressionLevel = %d", cfg.CompressionLevel)
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("http_port: 9000\nlog_level: warn\nsite_name: From File\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LANDING_LOG_LEVEL", "error")

	keys := []AppKey{
		{Name: "site_name", Default: "Default Site", Desc: "site"},
		{Name: "show_pricing", Default: false, Desc: "pricing"},
		{Name: "extra_origins", Default: []string{}, Desc: "origins"},
	}
	cfg, app, err := loadForTest(t, []string{"--http_port=9100", "--show_pricing", `--extra_origins=["a","b"]`}, dir, keys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.HTTP.HTTPPort != 9100 {
		t.Errorf("flag should beat file: port = %d", cfg.HTTP.HTTPPort)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("env should beat file: log_level = %q", cfg.LogLevel)
	}
	if got := app.String("site_name"); got != "From File" {
		t.Errorf("site_name = %q", got)
	}
	if !app.Bool("show_pricing") {
		t.Error("show_pricing flag not applied")
	}
	if got := strings.Join(app.StringSlice("extra_origins"), ","); got != "a,b" {
		t.Errorf("extra_origins = %q", got)
	}
}

func TestLoad_AppKeyConflict(t *testing.T) {
	_, _, err := loadForTest(t, nil, "", []AppKey{{Name: "http_port", Default: 1}})
	if err == nil || !strings.Contains(err.Error(), "conflicts") {
		t.Errorf("err = %v, want conflict", err)
	}
}

func TestLoad_CORSListFromEnv(t *testing.T) {
	t.Setenv("LANDING_ENABLE_CORS", "true")
	t.Setenv("LANDING_CORS_ALLOWED_ORIGINS", `["https://a.example"]`)
	t.Setenv("LANDING_CORS_ALLOWED_METHODS", `["POST"]`)

	cfg, _, err := loadForTest(t, nil, "", nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.CORS.CORSAllowedOrigins) != 1 || cfg.CORS.CORSAllowedOrigins[0] != "https://a.example" {
		t.Errorf("origins = %v", cfg.CORS.CORSAllowedOrigins)
	}
}

func validConfig() CoreConfig {
	return CoreConfig{
		Env:              "dev",
		HTTP:             HTTPConfig{HTTPPort: 8080, HTTPSPort: 443},
		CompressionLevel: 5,
	}
}

func TestValidateCoreConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *CoreConfig)
		wantErr string
	}{
		{"valid", func(c *CoreConfig) {}, ""},
		{"bad env", func(c *CoreConfig) { c.Env = "staging" }, "env must be"},
		{"bad port", func(c *CoreConfig) { c.HTTP.HTTPPort = 70000 }, "http_port must be in 1..65535"},
		{"acme without https", func(c *CoreConfig) {
			c.TLS.UseLetsEncrypt = true
			c.TLS.Domain = "example.com"
			c.TLS.LetsEncryptEmail = "ops@example.com"
		}, "requires use_https=true"},
		{"acme missing domain", func(c *CoreConfig) {
			c.HTTP.UseHTTPS = true
			c.TLS.UseLetsEncrypt = true
			c.TLS.LetsEncryptEmail = "ops@example.com"
		}, "LANDING_DOMAIN"},
		{"manual tls missing files", func(c *CoreConfig) { c.HTTP.UseHTTPS = true }, "LANDING_CERT_FILE"},
		{"https on 80", func(c *CoreConfig) {
			c.HTTP.UseHTTPS = true
			c.HTTP.HTTPSPort = 80
			c.TLS.CertFile, c.TLS.KeyFile = "c.pem", "k.pem"
		}, "https_port cannot be 80"},
		{"cors wildcard with credentials", func(c *CoreConfig) {
			c.CORS.EnableCORS = true
			c.CORS.CORSAllowedOrigins = []string{"*"}
			c.CORS.CORSAllowedMethods = []string{"POST"}
			c.CORS.CORSAllowCredentials = true
		}, `cannot use "*"`},
		{"compression level", func(c *CoreConfig) {
			c.EnableCompression = true
			c.CompressionLevel = 12
		}, "compression_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)
			err := validateCoreConfig(c)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseDurationFlexible(t *testing.T) {
	def := 7 * time.Second
	tests := []struct {
		raw     any
		want    time.Duration
		wantErr bool
	}{
		{"90s", 90 * time.Second, false},
		{"2m", 2 * time.Minute, false},
		{"120", 120 * time.Second, false},
		{"", def, false},
		{"soon", def, true},
		{"-1s", def, true},
		{30, 30 * time.Second, false},
		{int64(0), def, true},
		{1.5, 1500 * time.Millisecond, false},
		{3 * time.Second, 3 * time.Second, false},
		{nil, def, false},
		{true, def, false},
	}
	for _, tt := range tests {
		got, err := parseDurationFlexible(tt.raw, def)
		if got != tt.want || (err != nil) != tt.wantErr {
			t.Errorf("parseDurationFlexible(%v) = %v, %v; want %v, err=%v", tt.raw, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestAppConfigValues(t *testing.T) {
	a := AppConfigValues{
		"s":   "x",
		"i":   int64(4),
		"b":   true,
		"ss":  []string{"a"},
		"dur": "90s",
	}
	if a.String("s") != "x" || a.String("missing") != "" {
		t.Error("String")
	}
	if a.Int("i") != 4 {
		t.Error("Int should accept int64")
	}
	if !a.Bool("b") || a.Bool("s") {
		t.Error("Bool")
	}
	if len(a.StringSlice("ss")) != 1 || a.StringSlice("s") != nil {
		t.Error("StringSlice")
	}
	if a.Duration("dur", time.Second) != 90*time.Second || a.Duration("nope", time.Second) != time.Second {
		t.Error("Duration")
	}
}
