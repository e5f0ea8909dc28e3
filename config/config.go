// config/config.go
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EnvPrefix is prepended to every environment variable, e.g. LANDING_HTTP_PORT.
const EnvPrefix = "LANDING"

// HTTPConfig groups listener ports and server timeouts.
type HTTPConfig struct {
	HTTPPort  int  `mapstructure:"http_port"`
	HTTPSPort int  `mapstructure:"https_port"`
	UseHTTPS  bool `mapstructure:"use_https"`

	// Parsed by parseDurationFlexible, not by viper.
	ReadTimeout       time.Duration `mapstructure:"-"`
	ReadHeaderTimeout time.Duration `mapstructure:"-"`
	WriteTimeout      time.Duration `mapstructure:"-"`
	IdleTimeout       time.Duration `mapstructure:"-"`
	ShutdownTimeout   time.Duration `mapstructure:"-"`
}

// TLSConfig groups manual certificate and Let's Encrypt (http-01) settings.
type TLSConfig struct {
	CertFile            string `mapstructure:"cert_file"`
	KeyFile             string `mapstructure:"key_file"`
	UseLetsEncrypt      bool   `mapstructure:"use_lets_encrypt"`
	LetsEncryptEmail    string `mapstructure:"lets_encrypt_email"`
	LetsEncryptCacheDir string `mapstructure:"lets_encrypt_cache_dir"`
	Domain              string `mapstructure:"domain"`
}

// CORSConfig applies to the JSON draft endpoint only; the page itself is same-origin.
type CORSConfig struct {
	EnableCORS           bool     `mapstructure:"enable_cors"`
	CORSAllowedOrigins   []string `mapstructure:"cors_allowed_origins"`
	CORSAllowedMethods   []string `mapstructure:"cors_allowed_methods"`
	CORSAllowedHeaders   []string `mapstructure:"cors_allowed_headers"`
	CORSExposedHeaders   []string `mapstructure:"cors_exposed_headers"`
	CORSAllowCredentials bool     `mapstructure:"cors_allow_credentials"`
	CORSMaxAge           int      `mapstructure:"cors_max_age"`
}

// SecurityConfig drives middleware.SecurityHeadersFromConfig.
type SecurityConfig struct {
	EnableSecurityHeaders bool   `mapstructure:"enable_security_headers"`
	XFrameOptions         string `mapstructure:"x_frame_options"`
	XContentTypeOptions   string `mapstructure:"x_content_type_options"`
	ReferrerPolicy        string `mapstructure:"referrer_policy"`
	HSTSMaxAge            int    `mapstructure:"hsts_max_age"`
	HSTSIncludeSubDomains bool   `mapstructure:"hsts_include_subdomains"`
	ContentSecurityPolicy string `mapstructure:"content_security_policy"`
	PermissionsPolicy     string `mapstructure:"permissions_policy"`
}

// CoreConfig is everything the server needs that is not about the site itself.
type CoreConfig struct {
	Env      string `mapstructure:"env"`       // "dev" | "prod"
	LogLevel string `mapstructure:"log_level"` // debug, info, warn, error …

	HTTP     HTTPConfig     `mapstructure:",squash"`
	TLS      TLSConfig      `mapstructure:",squash"`
	CORS     CORSConfig     `mapstructure:",squash"`
	Security SecurityConfig `mapstructure:",squash"`

	MaxRequestBodyBytes int64 `mapstructure:"max_request_body_bytes"`

	EnableCompression bool `mapstructure:"enable_compression"`
	CompressionLevel  int  `mapstructure:"compression_level"`
}

// Dump returns indented JSON of the config, for debug logging.
// Nothing in CoreConfig is secret today; redact here if that changes.
func (c CoreConfig) Dump() string {
	b, _ := json.MarshalIndent(c, "", "  ")
	return string(b)
}

// Load merges defaults → config.* file → env → explicit flags into a CoreConfig
// and the values for appKeys. Highest wins: flags > env > file > defaults.
func Load(logger *zap.Logger, appKeys []AppKey) (*CoreConfig, AppConfigValues, error) {
	if err := godotenv.Load(); err == nil && logger != nil {
		logger.Info("loaded .env file")
	}
	return load(logger, pflag.CommandLine, os.Args[1:], ".", appKeys)
}

// load is Load with its inputs made explicit so tests can drive it.
func load(logger *zap.Logger, fs *pflag.FlagSet, args []string, dir string, appKeys []AppKey) (*CoreConfig, AppConfigValues, error) {
	defineCoreFlags(fs)
	if err := registerAppFlags(fs, appKeys); err != nil {
		return nil, nil, err
	}
	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("parse flags: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, k := range coreKeys() {
		_ = v.BindEnv(k)
	}

	mergeConfigFile(logger, v, dir)
	setDefaults(v)

	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			_ = v.BindPFlag(f.Name, f)
		}
	})

	if err := normalizeListKeys(logger, v,
		"cors_allowed_origins",
		"cors_allowed_methods",
		"cors_allowed_headers",
		"cors_exposed_headers",
	); err != nil {
		return nil, nil, err
	}

	var cfg CoreConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("unable to decode core config: %w", err)
	}
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	cfg.HTTP.ReadTimeout = durationKey(logger, v, "read_timeout", 15*time.Second)
	cfg.HTTP.ReadHeaderTimeout = durationKey(logger, v, "read_header_timeout", 5*time.Second)
	cfg.HTTP.WriteTimeout = durationKey(logger, v, "write_timeout", 30*time.Second)
	cfg.HTTP.IdleTimeout = durationKey(logger, v, "idle_timeout", 120*time.Second)
	cfg.HTTP.ShutdownTimeout = durationKey(logger, v, "shutdown_timeout", 15*time.Second)

	if err := validateCoreConfig(cfg); err != nil {
		return nil, nil, err
	}

	appVals, err := loadAppConfig(logger, v, fs, appKeys)
	if err != nil {
		return nil, nil, err
	}
	return &cfg, appVals, nil
}

// mergeConfigFile loads the first config.{yaml,yml,json,toml} found in dir.
func mergeConfigFile(logger *zap.Logger, v *viper.Viper, dir string) {
	for _, ext := range [...]string{"yaml", "yml", "json", "toml"} {
		file := dir + string(os.PathSeparator) + "config." + ext
		b, err := os.ReadFile(file)
		if err != nil {
			continue
		}
		v.SetConfigType(ext)
		if err := v.MergeConfig(bytes.NewReader(b)); err != nil {
			if logger != nil {
				logger.Warn("cannot decode config file", zap.String("file", file), zap.Error(err))
			}
			continue
		}
		if logger != nil {
			logger.Info("loaded config file", zap.String("file", file))
		}
		return
	}
}

func durationKey(logger *zap.Logger, v *viper.Viper, key string, def time.Duration) time.Duration {
	d, err := parseDurationFlexible(v.Get(key), def)
	if err != nil && logger != nil {
		logger.Warn("invalid duration; using default",
			zap.String("key", key), zap.Any("value", v.Get(key)),
			zap.Duration("default", def), zap.Error(err))
	}
	return d
}

func defineCoreFlags(fs *pflag.FlagSet) {
	fs.String("env", "dev", `Runtime environment "dev"|"prod"`)
	fs.String("log_level", "debug", "Log level")

	fs.Int("http_port", 8080, "HTTP port")
	fs.Int("https_port", 443, "HTTPS port")
	fs.Bool("use_https", false, "Serve HTTPS")
	fs.String("read_timeout", "15s", "HTTP read timeout")
	fs.String("read_header_timeout", "5s", "HTTP read-header timeout")
	fs.String("write_timeout", "30s", "HTTP write timeout")
	fs.String("idle_timeout", "120s", "HTTP keep-alive idle timeout")
	fs.String("shutdown_timeout", "15s", "Graceful shutdown window")

	fs.Bool("use_lets_encrypt", false, "Use Let's Encrypt (http-01)")
	fs.String("lets_encrypt_email", "", "ACME account e-mail")
	fs.String("lets_encrypt_cache_dir", "letsencrypt-cache", "ACME cache dir")
	fs.String("cert_file", "", "TLS cert file (manual TLS)")
	fs.String("key_file", "", "TLS key file (manual TLS)")
	fs.String("domain", "", "Domain for TLS or ACME")

	fs.Bool("enable_cors", false, "Enable CORS on the JSON draft endpoint")
	fs.String("cors_allowed_origins", "", `JSON array of origins, e.g. '["https://a.example"]'`)
	fs.String("cors_allowed_methods", "", `JSON array of methods, e.g. '["POST"]'`)
	fs.String("cors_allowed_headers", "", `JSON array of headers, e.g. '["Content-Type"]'`)
	fs.String("cors_exposed_headers", "", `JSON array of headers`)
	fs.Bool("cors_allow_credentials", false, "CORS: allow credentials")
	fs.Int("cors_max_age", 0, "CORS: max age seconds (0 disables cache)")

	fs.Bool("enable_security_headers", true, "Send security headers")
	fs.String("content_security_policy", defaultCSP, "Content-Security-Policy header")

	fs.Bool("enable_compression", true, "Enable HTTP compression")
	fs.Int("compression_level", 5, "Compression level 1-9")
	fs.Int64("max_request_body_bytes", 64<<10, "Max HTTP request body size in bytes (0 = unlimited)")
}

// defaultCSP allows the page's own assets and inline style attributes (theme
// colours are applied inline) and nothing else.
const defaultCSP = "default-src 'self'; img-src 'self' data:; style-src 'self' 'unsafe-inline'; " +
	"script-src 'self'; form-action 'self' mailto:; frame-ancestors 'self'; base-uri 'self'"

func coreKeys() []string {
	return []string{
		"env", "log_level",
		"http_port", "https_port", "use_https",
		"read_timeout", "read_header_timeout", "write_timeout", "idle_timeout", "shutdown_timeout",
		"use_lets_encrypt", "lets_encrypt_email", "lets_encrypt_cache_dir",
		"cert_file", "key_file", "domain",
		"enable_cors",
		"cors_allowed_origins", "cors_allowed_methods", "cors_allowed_headers",
		"cors_exposed_headers", "cors_allow_credentials", "cors_max_age",
		"enable_security_headers", "x_frame_options", "x_content_type_options",
		"referrer_policy", "hsts_max_age", "hsts_include_subdomains",
		"content_security_policy", "permissions_policy",
		"enable_compression", "compression_level",
		"max_request_body_bytes",
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("log_level", "debug")

	v.SetDefault("http_port", 8080)
	v.SetDefault("https_port", 443)
	v.SetDefault("use_https", false)
	v.SetDefault("read_timeout", "15s")
	v.SetDefault("read_header_timeout", "5s")
	v.SetDefault("write_timeout", "30s")
	v.SetDefault("idle_timeout", "120s")
	v.SetDefault("shutdown_timeout", "15s")

	v.SetDefault("use_lets_encrypt", false)
	v.SetDefault("lets_encrypt_email", "")
	v.SetDefault("lets_encrypt_cache_dir", "letsencrypt-cache")
	v.SetDefault("cert_file", "")
	v.SetDefault("key_file", "")
	v.SetDefault("domain", "")

	v.SetDefault("enable_cors", false)
	v.SetDefault("cors_allowed_origins", []string{})
	v.SetDefault("cors_allowed_methods", []string{})
	v.SetDefault("cors_allowed_headers", []string{})
	v.SetDefault("cors_exposed_headers", []string{})
	v.SetDefault("cors_allow_credentials", false)
	v.SetDefault("cors_max_age", 0)

	v.SetDefault("enable_security_headers", true)
	v.SetDefault("x_frame_options", "SAMEORIGIN")
	v.SetDefault("x_content_type_options", "nosniff")
	v.SetDefault("referrer_policy", "strict-origin-when-cross-origin")
	v.SetDefault("hsts_max_age", 31536000)
	v.SetDefault("hsts_include_subdomains", true)
	v.SetDefault("content_security_policy", defaultCSP)
	v.SetDefault("permissions_policy", "geolocation=(), microphone=(), camera=()")

	v.SetDefault("enable_compression", true)
	v.SetDefault("compression_level", 5)
	v.SetDefault("max_request_body_bytes", int64(64<<10))
}

// normalizeListKeys coerces JSON-string values into []string for the given keys.
func normalizeListKeys(logger *zap.Logger, v *viper.Viper, keys ...string) error {
	for _, key := range keys {
		switch t := v.Get(key).(type) {
		case string:
			s := strings.TrimSpace(t)
			if s == "" {
				v.Set(key, []string{})
				continue
			}
			var arr []string
			if err := json.Unmarshal([]byte(s), &arr); err != nil {
				return fmt.Errorf("config key %q expects a JSON array string, got %q: %w", key, s, err)
			}
			v.Set(key, arr)
		case []interface{}:
			arr := make([]string, 0, len(t))
			for _, e := range t {
				arr = append(arr, fmt.Sprint(e))
			}
			v.Set(key, arr)
		case []string, nil:
		default:
			if logger != nil {
				logger.Warn("unexpected type for list key; expected JSON array/string",
					zap.String("key", key), zap.Any("value", t))
			}
		}
	}
	return nil
}

func validateCoreConfig(cfg CoreConfig) error {
	var missing, invalid []string

	if cfg.Env != "dev" && cfg.Env != "prod" {
		invalid = append(invalid, `env must be "dev" or "prod"`)
	}

	if cfg.TLS.UseLetsEncrypt && !cfg.HTTP.UseHTTPS {
		invalid = append(invalid, "use_lets_encrypt=true requires use_https=true")
	}
	if cfg.TLS.UseLetsEncrypt && (strings.TrimSpace(cfg.TLS.CertFile) != "" || strings.TrimSpace(cfg.TLS.KeyFile) != "") {
		invalid = append(invalid, "use_lets_encrypt=true cannot be combined with cert_file/key_file")
	}
	if cfg.TLS.UseLetsEncrypt {
		if strings.TrimSpace(cfg.TLS.Domain) == "" {
			missing = append(missing, "LANDING_DOMAIN (or --domain) for Let's Encrypt")
		}
		if strings.TrimSpace(cfg.TLS.LetsEncryptEmail) == "" {
			missing = append(missing, "LANDING_LETS_ENCRYPT_EMAIL (or --lets_encrypt_email)")
		} else if !strings.Contains(cfg.TLS.LetsEncryptEmail, "@") {
			invalid = append(invalid, "lets_encrypt_email must look like an email address")
		}
	}
	if cfg.HTTP.UseHTTPS && !cfg.TLS.UseLetsEncrypt {
		if strings.TrimSpace(cfg.TLS.CertFile) == "" || strings.TrimSpace(cfg.TLS.KeyFile) == "" {
			missing = append(missing, "LANDING_CERT_FILE and LANDING_KEY_FILE (or --cert_file/--key_file) for manual TLS")
		}
	}

	if cfg.HTTP.HTTPPort <= 0 || cfg.HTTP.HTTPPort > 65535 {
		invalid = append(invalid, "http_port must be in 1..65535")
	}
	if cfg.HTTP.HTTPSPort <= 0 || cfg.HTTP.HTTPSPort > 65535 {
		invalid = append(invalid, "https_port must be in 1..65535")
	}
	if cfg.HTTP.UseHTTPS {
		if cfg.HTTP.HTTPPort == cfg.HTTP.HTTPSPort {
			invalid = append(invalid, "http_port and https_port cannot be equal when use_https=true")
		}
		if cfg.HTTP.HTTPSPort == 80 {
			invalid = append(invalid, "https_port cannot be 80; port 80 is used by the ACME/redirect server")
		}
	}

	if cfg.CORS.EnableCORS {
		if len(cfg.CORS.CORSAllowedOrigins) == 0 {
			missing = append(missing, "CORS: cors_allowed_origins (JSON array) required when enable_cors=true")
		}
		if len(cfg.CORS.CORSAllowedMethods) == 0 {
			missing = append(missing, "CORS: cors_allowed_methods (JSON array) required when enable_cors=true")
		}
		for _, o := range cfg.CORS.CORSAllowedOrigins {
			if o == "*" && cfg.CORS.CORSAllowCredentials {
				invalid = append(invalid, `CORS: cannot use "*" in cors_allowed_origins when cors_allow_credentials=true`)
				break
			}
		}
		if cfg.CORS.CORSMaxAge < 0 {
			invalid = append(invalid, "CORS: cors_max_age must be >= 0")
		}
	}

	if cfg.EnableCompression && (cfg.CompressionLevel < 1 || cfg.CompressionLevel > 9) {
		invalid = append(invalid, "compression_level must be in 1..9")
	}
	if cfg.MaxRequestBodyBytes < 0 {
		invalid = append(invalid, "max_request_body_bytes must be >= 0")
	}

	if len(missing) == 0 && len(invalid) == 0 {
		return nil
	}
	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing: "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		parts = append(parts, "invalid: "+strings.Join(invalid, ", "))
	}
	return fmt.Errorf("core configuration errors: %s", strings.Join(parts, " | "))
}
