// config/appconfig.go
package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// AppKey declares one site-level setting. It is loaded with the same
// precedence as the core keys and exposed as a flag, an env var
// (LANDING_<NAME>) and a config file key.
type AppKey struct {
	Name string
	// Default also fixes the type: string, int, int64, bool or []string.
	Default any
	Desc    string
}

// AppConfigValues holds loaded app settings by AppKey.Name.
type AppConfigValues map[string]any

// String returns a string value or "" if not found/wrong type.
func (a AppConfigValues) String(key string) string {
	if v, ok := a[key].(string); ok {
		return v
	}
	return ""
}

// Int handles both int and int64 since file decoders differ.
func (a AppConfigValues) Int(key string) int {
	switch v := a[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

// Bool returns a bool value or false if not found/wrong type.
func (a AppConfigValues) Bool(key string) bool {
	if v, ok := a[key].(bool); ok {
		return v
	}
	return false
}

// StringSlice returns a []string value or nil if not found/wrong type.
func (a AppConfigValues) StringSlice(key string) []string {
	if v, ok := a[key].([]string); ok {
		return v
	}
	return nil
}

// Duration accepts "10m", "90s", plain seconds (600 or "600"), and returns
// def when the key is missing or unparseable.
func (a AppConfigValues) Duration(key string, def time.Duration) time.Duration {
	raw := a[key]
	if raw == nil {
		return def
	}
	d, err := parseDurationFlexible(raw, def)
	if err != nil {
		return def
	}
	return d
}

// registerAppFlags must run before the flag set is parsed.
func registerAppFlags(fs *pflag.FlagSet, keys []AppKey) error {
	for _, key := range keys {
		if fs.Lookup(key.Name) != nil {
			return fmt.Errorf("config key %q conflicts with existing flag", key.Name)
		}
		switch d := key.Default.(type) {
		case string:
			fs.String(key.Name, d, key.Desc)
		case int:
			fs.Int(key.Name, d, key.Desc)
		case int64:
			fs.Int64(key.Name, d, key.Desc)
		case bool:
			fs.Bool(key.Name, d, key.Desc)
		case []string:
			fs.String(key.Name, "", key.Desc+" (JSON array)")
		default:
			return fmt.Errorf("config key %q has unsupported default type %T", key.Name, key.Default)
		}
	}
	return nil
}

// loadAppConfig resolves each key against v, which already carries the
// config file and env prefix, then against explicitly set flags.
func loadAppConfig(logger *zap.Logger, v *viper.Viper, fs *pflag.FlagSet, keys []AppKey) (AppConfigValues, error) {
	out := make(AppConfigValues, len(keys))
	for _, key := range keys {
		v.SetDefault(key.Name, key.Default)
		_ = v.BindEnv(key.Name)
		if f := fs.Lookup(key.Name); f != nil && f.Changed {
			_ = v.BindPFlag(key.Name, f)
		}

		val, err := coerce(key, v)
		if err != nil {
			return nil, err
		}
		out[key.Name] = val
	}

	if logger != nil {
		fields := make([]zap.Field, 0, len(keys))
		for _, key := range keys {
			if isSecretName(key.Name) {
				fields = append(fields, zap.String(key.Name, "[REDACTED]"))
				continue
			}
			fields = append(fields, zap.Any(key.Name, out[key.Name]))
		}
		logger.Info("app config loaded", fields...)
	}
	return out, nil
}

// coerce converts env/flag strings to the type implied by the key's default.
func coerce(key AppKey, v *viper.Viper) (any, error) {
	switch key.Default.(type) {
	case string:
		return v.GetString(key.Name), nil
	case int:
		return v.GetInt(key.Name), nil
	case int64:
		return v.GetInt64(key.Name), nil
	case bool:
		return v.GetBool(key.Name), nil
	case []string:
		switch t := v.Get(key.Name).(type) {
		case string:
			s := strings.TrimSpace(t)
			if s == "" {
				return []string{}, nil
			}
			var arr []string
			if err := json.Unmarshal([]byte(s), &arr); err != nil {
				return nil, fmt.Errorf("config key %q expects a JSON array string, got %q: %w", key.Name, s, err)
			}
			return arr, nil
		default:
			return v.GetStringSlice(key.Name), nil
		}
	}
	return v.Get(key.Name), nil
}

func isSecretName(name string) bool {
	n := strings.ToLower(name)
	for _, s := range []string{"key", "secret", "password", "token"} {
		if strings.Contains(n, s) {
			return true
		}
	}
	return false
}
