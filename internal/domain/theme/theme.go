// Package theme holds the brand palette and copy that the landing page is
// rendered from.
//
// A Theme is a plain value. It is resolved once at startup (preset, then an
// optional YAML override) and passed by value into the presentation layer, so
// no request can change what another request sees.
package theme

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Theme is the set of named brand attributes the page reads.
type Theme struct {
	Name        string `yaml:"name"`
	Tagline     string `yaml:"tagline"`
	Primary     string `yaml:"primary"`
	PrimaryDark string `yaml:"primary_dark"`
	Foreground  string `yaml:"foreground"`
	Background  string `yaml:"background"`
	Surface     string `yaml:"surface"`
	Text        string `yaml:"text"`
	Accent      string `yaml:"accent"`
}

// DefaultPreset is the preset used when none is configured.
const DefaultPreset = "atgs"

var brand = Theme{
	Name:        "ATGS Software Services",
	Tagline:     "Custom software, cloud, and AI solutions—delivered fast.",
	Primary:     "#0ea5e9",
	PrimaryDark: "#0284c7",
	Foreground:  "#0b1220",
	Background:  "#0a0f1c",
	Surface:     "#0f172a",
	Text:        "#e5e7eb",
	Accent:      "#34d399",
}

// presets only swap colours; name and tagline come from the brand.
var presets = map[string]Theme{
	DefaultPreset: brand,
	"minimal-mono": brand.with(Theme{
		Primary: "#1f2937", PrimaryDark: "#111827",
		Background: "#0b0b0c", Surface: "#151515",
		Text: "#e5e7eb", Accent: "#9ca3af",
	}),
	"sunset-pop": brand.with(Theme{
		Primary: "#f97316", PrimaryDark: "#ea580c",
		Background: "#0b1220", Surface: "#111827",
		Text: "#f9fafb", Accent: "#a78bfa",
	}),
	"calm-teal": brand.with(Theme{
		Primary: "#14b8a6", PrimaryDark: "#0d9488",
		Background: "#071a1c", Surface: "#0b2a2e",
		Text: "#e6fffb", Accent: "#f59e0b",
	}),
}

// Presets returns the known preset names, sorted.
func Presets() []string {
	out := make([]string, 0, len(presets))
	for k := range presets {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Preset returns a copy of the named preset.
func Preset(name string) (Theme, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultPreset
	}
	t, ok := presets[key]
	if !ok {
		return Theme{}, fmt.Errorf("theme: unknown preset %q (known: %s)", name, strings.Join(Presets(), ", "))
	}
	return t, nil
}

// Default returns the brand theme.
func Default() Theme { return brand }

// Resolve picks preset and, if path is not empty, overlays the YAML file at
// path. The result is validated before it is returned.
func Resolve(preset, path string) (Theme, error) {
	t, err := Preset(preset)
	if err != nil {
		return Theme{}, err
	}
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Theme{}, fmt.Errorf("theme: read %s: %w", path, err)
		}
		t, err = Overlay(t, b)
		if err != nil {
			return Theme{}, fmt.Errorf("theme: %s: %w", path, err)
		}
	}
	if err := t.Validate(); err != nil {
		return Theme{}, err
	}
	return t, nil
}

// Overlay decodes YAML and copies every non-empty field onto base.
// Unknown keys are rejected so a typo does not silently do nothing.
func Overlay(base Theme, doc []byte) (Theme, error) {
	var o Theme
	dec := yaml.NewDecoder(bytes.NewReader(doc))
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil {
		if len(bytes.TrimSpace(doc)) == 0 {
			return base, nil
		}
		return Theme{}, fmt.Errorf("decode yaml: %w", err)
	}
	return base.with(o), nil
}

func (t Theme) with(o Theme) Theme {
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&t.Name, o.Name)
	set(&t.Tagline, o.Tagline)
	set(&t.Primary, o.Primary)
	set(&t.PrimaryDark, o.PrimaryDark)
	set(&t.Foreground, o.Foreground)
	set(&t.Background, o.Background)
	set(&t.Surface, o.Surface)
	set(&t.Text, o.Text)
	set(&t.Accent, o.Accent)
	return t
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate requires a name and #rrggbb colours. The page appends two hex
// digits of alpha to some colours, so shorter forms are not accepted.
func (t Theme) Validate() error {
	var invalid []string
	if strings.TrimSpace(t.Name) == "" {
		invalid = append(invalid, "name must not be empty")
	}
	colours := []struct{ key, val string }{
		{"primary", t.Primary},
		{"primary_dark", t.PrimaryDark},
		{"foreground", t.Foreground},
		{"background", t.Background},
		{"surface", t.Surface},
		{"text", t.Text},
		{"accent", t.Accent},
	}
	for _, c := range colours {
		if !hexColor.MatchString(c.val) {
			invalid = append(invalid, fmt.Sprintf("%s must be #rrggbb, got %q", c.key, c.val))
		}
	}
	if len(invalid) > 0 {
		return fmt.Errorf("theme: invalid: %s", strings.Join(invalid, ", "))
	}
	return nil
}

// Tint appends a two-digit hex alpha to a #rrggbb colour, e.g. Tint("#0ea5e9", "22").
func Tint(colour, alpha string) string {
	return colour + alpha
}
