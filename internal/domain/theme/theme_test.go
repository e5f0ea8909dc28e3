package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPreset(t *testing.T) {
	for _, name := range Presets() {
		th, err := Preset(name)
		if err != nil {
			t.Fatalf("Preset(%q): %v", name, err)
		}
		if err := th.Validate(); err != nil {
			t.Errorf("preset %q invalid: %v", name, err)
		}
		if th.Name != "ATGS Software Services" {
			t.Errorf("preset %q Name = %q", name, th.Name)
		}
	}

	def, err := Preset("")
	if err != nil {
		t.Fatal(err)
	}
	if def != Default() {
		t.Errorf("empty preset should resolve to the default theme")
	}

	teal, _ := Preset("  Calm-Teal ")
	if teal.Primary != "#14b8a6" || teal.Accent != "#f59e0b" {
		t.Errorf("calm-teal = %+v", teal)
	}

	if _, err := Preset("neon"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestOverlay(t *testing.T) {
	doc := []byte("name: Example Ltd\naccent: \"#ff0000\"\n")
	th, err := Overlay(Default(), doc)
	if err != nil {
		t.Fatal(err)
	}
	if th.Name != "Example Ltd" || th.Accent != "#ff0000" {
		t.Errorf("overlay not applied: %+v", th)
	}
	if th.Primary != Default().Primary {
		t.Errorf("untouched field changed: %q", th.Primary)
	}
	if Default().Name != "ATGS Software Services" {
		t.Error("overlay mutated the default theme")
	}

	if _, err := Overlay(Default(), []byte("acent: \"#ff0000\"\n")); err == nil {
		t.Error("expected error for unknown key")
	}

	same, err := Overlay(Default(), nil)
	if err != nil || same != Default() {
		t.Errorf("empty overlay = %+v, %v", same, err)
	}
}

func TestResolve_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "theme.yaml")
	if err := os.WriteFile(path, []byte("tagline: Hello\nprimary: \"#123456\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	th, err := Resolve("sunset-pop", path)
	if err != nil {
		t.Fatal(err)
	}
	if th.Tagline != "Hello" || th.Primary != "#123456" {
		t.Errorf("file not applied: %+v", th)
	}
	if th.Accent != "#a78bfa" {
		t.Errorf("preset lost: accent = %q", th.Accent)
	}

	if _, err := Resolve("", filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	th := Default()
	th.Primary = "#abc"
	th.Name = " "
	err := th.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"name must not be empty", "primary must be #rrggbb"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestTint(t *testing.T) {
	if got := Tint("#0ea5e9", "22"); got != "#0ea5e922" {
		t.Errorf("Tint = %q", got)
	}
}
