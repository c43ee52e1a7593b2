package theme

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

var thTestHexPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// --- Get / Lookup / Names ---

func TestGetDefault(t *testing.T) {
	th := Get("default")
	if th.Name != "default" {
		t.Errorf("Get(\"default\").Name = %q, want %q", th.Name, "default")
	}
	if th.Accent != "#e34234" {
		t.Errorf("Get(\"default\").Accent = %q, want %q", th.Accent, "#e34234")
	}
}

func TestGetIsCaseInsensitive(t *testing.T) {
	th := Get("Sakura")
	if th.Name != "sakura" {
		t.Errorf("Get(\"Sakura\").Name = %q, want %q", th.Name, "sakura")
	}
}

func TestGetUnknownFallsBackToDefault(t *testing.T) {
	th := Get("unknown-theme-xyz")
	if th.Name != "default" {
		t.Errorf("Get(\"unknown\") = %q, want default", th.Name)
	}
	if _, ok := Lookup("unknown-theme-xyz"); ok {
		t.Error("Lookup reported an unknown theme as present")
	}
}

func TestNames(t *testing.T) {
	names := Names()
	expected := []string{"default", "mono", "nord", "sakura", "tokyo-night"}
	if len(names) != len(expected) {
		t.Fatalf("Names() returned %d themes, want %d", len(names), len(expected))
	}
	for i, name := range expected {
		if names[i] != name {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], name)
		}
	}
}

// --- Built-in theme completeness ---

func TestAllThemesValidate(t *testing.T) {
	for _, name := range Names() {
		th := Get(name)
		t.Run(name, func(t *testing.T) {
			if err := thValidateTheme(th); err != nil {
				t.Errorf("builtin theme does not validate: %v", err)
			}
			for i, c := range th.Series {
				if !thTestHexPattern.MatchString(c) {
					t.Errorf("Series[%d] = %q is not valid #RRGGBB", i, c)
				}
			}
		})
	}
}

// --- Helpers ---

func TestSeverity(t *testing.T) {
	th := Default()
	cases := []struct {
		ratio float64
		want  string
	}{
		{0.1, th.Good},
		{0.69, th.Good},
		{0.7, th.Warn},
		{0.89, th.Warn},
		{0.9, th.Crit},
		{1.5, th.Crit},
	}
	for _, tc := range cases {
		if got := th.Severity(tc.ratio); got != tc.want {
			t.Errorf("Severity(%v) = %q, want %q", tc.ratio, got, tc.want)
		}
	}
}

func TestSeriesColorCycles(t *testing.T) {
	th := Default()
	n := len(th.Series)
	if th.SeriesColor(n) != th.Series[0] {
		t.Errorf("SeriesColor(%d) should wrap to Series[0]", n)
	}
	empty := Theme{Accent: "#123456"}
	if empty.SeriesColor(3) != "#123456" {
		t.Error("SeriesColor without series should fall back to Accent")
	}
}

// --- TOML loading ---

const thValidTOML = `
name = "washi"

[base]
foreground = "#f5f0e6"
dim = "#8a8478"
accent = "#c0392b"

[widget]
border = "#444444"
border_focus = "#c0392b"
title = "#ffffff"

[signal]
rising = "#e74c3c"
falling = "#3498db"
good = "#2ecc71"
warn = "#f1c40f"
crit = "#e74c3c"

[chart]
gauge_empty = "#333333"
series = ["#3498db", "#e74c3c"]

[help]
key = "#c0392b"
desc = "#8a8478"
`

func TestLoadFromTOMLValid(t *testing.T) {
	th, err := LoadFromTOML([]byte(thValidTOML))
	if err != nil {
		t.Fatalf("LoadFromTOML: %v", err)
	}
	if th.Name != "washi" {
		t.Errorf("Name = %q, want washi", th.Name)
	}
	if th.Falling != "#3498db" {
		t.Errorf("Falling = %q, want #3498db", th.Falling)
	}
	if len(th.Series) != 2 {
		t.Errorf("len(Series) = %d, want 2", len(th.Series))
	}
}

func TestLoadFromTOMLMissingFieldsError(t *testing.T) {
	_, err := LoadFromTOML([]byte(`name = "partial"` + "\n[base]\nforeground = \"#ffffff\"\n"))
	if err == nil {
		t.Fatal("expected error for incomplete theme")
	}
	if !strings.Contains(err.Error(), "missing required field") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadFromTOMLInvalidHexColor(t *testing.T) {
	bad := strings.Replace(thValidTOML, `accent = "#c0392b"`, `accent = "red"`, 1)
	_, err := LoadFromTOML([]byte(bad))
	if err == nil {
		t.Fatal("expected error for invalid hex color")
	}
	if !strings.Contains(err.Error(), "base.accent") {
		t.Errorf("error should name the field, got %v", err)
	}
}

func TestResolve(t *testing.T) {
	th, err := Resolve("")
	if err != nil || th.Name != "default" {
		t.Errorf("Resolve(\"\") = %q, %v; want default", th.Name, err)
	}

	th, err = Resolve("nord")
	if err != nil || th.Name != "nord" {
		t.Errorf("Resolve(\"nord\") = %q, %v", th.Name, err)
	}

	if _, err := Resolve("no-such-theme"); err == nil {
		t.Error("expected error for unknown theme name")
	}

	path := filepath.Join(t.TempDir(), "washi.toml")
	if err := os.WriteFile(path, []byte(thValidTOML), 0o644); err != nil {
		t.Fatal(err)
	}
	th, err = Resolve(path)
	if err != nil {
		t.Fatalf("Resolve(path): %v", err)
	}
	if th.Name != "washi" {
		t.Errorf("Resolve(path).Name = %q, want washi", th.Name)
	}

	if _, err := Resolve(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing theme file")
	}
}
