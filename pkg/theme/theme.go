// Package theme holds the color palettes used by the dashboard. Colors are
// hex strings; rendering goes through lipgloss so the active color profile
// decides how much of the palette survives.
package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

// Theme defines the complete color palette for the dashboard.
type Theme struct {
	Name string

	// Base colors
	Foreground string
	Dim        string
	Accent     string

	// Widget chrome
	Border      string
	BorderFocus string
	Title       string

	// Direction of a counter. Rising is used for figures that grow
	// against the viewer (debt, vacant houses), Falling for shrinking ones
	// (population, workers).
	Rising  string
	Falling string

	// Severity scale for gauges and ratios
	Good string
	Warn string
	Crit string

	GaugeEmpty string

	// Series colors for bar charts, in order of use.
	Series []string

	HelpKey  string
	HelpDesc string
}

var (
	mu       sync.RWMutex
	registry = map[string]Theme{}
)

func init() {
	thRegisterBuiltins()
}

// Get is Lookup with Default for unknown names.
func Get(name string) Theme {
	t, ok := Lookup(name)
	if !ok {
		return Default()
	}
	return t
}

// Lookup returns a named theme and whether it exists.
func Lookup(name string) (Theme, bool) {
	mu.RLock()
	defer mu.RUnlock()
	t, ok := registry[strings.ToLower(name)]
	return t, ok
}

// Default is the palette used when nothing is configured.
func Default() Theme {
	return thDefaultTheme()
}

// Names returns all available theme names sorted alphabetically.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := lo.Keys(registry)
	slices.Sort(names)
	return names
}

// Resolve turns a config value into a theme. Values ending in ".toml" are
// read from disk; anything else must name a registered theme.
func Resolve(nameOrPath string) (Theme, error) {
	if nameOrPath == "" {
		return Default(), nil
	}
	if strings.EqualFold(filepath.Ext(nameOrPath), ".toml") {
		return LoadFile(nameOrPath)
	}
	t, ok := Lookup(nameOrPath)
	if !ok {
		return Theme{}, fmt.Errorf("theme: unknown theme %q (available: %s)", nameOrPath, strings.Join(Names(), ", "))
	}
	return t, nil
}

// LoadFile reads a TOML theme definition from path.
func LoadFile(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("theme: read %s: %w", path, err)
	}
	return LoadFromTOML(data)
}

// Fg returns a foreground style for hex.
func (t Theme) Fg(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

// Severity picks Good, Warn or Crit for a ratio in [0,1].
// Thresholds: >=0.9 critical, >=0.7 warning.
func (t Theme) Severity(ratio float64) string {
	switch {
	case ratio >= 0.9:
		return t.Crit
	case ratio >= 0.7:
		return t.Warn
	default:
		return t.Good
	}
}

// SeriesColor returns the i-th series color, cycling.
func (t Theme) SeriesColor(i int) string {
	if len(t.Series) == 0 {
		return t.Accent
	}
	return t.Series[i%len(t.Series)]
}

// thRegister adds a theme to the registry under its lowercase name.
func thRegister(t Theme) {
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(t.Name)] = t
}
