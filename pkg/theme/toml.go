package theme

import (
	"fmt"
	"regexp"

	"github.com/BurntSushi/toml"
)

// themeFile mirrors the sections of a theme .toml file.
type themeFile struct {
	Name string `toml:"name"`
	Base struct {
		Foreground string `toml:"foreground"`
		Dim        string `toml:"dim"`
		Accent     string `toml:"accent"`
	} `toml:"base"`
	Widget struct {
		Border      string `toml:"border"`
		BorderFocus string `toml:"border_focus"`
		Title       string `toml:"title"`
	} `toml:"widget"`
	Signal struct {
		Rising  string `toml:"rising"`
		Falling string `toml:"falling"`
		Good    string `toml:"good"`
		Warn    string `toml:"warn"`
		Crit    string `toml:"crit"`
	} `toml:"signal"`
	Chart struct {
		GaugeEmpty string   `toml:"gauge_empty"`
		Series     []string `toml:"series"`
	} `toml:"chart"`
	Help struct {
		Key  string `toml:"key"`
		Desc string `toml:"desc"`
	} `toml:"help"`
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// LoadFromTOML parses and validates a theme file.
func LoadFromTOML(data []byte) (Theme, error) {
	var f themeFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return Theme{}, fmt.Errorf("theme: parse TOML: %w", err)
	}
	t := Theme{
		Name:        f.Name,
		Foreground:  f.Base.Foreground,
		Dim:         f.Base.Dim,
		Accent:      f.Base.Accent,
		Border:      f.Widget.Border,
		BorderFocus: f.Widget.BorderFocus,
		Title:       f.Widget.Title,
		Rising:      f.Signal.Rising,
		Falling:     f.Signal.Falling,
		Good:        f.Signal.Good,
		Warn:        f.Signal.Warn,
		Crit:        f.Signal.Crit,
		GaugeEmpty:  f.Chart.GaugeEmpty,
		Series:      f.Chart.Series,
		HelpKey:     f.Help.Key,
		HelpDesc:    f.Help.Desc,
	}
	if err := thValidateTheme(t); err != nil {
		return Theme{}, err
	}
	return t, nil
}

// palette lists every single-color slot under its file key.
func (t Theme) palette() [][2]string {
	return [][2]string{
		{"base.foreground", t.Foreground}, {"base.dim", t.Dim}, {"base.accent", t.Accent},
		{"widget.border", t.Border}, {"widget.border_focus", t.BorderFocus}, {"widget.title", t.Title},
		{"signal.rising", t.Rising}, {"signal.falling", t.Falling},
		{"signal.good", t.Good}, {"signal.warn", t.Warn}, {"signal.crit", t.Crit},
		{"chart.gauge_empty", t.GaugeEmpty},
		{"help.key", t.HelpKey}, {"help.desc", t.HelpDesc},
	}
}

func thValidateTheme(t Theme) error {
	missing := func(key string) error { return fmt.Errorf("theme: missing required field %q", key) }
	if t.Name == "" {
		return missing("name")
	}
	for _, kv := range t.palette() {
		switch {
		case kv[1] == "":
			return missing(kv[0])
		case !hexColor.MatchString(kv[1]):
			return fmt.Errorf("theme: %s: invalid color %q, want #RRGGBB", kv[0], kv[1])
		}
	}
	if len(t.Series) == 0 {
		return missing("chart.series")
	}
	for i, c := range t.Series {
		if !hexColor.MatchString(c) {
			return fmt.Errorf("theme: chart.series[%d]: invalid color %q, want #RRGGBB", i, c)
		}
	}
	return nil
}
