package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"

	"gitlab.com/tinyland/lab/debt-pulse/pkg/theme"
)

// Config is the full settings file.
type Config struct {
	General  GeneralConfig  `toml:"general"`
	Location LocationConfig `toml:"location"`
	Fetchers FetchersConfig `toml:"fetchers"`
	Display  DisplayConfig  `toml:"display"`
}

type GeneralConfig struct {
	LogLevel string `toml:"log_level" validate:"oneof=debug info warn error"`
	// LogFile receives logs while the TUI owns the terminal.
	LogFile string `toml:"log_file"`
	// Theme is a built-in theme name or the path of a theme TOML file.
	Theme string `toml:"theme" validate:"required,theme"`
}

// LocationConfig places the weather lookup and names the region used when
// geolocation fails.
type LocationConfig struct {
	Latitude      float64 `toml:"latitude" validate:"gte=-90,lte=90"`
	Longitude     float64 `toml:"longitude" validate:"gte=-180,lte=180"`
	DefaultRegion string  `toml:"default_region"`
}

// FetcherConfig switches one periodic source on or off.
type FetcherConfig struct {
	Enabled  bool     `toml:"enabled"`
	Interval Duration `toml:"interval" validate:"gt=0"`
}

type FetchersConfig struct {
	UserAgent string        `toml:"user_agent"`
	Weather   FetcherConfig `toml:"weather"`
	FX        FetcherConfig `toml:"fx"`
	Quakes    FetcherConfig `toml:"quakes"`
	News      FetcherConfig `toml:"news"`
	// Geo runs once at startup, so it has no interval.
	Geo struct {
		Enabled bool `toml:"enabled"`
	} `toml:"geo"`
}

type DisplayConfig struct {
	// Rotate lets multi-view widgets cycle on their own. When false they
	// change view only on key or mouse input.
	Rotate bool `toml:"rotate"`
	// Preset selects the widget set; see Preset.
	Preset string `toml:"preset" validate:"preset"`
}

// DefaultConfig returns the settings used when no file exists.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	cfg := &Config{
		General: GeneralConfig{
			LogLevel: "info",
			LogFile:  filepath.Join(xdgDir("XDG_CACHE_HOME", filepath.Join(home, ".cache")), "debt-pulse", "debt-pulse.log"),
			Theme:    "default",
		},
		Location: LocationConfig{
			Latitude:      35.6895,
			Longitude:     139.6917,
			DefaultRegion: "Tokyo",
		},
		Fetchers: FetchersConfig{
			UserAgent: "debt-pulse",
			Weather:   FetcherConfig{Enabled: true, Interval: Duration{30 * time.Minute}},
			FX:        FetcherConfig{Enabled: true, Interval: Duration{time.Hour}},
			Quakes:    FetcherConfig{Enabled: true, Interval: Duration{5 * time.Minute}},
			News:      FetcherConfig{Enabled: true, Interval: Duration{time.Hour}},
		},
		Display: DisplayConfig{
			Rotate: true,
			Preset: PresetFull,
		},
	}
	cfg.Fetchers.Geo.Enabled = true
	return cfg
}

// Disabled returns the IDs of widgets whose source is switched off.
func (c *Config) Disabled() []string {
	sources := []struct {
		id string
		on bool
	}{
		{"region", c.Fetchers.Geo.Enabled},
		{"weather", c.Fetchers.Weather.Enabled},
		{"fx", c.Fetchers.FX.Enabled},
		{"quakes", c.Fetchers.Quakes.Enabled},
		{"news", c.Fetchers.News.Enabled},
	}
	var out []string
	for _, s := range sources {
		if !s.on {
			out = append(out, s.id)
		}
	}
	return out
}

// Theme resolves General.Theme.
func (c *Config) Theme() (theme.Theme, error) {
	return theme.Resolve(c.General.Theme)
}

// envOverrides are read with envconfig; unset variables leave the file's
// value alone.
type envOverrides struct {
	Theme         *string  `envconfig:"DEBTPULSE_THEME"`
	LogLevel      *string  `envconfig:"DEBTPULSE_LOG_LEVEL"`
	Latitude      *float64 `envconfig:"DEBTPULSE_LATITUDE"`
	Longitude     *float64 `envconfig:"DEBTPULSE_LONGITUDE"`
	DefaultRegion *string  `envconfig:"DEBTPULSE_DEFAULT_REGION"`
}

func applyEnvOverrides(cfg *Config) error {
	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return fmt.Errorf("environment overrides: %w", err)
	}
	if env.Theme != nil {
		cfg.General.Theme = *env.Theme
	}
	if env.LogLevel != nil {
		cfg.General.LogLevel = *env.LogLevel
	}
	if env.Latitude != nil {
		cfg.Location.Latitude = *env.Latitude
	}
	if env.Longitude != nil {
		cfg.Location.Longitude = *env.Longitude
	}
	if env.DefaultRegion != nil {
		cfg.Location.DefaultRegion = *env.DefaultRegion
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(f reflect.Value) interface{} {
		return int64(f.Interface().(Duration).Duration)
	}, Duration{})
	mustRegister(v, "theme", func(fl validator.FieldLevel) bool {
		_, err := theme.Resolve(fl.Field().String())
		return err == nil
	})
	mustRegister(v, "preset", func(fl validator.FieldLevel) bool {
		_, ok := presets[fl.Field().String()]
		return ok
	})
	return v
}

// mustRegister panics on a bad tag name or nil func; both are programming
// errors caught at init.
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("config: register %q validation: %v", tag, err))
	}
}

// Validate checks ranges, names and intervals. Only enabled fetchers need a
// positive interval.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		for _, fe := range verrs {
			if fe.Tag() == "gt" && !fetcherEnabled(cfg, fe.StructNamespace()) {
				continue
			}
			return fmt.Errorf("config: %s fails %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
	}
	return nil
}

func fetcherEnabled(cfg *Config, ns string) bool {
	switch ns {
	case "Config.Fetchers.Weather.Interval":
		return cfg.Fetchers.Weather.Enabled
	case "Config.Fetchers.FX.Interval":
		return cfg.Fetchers.FX.Enabled
	case "Config.Fetchers.Quakes.Interval":
		return cfg.Fetchers.Quakes.Enabled
	case "Config.Fetchers.News.Interval":
		return cfg.Fetchers.News.Enabled
	}
	return true
}
