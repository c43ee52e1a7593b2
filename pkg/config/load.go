package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/samber/lo"
)

// Load reads the first config file found on the search path:
//  1. $XDG_CONFIG_HOME/debt-pulse/config.toml
//  2. ~/.config/debt-pulse/config.toml
//
// Without a file it returns DefaultConfig with environment overrides.
func Load() (*Config, error) {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	return defaults()
}

// LoadFromFile reads configuration from path. A missing file yields the
// defaults.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaults()
		}
		return nil, err
	}
	defer f.Close()
	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes TOML over the defaults, so a file only needs the
// keys it changes.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("decode config: unknown key %q", undecoded[0].String())
	}
	if err := finish(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() (*Config, error) {
	cfg := DefaultConfig()
	if err := finish(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// finish applies DEBTPULSE_* overrides, then validates.
func finish(cfg *Config) error {
	if err := applyEnvOverrides(cfg); err != nil {
		return err
	}
	return Validate(cfg)
}

func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	fallback := filepath.Join(home, ".config")
	dirs := []string{xdgDir("XDG_CONFIG_HOME", fallback)}
	if dirs[0] != fallback {
		dirs = append(dirs, fallback)
	}
	return lo.Map(dirs, func(d string, _ int) string {
		return filepath.Join(d, "debt-pulse", "config.toml")
	})
}

// xdgDir returns the directory named by env, or fallback when it is unset.
func xdgDir(env, fallback string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	return fallback
}
