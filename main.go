// debt-pulse is a terminal dashboard of Japan's public debt and demographic
// decline. Counters tick in real time from fixed projections; weather, the
// yen, earthquakes and business news are polled from public APIs.
//
// Usage:
//
//	debt-pulse [flags]
//	debt-pulse snapshot [--format text|table|json|yaml] [--width N]
//	debt-pulse version
//
// Configuration is read from $XDG_CONFIG_HOME/debt-pulse/config.toml unless
// --config names another file. A .env file in the working directory is
// loaded first, so DEBTPULSE_* overrides may live there.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"

	"gitlab.com/tinyland/lab/debt-pulse/pkg/app"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/collectors"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/collectors/fxrate"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/collectors/geo"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/collectors/news"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/collectors/quake"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/collectors/weather"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/config"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/dataset"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/theme"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/widgets"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

var (
	configPath string
	themeFlag  string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "debt-pulse",
	Short: "Real-time dashboard of Japan's debt and demographics",
	Long: `debt-pulse shows Japan's national debt, population and public finances as
live counters, alongside demographic charts and feeds for weather, the yen,
earthquakes and business news.

Run without arguments to start the interactive dashboard.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runDashboard(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "debt-pulse %s (%s) built %s\n", version, commit, date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.toml (default: XDG search)")
	rootCmd.PersistentFlags().StringVar(&themeFlag, "theme", "", "theme name or theme .toml path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(versionCmd, snapshotCmd)
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: .env: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies the flags that override it.
func loadConfig() (*config.Config, theme.Theme, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, theme.Theme{}, fmt.Errorf("load config: %w", err)
	}
	if themeFlag != "" {
		cfg.General.Theme = themeFlag
	}
	th, err := cfg.Theme()
	if err != nil {
		return nil, theme.Theme{}, err
	}
	if cfg.Fetchers.UserAgent != "" {
		collectors.UserAgent = cfg.Fetchers.UserAgent + "/" + version
	}
	return cfg, th, nil
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// newLogger builds the process logger. The configured level applies unless
// --verbose forces debug.
func newLogger(w io.Writer, level string) *slog.Logger {
	l := parseLevel(level)
	if verbose {
		l = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}

// openLogFile opens path for appending, creating its directory.
func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

// buildRegistry registers a collector for every enabled source.
func buildRegistry(cfg *config.Config, data *dataset.Data, logger *slog.Logger) (*collectors.Registry, error) {
	reg := collectors.NewRegistry()
	f := cfg.Fetchers

	var cs []collectors.Collector
	if f.Geo.Enabled {
		cs = append(cs, geo.New(
			geo.WithDataset(data),
			geo.WithDefaultRegion(cfg.Location.DefaultRegion),
			geo.WithLogger(logger),
		))
	}
	if f.Weather.Enabled {
		cs = append(cs, weather.New(
			weather.WithLocation(cfg.Location.Latitude, cfg.Location.Longitude),
			weather.WithInterval(f.Weather.Interval.Duration),
		))
	}
	if f.FX.Enabled {
		cs = append(cs, fxrate.New(fxrate.WithInterval(f.FX.Interval.Duration)))
	}
	if f.Quakes.Enabled {
		cs = append(cs, quake.New(quake.WithInterval(f.Quakes.Interval.Duration)))
	}
	if f.News.Enabled {
		cs = append(cs, news.New(news.WithInterval(f.News.Interval.Duration)))
	}

	for _, c := range cs {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// buildWidgets assembles the dashboard for cfg's preset.
func buildWidgets(cfg *config.Config, env widgets.Env) ([]app.Widget, error) {
	ids, ok := config.Preset(cfg.Display.Preset)
	if !ok {
		return nil, fmt.Errorf("unknown preset %q (want one of %s)",
			cfg.Display.Preset, strings.Join(config.PresetNames(), ", "))
	}
	env.Manual = !cfg.Display.Rotate
	return widgets.Select(widgets.Dashboard(env, cfg.Disabled()...), ids), nil
}

func runDashboard(ctx context.Context) error {
	cfg, th, err := loadConfig()
	if err != nil {
		return err
	}

	logFile, err := openLogFile(cfg.General.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := newLogger(logFile, cfg.General.LogLevel)
	slog.SetDefault(logger)

	data, err := dataset.Load()
	if err != nil {
		return err
	}

	reg, err := buildRegistry(cfg, data, logger)
	if err != nil {
		return err
	}

	zones := zone.New()
	defer zones.Close()

	ws, err := buildWidgets(cfg, widgets.Env{Data: data, Theme: th, Zones: zones})
	if err != nil {
		return err
	}

	updates := make(chan collectors.Update, collectors.DefaultUpdateBufferSize)
	runner := collectors.NewRunner(reg, updates).WithLogger(logger)
	if err := runner.Start(ctx); err != nil {
		return fmt.Errorf("start collectors: %w", err)
	}
	defer func() {
		runner.Stop()
		close(updates)
	}()

	logger.Info("dashboard starting",
		"version", version,
		"widgets", len(ws),
		"sources", reg.List(),
		"theme", th.Name,
	)

	model := app.NewAppModel(app.Config{
		Updates: updates,
		Zones:   zones,
		Theme:   th,
		OnQuit:  runner.Stop,
	}, ws...)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("dashboard exited", "error", err)
		return err
	}
	logger.Info("dashboard stopped", "health", runner.Health())
	return nil
}
