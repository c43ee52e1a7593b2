package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"gitlab.com/tinyland/lab/debt-pulse/pkg/app"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/banner"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/collectors/fxrate"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/collectors/news"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/collectors/quake"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/collectors/weather"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/config"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/dataset"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/snapshot"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/terminal"
	"gitlab.com/tinyland/lab/debt-pulse/pkg/widgets"
)

var snapshotOpts struct {
	format  string
	width   int
	noColor bool
	offline bool
	cache   bool
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Fetch every source once and print the dashboard",
	Long: `snapshot renders the dashboard a single time and exits. It suits shell
startup banners and scripts: text draws the widget grid, table lists each
widget's values, json and yaml emit a structured report.

With --cache a text frame is reused for 30 seconds, so counters in a cached
frame may lag by up to that long.`,
	Example: `  debt-pulse snapshot --width 120
  debt-pulse snapshot --format json --offline`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSnapshot(cmd)
	},
}

func init() {
	f := snapshotCmd.Flags()
	f.StringVarP(&snapshotOpts.format, "format", "f", "text", "output format: text, table, json or yaml")
	f.IntVarP(&snapshotOpts.width, "width", "w", 0, "frame width in cells (0 = terminal width)")
	f.BoolVar(&snapshotOpts.noColor, "no-color", false, "disable colors")
	f.BoolVar(&snapshotOpts.offline, "offline", false, "skip network sources")
	f.BoolVar(&snapshotOpts.cache, "cache", false, "reuse a recent text frame")
}

func runSnapshot(cmd *cobra.Command) error {
	format, err := snapshot.ParseFormat(snapshotOpts.format)
	if err != nil {
		return err
	}

	cfg, th, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.General.LogLevel)

	out := cmd.OutOrStdout()
	lipgloss.SetColorProfile(terminal.Profile(os.Stdout, snapshotOpts.noColor))

	width := snapshotOpts.width
	if width <= 0 {
		width = terminal.DetectCapabilities().Size.Cols
	}

	data, err := dataset.Load()
	if err != nil {
		return err
	}
	ws, err := buildWidgets(cfg, widgets.Env{Data: data, Theme: th, Manual: true})
	if err != nil {
		return err
	}

	take := func(ctx context.Context) (*snapshot.Snapshot, error) {
		opts := snapshot.Options{
			Offline: snapshotOpts.offline,
			Skipped: enabledFeeds(cfg),
			Region:  cfg.Location.DefaultRegion,
			Data:    data,
			Theme:   th,
			Logger:  logger,
		}
		if opts.Offline {
			return snapshot.Take(ctx, ws, nil, opts)
		}
		reg, err := buildRegistry(cfg, data, logger)
		if err != nil {
			return nil, err
		}
		return snapshot.Take(ctx, ws, reg, opts)
	}

	if format == snapshot.FormatText && snapshotOpts.cache {
		return writeCachedFrame(cmd, ws, th.Name, width, take)
	}

	s, err := take(cmd.Context())
	if err != nil {
		return err
	}
	return s.Write(out, format, width)
}

// writeCachedFrame serves a text frame from the frame cache, taking a new
// snapshot only on a miss.
func writeCachedFrame(cmd *cobra.Command, ws []app.Widget, themeName string, width int,
	take func(context.Context) (*snapshot.Snapshot, error)) error {
	dir, err := cacheDir()
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(ws))
	for _, w := range ws {
		ids = append(ids, w.ID())
	}
	key := banner.CacheKey(strings.Join(ids, ","), strconv.Itoa(width), themeName,
		string(snapshot.FormatText), strconv.FormatBool(snapshotOpts.offline))

	var takeErr error
	frame, err := banner.RenderCached(dir, key, banner.DefaultCacheTTL, func() string {
		s, err := take(cmd.Context())
		if err != nil {
			takeErr = err
			return ""
		}
		return s.Frame(width)
	})
	if takeErr != nil {
		return takeErr
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: frame cache: %v\n", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), frame)
	return err
}

func cacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "debt-pulse", "frames")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	_ = banner.CleanStaleCache(dir, 10*banner.DefaultCacheTTL)
	return dir, nil
}

// enabledFeeds names the periodic network sources switched on in cfg.
func enabledFeeds(cfg *config.Config) []string {
	var names []string
	f := cfg.Fetchers
	for _, s := range []struct {
		name string
		on   bool
	}{
		{weather.Name, f.Weather.Enabled},
		{fxrate.Name, f.FX.Enabled},
		{quake.Name, f.Quakes.Enabled},
		{news.Name, f.News.Enabled},
	} {
		if s.on {
			names = append(names, s.name)
		}
	}
	return names
}
