package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"quakemap/internal/config"
	"quakemap/internal/feed"
	"quakemap/internal/tui"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgPath string

	root := &cobra.Command{
		Use:           "quakemap",
		Short:         "Terminal map of recent earthquakes and tectonic plate boundaries",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, cfgPath)
			if err != nil {
				return err
			}
			// The alt screen owns the terminal; log only to a file.
			if cfg.Log.File != "" {
				if err := config.InitLogger(cfg.Log); err != nil {
					return err
				}
			} else {
				zap.ReplaceGlobals(zap.NewNop())
			}
			defer zap.L().Sync() //nolint:errcheck

			m := tui.New(tui.Options{
				Loader:    newClient(cfg),
				QuakesSrc: cfg.Feed.Quakes,
				PlatesSrc: cfg.Feed.Plates,
				Scale:     cfg.ScaleOptions(),
				CenterLon: cfg.Map.CenterLon,
				CenterLat: cfg.Map.CenterLat,
				Zoom:      cfg.Map.Zoom,
				Timeout:   fetchTimeout(cfg),
			})
			if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run(); err != nil {
				return eris.Wrap(err, "run tui")
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "config file (default ./quakemap.yaml)")
	pf.String("quakes", "", "earthquake feed URL or local .geojson/.csv path")
	pf.String("plates", "", "plate boundary feed URL or local path")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("log-file", "", "write logs to this file")
	_ = v.BindPFlag("feed.quakes", pf.Lookup("quakes"))
	_ = v.BindPFlag("feed.plates", pf.Lookup("plates"))
	_ = v.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = v.BindPFlag("log.file", pf.Lookup("log-file"))

	root.AddCommand(newStatsCmd(v, &cfgPath))
	return root
}

func loadConfig(v *viper.Viper, path string) (*config.Config, error) {
	cfg, err := config.LoadWith(v, path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newClient(cfg *config.Config) *feed.Client {
	return feed.NewClient(feed.Options{
		UserAgent:     cfg.Feed.UserAgent,
		Timeout:       time.Duration(cfg.Feed.TimeoutSecs) * time.Second,
		MaxRetries:    cfg.Feed.MaxRetries,
		RatePerSecond: cfg.Feed.RatePerSec,
	})
}

// fetchTimeout leaves room for every retry of one feed request.
func fetchTimeout(cfg *config.Config) time.Duration {
	per := time.Duration(cfg.Feed.TimeoutSecs) * time.Second
	return per*time.Duration(max(1, cfg.Feed.MaxRetries)) + 30*time.Second
}
