package main

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"quakemap/internal/classify"
	"quakemap/internal/config"
	"quakemap/internal/geodata"
	"quakemap/internal/tui"
)

func newStatsCmd(v *viper.Viper, cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the depth scale, legend and outliers of the earthquake feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, *cfgPath)
			if err != nil {
				return err
			}
			if err := config.InitLogger(cfg.Log); err != nil {
				return err
			}
			defer zap.L().Sync() //nolint:errcheck

			ctx, cancel := context.WithTimeout(cmd.Context(), fetchTimeout(cfg))
			defer cancel()
			return runStats(ctx, cmd.OutOrStdout(), newClient(cfg), cfg)
		},
	}
}

func runStats(ctx context.Context, w io.Writer, loader tui.Loader, cfg *config.Config) error {
	quakes, _, err := loader.Quakes(ctx, cfg.Feed.Quakes)
	if err != nil {
		return err
	}
	depths := geodata.Depths(quakes)
	scale, err := classify.Build(depths, cfg.ScaleOptions())
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "source:     %s\n", cfg.Feed.Quakes)
	fmt.Fprintf(w, "events:     %d\n", len(quakes))
	fmt.Fprintf(w, "thresholds: %v\n", scale.Thresholds)
	fmt.Fprintf(w, "colors:     %v\n", scale.HexColors())

	counts := make([]int, len(scale.Colors))
	for _, d := range depths {
		counts[classify.ColorIndex(d, scale.Thresholds)]++
	}
	fmt.Fprintln(w, "depth legend:")
	for i, e := range scale.Legend() {
		fmt.Fprintf(w, "  %s  %-12s %d\n", e.Color, e.Label, counts[i])
	}

	missing := 0
	minR, maxR := math.Inf(1), math.Inf(-1)
	for _, q := range quakes {
		if !q.HasMag() {
			missing++
		}
		r := classify.RadiusForMagnitude(q.Mag)
		minR = math.Min(minR, r)
		maxR = math.Max(maxR, r)
	}
	fmt.Fprintf(w, "radius:     %g-%g (missing magnitude: %d)\n", minR, maxR, missing)
	fmt.Fprintf(w, "depth outliers:     %v\n", classify.FindOutliers(depths))
	fmt.Fprintf(w, "magnitude outliers: %v\n", classify.FindOutliers(geodata.Magnitudes(quakes)))
	return nil
}
