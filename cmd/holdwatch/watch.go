package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sanketp/holdwatch/internal/app"
	"github.com/sanketp/holdwatch/internal/interfaces"
	"github.com/sanketp/holdwatch/internal/models"
)

var (
	watchDate     string
	watchMinVar   float64
	watchNotify   bool
	watchInterval time.Duration
	watchMaxRuns  int
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Periodically compare holdings against a snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		date := watchDate
		if date == "" {
			date = yesterday()
		}
		normalized, err := normalizeDate(date)
		if err != nil {
			return err
		}

		opts := interfaces.WatchOptions{
			Compare: interfaces.CompareOptions{
				ReferenceDate: normalized,
				Notify:        watchNotify,
			},
			Interval: watchInterval,
			MaxRuns:  watchMaxRuns,
		}
		if cmd.Flags().Changed("min-variation") {
			opts.Compare.MinVariation = models.Float64Ptr(watchMinVar)
		}

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			err := a.Analysis.Watch(ctx, opts)
			if err == context.Canceled {
				a.Logger.Info().Msg("watch stopped")
				return nil
			}
			return err
		})
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchDate, "date", "", "reference snapshot date (default yesterday)")
	watchCmd.Flags().Float64Var(&watchMinVar, "min-variation", 0, "minimum variation percent (overrides config)")
	watchCmd.Flags().BoolVar(&watchNotify, "notify", false, "send each summary over WhatsApp")
	watchCmd.Flags().DurationVar(&watchInterval, "every", 15*time.Minute, "interval between comparisons")
	watchCmd.Flags().IntVar(&watchMaxRuns, "max-runs", 0, "stop after this many comparisons (0 = run until interrupted)")
	rootCmd.AddCommand(watchCmd)
}
