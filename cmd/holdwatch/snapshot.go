package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sanketp/holdwatch/internal/app"
)

var (
	snapshotDate string
	snapshotList bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Fetch current holdings and save an end-of-day snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		if snapshotList {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				dates, err := a.Storage.SnapshotStore().List(ctx)
				if err != nil {
					return err
				}
				if len(dates) == 0 {
					fmt.Println("No snapshots stored.")
					return nil
				}
				for _, d := range dates {
					fmt.Println(d)
				}
				return nil
			})
		}

		date := snapshotDate
		if date == "" {
			date = today()
		}
		normalized, err := normalizeDate(date)
		if err != nil {
			return err
		}

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			snap, err := a.Holdings.FetchCurrent(ctx)
			if err != nil {
				return err
			}

			path, err := a.Holdings.SaveEOD(ctx, snap, normalized)
			if err != nil {
				return err
			}

			fmt.Printf("Saved %d holdings (total value %.2f) to %s\n",
				snap.TotalHoldings, snap.TotalValue, path)
			return nil
		})
	},
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotDate, "date", "", "snapshot date label (default today)")
	snapshotCmd.Flags().BoolVar(&snapshotList, "list", false, "list stored snapshot dates")
	rootCmd.AddCommand(snapshotCmd)
}
