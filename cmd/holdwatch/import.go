package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sanketp/holdwatch/internal/app"
)

var importCmd = &cobra.Command{
	Use:   "import <statement-file>",
	Short: "Import a CSV or PDF holdings statement into the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			session, err := a.Holdings.ImportStatement(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Imported %d holdings (total value %.2f) from %s\n",
				session.TotalHoldings, session.TotalValue, session.SourceFile)
			fmt.Printf("Import session: %s\n", session.ID)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
