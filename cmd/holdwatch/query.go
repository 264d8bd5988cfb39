package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sanketp/holdwatch/internal/app"
	"github.com/sanketp/holdwatch/internal/interfaces"
)

var (
	querySource  string
	querySymbol  string
	querySector  string
	queryLimit   int
	querySummary bool
	queryImports bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query imported holdings from the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if queryImports {
				return printImports(ctx, a)
			}
			if querySummary {
				return printSectorSummary(ctx, a)
			}

			holdings, err := a.Holdings.Query(ctx, interfaces.HoldingsQuery{
				SourceFile: querySource,
				Symbol:     querySymbol,
				Sector:     querySector,
				Limit:      queryLimit,
			})
			if err != nil {
				return err
			}
			if len(holdings) == 0 {
				fmt.Println("No holdings found.")
				return nil
			}

			fmt.Printf("%-12s %-32s %-16s %10s %10s %12s\n",
				"SYMBOL", "COMPANY", "SECTOR", "QTY", "PRICE", "VALUE")
			fmt.Println(strings.Repeat("-", 97))
			total := 0.0
			for _, h := range holdings {
				name := h.CompanyName
				if len(name) > 32 {
					name = name[:29] + "..."
				}
				sector := h.Sector
				if len(sector) > 16 {
					sector = sector[:13] + "..."
				}
				fmt.Printf("%-12s %-32s %-16s %10.2f %10.2f %12.2f\n",
					h.Symbol, name, sector, h.QuantityOrZero(), h.PriceOrZero(), h.ValueOrZero())
				total += h.ValueOrZero()
			}
			fmt.Printf("\n%d holdings, total value %.2f\n", len(holdings), total)
			return nil
		})
	},
}

func printSectorSummary(ctx context.Context, a *app.App) error {
	summaries, err := a.Storage.HoldingsDB().SectorBreakdown(ctx, querySource)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("No holdings found.")
		return nil
	}

	fmt.Printf("%-24s %8s %14s\n", "SECTOR", "COUNT", "VALUE")
	fmt.Println(strings.Repeat("-", 48))
	for _, s := range summaries {
		fmt.Printf("%-24s %8d %14.2f\n", s.Sector, s.Count, s.TotalValue)
	}
	return nil
}

func printImports(ctx context.Context, a *app.App) error {
	sessions, err := a.Storage.HoldingsDB().ListImports(ctx)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("No imports found.")
		return nil
	}

	fmt.Printf("%-38s %-40s %8s %14s %-20s\n", "ID", "SOURCE", "COUNT", "VALUE", "IMPORTED")
	fmt.Println(strings.Repeat("-", 124))
	for _, s := range sessions {
		source := s.SourceFile
		if len(source) > 40 {
			source = "..." + source[len(source)-37:]
		}
		fmt.Printf("%-38s %-40s %8d %14.2f %-20s\n",
			s.ID, source, s.TotalHoldings, s.TotalValue, s.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func init() {
	queryCmd.Flags().StringVar(&querySource, "source", "", "filter by source file")
	queryCmd.Flags().StringVar(&querySymbol, "symbol", "", "filter by trading symbol")
	queryCmd.Flags().StringVar(&querySector, "sector", "", "filter by sector")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 0, "maximum rows to return")
	queryCmd.Flags().BoolVar(&querySummary, "summary", false, "show the sector breakdown instead of rows")
	queryCmd.Flags().BoolVar(&queryImports, "imports", false, "list import sessions instead of rows")
	rootCmd.AddCommand(queryCmd)
}
