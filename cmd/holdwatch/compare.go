package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sanketp/holdwatch/internal/app"
	"github.com/sanketp/holdwatch/internal/interfaces"
	"github.com/sanketp/holdwatch/internal/models"
)

var (
	compareDate    string
	compareMinVar  float64
	compareAnalyze bool
	compareNotify  bool
	compareChart   string
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare current holdings against a stored snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		date := compareDate
		if date == "" {
			date = yesterday()
		}
		normalized, err := normalizeDate(date)
		if err != nil {
			return err
		}

		opts := interfaces.CompareOptions{
			ReferenceDate: normalized,
			Analyze:       compareAnalyze,
			Notify:        compareNotify,
			ChartPath:     compareChart,
		}
		if cmd.Flags().Changed("min-variation") {
			opts.MinVariation = models.Float64Ptr(compareMinVar)
		}

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			result, err := a.Analysis.Compare(ctx, opts)
			if err != nil {
				return err
			}
			printCompareResult(result, normalized)
			return nil
		})
	},
}

func init() {
	compareCmd.Flags().StringVar(&compareDate, "date", "", "reference snapshot date (default yesterday)")
	compareCmd.Flags().Float64Var(&compareMinVar, "min-variation", 0, "minimum variation percent (overrides config)")
	compareCmd.Flags().BoolVar(&compareAnalyze, "analyze", false, "ask the LLM to explain the movements")
	compareCmd.Flags().BoolVar(&compareNotify, "notify", false, "send the summary over WhatsApp")
	compareCmd.Flags().StringVar(&compareChart, "chart", "", "write a variation bar chart PNG to this path")
	rootCmd.AddCommand(compareCmd)
}

func printCompareResult(result *interfaces.CompareResult, referenceDate string) {
	report := result.Report

	fmt.Printf("Compared %d current holdings against snapshot %s\n",
		result.Current.TotalHoldings, referenceDate)

	if report.Count == 0 {
		fmt.Println("No significant price variations found.")
	} else {
		fmt.Printf("\n%d holdings with significant variation (value %.2f):\n\n",
			report.Count, report.TotalValue)
		printVariationTable(report.Results)
	}

	if len(result.NewPositions) > 0 {
		fmt.Printf("\nNew positions (not in %s): %s\n",
			referenceDate, strings.Join(result.NewPositions, ", "))
	}

	if result.Analysis != nil {
		printAnalysis(result.Analysis)
	}
}

func printVariationTable(results []models.VariationResult) {
	fmt.Printf("%-12s %-32s %10s %10s %8s %5s\n",
		"SYMBOL", "COMPANY", "PREV", "CURRENT", "CHANGE", "DIR")
	fmt.Println(strings.Repeat("-", 82))
	for _, r := range results {
		name := r.CompanyName
		if name == "" {
			name = r.Symbol
		}
		if len(name) > 32 {
			name = name[:29] + "..."
		}
		arrow := "▼"
		if r.Direction == models.DirectionUp {
			arrow = "▲"
		}
		fmt.Printf("%-12s %-32s %10.2f %10.2f %+7.2f%% %5s\n",
			r.Symbol, name, r.ReferencePrice, r.PriceOrZero(), r.VariationPercent, arrow)
	}
}

func printAnalysis(analysis *models.MovementAnalysis) {
	fmt.Printf("\nMovement analysis (confidence %.0f%%):\n", analysis.OverallConfidence*100)
	for i, h := range analysis.Hypotheses {
		fmt.Printf("  %d. %s (%.0f%%", i+1, h.Description, h.ConfidenceScore*100)
		if h.Source != "" {
			fmt.Printf(", %s", h.Source)
		}
		fmt.Println(")")
	}
	if analysis.NeedsFollowUp && analysis.FollowUpQuestion != "" {
		fmt.Printf("Follow-up: %s\n", analysis.FollowUpQuestion)
	}
}
