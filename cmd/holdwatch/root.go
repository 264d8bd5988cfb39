package main

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sanketp/holdwatch/internal/app"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "holdwatch",
	Short: "Track brokerage holdings and their day-over-day price variation",
	Long: `holdwatch gathers stock holdings from Kite brokerage accounts and from
statement files, stores end-of-day snapshots, and reports which positions
moved more than a configured threshold since a previous day. Significant
moves can be explained by an LLM and delivered over WhatsApp.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default holdwatch.toml)")
}

// newApp wires the application for one command invocation.
func newApp(cmd *cobra.Command) (*app.App, error) {
	return app.New(cmd.Context(), configPath)
}

var dashedDate = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// normalizeDate accepts YYYYMMDD or YYYY-MM-DD and returns YYYYMMDD.
func normalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if m := dashedDate.FindStringSubmatch(s); m != nil {
		s = m[1] + m[2] + m[3]
	}
	if _, err := time.Parse("20060102", s); err != nil {
		return "", fmt.Errorf("invalid date %q (expected YYYYMMDD or YYYY-MM-DD)", s)
	}
	return s, nil
}

func today() string {
	return time.Now().Format("20060102")
}

func yesterday() string {
	return time.Now().AddDate(0, 0, -1).Format("20060102")
}

// withApp runs fn with a wired application and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(cmd.Context(), a)
}
