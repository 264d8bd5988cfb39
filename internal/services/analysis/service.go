// Package analysis runs the day-over-day reconciliation pipeline: compare the
// current holdings against a stored EOD snapshot, optionally ask the LLM for
// movement hypotheses, render a chart, and notify.
package analysis

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sanketp/holdwatch/internal/common"
	"github.com/sanketp/holdwatch/internal/interfaces"
	"github.com/sanketp/holdwatch/internal/models"
	"github.com/sanketp/holdwatch/internal/reconcile"
)

// Service implements interfaces.AnalysisService. llm and notifier are
// optional; the corresponding CompareOptions flags fail fast when the client
// is missing.
type Service struct {
	holdings interfaces.HoldingsService
	llm      interfaces.LLMClient
	notifier interfaces.Notifier
	policy   models.ThresholdPolicy
	logger   *common.Logger
}

func NewService(holdings interfaces.HoldingsService, llm interfaces.LLMClient, notifier interfaces.Notifier, policy models.ThresholdPolicy, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		holdings: holdings,
		llm:      llm,
		notifier: notifier,
		policy:   policy,
		logger:   logger,
	}
}

// Compare fetches current holdings, loads the reference snapshot, and builds
// the variation report. New positions (in current but not in the reference)
// are listed separately and never enter the report.
func (s *Service) Compare(ctx context.Context, opts interfaces.CompareOptions) (*interfaces.CompareResult, error) {
	if opts.ReferenceDate == "" {
		return nil, fmt.Errorf("reference date is required")
	}
	if opts.Analyze && s.llm == nil {
		return nil, fmt.Errorf("analysis requested but no LLM client configured")
	}
	if opts.Notify && s.notifier == nil {
		return nil, fmt.Errorf("notification requested but no notifier configured")
	}

	current, err := s.holdings.FetchCurrent(ctx)
	if err != nil {
		return nil, err
	}

	reference, err := s.holdings.LoadEOD(ctx, opts.ReferenceDate)
	if err != nil {
		return nil, err
	}

	policy := s.policy
	if opts.MinVariation != nil {
		policy.Default = *opts.MinVariation
	}

	curIdx, err := reconcile.Index(current)
	if err != nil {
		return nil, fmt.Errorf("current snapshot: %w", err)
	}
	refIdx, err := reconcile.Index(reference)
	if err != nil {
		return nil, fmt.Errorf("reference snapshot %s: %w", opts.ReferenceDate, err)
	}

	results, err := reconcile.Classify(curIdx, refIdx, policy)
	if err != nil {
		return nil, err
	}
	report := reconcile.BuildReport(results)

	var newPositions []string
	for id := range curIdx {
		if _, ok := refIdx[id]; !ok {
			newPositions = append(newPositions, id)
		}
	}
	sort.Strings(newPositions)

	result := &interfaces.CompareResult{
		Current:      current,
		Reference:    reference,
		Report:       report,
		NewPositions: newPositions,
	}

	s.logger.Info().
		Str("reference_date", opts.ReferenceDate).
		Float64("threshold", policy.Default).
		Int("variations", report.Count).
		Int("new_positions", len(newPositions)).
		Msg("compared holdings")

	if opts.Analyze && report.Count > 0 {
		analysis, err := s.llm.AnalyzeMovements(ctx, report)
		if err != nil {
			// The report stands on its own; a failed analysis is reported but
			// does not discard it.
			s.logger.Warn().Err(err).Msg("movement analysis failed")
		} else {
			result.Analysis = analysis
		}
	}

	if opts.ChartPath != "" && report.Count > 0 {
		if err := RenderVariationChart(report, opts.ChartPath); err != nil {
			s.logger.Warn().Err(err).Str("path", opts.ChartPath).Msg("chart rendering failed")
		} else {
			s.logger.Info().Str("path", opts.ChartPath).Msg("rendered variation chart")
		}
	}

	if opts.Notify {
		msg := SummaryMessage(report, policy.Default)
		id, err := s.notifier.Notify(ctx, msg)
		if err != nil {
			s.logger.Warn().Err(err).Msg("notification failed")
		} else {
			s.logger.Info().Str("message_id", id).Msg("notification sent")
		}
	}

	return result, nil
}

// SummaryMessage is the one-line notification body for a report.
func SummaryMessage(report *models.VariationReport, threshold float64) string {
	if report.Count == 0 {
		return fmt.Sprintf("No holdings moved more than %.1f%% today", threshold)
	}
	return fmt.Sprintf("Found %d stocks with >%.1f%% price variation", report.Count, threshold)
}

// Watch runs Compare every opts.Interval until the context is canceled or
// MaxRuns comparisons have completed. The first run happens immediately.
func (s *Service) Watch(ctx context.Context, opts interfaces.WatchOptions) error {
	if opts.Interval <= 0 {
		return fmt.Errorf("watch interval must be positive")
	}

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	runs := 0
	for {
		if _, err := s.Compare(ctx, opts.Compare); err != nil {
			s.logger.Error().Err(err).Msg("compare run failed")
		}
		runs++
		if opts.MaxRuns > 0 && runs >= opts.MaxRuns {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

var _ interfaces.AnalysisService = (*Service)(nil)
