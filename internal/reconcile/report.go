package reconcile

import (
	"github.com/sanketp/holdwatch/internal/models"
)

// BuildReport aggregates classified results into a report: count, total
// current value of the included positions (absent values counted as zero),
// and the results themselves. Pure aggregation; classification decisions are
// never revisited here.
func BuildReport(results []models.VariationResult) *models.VariationReport {
	total := 0.0
	for _, r := range results {
		total += r.ValueOrZero()
	}
	return &models.VariationReport{
		Count:      len(results),
		TotalValue: total,
		Results:    results,
	}
}

// Reconcile runs the full pipeline over two snapshots: index both, classify
// against the policy, build the report. Either the full report is returned or
// the first typed error; partial results are never produced.
func Reconcile(current, reference *models.Snapshot, policy models.ThresholdPolicy) (*models.VariationReport, error) {
	curIdx, err := Index(current)
	if err != nil {
		return nil, err
	}
	refIdx, err := Index(reference)
	if err != nil {
		return nil, err
	}
	results, err := Classify(curIdx, refIdx, policy)
	if err != nil {
		return nil, err
	}
	return BuildReport(results), nil
}
