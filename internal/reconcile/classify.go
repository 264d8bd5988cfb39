package reconcile

import (
	"sort"

	"github.com/sanketp/holdwatch/internal/models"
)

// Classify computes the percentage price change between two indexed snapshots
// per instrument and keeps those whose absolute change meets the applicable
// threshold (inclusive boundary). Instruments absent from the reference are
// new positions, not variations, and are skipped. A reference price that is
// absent, zero, or negative is skipped as well: no meaningful percentage
// exists for it. Inputs are not mutated; results are ordered by instrument
// identity so a run is deterministic.
func Classify(current, reference map[string]models.Holding, policy models.ThresholdPolicy) ([]models.VariationResult, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(current))
	for id := range current {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var results []models.VariationResult
	for _, id := range ids {
		cur := current[id]

		ref, held := reference[id]
		if !held {
			continue
		}
		refPrice := ref.PriceOrZero()
		if refPrice <= 0 {
			continue
		}

		pct := (cur.PriceOrZero() - refPrice) / refPrice * 100
		threshold := policy.ThresholdFor(id)
		if abs(pct) < threshold {
			continue
		}

		// Exactly 0% counts as "down"; callers needing a tri-state check
		// the percentage themselves.
		direction := models.DirectionDown
		if pct > 0 {
			direction = models.DirectionUp
		}

		results = append(results, models.VariationResult{
			Holding:          cur,
			ReferencePrice:   refPrice,
			VariationPercent: pct,
			Direction:        direction,
		})
	}

	return results, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
