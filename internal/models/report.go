package models

import (
	"math"
)

// Direction labels which way a price moved between two snapshots.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// VariationResult is produced for an instrument present in both snapshots
// whose price change satisfied the threshold. It carries the holding's
// current-snapshot fields plus the comparison outcome. Ephemeral: it exists
// only within one reconciliation run.
type VariationResult struct {
	Holding
	ReferencePrice   float64   `json:"reference_price"`
	VariationPercent float64   `json:"variation_percent"`
	Direction        Direction `json:"direction"`
}

// VariationReport aggregates classified results: count, total current value
// of the included positions (absent values counted as zero), and the results
// themselves.
type VariationReport struct {
	Count      int               `json:"count"`
	TotalValue float64           `json:"total_value"`
	Results    []VariationResult `json:"results"`
}

// ThresholdPolicy maps instrument identity to the minimum absolute
// percentage-change magnitude required for inclusion, with a default
// catch-all. Immutable configuration supplied per run.
type ThresholdPolicy struct {
	Default   float64
	Overrides map[string]float64
}

// ThresholdFor returns the applicable threshold for an instrument: the
// per-instrument override when present, else the default.
func (p ThresholdPolicy) ThresholdFor(instrumentID string) float64 {
	if t, ok := p.Overrides[instrumentID]; ok {
		return t
	}
	return p.Default
}

// Validate rejects negative or non-finite thresholds before any
// classification runs.
func (p ThresholdPolicy) Validate() error {
	if !validThreshold(p.Default) {
		return &InvalidThresholdError{Value: p.Default}
	}
	for id, t := range p.Overrides {
		if !validThreshold(t) {
			return &InvalidThresholdError{InstrumentID: id, Value: t}
		}
	}
	return nil
}

func validThreshold(t float64) bool {
	return t >= 0 && !math.IsNaN(t) && !math.IsInf(t, 0)
}
