package models

import (
	"time"
)

// Snapshot is an immutable point-in-time collection of holdings plus
// provenance and total value. The JSON layout is the literal on-disk format
// of an EOD snapshot file (eod_holdings_YYYYMMDD.json).
type Snapshot struct {
	Date          string    `json:"date,omitempty"` // YYYYMMDD label when persisted
	SourceFile    string    `json:"source_file"`    // provenance: "Kite API (n accounts)" or a file path
	ParseDate     time.Time `json:"parse_date"`
	TotalValue    float64   `json:"total_value"`
	TotalHoldings int       `json:"total_holdings"`
	Holdings      []Holding `json:"holdings"`
}

// NewSnapshot builds a snapshot from holdings, computing the total value with
// absent values treated as zero. The snapshot is not mutated after this.
func NewSnapshot(holdings []Holding, source string) *Snapshot {
	total := 0.0
	for _, h := range holdings {
		if v, ok := h.EffectiveValue(); ok {
			total += v
		}
	}
	return &Snapshot{
		SourceFile:    source,
		ParseDate:     time.Now(),
		TotalValue:    total,
		TotalHoldings: len(holdings),
		Holdings:      holdings,
	}
}
