package models

import (
	"fmt"
)

// DuplicateInstrumentError signals that indexing encountered two holdings
// with the same identity. Aggregation is the only sanctioned way to merge
// duplicates, so this is always fatal to the run.
type DuplicateInstrumentError struct {
	InstrumentID string
}

func (e *DuplicateInstrumentError) Error() string {
	return fmt.Sprintf("duplicate instrument '%s' in snapshot: aggregate before indexing", e.InstrumentID)
}

// InvalidThresholdError signals a negative or non-finite threshold value.
// An empty InstrumentID means the default threshold was invalid.
type InvalidThresholdError struct {
	InstrumentID string
	Value        float64
}

func (e *InvalidThresholdError) Error() string {
	if e.InstrumentID == "" {
		return fmt.Sprintf("invalid default threshold %v: must be finite and >= 0", e.Value)
	}
	return fmt.Sprintf("invalid threshold %v for '%s': must be finite and >= 0", e.Value, e.InstrumentID)
}

// MalformedHoldingError signals a holding record lacking both an identity and
// every numeric field. Index is the record's position in the input list.
type MalformedHoldingError struct {
	Index int
}

func (e *MalformedHoldingError) Error() string {
	return fmt.Sprintf("malformed holding at index %d: no identity and no numeric fields", e.Index)
}
