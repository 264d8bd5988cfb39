// Package reconcile implements the holdings reconciliation engine: indexing a
// snapshot by instrument identity, merging duplicate positions across
// accounts, classifying day-over-day price variation against a threshold
// policy, and building the variation report. Every stage is a pure function
// over in-memory data; failures are typed and immediate, and nothing here
// retries or prints.
package reconcile

import (
	"github.com/sanketp/holdwatch/internal/models"
)

// Index builds a lookup from instrument identity to holding. A snapshot must
// be aggregated before indexing: encountering a duplicate identity fails with
// DuplicateInstrumentError rather than silently overwriting.
func Index(snap *models.Snapshot) (map[string]models.Holding, error) {
	idx := make(map[string]models.Holding, len(snap.Holdings))
	for i, h := range snap.Holdings {
		if h.IsMalformed() {
			return nil, &models.MalformedHoldingError{Index: i}
		}
		id := h.InstrumentID()
		if _, exists := idx[id]; exists {
			return nil, &models.DuplicateInstrumentError{InstrumentID: id}
		}
		idx[id] = h
	}
	return idx, nil
}
