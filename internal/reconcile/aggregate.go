package reconcile

import (
	"github.com/sanketp/holdwatch/internal/models"
)

// accumulator carries the running state for one instrument while merging.
// Weighted-average price is kept as a running weighted sum divided by a
// running weight so the merged outcome is the same whatever order the
// contributing records arrive in.
type accumulator struct {
	merged   models.Holding
	count    int
	qtySum   float64
	hasQty   bool
	valSum   float64
	hasVal   bool
	priceSum float64 // sum of price_i * qty_i over contributors with a price
	weight   float64 // sum of qty_i over contributors with a price
	anyPrice *float64
}

// Aggregate merges duplicate positions for the same instrument (e.g. one per
// brokerage account) into one record per identity. Quantities and values are
// summed (absent value counts as zero), price becomes the quantity-weighted
// average of contributing prices, the timestamp is the most recent one, and
// descriptive metadata keeps the first non-absent value. Output preserves
// first-seen order; a duplicate-free input comes back unchanged.
func Aggregate(holdings []models.Holding) ([]models.Holding, error) {
	order := make([]string, 0, len(holdings))
	groups := make(map[string]*accumulator, len(holdings))

	for i, h := range holdings {
		if h.IsMalformed() {
			return nil, &models.MalformedHoldingError{Index: i}
		}

		id := h.InstrumentID()
		acc, exists := groups[id]
		if !exists {
			acc = &accumulator{merged: h}
			groups[id] = acc
			order = append(order, id)
		}
		acc.add(h)
	}

	out := make([]models.Holding, 0, len(order))
	for _, id := range order {
		out = append(out, groups[id].result())
	}
	return out, nil
}

func (a *accumulator) add(h models.Holding) {
	a.count++

	if h.Quantity != nil {
		a.qtySum += *h.Quantity
		a.hasQty = true
	}
	if h.Value != nil {
		a.valSum += *h.Value
		a.hasVal = true
	}
	if h.Price != nil {
		a.priceSum += *h.Price * h.QuantityOrZero()
		a.weight += h.QuantityOrZero()
		if a.anyPrice == nil {
			a.anyPrice = h.Price
		}
	}

	if h.CapturedAt.After(a.merged.CapturedAt) {
		a.merged.CapturedAt = h.CapturedAt
	}
	if a.merged.CompanyName == "" {
		a.merged.CompanyName = h.CompanyName
	}
	if a.merged.Sector == "" {
		a.merged.Sector = h.Sector
	}
	if a.merged.Currency == "" {
		a.merged.Currency = h.Currency
	}
	if a.merged.ISIN == "" {
		a.merged.ISIN = h.ISIN
	}
}

func (a *accumulator) result() models.Holding {
	if a.count == 1 {
		return a.merged
	}

	h := a.merged
	if a.hasQty {
		h.Quantity = models.Float64Ptr(a.qtySum)
	}
	if a.hasVal {
		h.Value = models.Float64Ptr(a.valSum)
	}

	switch {
	case a.weight != 0:
		h.Price = models.Float64Ptr(a.priceSum / a.weight)
	case a.anyPrice != nil:
		// Merged quantity is zero: a weighted average would divide by zero,
		// so keep an explicit contributed price instead.
		h.Price = models.Float64Ptr(*a.anyPrice)
	case a.hasVal && a.hasQty && a.qtySum != 0:
		// No contributor carried a price; back-derive from the merged value.
		h.Price = models.Float64Ptr(a.valSum / a.qtySum)
	default:
		h.Price = nil
	}

	return h
}
