// Package models defines data structures for holdwatch
package models

import (
	"time"
)

// Holding represents one position in one instrument at one point in time.
// Quantity, Price, and Value are pointers because a statement row or API
// response may legitimately omit them; absence and zero mean different
// things during aggregation and classification.
type Holding struct {
	Symbol      string    `json:"symbol"`
	Exchange    string    `json:"exchange,omitempty"`
	CompanyName string    `json:"company_name,omitempty"`
	Sector      string    `json:"sector,omitempty"`
	Currency    string    `json:"currency,omitempty"`
	ISIN        string    `json:"isin,omitempty"`
	Quantity    *float64  `json:"quantity"`
	Price       *float64  `json:"price"`
	Value       *float64  `json:"value"`
	CapturedAt  time.Time `json:"date,omitzero"`
}

// InstrumentID returns the stable identity of the position: "exchange:symbol"
// when the exchange is known, bare symbol otherwise. Two holdings with the
// same InstrumentID refer to the same position.
func (h Holding) InstrumentID() string {
	if h.Exchange != "" {
		return h.Exchange + ":" + h.Symbol
	}
	return h.Symbol
}

// QuantityOrZero returns the quantity, treating absent as 0.
func (h Holding) QuantityOrZero() float64 {
	if h.Quantity == nil {
		return 0
	}
	return *h.Quantity
}

// PriceOrZero returns the price, treating absent as 0.
func (h Holding) PriceOrZero() float64 {
	if h.Price == nil {
		return 0
	}
	return *h.Price
}

// ValueOrZero returns the value, treating absent as 0.
func (h Holding) ValueOrZero() float64 {
	if h.Value == nil {
		return 0
	}
	return *h.Value
}

// EffectiveValue returns the explicit value when set, otherwise derives it as
// quantity × price when both are present. Returns false when no value can be
// determined. An explicit value is never recomputed.
func (h Holding) EffectiveValue() (float64, bool) {
	if h.Value != nil {
		return *h.Value, true
	}
	if h.Quantity != nil && h.Price != nil {
		return *h.Quantity * *h.Price, true
	}
	return 0, false
}

// IsMalformed reports whether the holding lacks both an identity and every
// numeric field. Such a record cannot participate in any stage of
// reconciliation.
func (h Holding) IsMalformed() bool {
	return h.Symbol == "" && h.Quantity == nil && h.Price == nil && h.Value == nil
}

// Float64Ptr returns a pointer to v. Convenience for building holdings.
func Float64Ptr(v float64) *float64 {
	return &v
}
