// Package report derives presentation aggregates (balances, period summaries,
// category breakdowns, listings) from a fetched ledger.Snapshot.
//
// Every function here is a pure reduction over its inputs: no I/O, no state
// between calls, no errors. Degenerate input yields zero or empty output.
package report

import (
	"math"

	"github.com/govalues/decimal"

	"github.com/tinoosan/finsight/internal/ledger"
)

// minorScale is the number of fractional digits carried by minor units.
const minorScale = 2

var (
	hundred = decimal.MustNew(100, 0)
	half    = decimal.MustNew(5, 1)
)

// ToMajorUnits converts an integer minor-unit amount (cents) into a decimal
// major-unit amount with two fractional digits. Zero is always positive zero.
func ToMajorUnits(minor int64) decimal.Decimal {
	return NormalizeZero(decimal.MustNew(minor, minorScale))
}

// ToMinorUnits converts a major-unit amount back into minor units, rounding to
// the nearest integer with halves rounded up.
func ToMinorUnits(major decimal.Decimal) int64 {
	scaled, err := major.Mul(hundred)
	if err != nil {
		return 0
	}
	shifted, err := scaled.Add(half)
	if err != nil {
		return 0
	}
	whole, _, ok := shifted.Floor(0).Int64(0)
	if !ok {
		return 0
	}
	return whole
}

// NormalizeZero maps a numerically zero decimal to canonical positive zero at
// the same scale, so that formatting never shows "-0.00".
func NormalizeZero(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return decimal.MustNew(0, d.Scale())
	}
	return d
}

// normalizeFloat maps -0, NaN and infinities to 0.
func normalizeFloat(f float64) float64 {
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// signedMinor returns the transaction amount with the sign implied by its type.
func signedMinor(tx ledger.Transaction) int64 {
	switch tx.Type {
	case ledger.TypeIncome:
		return tx.Amount
	case ledger.TypeExpense:
		return -tx.Amount
	default:
		return 0
	}
}
