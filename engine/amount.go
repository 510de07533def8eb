package engine

import (
	"github.com/shopspring/decimal"

	"github.com/Praneeth1-O-1/invoice-extraction-validation-system/record"
)

// MinorUnitPlaces is the number of decimal places of a currency's minor
// unit. Derived amounts are rounded to this precision before comparison.
const MinorUnitPlaces = 2

// WithinTolerance reports whether two amounts differ by at most tolerance:
// |a - b| <= tolerance. A discrepancy exactly equal to the tolerance passes;
// the smallest representable increment beyond it fails. Comparison is exact
// decimal arithmetic, so the result is reproducible across platforms.
func WithinTolerance(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}

// RoundHalfUp rounds d to the given number of decimal places, with ties
// rounding towards positive infinity (2.675 → 2.68). Applied consistently
// wherever totals are derived so that rule outcomes do not depend on
// evaluation order.
func RoundHalfUp(d decimal.Decimal, places int32) decimal.Decimal {
	half := decimal.New(5, -1)
	return d.Shift(places).Add(half).Floor().Shift(-places)
}

// sumLineTotals sums the line totals of all items. The second return is
// false when any item is missing its line total, in which case the sum is
// incomplete and consistency checks against it are vacuous.
func sumLineTotals(items []*record.LineItem) (decimal.Decimal, bool) {
	sum := decimal.Zero
	for _, item := range items {
		if item == nil || item.LineTotal == nil {
			return decimal.Zero, false
		}
		sum = sum.Add(*item.LineTotal)
	}
	return sum, true
}
