package engine

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/Praneeth1-O-1/invoice-extraction-validation-system/record"
)

func TestWithinTolerance(t *testing.T) {
	tests := []struct {
		name      string
		a         string
		b         string
		tolerance string
		want      bool
	}{
		{"exact match", "100.00", "100.00", "0.01", true},
		{"within tolerance", "100.00", "100.005", "0.01", true},
		{"boundary equal passes", "100.00", "100.01", "0.01", true},
		{"just beyond boundary fails", "100.00", "100.011", "0.01", false},
		{"symmetric below", "100.01", "100.00", "0.01", true},
		{"zero tolerance exact only", "100.00", "100.00", "0", true},
		{"zero tolerance any difference fails", "100.00", "100.001", "0", false},
		{"different scales same value", "99.0", "99.00", "0", true},
		{"negative amounts", "-50.00", "-50.01", "0.01", true},
		{"large difference", "100.00", "200.00", "0.01", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := decimal.RequireFromString(tt.a)
			b := decimal.RequireFromString(tt.b)
			tol := decimal.RequireFromString(tt.tolerance)
			assert.Equal(t, tt.want, WithinTolerance(a, b, tol))
		})
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		places int32
		want   string
	}{
		{"no rounding needed", "2.67", 2, "2.67"},
		{"tie rounds up", "2.675", 2, "2.68"},
		{"below tie rounds down", "2.674", 2, "2.67"},
		{"above tie rounds up", "2.676", 2, "2.68"},
		{"integer tie", "2.5", 0, "3"},
		{"exact half cent", "0.005", 2, "0.01"},
		{"zero", "0", 2, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundHalfUp(decimal.RequireFromString(tt.in), tt.places)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestSumLineTotals(t *testing.T) {
	t.Run("sums complete items", func(t *testing.T) {
		items := []*record.LineItem{
			{LineTotal: record.Amount("10.50")},
			{LineTotal: record.Amount("4.50")},
		}
		sum, ok := sumLineTotals(items)
		assert.True(t, ok)
		assert.Equal(t, "15", sum.String())
	})

	t.Run("incomplete when any total missing", func(t *testing.T) {
		items := []*record.LineItem{
			{LineTotal: record.Amount("10.50")},
			{Description: "unreadable scan"},
		}
		_, ok := sumLineTotals(items)
		assert.False(t, ok)
	})

	t.Run("empty items sum to zero", func(t *testing.T) {
		sum, ok := sumLineTotals(nil)
		assert.True(t, ok)
		assert.True(t, sum.IsZero())
	})
}
