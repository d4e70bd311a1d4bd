// Package feature turns decoded price rows into model inputs.
package feature

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-forecast/internal/types"
)

// Shift moves every value one step forward: out[i] = values[i-1], out[0] is None.
func Shift[T any](values []optional.Option[T]) []optional.Option[T] {
	shifted := make([]optional.Option[T], len(values))
	if len(values) == 0 {
		return shifted
	}

	shifted[0] = optional.None[T]()
	copy(shifted[1:], values[:len(values)-1])

	return shifted
}

// Build derives Open_lag, High_lag, Low_lag and Volume_lag from the previous row and drops
// every row with a missing value. Lags are computed on the full input before any row is dropped,
// so a row whose predecessor is incomplete loses the corresponding lag as well.
//
// rows must already be sorted by date. columns are the normalized input columns; the lag columns
// are appended to them in the returned table.
func Build(columns []string, rows []types.RawPriceRow) types.FeatureTable {
	openLag := Shift(pluck(rows, func(r types.RawPriceRow) optional.Option[float64] { return r.Open }))
	highLag := Shift(pluck(rows, func(r types.RawPriceRow) optional.Option[float64] { return r.High }))
	lowLag := Shift(pluck(rows, func(r types.RawPriceRow) optional.Option[float64] { return r.Low }))
	volumeLag := Shift(pluck(rows, func(r types.RawPriceRow) optional.Option[float64] { return r.Volume }))

	out := make([]types.FeatureRow, 0, len(rows))

	for i, row := range rows {
		price, ok := row.Complete()
		if !ok {
			continue
		}

		if openLag[i].IsNone() || highLag[i].IsNone() || lowLag[i].IsNone() || volumeLag[i].IsNone() {
			continue
		}

		out = append(out, types.FeatureRow{
			Index: len(out),
			Price: price,
			Features: types.FeatureVector{
				Open:      price.Open,
				High:      price.High,
				Low:       price.Low,
				Volume:    price.Volume,
				OpenLag:   openLag[i].Unwrap(),
				HighLag:   highLag[i].Unwrap(),
				LowLag:    lowLag[i].Unwrap(),
				VolumeLag: volumeLag[i].Unwrap(),
			},
		})
	}

	return types.FeatureTable{
		Columns: withLagColumns(columns),
		Rows:    out,
	}
}

func pluck(rows []types.RawPriceRow, field func(types.RawPriceRow) optional.Option[float64]) []optional.Option[float64] {
	values := make([]optional.Option[float64], len(rows))
	for i, row := range rows {
		values[i] = field(row)
	}

	return values
}

// withLagColumns appends the lag columns that are not already present.
func withLagColumns(columns []string) []string {
	out := make([]string, 0, len(columns)+len(types.LagColumns()))
	out = append(out, columns...)

	present := make(map[string]bool, len(columns))
	for _, column := range columns {
		present[column] = true
	}

	for _, lag := range types.LagColumns() {
		if !present[lag] {
			out = append(out, lag)
		}
	}

	return out
}
