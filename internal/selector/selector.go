// Package selector filters a predicted table by an inclusive calendar-date range.
package selector

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
)

// RangeRequest is a user-chosen date range. A missing bound defaults to the first or last date
// of the table being filtered.
type RangeRequest struct {
	Start optional.Option[time.Time]
	End   optional.Option[time.Time]
}

// FullRangeRequest selects every row.
func FullRangeRequest() RangeRequest {
	return RangeRequest{
		Start: optional.None[time.Time](),
		End:   optional.None[time.Time](),
	}
}

// Between requests the inclusive range [start, end].
func Between(start, end time.Time) RangeRequest {
	return RangeRequest{
		Start: optional.Some(start),
		End:   optional.Some(end),
	}
}

// Selection is the outcome of a successful Select.
type Selection struct {
	Range types.DateRange
	Rows  []types.PredictedRow
}

// Empty reports the "no data in range" state.
func (s Selection) Empty() bool {
	return len(s.Rows) == 0
}

// Display projects the selected rows onto {Date, Close, Predicted_Close}.
func (s Selection) Display() []types.DisplayRow {
	rows := make([]types.DisplayRow, len(s.Rows))
	for i, row := range s.Rows {
		rows[i] = row.Display()
	}

	return rows
}

// FullRange returns the span between the earliest and latest row. ok is false for an empty table.
func FullRange(table types.PredictedTable) (rng types.DateRange, ok bool) {
	if table.Len() == 0 {
		return types.DateRange{}, false
	}

	start := types.DateOf(table.Rows[0].Price.Date)
	end := start

	for _, row := range table.Rows[1:] {
		date := types.DateOf(row.Price.Date)
		if date.Before(start) {
			start = date
		}

		if date.After(end) {
			end = date
		}
	}

	return types.DateRange{Start: start, End: end}, true
}

// Resolve fills the missing bounds of req from the table's full range. On an empty table a
// missing bound stays at the zero date.
func Resolve(table types.PredictedTable, req RangeRequest) types.DateRange {
	full, _ := FullRange(table)

	rng := full
	if req.Start.IsSome() {
		rng.Start = types.DateOf(req.Start.Unwrap())
	}

	if req.End.IsSome() {
		rng.End = types.DateOf(req.End.Unwrap())
	}

	return rng
}

// Select keeps the rows whose calendar date lies within rng, in table order.
// A range whose start is after its end is rejected with ErrCodeRangeInvalid, except on an
// empty table where every range selects nothing.
func Select(table types.PredictedTable, rng types.DateRange) (Selection, error) {
	if table.Len() == 0 {
		return Selection{Range: rng, Rows: []types.PredictedRow{}}, nil
	}

	if !rng.Valid() {
		return Selection{}, errors.Newf(errors.ErrCodeRangeInvalid,
			"start date %s is after end date %s",
			rng.Start.Format(types.DateLayout), rng.End.Format(types.DateLayout))
	}

	rng = types.NewDateRange(rng.Start, rng.End)
	rows := make([]types.PredictedRow, 0, table.Len())

	for _, row := range table.Rows {
		if rng.Contains(row.Price.Date) {
			rows = append(rows, row)
		}
	}

	return Selection{Range: rng, Rows: rows}, nil
}

// SelectRequest resolves req against table and selects it.
func SelectRequest(table types.PredictedTable, req RangeRequest) (Selection, error) {
	return Select(table, Resolve(table, req))
}
