package feature

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-forecast/internal/schema"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
)

// missingMarkers are the cell spellings treated as an absent value, matching the markers
// spreadsheet and pandas exports use.
var missingMarkers = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-1.#IND":  true,
	"-1.#QNAN": true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"1.#QNAN":  true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
	"NaT":      true,
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006/01/02",
	"2006/01/02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/06",
	"01-02-06",
	"01-02-2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"02 Jan 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"20060102",
}

// IsMissing reports whether a cell holds no value.
func IsMissing(cell string) bool {
	return missingMarkers[strings.TrimSpace(cell)]
}

// ParseDate parses a date cell. Missing cells yield None; unknown layouts yield an error.
func ParseDate(cell string) (optional.Option[time.Time], error) {
	if IsMissing(cell) {
		return optional.None[time.Time](), nil
	}

	value := strings.TrimSpace(cell)
	if t, ok := parseDate(value); ok {
		return optional.Some(t), nil
	}

	return optional.None[time.Time](), errors.Newf(errors.ErrCodeDateParse, "cannot parse %q as a date", value)
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// ParseNumber parses a numeric cell. Missing cells yield None. Infinite and NaN spellings that
// are not missing markers are rejected.
func ParseNumber(cell string) (optional.Option[float64], error) {
	if IsMissing(cell) {
		return optional.None[float64](), nil
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
		return optional.None[float64](), errors.Newf(errors.ErrCodeValueParse, "cannot parse %q as a finite number", cell)
	}

	return optional.Some(value), nil
}

// anyMissing reports whether a record has a missing cell in any column.
func anyMissing(record []string) bool {
	for _, cell := range record {
		if IsMissing(cell) {
			return true
		}
	}

	return false
}

// Decode coerces a normalized table that passed the raw checkpoint into price rows sorted
// ascending by date. The sort is stable; rows without a date sort last. A row with a missing cell
// in any column, including columns the model does not read, is marked Incomplete.
func Decode(table types.RawTable) ([]types.RawPriceRow, error) {
	idx := make(map[string]int, len(types.PriceColumns()))
	for _, column := range types.PriceColumns() {
		i := table.ColumnIndex(column)
		if i < 0 {
			return nil, errors.NewSchemaMismatchError(schema.CheckpointRaw, []string{column})
		}

		idx[column] = i
	}

	rows := make([]types.RawPriceRow, 0, table.Len())

	for line, record := range table.Records {
		date, err := ParseDate(record[idx[types.ColumnDate]])
		if err != nil {
			return nil, errors.Newf(errors.ErrCodeDateParse, "column %s, row %d: cannot parse %q as a date",
				types.ColumnDate, line+1, strings.TrimSpace(record[idx[types.ColumnDate]]))
		}

		row := types.RawPriceRow{Date: date, Incomplete: anyMissing(record)}

		numbers := []struct {
			column string
			target *optional.Option[float64]
		}{
			{types.ColumnOpen, &row.Open},
			{types.ColumnHigh, &row.High},
			{types.ColumnLow, &row.Low},
			{types.ColumnClose, &row.Close},
			{types.ColumnVolume, &row.Volume},
		}

		for _, n := range numbers {
			value, err := ParseNumber(record[idx[n.column]])
			if err != nil {
				return nil, errors.Newf(errors.ErrCodeValueParse, "column %s, row %d: cannot parse %q as a finite number",
					n.column, line+1, record[idx[n.column]])
			}

			*n.target = value
		}

		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Date, rows[j].Date
		if a.IsNone() || b.IsNone() {
			return a.IsSome() && b.IsNone()
		}

		return a.Unwrap().Before(b.Unwrap())
	})

	return rows, nil
}
