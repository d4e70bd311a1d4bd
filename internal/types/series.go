package types

import (
	"strings"

	"github.com/rxtech-lab/argo-forecast/pkg/errors"
)

// ChartSeries names a line the chart collaborator may draw.
type ChartSeries string

const (
	// SeriesClose is the actual closing price
	SeriesClose ChartSeries = ColumnClose
	// SeriesPredictedClose is the model output
	SeriesPredictedClose ChartSeries = ColumnPredictedClose
)

// AllSeries returns every series in display order. It is also the default selection.
func AllSeries() []ChartSeries {
	return []ChartSeries{SeriesClose, SeriesPredictedClose}
}

// ParseSeries converts series names into a de-duplicated selection in the given order.
// Surrounding whitespace is ignored; empty names are skipped.
func ParseSeries(names []string) ([]ChartSeries, error) {
	selection := make([]ChartSeries, 0, len(names))
	seen := make(map[ChartSeries]bool, len(names))

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		series := ChartSeries(name)
		if series != SeriesClose && series != SeriesPredictedClose {
			return nil, errors.Newf(errors.ErrCodeInvalidParameter,
				"unknown chart series %q, expected %s or %s", name, SeriesClose, SeriesPredictedClose)
		}

		if seen[series] {
			continue
		}

		seen[series] = true
		selection = append(selection, series)
	}

	return selection, nil
}
