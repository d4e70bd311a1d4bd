// Package presenter assembles the outcome of a pipeline run for display and export.
package presenter

import (
	"github.com/rxtech-lab/argo-forecast/internal/selector"
	"github.com/rxtech-lab/argo-forecast/internal/types"
)

// DefaultHeadRows is the number of feature rows shown when nothing else is configured.
const DefaultHeadRows = 5

// HeadRow is one row of the feature table preview.
type HeadRow struct {
	Date      string  `json:"Date"`
	Open      float64 `json:"Open"`
	High      float64 `json:"High"`
	Low       float64 `json:"Low"`
	Close     float64 `json:"Close"`
	Volume    float64 `json:"Volume"`
	OpenLag   float64 `json:"Open_lag"`
	HighLag   float64 `json:"High_lag"`
	LowLag    float64 `json:"Low_lag"`
	VolumeLag float64 `json:"Volume_lag"`
}

// HeadColumns returns the header of a HeadRow in field order.
func HeadColumns() []string {
	return append(types.PriceColumns(), types.LagColumns()...)
}

// NewHeadRow converts a feature row.
func NewHeadRow(row types.FeatureRow) HeadRow {
	return HeadRow{
		Date:      row.Price.Date.Format(types.DateLayout),
		Open:      row.Price.Open,
		High:      row.Price.High,
		Low:       row.Price.Low,
		Close:     row.Price.Close,
		Volume:    row.Price.Volume,
		OpenLag:   row.Features.OpenLag,
		HighLag:   row.Features.HighLag,
		LowLag:    row.Features.LowLag,
		VolumeLag: row.Features.VolumeLag,
	}
}

// Payload is everything a front end needs to show one run.
type Payload struct {
	// RunID identifies the run in logs
	RunID string `json:"run_id"`
	// Columns are the normalized input column names
	Columns []string `json:"columns"`
	// Head previews the first rows of the feature table
	Head []HeadRow `json:"head"`
	// Range is the inclusive date range the rows were selected with
	Range types.DateRange `json:"range"`
	// Rows are the selected {Date, Close, Predicted_Close} rows
	Rows []types.DisplayRow `json:"rows"`
	// Series selects the lines the chart draws
	Series []types.ChartSeries `json:"series"`
	// Empty is set when no row falls within Range
	Empty bool `json:"empty"`
}

// NewPayload builds a payload. An empty series selection falls back to every series.
func NewPayload(
	runID string,
	columns []string,
	features types.FeatureTable,
	headRows int,
	selection selector.Selection,
	series []types.ChartSeries,
) Payload {
	if headRows <= 0 {
		headRows = DefaultHeadRows
	}

	if len(series) == 0 {
		series = types.AllSeries()
	}

	featureHead := features.Head(headRows)
	head := make([]HeadRow, len(featureHead))

	for i, row := range featureHead {
		head[i] = NewHeadRow(row)
	}

	return Payload{
		RunID:   runID,
		Columns: append([]string(nil), columns...),
		Head:    head,
		Range:   selection.Range,
		Rows:    selection.Display(),
		Series:  append([]types.ChartSeries(nil), series...),
		Empty:   selection.Empty(),
	}
}

// WithSelection returns a copy of the payload showing another selection.
func (p Payload) WithSelection(selection selector.Selection) Payload {
	p.Range = selection.Range
	p.Rows = selection.Display()
	p.Empty = selection.Empty()

	return p
}

// WithSeries returns a copy of the payload with another chart selection.
func (p Payload) WithSeries(series []types.ChartSeries) Payload {
	if len(series) == 0 {
		series = types.AllSeries()
	}

	p.Series = append([]types.ChartSeries(nil), series...)

	return p
}
