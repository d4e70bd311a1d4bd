package types

import (
	"encoding/json"
	"time"
)

// DateLayout is the layout used when a calendar date is rendered or exchanged.
const DateLayout = "2006-01-02"

// PredictedRow is a feature row with the model output attached.
type PredictedRow struct {
	FeatureRow
	// PredictedClose is the model's estimate of Price.Close.
	PredictedClose float64
}

// Display projects the row onto the presented columns.
func (r PredictedRow) Display() DisplayRow {
	return DisplayRow{
		Date:           r.Price.Date,
		Close:          r.Price.Close,
		PredictedClose: r.PredictedClose,
	}
}

// PredictedTable is a feature table with one prediction per row.
type PredictedTable struct {
	// Columns are the feature table columns followed by Predicted_Close.
	Columns []string
	Rows    []PredictedRow
}

// Len returns the number of rows.
func (t PredictedTable) Len() int {
	return len(t.Rows)
}

// DisplayRow is the {Date, Close, Predicted_Close} projection shown to users and exported.
type DisplayRow struct {
	Date           time.Time
	Close          float64
	PredictedClose float64
}

type displayRowJSON struct {
	Date           string  `json:"date"`
	Close          float64 `json:"close"`
	PredictedClose float64 `json:"predicted_close"`
}

// MarshalJSON renders Date as a calendar date.
func (r DisplayRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(displayRowJSON{
		Date:           r.Date.Format(DateLayout),
		Close:          r.Close,
		PredictedClose: r.PredictedClose,
	})
}

// UnmarshalJSON parses the form produced by MarshalJSON.
func (r *DisplayRow) UnmarshalJSON(data []byte) error {
	var raw displayRowJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	date, err := time.Parse(DateLayout, raw.Date)
	if err != nil {
		return err
	}

	r.Date = date
	r.Close = raw.Close
	r.PredictedClose = raw.PredictedClose

	return nil
}
