package types

// FeatureVector holds the eight model inputs of one row.
type FeatureVector struct {
	Open      float64
	High      float64
	Low       float64
	Volume    float64
	OpenLag   float64
	HighLag   float64
	LowLag    float64
	VolumeLag float64
}

// Values returns the vector in FeatureNames order.
func (v FeatureVector) Values() []float64 {
	return []float64{
		v.Open, v.High, v.Low, v.Volume,
		v.OpenLag, v.HighLag, v.LowLag, v.VolumeLag,
	}
}

// FeatureRow is a surviving row of the feature builder.
type FeatureRow struct {
	// Index is the contiguous position of the row after incomplete rows were dropped.
	Index int
	// Price is the row's own observation.
	Price PriceRow
	// Features is the model input derived from the row and its predecessor.
	Features FeatureVector
}

// FeatureTable is the output of the feature builder.
type FeatureTable struct {
	// Columns are the normalized input columns followed by the lag columns.
	Columns []string
	// Rows are ordered by ascending date.
	Rows []FeatureRow
}

// Len returns the number of rows.
func (t FeatureTable) Len() int {
	return len(t.Rows)
}

// Head returns at most n leading rows.
func (t FeatureTable) Head(n int) []FeatureRow {
	if n < 0 {
		n = 0
	}

	if n > len(t.Rows) {
		n = len(t.Rows)
	}

	return t.Rows[:n]
}
