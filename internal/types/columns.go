package types

// Column names used throughout the pipeline. Matching is exact and case-sensitive
// against normalized headers.
const (
	ColumnDate           = "Date"
	ColumnOpen           = "Open"
	ColumnHigh           = "High"
	ColumnLow            = "Low"
	ColumnClose          = "Close"
	ColumnVolume         = "Volume"
	ColumnOpenLag        = "Open_lag"
	ColumnHighLag        = "High_lag"
	ColumnLowLag         = "Low_lag"
	ColumnVolumeLag      = "Volume_lag"
	ColumnPredictedClose = "Predicted_Close"
)

// PriceColumns returns the raw columns every uploaded table must provide.
func PriceColumns() []string {
	return []string{ColumnDate, ColumnOpen, ColumnHigh, ColumnLow, ColumnClose, ColumnVolume}
}

// LagColumns returns the columns added by the feature builder, in the order they are appended.
func LagColumns() []string {
	return []string{ColumnOpenLag, ColumnHighLag, ColumnLowLag, ColumnVolumeLag}
}

// FeatureNames returns the model feature order. The order is part of the model contract.
func FeatureNames() []string {
	return []string{
		ColumnOpen, ColumnHigh, ColumnLow, ColumnVolume,
		ColumnOpenLag, ColumnHighLag, ColumnLowLag, ColumnVolumeLag,
	}
}
