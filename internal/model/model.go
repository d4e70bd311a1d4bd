// Package model adapts an opaque regression model to the feature tables built by the pipeline.
package model

// Model predicts one value per matrix row. Implementations must not retain or modify the matrix
// and must be safe to share read-only between runs.
type Model interface {
	// Predict returns one prediction per row of matrix
	Predict(matrix [][]float64) ([]float64, error)
}
