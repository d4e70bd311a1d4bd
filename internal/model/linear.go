package model

import (
	"fmt"

	"github.com/rxtech-lab/argo-forecast/internal/types"
)

// LinearRegression is an ordinary least squares model: intercept + Σ coefficient·feature.
type LinearRegression struct {
	intercept    float64
	coefficients []float64
}

// NewLinearRegression creates a model whose coefficients follow types.FeatureNames order.
func NewLinearRegression(intercept float64, coefficients []float64) (*LinearRegression, error) {
	if len(coefficients) != len(types.FeatureNames()) {
		return nil, fmt.Errorf("expected %d coefficients, got %d", len(types.FeatureNames()), len(coefficients))
	}

	weights := make([]float64, len(coefficients))
	copy(weights, coefficients)

	return &LinearRegression{
		intercept:    intercept,
		coefficients: weights,
	}, nil
}

// Intercept returns the constant term.
func (l *LinearRegression) Intercept() float64 {
	return l.intercept
}

// Coefficients returns a copy of the weights in feature order.
func (l *LinearRegression) Coefficients() []float64 {
	weights := make([]float64, len(l.coefficients))
	copy(weights, l.coefficients)

	return weights
}

// Predict implements Model.
func (l *LinearRegression) Predict(matrix [][]float64) ([]float64, error) {
	predictions := make([]float64, len(matrix))

	for i, row := range matrix {
		if len(row) != len(l.coefficients) {
			return nil, fmt.Errorf("row %d has %d features, model expects %d", i, len(row), len(l.coefficients))
		}

		value := l.intercept
		for j, feature := range row {
			value += l.coefficients[j] * feature
		}

		predictions[i] = value
	}

	return predictions, nil
}
