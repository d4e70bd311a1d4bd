package model

import (
	"fmt"

	"github.com/rxtech-lab/argo-forecast/internal/schema"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
)

// BuildMatrix lays the rows out in types.FeatureNames order.
func BuildMatrix(rows []types.FeatureRow) [][]float64 {
	matrix := make([][]float64, len(rows))
	for i, row := range rows {
		matrix[i] = row.Features.Values()
	}

	return matrix
}

// PredictTable verifies the feature checkpoint, calls the model once for the whole table and
// attaches one prediction to every row.
//
// The model is never called when a feature column is missing or the table is empty.
func PredictTable(m Model, table types.FeatureTable) (types.PredictedTable, error) {
	if m == nil {
		return types.PredictedTable{}, errors.New(errors.ErrCodeModelNotProvided, "no model provided")
	}

	if err := schema.FeatureCheckpoint().Validate(table.Columns); err != nil {
		return types.PredictedTable{}, err
	}

	columns := append(append([]string(nil), table.Columns...), types.ColumnPredictedClose)
	rows := make([]types.PredictedRow, 0, table.Len())

	if table.Len() == 0 {
		return types.PredictedTable{Columns: columns, Rows: rows}, nil
	}

	predictions, err := invoke(m, BuildMatrix(table.Rows))
	if err != nil {
		return types.PredictedTable{}, errors.Wrap(errors.ErrCodeModelInvocation, "model prediction failed", err)
	}

	if len(predictions) != table.Len() {
		return types.PredictedTable{}, errors.Newf(errors.ErrCodeModelInvocation,
			"model returned %d predictions for %d rows", len(predictions), table.Len())
	}

	for i, row := range table.Rows {
		rows = append(rows, types.PredictedRow{
			FeatureRow:     row,
			PredictedClose: predictions[i],
		})
	}

	return types.PredictedTable{Columns: columns, Rows: rows}, nil
}

// invoke turns a panicking model into an error.
func invoke(m Model, matrix [][]float64) (predictions []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("model panicked: %v", r)
		}
	}()

	return m.Predict(matrix)
}
