package writer

import (
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
)

type csvRow struct {
	Date           string  `csv:"Date"`
	Close          float64 `csv:"Close"`
	PredictedClose float64 `csv:"Predicted_Close"`
}

// CSVWriter buffers rows and marshals them with a Date,Close,Predicted_Close header on Finalize.
type CSVWriter struct {
	outputPath string
	file       *os.File
	rows       []*csvRow
}

// NewCSVWriter creates a writer for outputPath.
func NewCSVWriter(outputPath string) PredictionWriter {
	return &CSVWriter{
		outputPath: outputPath,
		file:       nil,
		rows:       nil,
	}
}

// Initialize creates the output file and its directory.
func (w *CSVWriter) Initialize() error {
	if err := os.MkdirAll(filepath.Dir(w.outputPath), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to create output directory", err)
	}

	file, err := os.Create(w.outputPath)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeWriteFailed, err, "failed to create %s", w.outputPath)
	}

	w.file = file
	w.rows = make([]*csvRow, 0)

	return nil
}

// Write buffers a row.
func (w *CSVWriter) Write(row types.DisplayRow) error {
	if w.file == nil {
		return errors.New(errors.ErrCodeWriteFailed, "writer not initialized")
	}

	w.rows = append(w.rows, &csvRow{
		Date:           row.Date.Format(types.DateLayout),
		Close:          row.Close,
		PredictedClose: row.PredictedClose,
	})

	return nil
}

// Finalize writes every buffered row.
func (w *CSVWriter) Finalize() (string, error) {
	if w.file == nil {
		return "", errors.New(errors.ErrCodeWriteFailed, "writer not initialized")
	}

	if err := gocsv.MarshalFile(&w.rows, w.file); err != nil {
		return "", errors.Wrap(errors.ErrCodeWriteFailed, "failed to marshal rows", err)
	}

	return w.outputPath, nil
}

// Close closes the output file.
func (w *CSVWriter) Close() error {
	if w.file == nil {
		return nil
	}

	err := w.file.Close()
	w.file = nil

	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to close output file", err)
	}

	return nil
}
