// Package writer exports predicted rows and reads exported ranges back.
package writer

import (
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
)

// PredictionWriter defines the interface for exporting displayed prediction rows.
type PredictionWriter interface {
	// Initialize sets up the writer, potentially creating tables or files.
	Initialize() error
	// Write persists a single row.
	Write(row types.DisplayRow) error
	// Finalize completes the export and returns the path of the written file.
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer.
	Close() error
}

// Format selects an export encoding.
type Format string

const (
	FormatNone    Format = "none"
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// New returns the writer for format. FormatNone and an empty format yield a nil writer.
func New(format Format, outputPath string) (PredictionWriter, error) {
	switch format {
	case FormatNone, "":
		return nil, nil
	case FormatCSV:
		return NewCSVWriter(outputPath), nil
	case FormatParquet:
		return NewDuckDBWriter(outputPath), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "unknown output format %q", format)
	}
}

// WriteAll exports rows with w and returns the written path.
func WriteAll(w PredictionWriter, rows []types.DisplayRow) (outputPath string, err error) {
	if err := w.Initialize(); err != nil {
		return "", err
	}

	defer func() {
		if closeErr := w.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return w.Finalize()
}
