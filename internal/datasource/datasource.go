package datasource

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
)

// Format identifies an upload encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Reader decodes an uploaded file into a RawTable without interpreting any value.
type Reader interface {
	// Read decodes the whole input. Failures are FileRead errors.
	Read(r io.Reader) (types.RawTable, error)
	// Format returns the encoding handled by the reader
	Format() Format
}

// FormatFromPath guesses the upload format from the file extension. Anything that is not
// an Excel workbook is treated as CSV.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	default:
		return FormatCSV
	}
}

// NewReader returns the reader for the given format.
func NewReader(format Format) Reader {
	switch format {
	case FormatXLSX:
		return NewXLSXReader()
	default:
		return NewCSVReader()
	}
}

// ReadFile opens path and decodes it with the reader matching its extension.
func ReadFile(path string) (types.RawTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return types.RawTable{}, errors.Wrapf(errors.ErrCodeFileRead, err, "failed to open %s", path)
	}
	defer file.Close()

	return NewReader(FormatFromPath(path)).Read(file)
}

// buildTable turns header + rows into a RawTable, padding short rows with empty cells.
// Rows longer than the header are rejected.
func buildTable(rows [][]string) (types.RawTable, error) {
	if len(rows) == 0 || isBlank(rows[0]) {
		return types.RawTable{}, errors.New(errors.ErrCodeFileRead, "file has no header row")
	}

	header := rows[0]
	records := make([][]string, 0, len(rows)-1)

	for i, row := range rows[1:] {
		if len(row) > len(header) {
			return types.RawTable{}, errors.Newf(errors.ErrCodeFileRead,
				"line %d: expected %d fields, saw %d", i+2, len(header), len(row))
		}

		if isBlank(row) {
			continue
		}

		record := make([]string, len(header))
		copy(record, row)
		records = append(records, record)
	}

	columns := make([]string, len(header))
	copy(columns, header)

	return types.RawTable{
		Columns: columns,
		Records: records,
	}, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
