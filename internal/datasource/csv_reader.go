package datasource

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
)

const utf8BOM = "\ufeff"

// CSVReader decodes comma separated uploads.
type CSVReader struct {
	// Comma is the field delimiter. Defaults to ','.
	Comma rune
}

// NewCSVReader creates a CSVReader using ',' as delimiter.
func NewCSVReader() Reader {
	return &CSVReader{
		Comma: ',',
	}
}

// Format implements Reader.
func (c *CSVReader) Format() Format {
	return FormatCSV
}

// Read implements Reader.
func (c *CSVReader) Read(r io.Reader) (types.RawTable, error) {
	reader := csv.NewReader(r)
	reader.Comma = c.Comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return types.RawTable{}, errors.Wrap(errors.ErrCodeFileRead, "failed to parse CSV", err)
	}

	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], utf8BOM)
	}

	return buildTable(rows)
}
