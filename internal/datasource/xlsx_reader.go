package datasource

import (
	"io"

	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// XLSXReader decodes Excel workbooks. The first sheet with a non-empty header row is used.
type XLSXReader struct{}

// NewXLSXReader creates an XLSXReader.
func NewXLSXReader() Reader {
	return &XLSXReader{}
}

// Format implements Reader.
func (x *XLSXReader) Format() Format {
	return FormatXLSX
}

// Read implements Reader.
func (x *XLSXReader) Read(r io.Reader) (types.RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return types.RawTable{}, errors.Wrap(errors.ErrCodeFileRead, "failed to open workbook", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return types.RawTable{}, errors.Wrapf(errors.ErrCodeFileRead, err, "failed to read sheet %s", sheet)
		}

		if len(rows) == 0 || isBlank(rows[0]) {
			continue
		}

		return buildTable(rows)
	}

	return types.RawTable{}, errors.New(errors.ErrCodeFileRead, "workbook has no sheet with a header row")
}
