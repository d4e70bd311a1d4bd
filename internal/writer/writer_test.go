package writer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/mocks"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type WriterTestSuite struct {
	suite.Suite
	tempDir string
	rows    []types.DisplayRow
}

func TestWriterSuite(t *testing.T) {
	suite.Run(t, new(WriterTestSuite))
}

func day(n int) time.Time {
	return time.Date(2024, 2, n, 0, 0, 0, 0, time.UTC)
}

func (suite *WriterTestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
	suite.rows = []types.DisplayRow{
		{Date: day(1), Close: 10.5, PredictedClose: 10.25},
		{Date: day(2), Close: 11, PredictedClose: 11.75},
		{Date: day(5), Close: 12.125, PredictedClose: 12},
	}
}

func (suite *WriterTestSuite) TestCSVWriter() {
	path := filepath.Join(suite.tempDir, "out", "predictions.csv")

	written, err := WriteAll(NewCSVWriter(path), suite.rows)
	suite.Require().NoError(err)
	suite.Equal(path, written)

	file, err := os.Open(path)
	suite.Require().NoError(err)
	defer file.Close()

	var decoded []*csvRow
	suite.Require().NoError(gocsv.UnmarshalFile(file, &decoded))
	suite.Require().Len(decoded, 3)
	suite.Equal("2024-02-05", decoded[2].Date)
	suite.Equal(12.125, decoded[2].Close)

	data, err := os.ReadFile(path)
	suite.Require().NoError(err)
	suite.Contains(string(data), "Date,Close,Predicted_Close\n")
}

func (suite *WriterTestSuite) TestCSVWriterWithoutInitialize() {
	w := NewCSVWriter(filepath.Join(suite.tempDir, "x.csv"))

	suite.True(errors.HasCode(w.Write(suite.rows[0]), errors.ErrCodeWriteFailed))

	_, err := w.Finalize()
	suite.True(errors.HasCode(err, errors.ErrCodeWriteFailed))
	suite.NoError(w.Close())
}

func (suite *WriterTestSuite) TestDuckDBWriterRoundTrip() {
	path := filepath.Join(suite.tempDir, "predictions.parquet")

	written, err := WriteAll(NewDuckDBWriter(path), suite.rows)
	suite.Require().NoError(err)
	suite.Equal(path, written)
	suite.FileExists(path)

	all, err := ReadParquetRange(path, types.NewDateRange(day(1), day(28)))
	suite.Require().NoError(err)
	suite.Equal(suite.rows, all)

	subset, err := ReadParquetRange(path, types.NewDateRange(day(2), day(4)))
	suite.Require().NoError(err)
	suite.Equal(suite.rows[1:2], subset)

	none, err := ReadParquetRange(path, types.NewDateRange(day(10), day(12)))
	suite.Require().NoError(err)
	suite.Empty(none)
}

func (suite *WriterTestSuite) TestDuckDBWriterStoresCalendarDates() {
	path := filepath.Join(suite.tempDir, "dates.parquet")
	rows := []types.DisplayRow{{Date: day(3).Add(17 * time.Hour), Close: 1, PredictedClose: 2}}

	_, err := WriteAll(NewDuckDBWriter(path), rows)
	suite.Require().NoError(err)

	read, err := ReadParquetRange(path, types.NewDateRange(day(3), day(3)))
	suite.Require().NoError(err)
	suite.Require().Len(read, 1)
	suite.Equal(day(3), read[0].Date)
}

func (suite *WriterTestSuite) TestDuckDBWriterWithoutInitialize() {
	w := NewDuckDBWriter(filepath.Join(suite.tempDir, "x.parquet"))

	suite.True(errors.HasCode(w.Write(suite.rows[0]), errors.ErrCodeWriteFailed))

	_, err := w.Finalize()
	suite.True(errors.HasCode(err, errors.ErrCodeWriteFailed))
	suite.NoError(w.Close())
}

func (suite *WriterTestSuite) TestReadParquetRangeErrors() {
	_, err := ReadParquetRange(filepath.Join(suite.tempDir, "missing.parquet"), types.NewDateRange(day(1), day(2)))
	suite.True(errors.HasCode(err, errors.ErrCodeFileRead))

	_, err = ReadParquetRange("ignored.parquet", types.NewDateRange(day(2), day(1)))
	suite.True(errors.HasCode(err, errors.ErrCodeRangeInvalid))
}

func (suite *WriterTestSuite) TestWriteAllCallsWriterInOrder() {
	ctrl := gomock.NewController(suite.T())
	w := mocks.NewMockPredictionWriter(ctrl)

	gomock.InOrder(
		w.EXPECT().Initialize().Return(nil),
		w.EXPECT().Write(suite.rows[0]).Return(nil),
		w.EXPECT().Write(suite.rows[1]).Return(nil),
		w.EXPECT().Write(suite.rows[2]).Return(nil),
		w.EXPECT().Finalize().Return("out.csv", nil),
		w.EXPECT().Close().Return(nil),
	)

	path, err := WriteAll(w, suite.rows)
	suite.NoError(err)
	suite.Equal("out.csv", path)
}

func (suite *WriterTestSuite) TestWriteAllStopsOnWriteError() {
	ctrl := gomock.NewController(suite.T())
	w := mocks.NewMockPredictionWriter(ctrl)

	w.EXPECT().Initialize().Return(nil)
	w.EXPECT().Write(gomock.Any()).Return(errors.New(errors.ErrCodeWriteFailed, "disk full"))
	w.EXPECT().Finalize().Times(0)
	w.EXPECT().Close().Return(nil)

	_, err := WriteAll(w, suite.rows)
	suite.True(errors.HasCode(err, errors.ErrCodeWriteFailed))
}

func (suite *WriterTestSuite) TestWriteAllInitializeError() {
	ctrl := gomock.NewController(suite.T())
	w := mocks.NewMockPredictionWriter(ctrl)

	w.EXPECT().Initialize().Return(errors.New(errors.ErrCodeWriteFailed, "denied"))
	w.EXPECT().Close().Times(0)

	_, err := WriteAll(w, suite.rows)
	suite.Error(err)
}

func TestNew(t *testing.T) {
	tests := []struct {
		format      Format
		expectNil   bool
		expectError bool
	}{
		{format: FormatNone, expectNil: true},
		{format: "", expectNil: true},
		{format: FormatCSV},
		{format: FormatParquet},
		{format: "xml", expectNil: true, expectError: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			w, err := New(tt.format, "out")
			if tt.expectError {
				assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidParameter))
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, tt.expectNil, w == nil)
		})
	}
}
