package presenter

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-forecast/internal/selector"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type PresenterTestSuite struct {
	suite.Suite
	renderer *Renderer
	rows     []types.DisplayRow
}

func TestPresenterSuite(t *testing.T) {
	suite.Run(t, new(PresenterTestSuite))
}

func (suite *PresenterTestSuite) SetupTest() {
	suite.renderer = NewRenderer(DefaultPrecision)
	suite.rows = []types.DisplayRow{
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Close: 101.5, PredictedClose: 100.987},
		{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Close: 103, PredictedClose: 102.004},
		{Date: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), Close: 99.25, PredictedClose: 101},
	}
}

func (suite *PresenterTestSuite) features(n int) types.FeatureTable {
	rows := make([]types.FeatureRow, n)
	for i := range rows {
		rows[i] = types.FeatureRow{
			Index: i,
			Price: types.PriceRow{Date: time.Date(2024, 1, i+2, 0, 0, 0, 0, time.UTC), Open: float64(i)},
		}
	}

	return types.FeatureTable{Columns: HeadColumns(), Rows: rows}
}

func (suite *PresenterTestSuite) TestRenderTable() {
	out := suite.renderer.RenderTable(suite.rows)

	suite.Contains(out, "Predicted_Close")
	suite.Contains(out, "2024-01-02")
	suite.Contains(out, "101.50")
	suite.Contains(out, "100.99")
	suite.Contains(out, "102.00")
	suite.Contains(out, "99.25")
}

func (suite *PresenterTestSuite) TestRenderTableNoData() {
	suite.Equal(NoDataMessage, suite.renderer.RenderTable(nil))
}

func (suite *PresenterTestSuite) TestRenderHead() {
	payload := NewPayload("run", HeadColumns(), suite.features(2), 5, selector.Selection{}, nil)
	out := suite.renderer.RenderHead(payload.Head)

	suite.Contains(out, "Volume_lag")
	suite.Contains(out, "2024-01-03")
}

func (suite *PresenterTestSuite) TestRenderChartDrawsSelectedSeries() {
	out := suite.renderer.RenderChart(suite.rows, []types.ChartSeries{types.SeriesClose}, 10, 5)

	suite.Contains(out, "* Close")
	suite.NotContains(out, "Predicted_Close")
	suite.Contains(out, "103.00")
	suite.Contains(out, "99.25")
	suite.Contains(out, "2024-01-02")

	lines := strings.Split(out, "\n")
	suite.Equal(8, len(lines))
	suite.Contains(lines[0], "*")
}

func (suite *PresenterTestSuite) TestRenderChartDefaultsToAllSeries() {
	out := suite.renderer.RenderChart(suite.rows, nil, 0, 0)
	suite.Contains(out, "* Close")
	suite.Contains(out, "+ Predicted_Close")
}

func (suite *PresenterTestSuite) TestRenderChartSamplesWideInput() {
	rows := make([]types.DisplayRow, 500)
	for i := range rows {
		rows[i] = types.DisplayRow{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i), Close: float64(i)}
	}

	out := suite.renderer.RenderChart(rows, []types.ChartSeries{types.SeriesClose}, 40, 6)
	for _, line := range strings.Split(out, "\n")[:6] {
		suite.LessOrEqual(len(line), 40+len("499.00 |"))
	}
}

func (suite *PresenterTestSuite) TestRenderChartFlatSeries() {
	rows := []types.DisplayRow{{Close: 5, PredictedClose: 5}}
	out := suite.renderer.RenderChart(rows, nil, 10, 4)
	suite.Contains(out, "#")
}

func (suite *PresenterTestSuite) TestNewPayload() {
	selection := selector.Selection{
		Range: types.NewDateRange(suite.rows[0].Date, suite.rows[2].Date),
	}

	payload := NewPayload("run-1", []string{"Date", "Open"}, suite.features(8), 0, selection, nil)

	suite.Equal("run-1", payload.RunID)
	suite.Len(payload.Head, DefaultHeadRows)
	suite.Equal(types.AllSeries(), payload.Series)
	suite.True(payload.Empty)
	suite.Empty(payload.Rows)
}

func (suite *PresenterTestSuite) TestPayloadJSON() {
	payload := NewPayload("run-2", []string{"Date"}, suite.features(1), 3, selector.Selection{
		Range: types.NewDateRange(suite.rows[0].Date, suite.rows[0].Date),
	}, []types.ChartSeries{types.SeriesPredictedClose})
	payload.Rows = suite.rows[:1]
	payload.Empty = false

	data, err := json.Marshal(payload)
	suite.Require().NoError(err)

	var decoded map[string]any
	suite.Require().NoError(json.Unmarshal(data, &decoded))
	suite.Equal("run-2", decoded["run_id"])
	suite.Equal(map[string]any{"start": "2024-01-02", "end": "2024-01-02"}, decoded["range"])
	suite.Equal([]any{"Predicted_Close"}, decoded["series"])
	suite.Equal(false, decoded["empty"])

	rows := decoded["rows"].([]any)
	suite.Equal("2024-01-02", rows[0].(map[string]any)["date"])

	head := decoded["head"].([]any)
	suite.Contains(head[0].(map[string]any), "Open_lag")
}

func (suite *PresenterTestSuite) TestRender() {
	payload := NewPayload("run", HeadColumns(), suite.features(1), 5, selector.Selection{
		Range: types.NewDateRange(suite.rows[0].Date, suite.rows[2].Date),
	}, nil)
	payload.Rows = suite.rows
	payload.Empty = false

	out := suite.renderer.Render(payload, 20, 5)
	suite.Contains(out, "Columns")
	suite.Contains(out, "Predictions 2024-01-02..2024-01-04")
	suite.Contains(out, "+ Predicted_Close")
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		precision int
		value     float64
		expected  string
	}{
		{precision: 2, value: 1.005, expected: "1.01"},
		{precision: 2, value: 100, expected: "100.00"},
		{precision: 0, value: 2.5, expected: "3"},
		{precision: 4, value: -0.12345, expected: "-0.1235"},
		{precision: -1, value: 3.14159, expected: "3.14"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, NewRenderer(tt.precision).FormatNumber(tt.value))
	}
}
