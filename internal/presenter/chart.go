package presenter

import (
	"math"
	"strings"

	"github.com/rxtech-lab/argo-forecast/internal/types"
)

const (
	// DefaultChartWidth is the number of plotted columns.
	DefaultChartWidth = 60
	// DefaultChartHeight is the number of plotted rows.
	DefaultChartHeight = 12
)

var seriesMarks = map[types.ChartSeries]rune{
	types.SeriesClose:          '*',
	types.SeriesPredictedClose: '+',
}

// overlapMark is drawn where two series share a cell.
const overlapMark = '#'

// RenderChart draws the selected series as a text line chart with the date axis running left to
// right. When there are more rows than columns the rows are sampled evenly.
func (r *Renderer) RenderChart(rows []types.DisplayRow, series []types.ChartSeries, width, height int) string {
	if len(rows) == 0 {
		return NoDataMessage
	}

	if len(series) == 0 {
		series = types.AllSeries()
	}

	if width <= 1 {
		width = DefaultChartWidth
	}

	if height <= 1 {
		height = DefaultChartHeight
	}

	sampled := sample(rows, width)

	low, high := math.Inf(1), math.Inf(-1)
	for _, row := range sampled {
		for _, s := range series {
			v := seriesValue(row, s)
			low = math.Min(low, v)
			high = math.Max(high, v)
		}
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", len(sampled)))
	}

	for x, row := range sampled {
		for _, s := range series {
			y := scale(seriesValue(row, s), low, high, height)

			switch grid[y][x] {
			case ' ':
				grid[y][x] = seriesMarks[s]
			case seriesMarks[s]:
			default:
				grid[y][x] = overlapMark
			}
		}
	}

	highLabel := r.FormatNumber(high)
	lowLabel := r.FormatNumber(low)
	labelWidth := max(len(highLabel), len(lowLabel))

	var b strings.Builder

	for i := range grid {
		label := ""

		switch i {
		case 0:
			label = highLabel
		case height - 1:
			label = lowLabel
		}

		b.WriteString(strings.Repeat(" ", labelWidth-len(label)))
		b.WriteString(label)
		b.WriteString(" |")
		b.WriteString(strings.TrimRight(string(grid[i]), " "))
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat(" ", labelWidth))
	b.WriteString(" +")
	b.WriteString(strings.Repeat("-", len(sampled)))
	b.WriteString("\n")

	first := sampled[0].Date.Format(types.DateLayout)
	last := sampled[len(sampled)-1].Date.Format(types.DateLayout)
	gap := max(1, len(sampled)-len(first)-len(last))

	b.WriteString(strings.Repeat(" ", labelWidth+2))
	b.WriteString(first)

	if len(sampled) > 1 {
		b.WriteString(strings.Repeat(" ", gap))
		b.WriteString(last)
	}

	b.WriteString("\n")
	b.WriteString(legend(series))

	return b.String()
}

func legend(series []types.ChartSeries) string {
	parts := make([]string, len(series))
	for i, s := range series {
		parts[i] = string(seriesMarks[s]) + " " + string(s)
	}

	return strings.Join(parts, "   ")
}

func seriesValue(row types.DisplayRow, s types.ChartSeries) float64 {
	if s == types.SeriesPredictedClose {
		return row.PredictedClose
	}

	return row.Close
}

// scale maps v to a grid row; the highest value lands on row 0.
func scale(v, low, high float64, height int) int {
	if high == low {
		return height / 2
	}

	pos := (v - low) / (high - low)

	return height - 1 - int(math.Round(pos*float64(height-1)))
}

func sample(rows []types.DisplayRow, width int) []types.DisplayRow {
	if len(rows) <= width {
		return rows
	}

	out := make([]types.DisplayRow, width)
	for i := range out {
		out[i] = rows[i*(len(rows)-1)/(width-1)]
	}

	return out
}
