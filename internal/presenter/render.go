package presenter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/shopspring/decimal"
)

// DefaultPrecision is the number of decimals shown for prices.
const DefaultPrecision = 2

// NoDataMessage is shown instead of a table when the range selects nothing.
const NoDataMessage = "No data in the selected date range."

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Renderer turns payloads into terminal text.
type Renderer struct {
	precision int32
}

// NewRenderer creates a renderer printing numbers with the given number of decimals.
func NewRenderer(precision int) *Renderer {
	if precision < 0 {
		precision = DefaultPrecision
	}

	return &Renderer{precision: int32(precision)}
}

// FormatNumber renders v with the configured number of decimals.
func (r *Renderer) FormatNumber(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(r.precision)
}

// RenderTable renders the selected rows, or NoDataMessage when there are none.
func (r *Renderer) RenderTable(rows []types.DisplayRow) string {
	if len(rows) == 0 {
		return NoDataMessage
	}

	data := make([][]string, len(rows))
	for i, row := range rows {
		data[i] = []string{
			row.Date.Format(types.DateLayout),
			r.FormatNumber(row.Close),
			r.FormatNumber(row.PredictedClose),
		}
	}

	return newTable([]string{types.ColumnDate, types.ColumnClose, types.ColumnPredictedClose}, data)
}

// RenderHead renders the feature table preview.
func (r *Renderer) RenderHead(rows []HeadRow) string {
	data := make([][]string, len(rows))
	for i, row := range rows {
		data[i] = []string{
			row.Date,
			r.FormatNumber(row.Open),
			r.FormatNumber(row.High),
			r.FormatNumber(row.Low),
			r.FormatNumber(row.Close),
			r.FormatNumber(row.Volume),
			r.FormatNumber(row.OpenLag),
			r.FormatNumber(row.HighLag),
			r.FormatNumber(row.LowLag),
			r.FormatNumber(row.VolumeLag),
		}
	}

	return newTable(HeadColumns(), data)
}

// RenderColumns lists the normalized column names.
func (r *Renderer) RenderColumns(columns []string) string {
	return strings.Join(columns, ", ")
}

// Render renders every part of the payload in display order.
func (r *Renderer) Render(p Payload, chartWidth, chartHeight int) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Columns"))
	b.WriteString("\n")
	b.WriteString(r.RenderColumns(p.Columns))
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("Features"))
	b.WriteString("\n")
	b.WriteString(r.RenderHead(p.Head))
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render(fmt.Sprintf("Predictions %s", p.Range)))
	b.WriteString("\n")
	b.WriteString(r.RenderTable(p.Rows))

	if !p.Empty {
		b.WriteString("\n\n")
		b.WriteString(r.RenderChart(p.Rows, p.Series, chartWidth, chartHeight))
	}

	b.WriteString("\n")

	return b.String()
}

func newTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return numberStyle
			}
		})

	return t.String()
}
