package main

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-forecast/internal/presenter"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
)

// NewPathInput creates a new text input for the price table path.
func NewPathInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "data/prices.csv"
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 60
	ti.Prompt = "> "

	return ti
}

// NewDateInput creates a text input for one bound of the date range.
func NewDateInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = len(types.DateLayout)
	ti.Width = len(types.DateLayout) + 1
	ti.Prompt = ""

	return ti
}

// NewResultTable creates a new table for displaying predictions.
func NewResultTable() table.Model {
	columns := []table.Column{
		{Title: types.ColumnDate, Width: 12},
		{Title: types.ColumnClose, Width: 14},
		{Title: types.ColumnPredictedClose, Width: 18},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	t.SetStyles(s)

	return t
}

// UpdateTableRows replaces the table rows with the selected predictions.
func UpdateTableRows(t table.Model, rows []types.DisplayRow, renderer *presenter.Renderer) table.Model {
	tableRows := make([]table.Row, 0, len(rows))

	for _, row := range rows {
		tableRows = append(tableRows, table.Row{
			row.Date.Format(types.DateLayout),
			renderer.FormatNumber(row.Close),
			renderer.FormatNumber(row.PredictedClose),
		})
	}

	t.SetRows(tableRows)
	t.GotoTop()

	return t
}

// ParseDateInput reads one bound of the date range. Empty input leaves the bound open.
func ParseDateInput(label, input string) (optional.Option[time.Time], error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return optional.None[time.Time](), nil
	}

	date, err := time.Parse(types.DateLayout, input)
	if err != nil {
		return optional.None[time.Time](), errors.Wrapf(errors.ErrCodeInvalidParameter, err,
			"%s date %q is not in %s format", label, input, types.DateLayout)
	}

	return optional.Some(date), nil
}
