package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rxtech-lab/argo-forecast/internal/pipeline"
	"github.com/rxtech-lab/argo-forecast/internal/presenter"
	"github.com/rxtech-lab/argo-forecast/internal/selector"
	"github.com/rxtech-lab/argo-forecast/internal/types"
)

// Application states.
const (
	StateFileInput = iota
	StateRunning
	StateResult
)

// Focus targets in the result view.
const (
	FocusTable = iota
	FocusStart
	FocusEnd
)

// Model is the main Bubble Tea model for the prediction dashboard.
type Model struct {
	state       int
	focus       int
	pathInput   textinput.Model
	startInput  textinput.Model
	endInput    textinput.Model
	resultTable table.Model
	pipeline    *pipeline.Pipeline
	renderer    *presenter.Renderer
	request     selector.RangeRequest
	path        string
	result      pipeline.Result
	err         error
	rangeErr    error
	width       int
	height      int
}

// NewModel creates a new Model with initial state. request is applied to the first run of every file.
func NewModel(p *pipeline.Pipeline, renderer *presenter.Renderer, request selector.RangeRequest) Model {
	return Model{
		state:       StateFileInput,
		focus:       FocusTable,
		pathInput:   NewPathInput(),
		startInput:  NewDateInput("start"),
		endInput:    NewDateInput("end"),
		resultTable: NewResultTable(),
		pipeline:    p,
		renderer:    renderer,
		request:     request,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			// Only quit on 'q' if no text input has focus
			if m.state == StateResult && m.focus == FocusTable {
				return m, tea.Quit
			}
		case "esc":
			return m.handleEsc()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resultTable.SetWidth(msg.Width)
		m.resultTable.SetHeight(max(msg.Height-presenter.DefaultChartHeight-14, 5))
		return m, nil

	case RunFinishedMsg:
		return m.handleRunFinished(msg)
	}

	switch m.state {
	case StateFileInput:
		return m.updateFileInput(msg)
	case StateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m Model) handleEsc() (tea.Model, tea.Cmd) {
	if m.state != StateResult {
		return m, nil
	}

	m.result = pipeline.Result{}
	m.path = ""
	m.err = nil
	m.rangeErr = nil
	m.setFocus(FocusTable)
	m.pathInput.Reset()
	m.pathInput.Focus()
	m.state = StateFileInput

	return m, textinput.Blink
}

func (m Model) handleRunFinished(msg RunFinishedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.err = msg.Err
		m.state = StateFileInput
		m.pathInput.Focus()

		return m, textinput.Blink
	}

	m.err = nil
	m.rangeErr = nil
	m.path = msg.Path
	m.result = msg.Result
	m.state = StateResult
	m.startInput.SetValue(msg.Result.Payload.Range.Start.Format(types.DateLayout))
	m.endInput.SetValue(msg.Result.Payload.Range.End.Format(types.DateLayout))
	m.setFocus(FocusTable)
	m.resultTable = UpdateTableRows(m.resultTable, msg.Result.Payload.Rows, m.renderer)

	return m, nil
}

func (m Model) updateFileInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		path := strings.TrimSpace(m.pathInput.Value())
		if path != "" {
			m.err = nil
			m.path = path
			m.state = StateRunning
			m.pathInput.Blur()

			return m, runPipeline(m.pipeline, path, m.request)
		}
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)

	return m, cmd
}

func (m Model) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab":
			m.setFocus((m.focus + 1) % 3)
			return m, nil
		case "shift+tab":
			m.setFocus((m.focus + 2) % 3)
			return m, nil
		case "enter":
			if m.focus != FocusTable {
				return m.applyRange(), nil
			}
		case "c":
			if m.focus == FocusTable {
				return m.toggleSeries(types.SeriesClose), nil
			}
		case "p":
			if m.focus == FocusTable {
				return m.toggleSeries(types.SeriesPredictedClose), nil
			}
		}
	}

	var cmd tea.Cmd

	switch m.focus {
	case FocusStart:
		m.startInput, cmd = m.startInput.Update(msg)
	case FocusEnd:
		m.endInput, cmd = m.endInput.Update(msg)
	default:
		m.resultTable, cmd = m.resultTable.Update(msg)
	}

	return m, cmd
}

func (m *Model) setFocus(focus int) {
	m.focus = focus
	m.startInput.Blur()
	m.endInput.Blur()
	m.resultTable.Blur()

	switch focus {
	case FocusStart:
		m.startInput.Focus()
	case FocusEnd:
		m.endInput.Focus()
	default:
		m.resultTable.Focus()
	}
}

// applyRange reselects the predicted table with the date inputs. The shown result is kept on error.
func (m Model) applyRange() Model {
	start, err := ParseDateInput("start", m.startInput.Value())
	if err != nil {
		m.rangeErr = err
		return m
	}

	end, err := ParseDateInput("end", m.endInput.Value())
	if err != nil {
		m.rangeErr = err
		return m
	}

	result, err := m.result.Reselect(selector.RangeRequest{Start: start, End: end})
	if err != nil {
		m.rangeErr = err
		return m
	}

	m.rangeErr = nil
	m.result = result
	m.startInput.SetValue(result.Payload.Range.Start.Format(types.DateLayout))
	m.endInput.SetValue(result.Payload.Range.End.Format(types.DateLayout))
	m.resultTable = UpdateTableRows(m.resultTable, result.Payload.Rows, m.renderer)

	return m
}

// toggleSeries flips one chart series. The last selected series stays on.
func (m Model) toggleSeries(series types.ChartSeries) Model {
	next := make([]types.ChartSeries, 0, 2)

	for _, s := range types.AllSeries() {
		on := m.seriesOn(s)
		if s == series {
			on = !on
		}

		if on {
			next = append(next, s)
		}
	}

	if len(next) == 0 {
		return m
	}

	m.result = m.result.WithSeries(next)

	return m
}

func (m Model) seriesOn(series types.ChartSeries) bool {
	for _, s := range m.result.Payload.Series {
		if s == series {
			return true
		}
	}

	return false
}

// runPipeline returns a command that runs the pipeline on path.
func runPipeline(p *pipeline.Pipeline, path string, request selector.RangeRequest) tea.Cmd {
	return func() tea.Msg {
		result, err := p.RunFile(path, request)

		return RunFinishedMsg{Path: path, Result: result, Err: err}
	}
}

func (m Model) chartWidth() int {
	if m.width > presenter.DefaultChartWidth+12 {
		return m.width - 12
	}

	return presenter.DefaultChartWidth
}

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	switch m.state {
	case StateFileInput:
		s.WriteString(TitleStyle.Render("Argo Forecast - Closing Price Prediction"))
		s.WriteString("\n\n")
		s.WriteString("Enter the path of a CSV or XLSX price table:\n\n")
		s.WriteString(m.pathInput.View())
		s.WriteString("\n\n")

		if m.err != nil {
			s.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			s.WriteString("\n\n")
		}

		s.WriteString(HelpStyle.Render("Press Enter to run, ctrl+c to quit"))

	case StateRunning:
		s.WriteString(TitleStyle.Render("Argo Forecast - Closing Price Prediction"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Predicting %s...\n", m.path))

	case StateResult:
		payload := m.result.Payload

		s.WriteString(TitleStyle.Render(fmt.Sprintf("Predictions - %s", m.path)))
		s.WriteString("\n\n")
		s.WriteString("Columns: " + m.renderer.RenderColumns(payload.Columns))
		s.WriteString("\n\n")
		s.WriteString(m.dateLabel("Start", FocusStart) + m.startInput.View())
		s.WriteString("   ")
		s.WriteString(m.dateLabel("End", FocusEnd) + m.endInput.View())
		s.WriteString("\n")
		s.WriteString(SeriesToggle("c", string(types.SeriesClose), m.seriesOn(types.SeriesClose)))
		s.WriteString("   ")
		s.WriteString(SeriesToggle("p", string(types.SeriesPredictedClose), m.seriesOn(types.SeriesPredictedClose)))
		s.WriteString("\n\n")

		if m.rangeErr != nil {
			s.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.rangeErr)))
			s.WriteString("\n\n")
		}

		if payload.Empty {
			s.WriteString(presenter.NoDataMessage)
			s.WriteString("\n")
		} else {
			s.WriteString(m.resultTable.View())
			s.WriteString("\n\n")
			s.WriteString(m.renderer.RenderChart(payload.Rows, payload.Series, m.chartWidth(), presenter.DefaultChartHeight))
			s.WriteString("\n")
		}

		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("tab: edit dates | enter: apply range | c/p: toggle series | Esc: new file | q: quit"))
	}

	return s.String()
}

func (m Model) dateLabel(label string, focus int) string {
	if m.focus == focus {
		return FocusedLabelStyle.Render(label + ": ")
	}

	return LabelStyle.Render(label + ": ")
}
