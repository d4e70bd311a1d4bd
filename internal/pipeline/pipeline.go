// Package pipeline runs an uploaded price table through normalization, validation, feature
// construction, prediction and range selection.
//
// A Pipeline holds only read-only state and may be shared between goroutines; every Run
// allocates its own tables.
package pipeline

import (
	"io"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-forecast/internal/datasource"
	"github.com/rxtech-lab/argo-forecast/internal/feature"
	"github.com/rxtech-lab/argo-forecast/internal/logger"
	"github.com/rxtech-lab/argo-forecast/internal/model"
	"github.com/rxtech-lab/argo-forecast/internal/presenter"
	"github.com/rxtech-lab/argo-forecast/internal/schema"
	"github.com/rxtech-lab/argo-forecast/internal/selector"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"go.uber.org/zap"
)

// Pipeline turns raw tables into presentation payloads using an injected model.
type Pipeline struct {
	model      model.Model
	logger     *logger.Logger
	headRows   int
	checkpoint schema.Checkpoint
	series     []types.ChartSeries
}

// Result is the outcome of a successful run.
type Result struct {
	// RunID identifies the run in logs
	RunID string
	// State is StatePresented after a successful run and StateFailed next to an error
	State State
	// Columns are the normalized column names after alias resolution
	Columns   []string
	Features  types.FeatureTable
	Predicted types.PredictedTable
	Payload   presenter.Payload

	logger *logger.Logger
}

// New creates a pipeline around m.
func New(m model.Model, opts ...Option) *Pipeline {
	p := defaults()
	p.model = m
	p.checkpoint = schema.RawCheckpoint()

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = logger.NewNopLogger()
	}

	return p
}

// RunFile reads path and runs it.
func (p *Pipeline) RunFile(path string, req selector.RangeRequest) (Result, error) {
	runID := uuid.New().String()
	log := p.logger.With(zap.String("run_id", runID), zap.String("path", path))

	raw, err := datasource.ReadFile(path)
	if err != nil {
		return failed(runID), fail(log, runID, StateIdle, StateFileRead, err)
	}

	return p.run(runID, raw, req)
}

// RunReader decodes r in the given format and runs it.
func (p *Pipeline) RunReader(r io.Reader, format datasource.Format, req selector.RangeRequest) (Result, error) {
	runID := uuid.New().String()
	log := p.logger.With(zap.String("run_id", runID), zap.String("format", string(format)))

	raw, err := datasource.NewReader(format).Read(r)
	if err != nil {
		return failed(runID), fail(log, runID, StateIdle, StateFileRead, err)
	}

	return p.run(runID, raw, req)
}

// Run executes every stage on raw and stops at the first failure. Failures are returned as
// *StageError.
func (p *Pipeline) Run(raw types.RawTable, req selector.RangeRequest) (Result, error) {
	return p.run(uuid.New().String(), raw, req)
}

func (p *Pipeline) run(runID string, raw types.RawTable, req selector.RangeRequest) (Result, error) {
	log := p.logger.With(zap.String("run_id", runID))
	reached := StateIdle

	advance := func(state State, fields ...zap.Field) {
		reached = state
		log.Debug("Pipeline stage reached", append([]zap.Field{zap.Stringer("state", state)}, fields...)...)
	}

	if len(raw.Columns) == 0 {
		return failed(runID), fail(log, runID, reached, StateFileRead,
			errors.New(errors.ErrCodeFileRead, "uploaded table has no header"))
	}

	advance(StateFileRead, zap.Int("records", raw.Len()))

	columns := schema.Normalize(raw.Columns)

	advance(StateColumnsNormalized, zap.Strings("columns", columns))

	columns = p.checkpoint.ResolveAliases(columns)
	if err := p.checkpoint.Validate(columns); err != nil {
		return failed(runID), fail(log, runID, reached, StateSchemaValidatedA, err)
	}

	advance(StateSchemaValidatedA)

	rows, err := feature.Decode(raw.WithColumns(columns))
	if err != nil {
		return failed(runID), fail(log, runID, reached, StateFeaturesBuilt, err)
	}

	features := feature.Build(columns, rows)

	advance(StateFeaturesBuilt, zap.Int("rows", features.Len()), zap.Int("dropped", len(rows)-features.Len()))

	if err := schema.FeatureCheckpoint().Validate(features.Columns); err != nil {
		return failed(runID), fail(log, runID, reached, StateSchemaValidatedB, err)
	}

	advance(StateSchemaValidatedB)

	predicted, err := model.PredictTable(p.model, features)
	if err != nil {
		return failed(runID), fail(log, runID, reached, StatePredicted, err)
	}

	advance(StatePredicted)

	selection, err := selector.SelectRequest(predicted, req)
	if err != nil {
		return failed(runID), fail(log, runID, reached, StateRangeSelected, err)
	}

	advance(StateRangeSelected, zap.Stringer("range", selection.Range), zap.Int("selected", len(selection.Rows)))

	payload := presenter.NewPayload(runID, columns, features, p.headRows, selection, p.series)

	advance(StatePresented, zap.Bool("empty", payload.Empty))

	return Result{
		RunID:     runID,
		State:     reached,
		Columns:   columns,
		Features:  features,
		Predicted: predicted,
		Payload:   payload,
		logger:    log,
	}, nil
}

// Reselect applies another date range to the predicted table without reading or predicting
// again. The receiver is left unchanged; on RangeInvalid it is still a valid result to show.
func (r Result) Reselect(req selector.RangeRequest) (Result, error) {
	log := r.logger
	if log == nil {
		log = logger.NewNopLogger()
	}

	selection, err := selector.SelectRequest(r.Predicted, req)
	if err != nil {
		return r, fail(log, r.RunID, StatePredicted, StateRangeSelected, err)
	}

	log.Debug("Range reselected", zap.Stringer("range", selection.Range), zap.Int("selected", len(selection.Rows)))

	r.Payload = r.Payload.WithSelection(selection)

	return r, nil
}

// WithSeries returns a copy of the result whose payload draws the given series.
func (r Result) WithSeries(series []types.ChartSeries) Result {
	r.Payload = r.Payload.WithSeries(series)

	return r
}

// failed is the result returned next to a StageError.
func failed(runID string) Result {
	return Result{RunID: runID, State: StateFailed}
}

func fail(log *logger.Logger, runID string, reached, stage State, err error) error {
	log.Warn("Pipeline run failed",
		zap.Stringer("state", StateFailed),
		zap.Stringer("stage", stage),
		zap.Stringer("reached", reached),
		zap.String("code", errors.GetCode(err).String()),
		zap.Error(err),
	)

	return &StageError{
		RunID:   runID,
		Stage:   stage,
		Reached: reached,
		Err:     err,
	}
}
