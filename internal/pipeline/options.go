package pipeline

import (
	"github.com/rxtech-lab/argo-forecast/internal/logger"
	"github.com/rxtech-lab/argo-forecast/internal/presenter"
	"github.com/rxtech-lab/argo-forecast/internal/types"
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. Runs are silent by default.
func WithLogger(log *logger.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.logger = log
		}
	}
}

// WithHeadRows sets the number of feature rows previewed in the payload.
func WithHeadRows(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.headRows = n
		}
	}
}

// WithAliases accepts extra column names for the raw columns, keyed by canonical name.
func WithAliases(aliases map[string][]string) Option {
	return func(p *Pipeline) {
		p.checkpoint = p.checkpoint.WithAliases(aliases)
	}
}

// WithSeries sets the default chart selection.
func WithSeries(series []types.ChartSeries) Option {
	return func(p *Pipeline) {
		if len(series) > 0 {
			p.series = append([]types.ChartSeries(nil), series...)
		}
	}
}

func defaults() *Pipeline {
	return &Pipeline{
		logger:   nil,
		headRows: presenter.DefaultHeadRows,
		series:   types.AllSeries(),
	}
}
