package main

import "github.com/rxtech-lab/argo-forecast/internal/pipeline"

// RunFinishedMsg carries the outcome of a pipeline run started from the file input.
type RunFinishedMsg struct {
	Path   string
	Result pipeline.Result
	Err    error
}
