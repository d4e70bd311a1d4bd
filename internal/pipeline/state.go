package pipeline

import "fmt"

// State is the position of a run in the pipeline.
type State int

const (
	StateIdle State = iota
	StateFileRead
	StateColumnsNormalized
	StateSchemaValidatedA
	StateFeaturesBuilt
	StateSchemaValidatedB
	StatePredicted
	StateRangeSelected
	StatePresented
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:              "idle",
	StateFileRead:          "file_read",
	StateColumnsNormalized: "columns_normalized",
	StateSchemaValidatedA:  "schema_validated_a",
	StateFeaturesBuilt:     "features_built",
	StateSchemaValidatedB:  "schema_validated_b",
	StatePredicted:         "predicted",
	StateRangeSelected:     "range_selected",
	StatePresented:         "presented",
	StateFailed:            "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}

	return fmt.Sprintf("state(%d)", int(s))
}

// StageError reports the stage a run failed to reach; the run itself ends in StateFailed.
// Err keeps its code, so errors.GetCode and errors.As see through a StageError.
type StageError struct {
	// RunID identifies the failed run
	RunID string
	// Stage is the state the run was moving to when it failed
	Stage State
	// Reached is the last state the run completed
	Reached State
	Err     error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
