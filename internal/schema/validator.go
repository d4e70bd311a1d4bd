package schema

import (
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
)

const (
	// CheckpointRaw is verified right after the upload is normalized.
	CheckpointRaw = "A"
	// CheckpointFeatures is verified right before the model is called.
	CheckpointFeatures = "B"
)

// Checkpoint is a named set of columns that must be present before the pipeline proceeds.
type Checkpoint struct {
	// Name identifies the checkpoint in errors and logs
	Name string
	// Required lists the column names that must be present, in reporting order
	Required []string
	// Aliases maps a canonical column name to alternative names accepted in its place
	Aliases map[string][]string
}

// RawCheckpoint returns checkpoint A. "Volume()" is accepted as an alias of "Volume" for tables
// produced by the legacy export.
func RawCheckpoint() Checkpoint {
	return Checkpoint{
		Name:     CheckpointRaw,
		Required: types.PriceColumns(),
		Aliases: map[string][]string{
			types.ColumnVolume: {"Volume()"},
		},
	}
}

// FeatureCheckpoint returns checkpoint B.
func FeatureCheckpoint() Checkpoint {
	return Checkpoint{
		Name:     CheckpointFeatures,
		Required: types.FeatureNames(),
		Aliases:  nil,
	}
}

// WithAliases returns a copy of the checkpoint with extra aliases merged in.
func (c Checkpoint) WithAliases(extra map[string][]string) Checkpoint {
	merged := make(map[string][]string, len(c.Aliases)+len(extra))
	for canonical, aliases := range c.Aliases {
		merged[canonical] = append([]string(nil), aliases...)
	}

	for canonical, aliases := range extra {
		merged[canonical] = append(merged[canonical], aliases...)
	}

	c.Aliases = merged

	return c
}

// ResolveAliases renames the first column matching an alias to its canonical name when the
// canonical name is absent. Aliases match either literally or after CleanName.
// The input slice is not modified.
func (c Checkpoint) ResolveAliases(columns []string) []string {
	resolved := make([]string, len(columns))
	copy(resolved, columns)

	for _, canonical := range c.Required {
		aliases, ok := c.Aliases[canonical]
		if !ok || indexOf(resolved, canonical) >= 0 {
			continue
		}

		for _, alias := range aliases {
			idx := indexOf(resolved, alias)
			if idx < 0 {
				idx = indexOf(resolved, CleanName(alias))
			}

			if idx >= 0 {
				resolved[idx] = canonical

				break
			}
		}
	}

	return resolved
}

// Validate returns a SchemaMismatchError listing the required columns absent from columns.
func (c Checkpoint) Validate(columns []string) error {
	missing := Missing(columns, c.Required)
	if len(missing) > 0 {
		return errors.NewSchemaMismatchError(c.Name, missing)
	}

	return nil
}

// HasColumns reports whether every required name is present. Matching is exact and case-sensitive.
func HasColumns(columns []string, required []string) bool {
	return len(Missing(columns, required)) == 0
}

// Missing returns the required names absent from columns, in required order.
func Missing(columns []string, required []string) []string {
	present := make(map[string]bool, len(columns))
	for _, column := range columns {
		present[column] = true
	}

	var missing []string

	for _, name := range required {
		if !present[name] {
			missing = append(missing, name)
		}
	}

	return missing
}

func indexOf(columns []string, name string) int {
	for i, column := range columns {
		if column == name {
			return i
		}
	}

	return -1
}
