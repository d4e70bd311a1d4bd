package model

import (
	"os"
	"sort"

	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/internal/version"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Artifact is the on-disk form of a trained linear model. YAML and JSON are both accepted.
//
//	format_version: 1.0.0
//	name: daily-close
//	intercept: 0.12
//	coefficients:
//	  Open: 0.41
//	  High: 0.33
//	  ...
type Artifact struct {
	FormatVersion string             `yaml:"format_version" json:"format_version"`
	Name          string             `yaml:"name" json:"name"`
	Intercept     float64            `yaml:"intercept" json:"intercept"`
	Coefficients  map[string]float64 `yaml:"coefficients" json:"coefficients"`
}

// Load reads and decodes a model artifact. The model is meant to be loaded once at start-up and
// passed to the pipeline as a read-only handle.
func Load(path string) (*LinearRegression, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeModelLoad, err, "failed to read model artifact %s", path)
	}

	return Parse(data)
}

// Parse decodes a model artifact.
func Parse(data []byte) (*LinearRegression, error) {
	var artifact Artifact
	if err := yaml.Unmarshal(data, &artifact); err != nil {
		return nil, errors.Wrap(errors.ErrCodeModelLoad, "failed to decode model artifact", err)
	}

	return artifact.Model()
}

// Model converts the artifact into a LinearRegression after checking its format version and
// that it carries exactly the expected features.
func (a Artifact) Model() (*LinearRegression, error) {
	if a.FormatVersion == "" {
		return nil, errors.New(errors.ErrCodeModelLoad, "model artifact has no format_version")
	}

	if err := version.CheckArtifactCompatibility(version.ArtifactFormatVersion, a.FormatVersion); err != nil {
		return nil, errors.Wrap(errors.ErrCodeVersionMismatch, "unsupported model artifact", err)
	}

	names := types.FeatureNames()
	expected := make(map[string]bool, len(names))

	for _, name := range names {
		expected[name] = true
	}

	var unknown []string

	for name := range a.Coefficients {
		if !expected[name] {
			unknown = append(unknown, name)
		}
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)

		return nil, errors.Newf(errors.ErrCodeModelLoad, "model artifact has unknown features: %v", unknown)
	}

	coefficients := make([]float64, len(names))

	for i, name := range names {
		weight, ok := a.Coefficients[name]
		if !ok {
			return nil, errors.Newf(errors.ErrCodeModelLoad, "model artifact has no coefficient for %s", name)
		}

		coefficients[i] = weight
	}

	m, err := NewLinearRegression(a.Intercept, coefficients)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeModelLoad, "invalid model artifact", err)
	}

	return m, nil
}
