package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ArtifactConstraint returns the artifact versions a reader of supported can load: the same
// major and minor version, any patch.
func ArtifactConstraint(supported string) (*semver.Constraints, error) {
	v, err := semver.NewVersion(strings.TrimPrefix(supported, "v"))
	if err != nil {
		return nil, fmt.Errorf("invalid supported version %q: %w", supported, err)
	}

	return semver.NewConstraint(fmt.Sprintf("~%d.%d.0", v.Major(), v.Minor()))
}

// CheckArtifactCompatibility returns an error when artifactVersion is outside ArtifactConstraint(supported).
func CheckArtifactCompatibility(supported, artifactVersion string) error {
	constraint, err := ArtifactConstraint(supported)
	if err != nil {
		return err
	}

	artifact, err := semver.NewVersion(strings.TrimPrefix(artifactVersion, "v"))
	if err != nil {
		return fmt.Errorf("invalid artifact version %q: %w", artifactVersion, err)
	}

	if ok, reasons := constraint.Validate(artifact); !ok {
		return fmt.Errorf("artifact version %s is not readable, want %s: %v", artifact, constraint, reasons)
	}

	return nil
}
