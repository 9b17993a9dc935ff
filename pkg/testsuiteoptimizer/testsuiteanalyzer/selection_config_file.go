package testsuiteanalyzer

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/openshift/test-suite-optimizer/pkg/results"
	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer/testcasescorer"
)

// loadSelectionConfig overlays the YAML file at path on top of base. Keys absent
// from the file keep their base value, an explicit null clears a threshold or cap.
func loadSelectionConfig(path string, base testcasescorer.SelectionConfig) (testcasescorer.SelectionConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return base, results.ForReason(results.ReasonInvalidConfiguration).WithError(err).Errorf("failed to read selection config: %v", err)
	}
	config := base
	if base.MinWeightedScore != nil {
		minWeightedScore := *base.MinWeightedScore
		config.MinWeightedScore = &minWeightedScore
	}
	if base.MaxTestsPerSuite != nil {
		maxTestsPerSuite := *base.MaxTestsPerSuite
		config.MaxTestsPerSuite = &maxTestsPerSuite
	}
	if err := yaml.UnmarshalStrict(raw, &config); err != nil {
		return base, results.ForReason(results.ReasonInvalidConfiguration).WithError(err).Errorf("failed to parse selection config %s: %v", path, err)
	}
	if err := config.Validate(); err != nil {
		return base, fmt.Errorf("invalid selection config %s: %w", path, err)
	}
	return config, nil
}
