package testcasescorer

import (
	"math"

	"github.com/openshift/test-suite-optimizer/pkg/results"
)

// TieBreakPolicy decides between test cases that share a weighted score and a run count.
type TieBreakPolicy string

const (
	// TieBreakRandom picks uniformly at random, reproducibly for a given seed.
	TieBreakRandom TieBreakPolicy = "random"
	// TieBreakByName picks the lexicographically smallest test name.
	TieBreakByName TieBreakPolicy = "name"
)

const (
	DefaultMinWeightedScore = 0.2
	DefaultMaxTestsPerSuite = 1
)

// SelectionConfig bounds the optimized table. A nil MinWeightedScore means no
// threshold and a nil MaxTestsPerSuite means no cap.
type SelectionConfig struct {
	MinWeightedScore *float64       `json:"min_weighted_score"`
	MaxTestsPerSuite *int           `json:"max_tests_per_suite"`
	TieBreak         TieBreakPolicy `json:"tie_break,omitempty"`
	Seed             uint64         `json:"random_seed,omitempty"`
}

func DefaultSelectionConfig() SelectionConfig {
	minWeightedScore := DefaultMinWeightedScore
	maxTestsPerSuite := DefaultMaxTestsPerSuite
	return SelectionConfig{
		MinWeightedScore: &minWeightedScore,
		MaxTestsPerSuite: &maxTestsPerSuite,
		TieBreak:         TieBreakRandom,
	}
}

func (c SelectionConfig) Validate() error {
	if c.MinWeightedScore != nil {
		if score := *c.MinWeightedScore; math.IsNaN(score) || score < 0 || score > 1 {
			return results.ForReason(results.ReasonInvalidConfiguration).Errorf("min_weighted_score must be within [0, 1], got %v", score)
		}
	}
	if c.MaxTestsPerSuite != nil && *c.MaxTestsPerSuite < 0 {
		return results.ForReason(results.ReasonInvalidConfiguration).Errorf("max_tests_per_suite must not be negative, got %d", *c.MaxTestsPerSuite)
	}
	switch c.TieBreak {
	case "", TieBreakRandom, TieBreakByName:
	default:
		return results.ForReason(results.ReasonInvalidConfiguration).Errorf("unknown tie_break policy %q, must be one of %q or %q", c.TieBreak, TieBreakRandom, TieBreakByName)
	}
	return nil
}

func (c SelectionConfig) tieBreak() TieBreakPolicy {
	if c.TieBreak == "" {
		return TieBreakRandom
	}
	return c.TieBreak
}
