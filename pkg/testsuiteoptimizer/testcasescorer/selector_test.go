package testcasescorer

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshift/test-suite-optimizer/pkg/results"
	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer/testsuiteoptimizerapi"
)

func TestSelectorSelect(t *testing.T) {
	rows := []testsuiteoptimizerapi.ScoredRow{
		scored("S2", "C", 4, 0.35),
		scored("S1", "A", 10, 0.55),
		scored("S1", "F", 6, 0.15),
		scored("S1", "G", 9, 0.30),
		scored("S3", "H", 20, 0.10),
	}
	for _, tc := range []struct {
		name     string
		config   SelectionConfig
		expected []string
	}{
		{
			name:     "defaults keep the best row of every suite above 0.2",
			config:   DefaultSelectionConfig(),
			expected: []string{"S1/A", "S2/C"},
		},
		{
			name:     "no cap keeps every row above the threshold ranked by score",
			config:   SelectionConfig{MinWeightedScore: float64Ptr(0.2)},
			expected: []string{"S1/A", "S1/G", "S2/C"},
		},
		{
			name:     "no threshold and no cap ranks everything",
			config:   SelectionConfig{},
			expected: []string{"S1/A", "S1/G", "S1/F", "S2/C", "S3/H"},
		},
		{
			name:     "threshold is inclusive",
			config:   SelectionConfig{MinWeightedScore: float64Ptr(0.35)},
			expected: []string{"S1/A", "S2/C"},
		},
		{
			name:     "cap without threshold",
			config:   SelectionConfig{MaxTestsPerSuite: intPtr(2)},
			expected: []string{"S1/A", "S1/G", "S2/C", "S3/H"},
		},
		{
			name:   "zero cap selects nothing",
			config: SelectionConfig{MaxTestsPerSuite: intPtr(0)},
		},
		{
			name:   "threshold above every score selects nothing",
			config: SelectionConfig{MinWeightedScore: float64Ptr(0.9)},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			selector, err := NewSelector(tc.config)
			require.NoError(t, err)
			optimized, err := selector.Select(rows)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.expected, testNames(optimized)); diff != "" {
				t.Errorf("unexpected selection (-want +got):\n%s", diff)
			}
			for _, row := range optimized {
				if tc.config.MinWeightedScore != nil {
					assert.GreaterOrEqual(t, row.WeightedScore, *tc.config.MinWeightedScore)
				}
			}
		})
	}
}

func TestSelectorPrefersMostRunsOnEqualScores(t *testing.T) {
	selector, err := NewSelector(DefaultSelectionConfig())
	require.NoError(t, err)
	optimized, err := selector.Select([]testsuiteoptimizerapi.ScoredRow{
		scored("S", "Few", 4, 0.4),
		scored("S", "Many", 12, 0.4),
		scored("S", "Some", 8, 0.4),
	})
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"S/Many"}, testNames(optimized)); diff != "" {
		t.Errorf("unexpected selection (-want +got):\n%s", diff)
	}
}

func TestSelectorRandomTieBreak(t *testing.T) {
	rows := []testsuiteoptimizerapi.ScoredRow{
		scored("S", "A", 5, 0.4),
		scored("S", "B", 5, 0.4),
		scored("S", "C", 5, 0.4),
	}
	rng := &fixedRandSource{picks: []int{1, 1}}
	selector, err := NewSelector(SelectionConfig{}, WithRandSources(func(suite string) RandSource {
		assert.Equal(t, "S", suite)
		return rng
	}))
	require.NoError(t, err)
	optimized, err := selector.Select(rows)
	require.NoError(t, err)

	// B is drawn out of {A, B, C}, then C out of {A, C}
	if diff := cmp.Diff([]string{"S/B", "S/C", "S/A"}, testNames(optimized)); diff != "" {
		t.Errorf("unexpected ranking (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{3, 2}, rng.bounds); diff != "" {
		t.Errorf("unexpected random source calls (-want +got):\n%s", diff)
	}
}

func TestSelectorSeededTieBreakIsReproducible(t *testing.T) {
	var rows []testsuiteoptimizerapi.ScoredRow
	for _, suite := range []string{"S1", "S2", "S3", "S4"} {
		for _, test := range []string{"A", "B", "C", "D", "E", "F"} {
			rows = append(rows, scored(suite, test, 10, 0.4))
		}
	}
	config := SelectionConfig{Seed: 42}

	selectWith := func(parallelism int, rows []testsuiteoptimizerapi.ScoredRow) []string {
		selector, err := NewSelector(config, WithParallelism(parallelism))
		require.NoError(t, err)
		optimized, err := selector.Select(rows)
		require.NoError(t, err)
		return testNames(optimized)
	}

	first := selectWith(1, rows)
	require.Len(t, first, len(rows))
	if diff := cmp.Diff(first, selectWith(1, rows)); diff != "" {
		t.Errorf("same seed produced a different ranking (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first, selectWith(8, rows)); diff != "" {
		t.Errorf("parallelism changed the ranking (-sequential +parallel):\n%s", diff)
	}

	// Suites are ranked independently, so dropping one leaves the others alone.
	var withoutS2 []testsuiteoptimizerapi.ScoredRow
	var expected []string
	for _, row := range rows {
		if row.SuiteName != "S2" {
			withoutS2 = append(withoutS2, row)
		}
	}
	for _, name := range first {
		if !strings.HasPrefix(name, "S2/") {
			expected = append(expected, name)
		}
	}
	if diff := cmp.Diff(expected, selectWith(4, withoutS2)); diff != "" {
		t.Errorf("removing a suite changed the other suites (-want +got):\n%s", diff)
	}
}

func TestSelectorNameTieBreak(t *testing.T) {
	selector, err := NewSelector(SelectionConfig{TieBreak: TieBreakByName}, WithRandSources(func(string) RandSource {
		t.Error("the name policy must not use a random source")
		return nil
	}))
	require.NoError(t, err)
	optimized, err := selector.Select([]testsuiteoptimizerapi.ScoredRow{
		scored("S", "Charlie", 5, 0.4),
		scored("S", "Alpha", 5, 0.4),
		scored("S", "Delta", 7, 0.4),
		scored("S", "Bravo", 5, 0.4),
	})
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"S/Delta", "S/Alpha", "S/Bravo", "S/Charlie"}, testNames(optimized)); diff != "" {
		t.Errorf("unexpected ranking (-want +got):\n%s", diff)
	}
}

func TestSelectorRejectsMissingScores(t *testing.T) {
	selector, err := NewSelector(DefaultSelectionConfig())
	require.NoError(t, err)
	_, err = selector.Select([]testsuiteoptimizerapi.ScoredRow{
		scored("S", "A", 5, 0.4),
		scored("S", "B", 5, math.NaN()),
	})
	require.Error(t, err)
	assert.True(t, results.HasReason(err, results.ReasonDataIntegrity), "got reason %s", results.FullReason(err))
}

func TestNewSelectorRejectsInvalidConfiguration(t *testing.T) {
	_, err := NewSelector(SelectionConfig{MaxTestsPerSuite: intPtr(-3)})
	require.Error(t, err)
	assert.True(t, results.HasReason(err, results.ReasonInvalidConfiguration))
}

func TestSelectorEmptyInput(t *testing.T) {
	selector, err := NewSelector(DefaultSelectionConfig())
	require.NoError(t, err)
	optimized, err := selector.Select(nil)
	require.NoError(t, err)
	assert.Empty(t, optimized)
}
