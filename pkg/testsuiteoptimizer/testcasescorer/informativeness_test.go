package testcasescorer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer/testsuiteoptimizerapi"
)

func rated(t *testing.T, records []testsuiteoptimizerapi.ExecutionRecord) []testsuiteoptimizerapi.RateRow {
	t.Helper()
	aggregated, err := Aggregate(records)
	require.NoError(t, err)
	rows, err := CalculateRates(aggregated)
	require.NoError(t, err)
	return rows
}

func TestSplitByInformativeness(t *testing.T) {
	rows := rated(t, concat(
		runs("S1", "A", 3, 7),
		runs("S1", "B", 5, 0),
		runs("S2", "C", 2, 2),
		runs("S2", "D", 0, 9),
		runs("S3", "E", 1, 0),
	))
	noise, informative := SplitByInformativeness(rows)

	var noiseNames, informativeNames []string
	for _, row := range noise {
		noiseNames = append(noiseNames, row.TestName)
	}
	for _, row := range informative {
		informativeNames = append(informativeNames, row.TestName)
	}
	if diff := cmp.Diff([]string{"B", "D", "E"}, noiseNames); diff != "" {
		t.Errorf("unexpected noise (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"A", "C"}, informativeNames); diff != "" {
		t.Errorf("unexpected informative rows (-want +got):\n%s", diff)
	}

	// every row lands in exactly one side
	assert.Equal(t, len(rows), len(noise)+len(informative))
	for _, row := range noise {
		assert.True(t, row.PassRate == 0 || row.PassRate == 1, "%s is noise with pass rate %v", row.TestName, row.PassRate)
	}
	for _, row := range informative {
		assert.True(t, row.PassRate > 0 && row.PassRate < 1, "%s is informative with pass rate %v", row.TestName, row.PassRate)
	}
}

func TestScore(t *testing.T) {
	_, informative := SplitByInformativeness(rated(t, concat(runs("S1", "A", 3, 7), runs("S2", "C", 2, 2))))
	scoredRows := Score(informative)
	require.Len(t, scoredRows, 2)

	a, c := scoredRows[0], scoredRows[1]
	assert.Equal(t, "A", a.TestName)
	assert.InDelta(t, 0.2, a.Variability, 1e-9)
	assert.InDelta(t, 0.55, a.WeightedScore, 1e-9)
	assert.Equal(t, "C", c.TestName)
	assert.InDelta(t, 0, c.Variability, 1e-9)
	assert.InDelta(t, 0.35, c.WeightedScore, 1e-9)
}

func TestScoreRange(t *testing.T) {
	for n := 2; n <= 60; n++ {
		best := 0.0
		for passes := 1; passes < n; passes++ {
			_, informative := SplitByInformativeness(rated(t, runs("S", "T", passes, n-passes)))
			require.Len(t, informative, 1)
			row := Score(informative)[0]
			expected := row.FailRate*FailRateWeight + row.Variability*VariabilityWeight
			assert.InDelta(t, expected, row.WeightedScore, 1e-12)
			assert.GreaterOrEqual(t, row.Variability, 0.0)
			assert.LessOrEqual(t, row.Variability, 0.5)
			assert.Greater(t, row.WeightedScore, 0.0, "%d/%d", passes, n)
			assert.Less(t, row.WeightedScore, 0.85, "%d/%d", passes, n)
			if row.WeightedScore > best {
				best = row.WeightedScore
			}
		}
		// the best reachable score belongs to a single pass out of n runs
		assert.InDelta(t, 0.85-1/float64(n), best, 1e-9, "best score over %d runs", n)
	}
}
