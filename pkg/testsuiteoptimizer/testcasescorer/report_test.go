package testcasescorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshift/test-suite-optimizer/pkg/results"
	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer/testsuiteoptimizerapi"
)

func rateRow(suite, test string) testsuiteoptimizerapi.RateRow {
	return testsuiteoptimizerapi.RateRow{AggregateRow: testsuiteoptimizerapi.AggregateRow{SuiteName: suite, TestName: test}}
}

func TestReport(t *testing.T) {
	statistics := []testsuiteoptimizerapi.RateRow{rateRow("S1", "A"), rateRow("S1", "B"), rateRow("S2", "C"), rateRow("S2", "D")}
	noise := []testsuiteoptimizerapi.RateRow{rateRow("S1", "B")}
	informative := []testsuiteoptimizerapi.ScoredRow{scored("S1", "A", 10, 0.55), scored("S2", "C", 4, 0.35), scored("S2", "D", 4, 0.25)}
	optimized := []testsuiteoptimizerapi.ScoredRow{scored("S1", "A", 10, 0.55), scored("S2", "C", 4, 0.35)}

	report, err := Report(statistics, noise, informative, optimized)
	require.NoError(t, err)
	assert.Equal(t, 4, report.TotalTestCases)
	assert.Equal(t, 1, report.NoiseTestCases)
	assert.Equal(t, 3, report.InformativeTestCases)
	assert.Equal(t, 2, report.OptimizedTestCases)
	assert.InDelta(t, 50, report.ReductionPercentage, 1e-9)
	assert.InDelta(t, 0.45, report.MeanOptimizedScore, 1e-9)
	assert.InDelta(t, 0.45, report.MedianOptimizedScore, 1e-9)
	assert.InDelta(t, 0.55, report.MaxOptimizedScore, 1e-9)
}

func TestReportCountsUniqueTestNames(t *testing.T) {
	statistics := []testsuiteoptimizerapi.RateRow{rateRow("S1", "Login"), rateRow("S2", "Login"), rateRow("S2", "Logout")}
	optimized := []testsuiteoptimizerapi.ScoredRow{scored("S1", "Login", 2, 0.4), scored("S2", "Login", 2, 0.4)}

	report, err := Report(statistics, nil, optimized, optimized)
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalTestCases)
	assert.Equal(t, 1, report.OptimizedTestCases)
	assert.InDelta(t, 50, report.ReductionPercentage, 1e-9)
}

func TestReportWithoutOptimizedRows(t *testing.T) {
	report, err := Report([]testsuiteoptimizerapi.RateRow{rateRow("S", "A")}, []testsuiteoptimizerapi.RateRow{rateRow("S", "A")}, nil, nil)
	require.NoError(t, err)
	assert.InDelta(t, 100, report.ReductionPercentage, 1e-9)
	assert.Zero(t, report.MeanOptimizedScore)
	assert.Zero(t, report.MaxOptimizedScore)
}

func TestReportWithoutTestCases(t *testing.T) {
	_, err := Report(nil, nil, nil, nil)
	require.Error(t, err)
	assert.True(t, results.HasReason(err, results.ReasonDataIntegrity))
}
