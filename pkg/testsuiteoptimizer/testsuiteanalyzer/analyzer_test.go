package testsuiteanalyzer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/openshift/test-suite-optimizer/pkg/results"
	"github.com/openshift/test-suite-optimizer/pkg/testhelper"
	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer/testcasescorer"
	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer/testsuiteoptimizerapi"
	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer/testsuiteoptimizerlib"
)

func executions(suite, test string, passes, failures int) []testsuiteoptimizerapi.ExecutionRecord {
	var records []testsuiteoptimizerapi.ExecutionRecord
	for i := 0; i < passes+failures; i++ {
		record := testsuiteoptimizerapi.ExecutionRecord{BuildNumber: strconv.Itoa(100 + i), SuiteName: suite, TestName: test}
		if i < passes {
			record.Passed = testsuiteoptimizerapi.OutcomeSet
		} else {
			record.Failed = testsuiteoptimizerapi.OutcomeSet
		}
		records = append(records, record)
	}
	return records
}

func exampleRecords() []testsuiteoptimizerapi.ExecutionRecord {
	var records []testsuiteoptimizerapi.ExecutionRecord
	records = append(records, executions("S1", "A", 3, 7)...)
	records = append(records, executions("S1", "B", 5, 0)...)
	records = append(records, executions("S2", "C", 2, 2)...)
	return records
}

func readCSV[T any](t *testing.T, path string) []T {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var rows []T
	require.NoError(t, gocsv.UnmarshalBytes(raw, &rows))
	return rows
}

func TestTestSuiteAnalyzerOptionsRun(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	source := testsuiteoptimizerlib.NewMockExecutionRecordSource(mockCtrl)
	source.EXPECT().ListExecutionRecords(gomock.Any()).Return(exampleRecords(), nil)

	uploader := testsuiteoptimizerlib.NewMockArtifactUploader(mockCtrl)
	var uploaded []string
	uploader.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, name string, content []byte) error {
		uploaded = append(uploaded, name)
		assert.NotEmpty(t, content)
		return nil
	}).Times(3)

	outputDir := filepath.Join(t.TempDir(), "out")
	metricsFile := filepath.Join(t.TempDir(), "optimizer.prom")
	out := &bytes.Buffer{}
	o := &TestSuiteAnalyzerOptions{
		source:      source,
		selection:   testcasescorer.DefaultSelectionConfig(),
		parallelism: 2,
		outputDir:   outputDir,
		metricsFile: metricsFile,
		uploader:    uploader,
		out:         out,
	}
	require.NoError(t, o.Run(context.Background()))

	assert.Equal(t, []string{StatisticsFileName, NoiseFileName, OptimizedFileName}, uploaded)

	statistics := readCSV[testsuiteoptimizerapi.RateRow](t, filepath.Join(outputDir, StatisticsFileName))
	require.Len(t, statistics, 3)
	assert.Equal(t, testsuiteoptimizerapi.AggregateRow{SuiteName: "S1", TestName: "A", TotalRuns: 10, TotalPasses: 3, TotalFailures: 7}, statistics[0].AggregateRow)
	assert.InDelta(t, 0.3, statistics[0].PassRate, 1e-9)

	noise := readCSV[testsuiteoptimizerapi.RateRow](t, filepath.Join(outputDir, NoiseFileName))
	require.Len(t, noise, 1)
	assert.Equal(t, "B", noise[0].TestName)

	optimized := readCSV[testsuiteoptimizerapi.ScoredRow](t, filepath.Join(outputDir, OptimizedFileName))
	var names []string
	for _, row := range optimized {
		names = append(names, row.SuiteName+"/"+row.TestName)
	}
	if diff := cmp.Diff([]string{"S1/A", "S2/C"}, names); diff != "" {
		t.Errorf("unexpected optimized test suite (-want +got):\n%s", diff)
	}
	assert.InDelta(t, 0.55, optimized[0].WeightedScore, 1e-9)
	assert.InDelta(t, 0.35, optimized[1].WeightedScore, 1e-9)

	summary := out.String()
	assert.Contains(t, summary, "Total test cases before filtering: 3\n")
	assert.Contains(t, summary, "Test cases in optimized suite: 2\n")
	assert.Contains(t, summary, "Reduction in test cases: 33.33%\n")
	assert.Contains(t, summary, "0.5500")

	metrics, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `test_suite_optimizer_test_cases{set="optimized"} 2`)
	assert.Contains(t, string(metrics), `test_suite_optimizer_selected_test_cases{suite="S2"} 1`)
}

func TestTestSuiteAnalyzerOptionsRunFailures(t *testing.T) {
	loadErr := results.ForReason(results.ReasonLoadingRecords).ForError(errors.New("connection reset"))
	for _, tc := range []struct {
		name           string
		records        []testsuiteoptimizerapi.ExecutionRecord
		sourceErr      error
		selection      testcasescorer.SelectionConfig
		expectedErr    error
		expectedReason results.Reason
	}{
		{
			name:           "source fails",
			sourceErr:      loadErr,
			selection:      testcasescorer.DefaultSelectionConfig(),
			expectedErr:    errors.New("connection reset"),
			expectedReason: results.ReasonLoadingRecords,
		},
		{
			name:           "no records",
			selection:      testcasescorer.DefaultSelectionConfig(),
			expectedErr:    errors.New("no execution records to aggregate"),
			expectedReason: results.ReasonEmptyInput,
		},
		{
			name:           "invalid selection",
			records:        exampleRecords(),
			selection:      testcasescorer.SelectionConfig{MaxTestsPerSuite: intPtr(-2)},
			expectedErr:    errors.New("max_tests_per_suite must not be negative, got -2"),
			expectedReason: results.ReasonInvalidConfiguration,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			mockCtrl := gomock.NewController(t)
			source := testsuiteoptimizerlib.NewMockExecutionRecordSource(mockCtrl)
			source.EXPECT().ListExecutionRecords(gomock.Any()).Return(tc.records, tc.sourceErr)

			outputDir := t.TempDir()
			o := &TestSuiteAnalyzerOptions{
				source:      source,
				selection:   tc.selection,
				parallelism: 1,
				outputDir:   outputDir,
				out:         &bytes.Buffer{},
			}
			err := o.Run(context.Background())
			if diff := cmp.Diff(tc.expectedErr, err, testhelper.EquateErrorMessage); diff != "" {
				t.Errorf("unexpected error (-want +got):\n%s", diff)
			}
			assert.True(t, results.HasReason(err, tc.expectedReason), "got reason %s", results.FullReason(err))

			entries, readErr := os.ReadDir(outputDir)
			require.NoError(t, readErr)
			assert.Empty(t, entries, "nothing is written when the run fails")
		})
	}
}

func TestTestSuiteAnalyzerOptionsRunUnwritableOutput(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	source := testsuiteoptimizerlib.NewMockExecutionRecordSource(mockCtrl)
	source.EXPECT().ListExecutionRecords(gomock.Any()).Return(exampleRecords(), nil)

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	o := &TestSuiteAnalyzerOptions{
		source:      source,
		selection:   testcasescorer.DefaultSelectionConfig(),
		parallelism: 1,
		outputDir:   filepath.Join(blocker, "out"),
		out:         &bytes.Buffer{},
	}
	err := o.Run(context.Background())
	require.Error(t, err)
	assert.True(t, results.HasReason(err, results.ReasonWritingOutput), "got reason %s", results.FullReason(err))
}

func TestPrintSummary(t *testing.T) {
	result, err := testcasescorer.Run(exampleRecords(), testcasescorer.SelectionConfig{})
	require.NoError(t, err)
	out := &bytes.Buffer{}
	printSummary(out, result)
	assert.Contains(t, out.String(), "Optimized test suite (first 2 of 2)\n")
	assert.Contains(t, out.String(), "0.3500")

	result.Optimized = nil
	out.Reset()
	printSummary(out, result)
	assert.Contains(t, out.String(), "No test case was selected\n")
}
