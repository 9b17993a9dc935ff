package testsuiteanalyzer

import (
	"fmt"
	"io"
	"strconv"

	"github.com/kataras/tablewriter"
	"github.com/sirupsen/logrus"

	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer/testcasescorer"
)

func logReport(result *testcasescorer.Result) {
	report := result.Report
	logrus.WithFields(logrus.Fields{
		"total":       report.TotalTestCases,
		"noise":       report.NoiseTestCases,
		"informative": report.InformativeTestCases,
		"optimized":   report.OptimizedTestCases,
	}).Infof("Reduction in test cases: %.2f%%", report.ReductionPercentage)
	if report.OptimizedTestCases > 0 {
		logrus.WithFields(logrus.Fields{
			"mean":   report.MeanOptimizedScore,
			"median": report.MedianOptimizedScore,
			"max":    report.MaxOptimizedScore,
		}).Info("Weighted scores of the optimized test suite")
	}
}

// printSummary shows the reduction and the first rows of the optimized test suite.
func printSummary(out io.Writer, result *testcasescorer.Result) {
	report := result.Report
	_, _ = fmt.Fprintf(out, "Total test cases before filtering: %d\n", report.TotalTestCases)
	_, _ = fmt.Fprintf(out, "Test cases in optimized suite: %d\n", report.OptimizedTestCases)
	_, _ = fmt.Fprintf(out, "Reduction in test cases: %.2f%%\n", report.ReductionPercentage)

	if len(result.Optimized) == 0 {
		_, _ = fmt.Fprintf(out, "No test case was selected\n")
		return
	}
	sample := result.Optimized
	if len(sample) > summarySampleSize {
		sample = sample[:summarySampleSize]
	}
	_, _ = fmt.Fprintf(out, "Optimized test suite (first %d of %d)\n", len(sample), len(result.Optimized))
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"suite", "test", "runs", "pass rate", "fail rate", "variability", "score"})
	for _, row := range sample {
		table.Append([]string{
			row.SuiteName,
			row.TestName,
			strconv.Itoa(row.TotalRuns),
			formatScore(row.PassRate),
			formatScore(row.FailRate),
			formatScore(row.Variability),
			formatScore(row.WeightedScore),
		})
	}
	table.Render()
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}
