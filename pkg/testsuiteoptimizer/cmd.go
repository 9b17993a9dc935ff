package testsuiteoptimizer

import (
	"github.com/spf13/cobra"

	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer/datasetfetcher"
	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer/testsuiteanalyzer"
)

// Overall usage
// 1. fetch-dataset pulls the execution records of a project over the lookback window
//    into testcase_data.csv
// 2. analyze reads the dataset (or the database directly), filters out test cases that
//    never change outcome and keeps the most failure prone and flaky test cases of every
//    suite
// 3. the optimized test suite CSV is what the reduced test runs are driven from

func NewTestSuiteOptimizerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:  "test-suite-optimizer",
		Long: `Commands to reduce a test suite to its most informative test cases`,
	}

	cmd.AddCommand(datasetfetcher.NewDatasetFetcherCommand())
	cmd.AddCommand(testsuiteanalyzer.NewTestSuiteAnalyzerCommand())

	return cmd
}
