package testcasescorer

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/openshift/test-suite-optimizer/pkg/results"
	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer/testsuiteoptimizerapi"
)

// Report summarizes a run. Like the tables it reads from, it holds no state;
// test cases are counted by unique test name.
func Report(statistics, noise []testsuiteoptimizerapi.RateRow, informative, optimized []testsuiteoptimizerapi.ScoredRow) (testsuiteoptimizerapi.ReductionReport, error) {
	report := testsuiteoptimizerapi.ReductionReport{
		TotalTestCases:       uniqueTestNames(statistics).Len(),
		NoiseTestCases:       uniqueTestNames(noise).Len(),
		InformativeTestCases: uniqueScoredTestNames(informative).Len(),
		OptimizedTestCases:   uniqueScoredTestNames(optimized).Len(),
	}
	if report.TotalTestCases == 0 {
		return report, results.ForReason(results.ReasonDataIntegrity).Errorf("can not compute a reduction over zero test cases")
	}
	report.ReductionPercentage = float64(report.TotalTestCases-report.OptimizedTestCases) / float64(report.TotalTestCases) * 100

	if len(optimized) == 0 {
		return report, nil
	}
	scores := make(stats.Float64Data, 0, len(optimized))
	for _, row := range optimized {
		scores = append(scores, row.WeightedScore)
	}
	var err error
	if report.MeanOptimizedScore, err = stats.Mean(scores); err != nil {
		return report, fmt.Errorf("failed to calculate mean weighted score: %w", err)
	}
	if report.MedianOptimizedScore, err = stats.Median(scores); err != nil {
		return report, fmt.Errorf("failed to calculate median weighted score: %w", err)
	}
	if report.MaxOptimizedScore, err = stats.Max(scores); err != nil {
		return report, fmt.Errorf("failed to calculate max weighted score: %w", err)
	}
	return report, nil
}

func uniqueTestNames(rows []testsuiteoptimizerapi.RateRow) sets.Set[string] {
	names := sets.New[string]()
	for _, row := range rows {
		names.Insert(row.TestName)
	}
	return names
}

func uniqueScoredTestNames(rows []testsuiteoptimizerapi.ScoredRow) sets.Set[string] {
	names := sets.New[string]()
	for _, row := range rows {
		names.Insert(row.TestName)
	}
	return names
}
