package testcasescorer

import (
	"github.com/openshift/test-suite-optimizer/pkg/results"
	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer/testsuiteoptimizerapi"
)

// CalculateRates derives pass and fail rates for every row. A row without runs can
// only come from a broken upstream and is reported instead of divided by.
func CalculateRates(rows []testsuiteoptimizerapi.AggregateRow) ([]testsuiteoptimizerapi.RateRow, error) {
	rated := make([]testsuiteoptimizerapi.RateRow, 0, len(rows))
	for _, row := range rows {
		if row.TotalRuns <= 0 {
			return nil, results.ForReason(results.ReasonDataIntegrity).Errorf("test case %s/%s has %d total runs", row.SuiteName, row.TestName, row.TotalRuns)
		}
		rated = append(rated, testsuiteoptimizerapi.RateRow{
			AggregateRow: row,
			PassRate:     float64(row.TotalPasses) / float64(row.TotalRuns),
			FailRate:     float64(row.TotalFailures) / float64(row.TotalRuns),
		})
	}
	return rated, nil
}
