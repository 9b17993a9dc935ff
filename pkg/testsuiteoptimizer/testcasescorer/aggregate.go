package testcasescorer

import (
	"sort"

	"github.com/openshift/test-suite-optimizer/pkg/results"
	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer/testsuiteoptimizerapi"
)

// Aggregate collapses execution records into one row per (suite, test), counting
// runs and summing the pass and fail flags. Records are not deduplicated: the
// same build reported twice counts twice. Rows are returned ordered by suite,
// then test name.
func Aggregate(records []testsuiteoptimizerapi.ExecutionRecord) ([]testsuiteoptimizerapi.AggregateRow, error) {
	if len(records) == 0 {
		return nil, results.ForReason(results.ReasonEmptyInput).Errorf("no execution records to aggregate")
	}

	byKey := map[testsuiteoptimizerapi.TestCaseKey]*testsuiteoptimizerapi.AggregateRow{}
	for _, record := range records {
		key := record.Key()
		row, ok := byKey[key]
		if !ok {
			row = &testsuiteoptimizerapi.AggregateRow{SuiteName: key.SuiteName, TestName: key.TestName}
			byKey[key] = row
		}
		row.TotalRuns++
		row.TotalPasses += int(record.Passed)
		row.TotalFailures += int(record.Failed)
	}

	rows := make([]testsuiteoptimizerapi.AggregateRow, 0, len(byKey))
	for _, row := range byKey {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SuiteName != rows[j].SuiteName {
			return rows[i].SuiteName < rows[j].SuiteName
		}
		return rows[i].TestName < rows[j].TestName
	})
	return rows, nil
}
