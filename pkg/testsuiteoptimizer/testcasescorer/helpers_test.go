package testcasescorer

import (
	"strconv"

	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer/testsuiteoptimizerapi"
)

// runs fabricates execution records for one test case, passes first.
func runs(suite, test string, passes, failures int) []testsuiteoptimizerapi.ExecutionRecord {
	var records []testsuiteoptimizerapi.ExecutionRecord
	for i := 0; i < passes+failures; i++ {
		record := testsuiteoptimizerapi.ExecutionRecord{
			BuildNumber: strconv.Itoa(i + 1),
			SuiteName:   suite,
			TestName:    test,
		}
		if i < passes {
			record.Passed = testsuiteoptimizerapi.OutcomeSet
		} else {
			record.Failed = testsuiteoptimizerapi.OutcomeSet
		}
		records = append(records, record)
	}
	return records
}

func concat(groups ...[]testsuiteoptimizerapi.ExecutionRecord) []testsuiteoptimizerapi.ExecutionRecord {
	var all []testsuiteoptimizerapi.ExecutionRecord
	for _, group := range groups {
		all = append(all, group...)
	}
	return all
}

func scored(suite, test string, totalRuns int, weightedScore float64) testsuiteoptimizerapi.ScoredRow {
	return testsuiteoptimizerapi.ScoredRow{
		RateRow: testsuiteoptimizerapi.RateRow{
			AggregateRow: testsuiteoptimizerapi.AggregateRow{SuiteName: suite, TestName: test, TotalRuns: totalRuns},
		},
		WeightedScore: weightedScore,
	}
}

func testNames(rows []testsuiteoptimizerapi.ScoredRow) []string {
	var names []string
	for _, row := range rows {
		names = append(names, row.SuiteName+"/"+row.TestName)
	}
	return names
}

// fixedRandSource returns the queued picks in order and records every bound it was asked for.
type fixedRandSource struct {
	picks  []int
	bounds []int
}

func (f *fixedRandSource) IntN(n int) int {
	f.bounds = append(f.bounds, n)
	if len(f.picks) == 0 {
		return 0
	}
	pick := f.picks[0]
	f.picks = f.picks[1:]
	return pick % n
}

func float64Ptr(f float64) *float64 { return &f }

func intPtr(i int) *int { return &i }
