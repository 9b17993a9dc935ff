package testsuiteoptimizerapi

// TestCaseKey identifies a test case. Test names are only unique within a suite.
type TestCaseKey struct {
	SuiteName string
	TestName  string
}

// AggregateRow holds the run counts of one test case.
type AggregateRow struct {
	SuiteName     string `csv:"rf_suite_name"`
	TestName      string `csv:"rf_name"`
	TotalRuns     int    `csv:"total_runs"`
	TotalPasses   int    `csv:"total_passes"`
	TotalFailures int    `csv:"total_failures"`
}

func (r AggregateRow) Key() TestCaseKey {
	return TestCaseKey{SuiteName: r.SuiteName, TestName: r.TestName}
}

// RateRow is an AggregateRow with pass and fail rates over total runs.
type RateRow struct {
	AggregateRow
	PassRate float64 `csv:"pass_rate"`
	FailRate float64 `csv:"fail_rate"`
}

// ScoredRow is a RateRow of an informative test case with its informativeness score.
type ScoredRow struct {
	RateRow
	Variability   float64 `csv:"variability"`
	WeightedScore float64 `csv:"weighted_score"`
}
