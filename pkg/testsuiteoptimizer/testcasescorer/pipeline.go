package testcasescorer

import (
	"github.com/sirupsen/logrus"

	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer/testsuiteoptimizerapi"
)

// Result holds every table a run produces.
type Result struct {
	// Statistics has one row per test case, noise included.
	Statistics []testsuiteoptimizerapi.RateRow
	// Noise holds the test cases that always passed or always failed.
	Noise       []testsuiteoptimizerapi.RateRow
	Informative []testsuiteoptimizerapi.ScoredRow
	Optimized   []testsuiteoptimizerapi.ScoredRow
	Report      testsuiteoptimizerapi.ReductionReport
}

// Run executes aggregation, rate calculation, the informativeness split, scoring,
// selection and reporting over records. The selection configuration is validated
// before any work is done.
func Run(records []testsuiteoptimizerapi.ExecutionRecord, config SelectionConfig, opts ...SelectorOption) (*Result, error) {
	selector, err := NewSelector(config, opts...)
	if err != nil {
		return nil, err
	}

	aggregated, err := Aggregate(records)
	if err != nil {
		return nil, err
	}
	statistics, err := CalculateRates(aggregated)
	if err != nil {
		return nil, err
	}
	noise, informative := SplitByInformativeness(statistics)
	scored := Score(informative)
	logrus.WithFields(logrus.Fields{
		"records":     len(records),
		"test-cases":  len(statistics),
		"noise":       len(noise),
		"informative": len(scored),
	}).Debug("Scored test cases")

	optimized, err := selector.Select(scored)
	if err != nil {
		return nil, err
	}
	report, err := Report(statistics, noise, scored, optimized)
	if err != nil {
		return nil, err
	}
	return &Result{
		Statistics:  statistics,
		Noise:       noise,
		Informative: scored,
		Optimized:   optimized,
		Report:      report,
	}, nil
}
