package testcasescorer

import (
	"math"

	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer/testsuiteoptimizerapi"
)

const (
	// FailRateWeight and VariabilityWeight favor failure frequency over flakiness.
	FailRateWeight    = 0.7
	VariabilityWeight = 0.3
)

// IsNoise reports whether a test case always passed or always failed.
// The check is made on the counts: pass_rate is 0 or 1 exactly when the passes
// are 0 or equal to the runs, so no floating point tolerance is involved.
func IsNoise(row testsuiteoptimizerapi.RateRow) bool {
	return row.TotalPasses == 0 || row.TotalPasses == row.TotalRuns
}

// SplitByInformativeness partitions rows into noise (pass_rate of exactly 0 or 1)
// and informative rows (pass_rate strictly between). Every row lands in exactly one
// of the two, in input order.
func SplitByInformativeness(rows []testsuiteoptimizerapi.RateRow) (noise, informative []testsuiteoptimizerapi.RateRow) {
	for _, row := range rows {
		if IsNoise(row) {
			noise = append(noise, row)
			continue
		}
		informative = append(informative, row)
	}
	return noise, informative
}

// Score computes variability and weighted score for informative rows.
func Score(informative []testsuiteoptimizerapi.RateRow) []testsuiteoptimizerapi.ScoredRow {
	scored := make([]testsuiteoptimizerapi.ScoredRow, 0, len(informative))
	for _, row := range informative {
		variability := math.Abs(0.5 - row.PassRate)
		scored = append(scored, testsuiteoptimizerapi.ScoredRow{
			RateRow:       row,
			Variability:   variability,
			WeightedScore: row.FailRate*FailRateWeight + variability*VariabilityWeight,
		})
	}
	return scored
}
