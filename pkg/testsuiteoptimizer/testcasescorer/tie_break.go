package testcasescorer

import (
	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer/testsuiteoptimizerapi"
)

// RandSource is the only source of non-determinism in the pipeline.
// *math/rand/v2.Rand satisfies it.
type RandSource interface {
	// IntN returns a value in [0, n).
	IntN(n int) int
}

// BreakTies chooses among candidates sharing a weighted score: the greatest
// total_runs wins, and if several remain, rng picks one uniformly at random.
// It returns the chosen row and its index in candidates, or -1 when candidates is empty.
func BreakTies(candidates []testsuiteoptimizerapi.ScoredRow, rng RandSource) (testsuiteoptimizerapi.ScoredRow, int) {
	tied := mostRuns(candidates)
	switch len(tied) {
	case 0:
		return testsuiteoptimizerapi.ScoredRow{}, -1
	case 1:
		return candidates[tied[0]], tied[0]
	}
	chosen := tied[rng.IntN(len(tied))]
	return candidates[chosen], chosen
}

// breakTiesByName is the deterministic counterpart of BreakTies: the greatest
// total_runs wins, then the smallest test name.
func breakTiesByName(candidates []testsuiteoptimizerapi.ScoredRow) (testsuiteoptimizerapi.ScoredRow, int) {
	tied := mostRuns(candidates)
	if len(tied) == 0 {
		return testsuiteoptimizerapi.ScoredRow{}, -1
	}
	chosen := tied[0]
	for _, idx := range tied[1:] {
		if candidates[idx].TestName < candidates[chosen].TestName {
			chosen = idx
		}
	}
	return candidates[chosen], chosen
}

func mostRuns(candidates []testsuiteoptimizerapi.ScoredRow) []int {
	var tied []int
	maxRuns := 0
	for i, candidate := range candidates {
		switch {
		case len(tied) == 0 || candidate.TotalRuns > maxRuns:
			maxRuns = candidate.TotalRuns
			tied = []int{i}
		case candidate.TotalRuns == maxRuns:
			tied = append(tied, i)
		}
	}
	return tied
}
