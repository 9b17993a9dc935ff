package testcasescorer

import (
	"hash/fnv"
	"math"
	"math/rand/v2"
	"runtime"
	"sort"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/openshift/test-suite-optimizer/pkg/results"
	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer/testsuiteoptimizerapi"
)

// RandSourceFactory returns the random source used to break ties within one suite.
type RandSourceFactory func(suiteName string) RandSource

// SeededRandSources gives every suite its own PCG stream derived from the seed and
// the suite name, so the outcome does not depend on the order suites are processed in.
func SeededRandSources(seed uint64) RandSourceFactory {
	return func(suiteName string) RandSource {
		h := fnv.New64a()
		_, _ = h.Write([]byte(suiteName))
		return rand.New(rand.NewPCG(seed, h.Sum64()))
	}
}

type SelectorOption func(*Selector)

// WithParallelism bounds how many suites are ranked at the same time.
func WithParallelism(parallelism int) SelectorOption {
	return func(s *Selector) {
		if parallelism > 0 {
			s.parallelism = parallelism
		}
	}
}

// WithRandSources replaces the seeded random sources.
func WithRandSources(factory RandSourceFactory) SelectorOption {
	return func(s *Selector) {
		s.randSources = factory
	}
}

// Selector picks the optimized subset of scored test cases, suite by suite.
type Selector struct {
	config      SelectionConfig
	parallelism int
	randSources RandSourceFactory
}

// NewSelector validates the configuration; an invalid one never reaches selection.
func NewSelector(config SelectionConfig, opts ...SelectorOption) (*Selector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	s := &Selector{
		config:      config,
		parallelism: runtime.GOMAXPROCS(0),
		randSources: SeededRandSources(config.Seed),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Select partitions rows by suite, ranks every partition by weighted score
// (ties broken by total runs, then by the tie break policy), drops rows under the
// threshold and keeps at most the capped number of rows per suite. Partitions are
// concatenated in ascending suite name order.
func (s *Selector) Select(rows []testsuiteoptimizerapi.ScoredRow) ([]testsuiteoptimizerapi.ScoredRow, error) {
	partitions := map[string][]testsuiteoptimizerapi.ScoredRow{}
	for _, row := range rows {
		partitions[row.SuiteName] = append(partitions[row.SuiteName], row)
	}
	suites := make([]string, 0, len(partitions))
	for suite := range partitions {
		suites = append(suites, suite)
	}
	sort.Strings(suites)

	selected := make([][]testsuiteoptimizerapi.ScoredRow, len(suites))
	g := errgroup.Group{}
	g.SetLimit(s.parallelism)
	for i, suite := range suites {
		g.Go(func() error {
			ranked, err := s.rank(suite, partitions[suite])
			if err != nil {
				return err
			}
			selected[i] = s.bound(ranked)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var optimized []testsuiteoptimizerapi.ScoredRow
	for i, suite := range suites {
		logrus.WithFields(logrus.Fields{
			"suite":     suite,
			"scored":    len(partitions[suite]),
			"selected":  len(selected[i]),
			"tie-break": s.config.tieBreak(),
		}).Debug("Selected test cases for suite")
		optimized = append(optimized, selected[i]...)
	}
	return optimized, nil
}

// rank orders a single suite by descending weighted score. Rows sharing a score
// are emitted by repeatedly breaking the tie among the rows left.
func (s *Selector) rank(suite string, rows []testsuiteoptimizerapi.ScoredRow) ([]testsuiteoptimizerapi.ScoredRow, error) {
	for _, row := range rows {
		if math.IsNaN(row.WeightedScore) {
			return nil, results.ForReason(results.ReasonDataIntegrity).Errorf("test case %s/%s has no weighted score", suite, row.TestName)
		}
	}
	sorted := make([]testsuiteoptimizerapi.ScoredRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].WeightedScore > sorted[j].WeightedScore
	})

	var rng RandSource
	ranked := make([]testsuiteoptimizerapi.ScoredRow, 0, len(sorted))
	for start := 0; start < len(sorted); {
		end := start + 1
		for end < len(sorted) && sorted[end].WeightedScore == sorted[start].WeightedScore {
			end++
		}
		if end-start == 1 {
			ranked = append(ranked, sorted[start])
			start = end
			continue
		}

		tied := make([]testsuiteoptimizerapi.ScoredRow, end-start)
		copy(tied, sorted[start:end])
		for len(tied) > 0 {
			var chosen testsuiteoptimizerapi.ScoredRow
			var idx int
			if s.config.tieBreak() == TieBreakByName {
				chosen, idx = breakTiesByName(tied)
			} else {
				if rng == nil {
					rng = s.randSources(suite)
				}
				chosen, idx = BreakTies(tied, rng)
			}
			ranked = append(ranked, chosen)
			tied = append(tied[:idx], tied[idx+1:]...)
		}
		start = end
	}
	return ranked, nil
}

// bound applies the threshold and then the cap to a ranked partition.
func (s *Selector) bound(ranked []testsuiteoptimizerapi.ScoredRow) []testsuiteoptimizerapi.ScoredRow {
	kept := ranked
	if s.config.MinWeightedScore != nil {
		kept = nil
		for _, row := range ranked {
			if row.WeightedScore >= *s.config.MinWeightedScore {
				kept = append(kept, row)
			}
		}
	}
	if s.config.MaxTestsPerSuite != nil && len(kept) > *s.config.MaxTestsPerSuite {
		kept = kept[:*s.config.MaxTestsPerSuite]
	}
	return kept
}
