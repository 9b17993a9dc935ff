package testsuiteoptimizerapi

// ReductionReport summarizes how much a run shrank the suite.
// Test cases are counted by unique test name.
type ReductionReport struct {
	TotalTestCases       int
	NoiseTestCases       int
	InformativeTestCases int
	OptimizedTestCases   int
	ReductionPercentage  float64

	// Statistics over the weighted scores of the optimized table; zero when it is empty.
	MeanOptimizedScore   float64
	MedianOptimizedScore float64
	MaxOptimizedScore    float64
}
