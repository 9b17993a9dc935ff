package testsuiteanalyzer

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/openshift/test-suite-optimizer/pkg/results"
	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer/testcasescorer"
)

const metricsNamespace = "test_suite_optimizer"

type runMetrics struct {
	registry        *prometheus.Registry
	testCases       *prometheus.GaugeVec
	reduction       prometheus.Gauge
	optimizedScore  *prometheus.GaugeVec
	selectedBySuite *prometheus.GaugeVec
}

func newRunMetrics() *runMetrics {
	m := &runMetrics{
		registry: prometheus.NewRegistry(),
		testCases: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "test_cases",
				Help:      "Unique test case names per stage of the analysis.",
			},
			[]string{"set"},
		),
		reduction: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "reduction_percentage",
			Help:      "Share of test cases left out of the optimized test suite.",
		}),
		optimizedScore: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "optimized_weighted_score",
				Help:      "Weighted scores of the optimized test suite.",
			},
			[]string{"statistic"},
		),
		selectedBySuite: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "selected_test_cases",
				Help:      "Test cases selected per suite.",
			},
			[]string{"suite"},
		),
	}
	m.registry.MustRegister(m.testCases, m.reduction, m.optimizedScore, m.selectedBySuite)
	return m
}

func (m *runMetrics) observe(result *testcasescorer.Result) {
	report := result.Report
	m.testCases.WithLabelValues("total").Set(float64(report.TotalTestCases))
	m.testCases.WithLabelValues("noise").Set(float64(report.NoiseTestCases))
	m.testCases.WithLabelValues("informative").Set(float64(report.InformativeTestCases))
	m.testCases.WithLabelValues("optimized").Set(float64(report.OptimizedTestCases))
	m.reduction.Set(report.ReductionPercentage)
	m.optimizedScore.WithLabelValues("mean").Set(report.MeanOptimizedScore)
	m.optimizedScore.WithLabelValues("median").Set(report.MedianOptimizedScore)
	m.optimizedScore.WithLabelValues("max").Set(report.MaxOptimizedScore)
	for _, row := range result.Optimized {
		m.selectedBySuite.WithLabelValues(row.SuiteName).Inc()
	}
}

func writeMetrics(path string, result *testcasescorer.Result) error {
	m := newRunMetrics()
	m.observe(result)
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return results.ForReason(results.ReasonWritingOutput).WithError(err).Errorf("failed to write metrics to %s: %v", path, err)
	}
	return nil
}
