package testsuiteanalyzer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/openshift/test-suite-optimizer/pkg/results"
	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer/testcasescorer"
	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer/testsuiteoptimizerlib"
)

const (
	StatisticsFileName = "test_case_statistics.csv"
	NoiseFileName      = "filtered_test_cases.csv"
	OptimizedFileName  = "optimized_test_suite.csv"

	summarySampleSize = 5
)

type TestSuiteAnalyzerOptions struct {
	source       testsuiteoptimizerlib.ExecutionRecordSource
	closer       io.Closer
	selection    testcasescorer.SelectionConfig
	parallelism  int
	selectorOpts []testcasescorer.SelectorOption

	outputDir   string
	metricsFile string
	uploader    testsuiteoptimizerlib.ArtifactUploader
	out         io.Writer
}

func (o *TestSuiteAnalyzerOptions) Close() error {
	if o.closer == nil {
		return nil
	}
	return o.closer.Close()
}

func (o *TestSuiteAnalyzerOptions) Run(ctx context.Context) error {
	records, err := o.source.ListExecutionRecords(ctx)
	if err != nil {
		return err
	}

	opts := append([]testcasescorer.SelectorOption{testcasescorer.WithParallelism(o.parallelism)}, o.selectorOpts...)
	result, err := testcasescorer.Run(records, o.selection, opts...)
	if err != nil {
		return err
	}

	artifacts, err := encodeArtifacts(result)
	if err != nil {
		return err
	}
	if err := writeArtifacts(o.outputDir, artifacts); err != nil {
		return err
	}

	logReport(result)
	printSummary(o.out, result)

	if len(o.metricsFile) > 0 {
		if err := writeMetrics(o.metricsFile, result); err != nil {
			return err
		}
	}

	if o.uploader != nil {
		for _, artifact := range artifacts {
			if err := o.uploader.Upload(ctx, artifact.name, artifact.content); err != nil {
				return err
			}
		}
	}
	return nil
}

type artifact struct {
	name    string
	content []byte
}

func encodeArtifacts(result *testcasescorer.Result) ([]artifact, error) {
	tables := []struct {
		name string
		rows interface{}
	}{
		{name: StatisticsFileName, rows: result.Statistics},
		{name: NoiseFileName, rows: result.Noise},
		{name: OptimizedFileName, rows: result.Optimized},
	}
	var artifacts []artifact
	for _, table := range tables {
		buf := &bytes.Buffer{}
		if err := testsuiteoptimizerlib.WriteCSV(buf, table.rows); err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", table.name, err)
		}
		artifacts = append(artifacts, artifact{name: table.name, content: buf.Bytes()})
	}
	return artifacts, nil
}

func writeArtifacts(outputDir string, artifacts []artifact) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return results.ForReason(results.ReasonWritingOutput).WithError(err).Errorf("failed to create %s: %v", outputDir, err)
	}
	for _, artifact := range artifacts {
		path := filepath.Join(outputDir, artifact.name)
		if err := os.WriteFile(path, artifact.content, 0644); err != nil {
			return results.ForReason(results.ReasonWritingOutput).WithError(err).Errorf("failed to write %s: %v", path, err)
		}
		logrus.WithField("file", path).Debug("Wrote output")
	}
	return nil
}
