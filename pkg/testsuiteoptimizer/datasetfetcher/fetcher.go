package datasetfetcher

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/openshift/test-suite-optimizer/pkg/results"
	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer/testsuiteoptimizerlib"
)

const DatasetFileName = "testcase_data.csv"

type DatasetFetcherOptions struct {
	source     testsuiteoptimizerlib.ExecutionRecordSource
	closer     io.Closer
	outputFile string
	uploader   testsuiteoptimizerlib.ArtifactUploader
}

func (o *DatasetFetcherOptions) Close() error {
	if o.closer == nil {
		return nil
	}
	return o.closer.Close()
}

func (o *DatasetFetcherOptions) Run(ctx context.Context) error {
	records, err := o.source.ListExecutionRecords(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return results.ForReason(results.ReasonEmptyInput).Errorf("no execution records in the lookback window")
	}

	buf := &bytes.Buffer{}
	if err := testsuiteoptimizerlib.WriteCSV(buf, records); err != nil {
		return err
	}
	if dir := filepath.Dir(o.outputFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return results.ForReason(results.ReasonWritingOutput).WithError(err).Errorf("failed to create %s: %v", dir, err)
		}
	}
	if err := os.WriteFile(o.outputFile, buf.Bytes(), 0644); err != nil {
		return results.ForReason(results.ReasonWritingOutput).WithError(err).Errorf("failed to write %s: %v", o.outputFile, err)
	}
	logrus.WithField("file", o.outputFile).Infof("Saved %d execution records", len(records))

	if o.uploader != nil {
		if err := o.uploader.Upload(ctx, filepath.Base(o.outputFile), buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}
