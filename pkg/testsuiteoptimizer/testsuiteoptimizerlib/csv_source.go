package testsuiteoptimizerlib

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"

	"github.com/openshift/test-suite-optimizer/pkg/results"
	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer/testsuiteoptimizerapi"
)

type csvFileSource struct {
	path string
}

// NewCSVFileSource reads the dataset written by fetch-dataset. A file without any
// content holds no records; the header must name every execution record column.
func NewCSVFileSource(path string) ExecutionRecordSource {
	return &csvFileSource{path: path}
}

func (s *csvFileSource) String() string {
	return s.path
}

func (s *csvFileSource) ListExecutionRecords(ctx context.Context) ([]testsuiteoptimizerapi.ExecutionRecord, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		return nil, results.ForReason(results.ReasonLoadingRecords).WithError(err).Errorf("failed to read %s: %v", s.path, err)
	}
	records, err := ReadExecutionRecords(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", s.path, err)
	}
	logrus.WithField("file", s.path).Infof("Read %d execution records", len(records))
	return records, nil
}

// ReadExecutionRecords decodes and validates CSV execution records. Empty input
// yields no records.
func ReadExecutionRecords(in io.Reader) ([]testsuiteoptimizerapi.ExecutionRecord, error) {
	content, err := io.ReadAll(in)
	if err != nil {
		return nil, results.ForReason(results.ReasonLoadingRecords).WithError(err).Errorf("failed to read execution records: %v", err)
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, nil
	}
	if err := checkHeader(content); err != nil {
		return nil, err
	}

	var records []testsuiteoptimizerapi.ExecutionRecord
	if err := gocsv.UnmarshalBytes(content, &records); err != nil {
		return nil, results.ForReason(results.ReasonMalformedRecord).WithError(err).Errorf("failed to decode execution records: %v", err)
	}
	if err := ValidateRecords(records); err != nil {
		return nil, err
	}
	return records, nil
}

func checkHeader(content []byte) error {
	header := content
	if end := bytes.IndexByte(content, '\n'); end >= 0 {
		header = content[:end]
	}
	columns := map[string]bool{}
	for _, column := range bytes.Split(bytes.TrimSpace(header), []byte(",")) {
		columns[string(bytes.Trim(bytes.TrimSpace(column), `"`))] = true
	}
	var missing []string
	for _, column := range ExecutionRecordColumns {
		if !columns[column] {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return results.ForReason(results.ReasonMalformedRecord).Errorf("header is missing columns %v", missing)
	}
	return nil
}

// ExecutionRecordColumns lists the dataset columns in the order they are written.
var ExecutionRecordColumns = []string{
	testsuiteoptimizerapi.BuildNumberColumn,
	testsuiteoptimizerapi.FailedColumn,
	testsuiteoptimizerapi.TestNameColumn,
	testsuiteoptimizerapi.PassedColumn,
	testsuiteoptimizerapi.SuiteNameColumn,
}

// WriteCSV writes rows, a slice of csv tagged structs, with a header line.
func WriteCSV(out io.Writer, rows interface{}) error {
	if err := gocsv.Marshal(rows, out); err != nil {
		return results.ForReason(results.ReasonWritingOutput).WithError(err).Errorf("failed to encode rows: %v", err)
	}
	return nil
}
