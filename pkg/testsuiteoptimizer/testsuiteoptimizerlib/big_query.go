package testsuiteoptimizerlib

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"google.golang.org/api/iterator"

	"k8s.io/utils/clock"

	"github.com/openshift/test-suite-optimizer/pkg/results"
	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer/testsuiteoptimizerapi"
)

const (
	BigQueryProjectID = "test-suite-optimizer"
	TestCaseDataSetID = "robot_results"
)

type BigQueryDataCoordinates struct {
	ProjectID string
	DataSetID string
}

func NewBigQueryDataCoordinates() *BigQueryDataCoordinates {
	return &BigQueryDataCoordinates{
		ProjectID: BigQueryProjectID,
		DataSetID: TestCaseDataSetID,
	}
}

func (f *BigQueryDataCoordinates) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.ProjectID, "google-project-id", f.ProjectID, "project ID where data is stored")
	fs.StringVar(&f.DataSetID, "bigquery-dataset", f.DataSetID, "bigquery dataset where data is stored")
}

func (f *BigQueryDataCoordinates) Validate() error {
	if len(f.ProjectID) == 0 {
		return fmt.Errorf("--google-project-id must be specified")
	}
	if len(f.DataSetID) == 0 {
		return fmt.Errorf("--bigquery-dataset must be specified")
	}
	return nil
}

func (f *BigQueryDataCoordinates) SubstituteDataSetLocation(query string) string {
	return strings.Replace(
		query,
		"DATA_SET_LOCATION",
		f.ProjectID+"."+f.DataSetID,
		-1)
}

type bigQuerySource struct {
	dataCoordinates BigQueryDataCoordinates
	coordinates     RecordCoordinates
	client          *bigquery.Client
	clock           clock.PassiveClock
}

func NewBigQuerySource(dataCoordinates BigQueryDataCoordinates, coordinates RecordCoordinates, client *bigquery.Client, clock clock.PassiveClock) ExecutionRecordSource {
	return &bigQuerySource{
		dataCoordinates: dataCoordinates,
		coordinates:     coordinates,
		client:          client,
		clock:           clock,
	}
}

func (s *bigQuerySource) ListExecutionRecords(ctx context.Context) ([]testsuiteoptimizerapi.ExecutionRecord, error) {
	queryString := executionRecordsQuery(s.dataCoordinates, s.coordinates.Measurement)
	query := s.client.Query(queryString)
	query.QueryConfig.Parameters = []bigquery.QueryParameter{
		{Name: "ProjectName", Value: s.coordinates.ProjectName},
		{Name: "Since", Value: s.coordinates.Since(s.clock)},
	}
	it, err := query.Read(ctx)
	if err != nil {
		return nil, results.ForReason(results.ReasonLoadingRecords).WithError(err).Errorf("failed to query execution records with %q: %v", queryString, err)
	}

	var records []testsuiteoptimizerapi.ExecutionRecord
	for {
		row := map[string]bigquery.Value{}
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, results.ForReason(results.ReasonLoadingRecords).WithError(err).Errorf("failed to read execution records: %v", err)
		}
		record, err := recordFromBigQueryRow(row)
		if err != nil {
			return nil, results.ForReason(results.ReasonMalformedRecord).WithError(err).Errorf("invalid row %d from %s: %v", len(records)+1, s.coordinates.Measurement, err)
		}
		records = append(records, record)
	}
	if err := ValidateRecords(records); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"table":   s.coordinates.Measurement,
		"project": s.coordinates.ProjectName,
	}).Infof("Read %d execution records from BigQuery", len(records))
	return records, nil
}

func executionRecordsQuery(dataCoordinates BigQueryDataCoordinates, table string) string {
	return dataCoordinates.SubstituteDataSetLocation(fmt.Sprintf(`
SELECT build_number, rf_failed, rf_name, rf_passed, rf_suite_name
FROM DATA_SET_LOCATION.%s
WHERE project_name = @ProjectName AND time > @Since
ORDER BY time ASC
`, table))
}

func recordFromBigQueryRow(row map[string]bigquery.Value) (testsuiteoptimizerapi.ExecutionRecord, error) {
	values := make(map[string]interface{}, len(row))
	for column, value := range row {
		values[column] = value
	}
	return testsuiteoptimizerapi.RecordFromValues(values)
}

// IsReadQuotaError reports BigQuery refusing a query because too many run at once.
func IsReadQuotaError(err error) bool {
	if err == nil {
		return false
	}
	if strings.Contains(err.Error(), "exceeded quota for concurrent queries") {
		logrus.WithError(err).Warn("hit a read quota error")
		return true
	}
	return false
}
