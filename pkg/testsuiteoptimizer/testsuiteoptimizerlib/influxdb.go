package testsuiteoptimizerlib

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	influxhttp "github.com/influxdata/influxdb-client-go/v2/api/http"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"k8s.io/utils/clock"

	"github.com/openshift/test-suite-optimizer/pkg/results"
	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer/testsuiteoptimizerapi"
)

const (
	DefaultMeasurement = "testcase_point"
	DefaultProjectName = "ETSc2-Robot-Tests"
	DefaultLookback    = 120 * 24 * time.Hour
)

// RecordCoordinates select which execution records are pulled from a database.
type RecordCoordinates struct {
	Measurement string
	ProjectName string
	Lookback    time.Duration
}

func NewRecordCoordinates() *RecordCoordinates {
	return &RecordCoordinates{
		Measurement: DefaultMeasurement,
		ProjectName: DefaultProjectName,
		Lookback:    DefaultLookback,
	}
}

func (f *RecordCoordinates) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Measurement, "measurement", f.Measurement, "measurement (InfluxDB) or table (BigQuery) holding test case executions")
	fs.StringVar(&f.ProjectName, "project-name", f.ProjectName, "project whose test case executions are analyzed")
	fs.DurationVar(&f.Lookback, "lookback", f.Lookback, "how far back to read test case executions")
}

func (f *RecordCoordinates) Validate() error {
	if len(f.Measurement) == 0 {
		return fmt.Errorf("--measurement must be specified")
	}
	if len(f.ProjectName) == 0 {
		return fmt.Errorf("--project-name must be specified")
	}
	if f.Lookback <= 0 {
		return fmt.Errorf("--lookback must be positive, got %v", f.Lookback)
	}
	return nil
}

// Since is the start of the lookback window ending now.
func (f *RecordCoordinates) Since(clock clock.PassiveClock) time.Time {
	return clock.Now().Add(-f.Lookback).UTC()
}

type InfluxDBFlags struct {
	URL          string
	TokenFile    string
	Organization string
	Bucket       string
}

func NewInfluxDBFlags() *InfluxDBFlags {
	return &InfluxDBFlags{
		URL:    "http://localhost:8086",
		Bucket: "db",
	}
}

func (f *InfluxDBFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.URL, "influxdb-url", f.URL, "URL of the InfluxDB server")
	fs.StringVar(&f.TokenFile, "influxdb-token-file", f.TokenFile, "file holding the InfluxDB API token, or username:password for InfluxDB 1.8")
	fs.StringVar(&f.Organization, "influxdb-org", f.Organization, "InfluxDB organization, may be empty for InfluxDB 1.8")
	fs.StringVar(&f.Bucket, "influxdb-bucket", f.Bucket, "InfluxDB bucket, or database/retention-policy for InfluxDB 1.8")
}

func (f *InfluxDBFlags) Validate() error {
	if len(f.URL) == 0 {
		return fmt.Errorf("--influxdb-url must be specified")
	}
	if len(f.Bucket) == 0 {
		return fmt.Errorf("--influxdb-bucket must be specified")
	}
	return nil
}

func (f *InfluxDBFlags) token() (string, error) {
	if len(f.TokenFile) == 0 {
		return "", nil
	}
	raw, err := os.ReadFile(f.TokenFile)
	if err != nil {
		return "", fmt.Errorf("failed to read InfluxDB token: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

// NewClient connects to the configured server. The caller closes the client.
func (f *InfluxDBFlags) NewClient() (influxdb2.Client, error) {
	token, err := f.token()
	if err != nil {
		return nil, err
	}
	return influxdb2.NewClient(f.URL, token), nil
}

// FluxQuerier is the subset of api.QueryAPI used to read execution records.
type FluxQuerier interface {
	Query(ctx context.Context, query string) (*api.QueryTableResult, error)
}

type influxDBSource struct {
	querier     FluxQuerier
	bucket      string
	coordinates RecordCoordinates
	clock       clock.PassiveClock
}

func NewInfluxDBSource(querier FluxQuerier, bucket string, coordinates RecordCoordinates, clock clock.PassiveClock) ExecutionRecordSource {
	return &influxDBSource{
		querier:     querier,
		bucket:      bucket,
		coordinates: coordinates,
		clock:       clock,
	}
}

func (s *influxDBSource) ListExecutionRecords(ctx context.Context) ([]testsuiteoptimizerapi.ExecutionRecord, error) {
	query := s.query()
	logrus.WithField("query", query).Debug("Querying InfluxDB")
	result, err := s.querier.Query(ctx, query)
	if err != nil {
		return nil, results.ForReason(results.ReasonLoadingRecords).WithError(err).Errorf("failed to query %s in %s: %v", s.coordinates.Measurement, s.bucket, err)
	}
	defer result.Close()

	var records []testsuiteoptimizerapi.ExecutionRecord
	for result.Next() {
		record, err := testsuiteoptimizerapi.RecordFromValues(result.Record().Values())
		if err != nil {
			return nil, results.ForReason(results.ReasonMalformedRecord).WithError(err).Errorf("invalid row %d from %s: %v", len(records)+1, s.coordinates.Measurement, err)
		}
		records = append(records, record)
	}
	if result.Err() != nil {
		return nil, results.ForReason(results.ReasonLoadingRecords).WithError(result.Err()).Errorf("error reading InfluxDB results: %v", result.Err())
	}
	if err := ValidateRecords(records); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"measurement": s.coordinates.Measurement,
		"project":     s.coordinates.ProjectName,
	}).Infof("Read %d execution records from InfluxDB", len(records))
	return records, nil
}

func (s *influxDBSource) query() string {
	return fmt.Sprintf(`from(bucket: %q)
  |> range(start: %s)
  |> filter(fn: (r) => r._measurement == %q and r.project_name == %q)
  |> filter(fn: (r) => r._field == %q or r._field == %q or r._field == %q or r._field == %q or r._field == %q)
  |> pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")
  |> keep(columns: ["_time", %q, %q, %q, %q, %q])
  |> group()
  |> sort(columns: ["_time"])`,
		s.bucket,
		s.coordinates.Since(s.clock).Format(time.RFC3339),
		s.coordinates.Measurement, s.coordinates.ProjectName,
		testsuiteoptimizerapi.BuildNumberColumn, testsuiteoptimizerapi.FailedColumn, testsuiteoptimizerapi.TestNameColumn, testsuiteoptimizerapi.PassedColumn, testsuiteoptimizerapi.SuiteNameColumn,
		testsuiteoptimizerapi.BuildNumberColumn, testsuiteoptimizerapi.FailedColumn, testsuiteoptimizerapi.TestNameColumn, testsuiteoptimizerapi.PassedColumn, testsuiteoptimizerapi.SuiteNameColumn,
	)
}

// IsTransientInfluxError reports server side throttling and outages worth retrying.
func IsTransientInfluxError(err error) bool {
	if err == nil {
		return false
	}
	var httpErr *influxhttp.Error
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			logrus.WithError(err).Warn("hit a transient InfluxDB error")
			return true
		}
		return false
	}
	if strings.Contains(err.Error(), "connection refused") {
		logrus.WithError(err).Warn("InfluxDB is not reachable")
		return true
	}
	return false
}
