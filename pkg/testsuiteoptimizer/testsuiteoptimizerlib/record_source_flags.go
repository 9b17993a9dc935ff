package testsuiteoptimizerlib

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/utils/clock"
)

const (
	SourceCSV      = "csv"
	SourceInfluxDB = "influxdb"
	SourceBigQuery = "bigquery"
)

var KnownSources = sets.New[string](SourceCSV, SourceInfluxDB, SourceBigQuery)

// RecordSourceFlags choose where execution records are read from and how to reach it.
type RecordSourceFlags struct {
	Source    string
	InputFile string

	Coordinates     *RecordCoordinates
	InfluxDB        *InfluxDBFlags
	DataCoordinates *BigQueryDataCoordinates
	Authentication  *GoogleAuthenticationFlags
}

func NewRecordSourceFlags(defaultSource string) *RecordSourceFlags {
	return &RecordSourceFlags{
		Source:          defaultSource,
		InputFile:       "testcase_data.csv",
		Coordinates:     NewRecordCoordinates(),
		InfluxDB:        NewInfluxDBFlags(),
		DataCoordinates: NewBigQueryDataCoordinates(),
		Authentication:  NewGoogleAuthenticationFlags(),
	}
}

func (f *RecordSourceFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Source, "source", f.Source, fmt.Sprintf("where execution records are read from, one of %q", sets.List(KnownSources)))
	fs.StringVar(&f.InputFile, "input-file", f.InputFile, "CSV file with execution records, used with --source=csv")
	f.Coordinates.BindFlags(fs)
	f.InfluxDB.BindFlags(fs)
	f.DataCoordinates.BindFlags(fs)
	f.Authentication.BindFlags(fs)
}

func (f *RecordSourceFlags) Validate() error {
	switch f.Source {
	case SourceCSV:
		if len(f.InputFile) == 0 {
			return fmt.Errorf("--input-file must be specified with --source=%s", SourceCSV)
		}
		return nil
	case SourceInfluxDB:
		if err := f.Coordinates.Validate(); err != nil {
			return err
		}
		return f.InfluxDB.Validate()
	case SourceBigQuery:
		if err := f.Coordinates.Validate(); err != nil {
			return err
		}
		if err := f.DataCoordinates.Validate(); err != nil {
			return err
		}
		return f.Authentication.Validate()
	default:
		return fmt.Errorf("unknown --source %q, valid values are: %q", f.Source, sets.List(KnownSources))
	}
}

// NewSource connects to the chosen source. Database sources retry throttling
// errors. The returned closer releases the connection.
func (f *RecordSourceFlags) NewSource(ctx context.Context, clock clock.PassiveClock) (ExecutionRecordSource, io.Closer, error) {
	switch f.Source {
	case SourceCSV:
		return NewCSVFileSource(f.InputFile), nopCloser{}, nil
	case SourceInfluxDB:
		client, err := f.InfluxDB.NewClient()
		if err != nil {
			return nil, nil, err
		}
		source := NewInfluxDBSource(client.QueryAPI(f.InfluxDB.Organization), f.InfluxDB.Bucket, *f.Coordinates, clock)
		return NewRetryingSource(source, IsTransientInfluxError), closerFunc(client.Close), nil
	case SourceBigQuery:
		client, err := f.Authentication.NewBigQueryClient(ctx, f.DataCoordinates.ProjectID)
		if err != nil {
			return nil, nil, err
		}
		source := NewBigQuerySource(*f.DataCoordinates, *f.Coordinates, client, clock)
		return NewRetryingSource(source, IsReadQuotaError), client, nil
	default:
		return nil, nil, fmt.Errorf("unknown source %q", f.Source)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type closerFunc func()

func (c closerFunc) Close() error {
	c()
	return nil
}

// UploadFlags configure publishing output files to GCS.
type UploadFlags struct {
	GCSBucket string
	GCSPrefix string
	DryRun    bool
}

func (f *UploadFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.GCSBucket, "gcs-bucket", f.GCSBucket, "GCS bucket to upload output files to, nothing is uploaded when empty")
	fs.StringVar(&f.GCSPrefix, "gcs-prefix", f.GCSPrefix, "object name prefix for uploaded output files")
	fs.BoolVar(&f.DryRun, "dry-run", f.DryRun, "describe uploads instead of making them")
}

// NewUploader returns nil when no bucket is configured.
func (f *UploadFlags) NewUploader(ctx context.Context, authentication *GoogleAuthenticationFlags, out io.Writer) (ArtifactUploader, error) {
	if len(f.GCSBucket) == 0 {
		return nil, nil
	}
	if f.DryRun {
		return NewDryRunUploader(out, f.GCSBucket, f.GCSPrefix), nil
	}
	if err := authentication.Validate(); err != nil {
		return nil, fmt.Errorf("uploading to --gcs-bucket requires credentials: %w", err)
	}
	client, err := authentication.NewGCSClient(ctx)
	if err != nil {
		return nil, err
	}
	return NewGCSUploader(client, f.GCSBucket, f.GCSPrefix), nil
}
