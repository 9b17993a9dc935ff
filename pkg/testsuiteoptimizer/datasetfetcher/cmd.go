package datasetfetcher

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"k8s.io/utils/clock"

	"github.com/openshift/test-suite-optimizer/pkg/results"
	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer/testsuiteoptimizerlib"
)

type DatasetFetcherFlags struct {
	Records *testsuiteoptimizerlib.RecordSourceFlags
	Upload  *testsuiteoptimizerlib.UploadFlags

	OutputFile string
	LogLevel   string
}

func NewDatasetFetcherFlags() *DatasetFetcherFlags {
	return &DatasetFetcherFlags{
		Records:    testsuiteoptimizerlib.NewRecordSourceFlags(testsuiteoptimizerlib.SourceInfluxDB),
		Upload:     &testsuiteoptimizerlib.UploadFlags{},
		OutputFile: DatasetFileName,
		LogLevel:   "info",
	}
}

func (f *DatasetFetcherFlags) BindFlags(fs *pflag.FlagSet) {
	f.Records.BindFlags(fs)
	f.Upload.BindFlags(fs)

	fs.StringVar(&f.OutputFile, "output-file", f.OutputFile, "CSV file the execution records are written to")
	fs.StringVar(&f.LogLevel, "log-level", f.LogLevel, "Log level (trace,debug,info,warn,error)")
}

func NewDatasetFetcherCommand() *cobra.Command {
	f := NewDatasetFetcherFlags()

	cmd := &cobra.Command{
		Use:   "fetch-dataset",
		Short: "Save the execution records of a project to CSV",
		Long: `Read the execution records of every test case of a project over the lookback
window and save them as the CSV dataset read by analyze.

Records are read from the testcase_point measurement of InfluxDB, or from the table
of the same name in BigQuery.`,
		SilenceUsage: true,

		Example: `./test-suite-optimizer fetch-dataset --influxdb-url=http://influxdb:8086 --influxdb-token-file=/etc/influx/token --project-name=ETSc2-Robot-Tests`,

		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if err := f.Validate(); err != nil {
				logrus.WithError(err).Fatal("Flags are invalid")
			}
			o, err := f.ToOptions(ctx)
			if err != nil {
				logrus.WithError(err).WithField("reason", results.FullReason(err)).Fatal("Failed to build runtime options")
			}
			defer o.Close()

			if err := o.Run(ctx); err != nil {
				logrus.WithError(err).WithField("reason", results.FullReason(err)).Fatal("Command failed")
			}

			return nil
		},

		Args: testsuiteoptimizerlib.NoArgs,
	}

	f.BindFlags(cmd.Flags())

	return cmd
}

// Validate checks to see if the user-input is likely to produce functional runtime options
func (f *DatasetFetcherFlags) Validate() error {
	if f.Records.Source == testsuiteoptimizerlib.SourceCSV {
		return fmt.Errorf("--source must be a database, the dataset is what this command writes")
	}
	if err := f.Records.Validate(); err != nil {
		return err
	}
	if len(f.OutputFile) == 0 {
		return fmt.Errorf("missing --output-file")
	}
	if _, err := logrus.ParseLevel(f.LogLevel); err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	return nil
}

// ToOptions creates a new DatasetFetcherOptions struct
func (f *DatasetFetcherFlags) ToOptions(ctx context.Context) (*DatasetFetcherOptions, error) {
	level, err := logrus.ParseLevel(f.LogLevel)
	if err != nil {
		return nil, err
	}
	logrus.SetLevel(level)

	source, closer, err := f.Records.NewSource(ctx, clock.RealClock{})
	if err != nil {
		return nil, err
	}
	uploader, err := f.Upload.NewUploader(ctx, f.Records.Authentication, os.Stdout)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}

	return &DatasetFetcherOptions{
		source:     source,
		closer:     closer,
		outputFile: f.OutputFile,
		uploader:   uploader,
	}, nil
}
