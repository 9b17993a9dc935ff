package testsuiteanalyzer

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"k8s.io/utils/clock"

	"github.com/openshift/test-suite-optimizer/pkg/results"
	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer/testcasescorer"
	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer/testsuiteoptimizerlib"
)

type TestSuiteAnalyzerFlags struct {
	Records *testsuiteoptimizerlib.RecordSourceFlags
	Upload  *testsuiteoptimizerlib.UploadFlags

	ConfigFile       string
	MinWeightedScore *float64
	MaxTestsPerSuite *int
	TieBreak         string
	RandomSeed       uint64
	Parallelism      int

	OutputDir   string
	MetricsFile string
	LogLevel    string

	flagSet *pflag.FlagSet
}

func NewTestSuiteAnalyzerFlags() *TestSuiteAnalyzerFlags {
	defaults := testcasescorer.DefaultSelectionConfig()
	return &TestSuiteAnalyzerFlags{
		Records: testsuiteoptimizerlib.NewRecordSourceFlags(testsuiteoptimizerlib.SourceCSV),
		Upload:  &testsuiteoptimizerlib.UploadFlags{},

		MinWeightedScore: defaults.MinWeightedScore,
		MaxTestsPerSuite: defaults.MaxTestsPerSuite,
		TieBreak:         string(defaults.TieBreak),
		Parallelism:      runtime.GOMAXPROCS(0),
		OutputDir:        ".",
		LogLevel:         "info",
	}
}

func (f *TestSuiteAnalyzerFlags) BindFlags(fs *pflag.FlagSet) {
	f.Records.BindFlags(fs)
	f.Upload.BindFlags(fs)

	fs.StringVar(&f.ConfigFile, "config", f.ConfigFile, "YAML file with min_weighted_score, max_tests_per_suite, tie_break and random_seed; flags given explicitly take precedence")
	fs.Var(&optionalFloat64{&f.MinWeightedScore}, "min-weighted-score", "test cases scoring below this are not selected, none disables the threshold")
	fs.Var(&optionalInt{&f.MaxTestsPerSuite}, "max-tests-per-suite", "most test cases selected per suite, none disables the cap")
	fs.StringVar(&f.TieBreak, "tie-break", f.TieBreak, "how test cases with equal score and runs are ordered: random or name")
	fs.Uint64Var(&f.RandomSeed, "random-seed", f.RandomSeed, "seed for random tie breaks, 0 derives one from the current time")
	fs.IntVar(&f.Parallelism, "parallelism", f.Parallelism, "how many suites are ranked at the same time")

	fs.StringVar(&f.OutputDir, "output-dir", f.OutputDir, "directory the output CSV files are written to")
	fs.StringVar(&f.MetricsFile, "metrics-file", f.MetricsFile, "optional file to write run metrics to in the Prometheus text format")
	fs.StringVar(&f.LogLevel, "log-level", f.LogLevel, "Log level (trace,debug,info,warn,error)")

	f.flagSet = fs
}

func NewTestSuiteAnalyzerCommand() *cobra.Command {
	f := NewTestSuiteAnalyzerFlags()

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Select the most informative test cases of every suite",
		Long: `Analyze the execution history of every test case and select a reduced test suite.

Test cases that always passed or always failed carry no information and are
filtered out. The rest are scored by 0.7*fail_rate + 0.3*|0.5 - pass_rate| and the
best scoring test cases of every suite are kept.

Three files are written to --output-dir:
  test_case_statistics.csv  every test case with its pass and fail rates
  filtered_test_cases.csv   the test cases filtered out as noise
  optimized_test_suite.csv  the selected test cases with their scores
`,
		SilenceUsage: true,

		Example: `./test-suite-optimizer analyze --input-file=testcase_data.csv --max-tests-per-suite=3

./test-suite-optimizer analyze --source=influxdb --influxdb-token-file=/etc/influx/token --min-weighted-score=none`,

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
func (f *TestSuiteAnalyzerFlags) Validate() error {
	if err := f.Records.Validate(); err != nil {
		return err
	}
	if len(f.OutputDir) == 0 {
		return fmt.Errorf("missing --output-dir")
	}
	if f.Parallelism < 1 {
		return fmt.Errorf("--parallelism must be at least 1, got %d", f.Parallelism)
	}
	if _, err := logrus.ParseLevel(f.LogLevel); err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	return f.flagSelectionConfig().Validate()
}

func (f *TestSuiteAnalyzerFlags) flagSelectionConfig() testcasescorer.SelectionConfig {
	return testcasescorer.SelectionConfig{
		MinWeightedScore: f.MinWeightedScore,
		MaxTestsPerSuite: f.MaxTestsPerSuite,
		TieBreak:         testcasescorer.TieBreakPolicy(f.TieBreak),
		Seed:             f.RandomSeed,
	}
}

func (f *TestSuiteAnalyzerFlags) changed(name string) bool {
	return f.flagSet != nil && f.flagSet.Changed(name)
}

// SelectionConfig resolves the selection settings: defaults, then the config
// file, then the flags given explicitly.
func (f *TestSuiteAnalyzerFlags) SelectionConfig(now func() time.Time) (testcasescorer.SelectionConfig, error) {
	config := f.flagSelectionConfig()
	if len(f.ConfigFile) > 0 {
		fromFile, err := loadSelectionConfig(f.ConfigFile, testcasescorer.DefaultSelectionConfig())
		if err != nil {
			return config, err
		}
		if !f.changed("min-weighted-score") {
			config.MinWeightedScore = fromFile.MinWeightedScore
		}
		if !f.changed("max-tests-per-suite") {
			config.MaxTestsPerSuite = fromFile.MaxTestsPerSuite
		}
		if !f.changed("tie-break") && len(fromFile.TieBreak) > 0 {
			config.TieBreak = fromFile.TieBreak
		}
		if !f.changed("random-seed") {
			config.Seed = fromFile.Seed
		}
	}
	if config.Seed == 0 {
		config.Seed = uint64(now().UnixNano())
		logrus.WithField("random-seed", config.Seed).Info("No random seed given, pass this one to reproduce the run")
	}
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// ToOptions creates a new TestSuiteAnalyzerOptions struct
func (f *TestSuiteAnalyzerFlags) ToOptions(ctx context.Context) (*TestSuiteAnalyzerOptions, error) {
	level, err := logrus.ParseLevel(f.LogLevel)
	if err != nil {
		return nil, err
	}
	logrus.SetLevel(level)

	realClock := clock.RealClock{}
	selection, err := f.SelectionConfig(realClock.Now)
	if err != nil {
		return nil, err
	}

	source, closer, err := f.Records.NewSource(ctx, realClock)
	if err != nil {
		return nil, err
	}
	uploader, err := f.Upload.NewUploader(ctx, f.Records.Authentication, os.Stdout)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}

	return &TestSuiteAnalyzerOptions{
		source:      source,
		closer:      closer,
		selection:   selection,
		parallelism: f.Parallelism,
		outputDir:   f.OutputDir,
		metricsFile: f.MetricsFile,
		uploader:    uploader,
		out:         os.Stdout,
	}, nil
}

var _ io.Closer = &TestSuiteAnalyzerOptions{}
