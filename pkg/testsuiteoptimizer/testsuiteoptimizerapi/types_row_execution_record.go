package testsuiteoptimizerapi

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Column names shared by the dataset CSV, the InfluxDB measurement and the BigQuery table.
const (
	BuildNumberColumn = "build_number"
	FailedColumn      = "rf_failed"
	TestNameColumn    = "rf_name"
	PassedColumn      = "rf_passed"
	SuiteNameColumn   = "rf_suite_name"
)

// ExecutionRecord is one run of a named test within a named suite.
// The field order matches the column order of the fetched dataset.
type ExecutionRecord struct {
	BuildNumber string  `csv:"build_number" validate:"required"`
	Failed      Outcome `csv:"rf_failed" validate:"oneof=0 1"`
	TestName    string  `csv:"rf_name" validate:"required"`
	Passed      Outcome `csv:"rf_passed" validate:"oneof=0 1"`
	SuiteName   string  `csv:"rf_suite_name" validate:"required"`
}

func (r ExecutionRecord) Key() TestCaseKey {
	return TestCaseKey{SuiteName: r.SuiteName, TestName: r.TestName}
}

// Outcome is a pass or fail flag. Well-formed values are 0 and 1; anything else
// that still parses as a whole number is kept so validation can report it.
type Outcome int

const (
	OutcomeUnset Outcome = 0
	OutcomeSet   Outcome = 1
)

// ParseOutcome coerces the textual forms a flag takes across data sources:
// integers, integral floats ("1.0") and booleans.
func ParseOutcome(value string) (Outcome, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("missing outcome value")
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return outcomeFromFloat(f)
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return outcomeFromBool(b), nil
	}
	return 0, fmt.Errorf("outcome %q is not a number or boolean", value)
}

func (o *Outcome) UnmarshalCSV(value string) error {
	parsed, err := ParseOutcome(value)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

func (o Outcome) MarshalCSV() (string, error) {
	return strconv.Itoa(int(o)), nil
}

func outcomeFromFloat(f float64) (Outcome, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("outcome %v is not a whole number", f)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("outcome %v is out of range", f)
	}
	return Outcome(int(f)), nil
}

func outcomeFromBool(b bool) Outcome {
	if b {
		return OutcomeSet
	}
	return OutcomeUnset
}

// RecordFromValues builds an ExecutionRecord from a column-keyed row as returned
// by InfluxDB or BigQuery. Only the value types are checked here, ranges and
// required fields are left to validation.
func RecordFromValues(values map[string]interface{}) (ExecutionRecord, error) {
	var record ExecutionRecord
	var err error
	if record.BuildNumber, err = identifierFromValue(values[BuildNumberColumn]); err != nil {
		return record, fmt.Errorf("column %s: %w", BuildNumberColumn, err)
	}
	if record.SuiteName, err = stringFromValue(values[SuiteNameColumn]); err != nil {
		return record, fmt.Errorf("column %s: %w", SuiteNameColumn, err)
	}
	if record.TestName, err = stringFromValue(values[TestNameColumn]); err != nil {
		return record, fmt.Errorf("column %s: %w", TestNameColumn, err)
	}
	if record.Passed, err = outcomeFromValue(values[PassedColumn]); err != nil {
		return record, fmt.Errorf("column %s: %w", PassedColumn, err)
	}
	if record.Failed, err = outcomeFromValue(values[FailedColumn]); err != nil {
		return record, fmt.Errorf("column %s: %w", FailedColumn, err)
	}
	return record, nil
}

func identifierFromValue(value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case int:
		return strconv.Itoa(v), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		if v != math.Trunc(v) {
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		}
		return strconv.FormatFloat(v, 'f', 0, 64), nil
	default:
		return "", fmt.Errorf("unsupported identifier type %T", value)
	}
}

func stringFromValue(value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("expected a string, got %T", value)
	}
}

func outcomeFromValue(value interface{}) (Outcome, error) {
	switch v := value.(type) {
	case nil:
		return 0, fmt.Errorf("missing outcome value")
	case bool:
		return outcomeFromBool(v), nil
	case int64:
		return outcomeFromFloat(float64(v))
	case int:
		return outcomeFromFloat(float64(v))
	case uint64:
		return outcomeFromFloat(float64(v))
	case float64:
		return outcomeFromFloat(v)
	case string:
		return ParseOutcome(v)
	default:
		return 0, fmt.Errorf("unsupported outcome type %T", value)
	}
}
