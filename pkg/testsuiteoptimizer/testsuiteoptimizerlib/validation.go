package testsuiteoptimizerlib

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/openshift/test-suite-optimizer/pkg/results"
	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer/testsuiteoptimizerapi"
)

var validate = validator.New()

// ValidateRecords checks every record and reports all the malformed ones at once.
// Records are numbered from 1 in the order given.
func ValidateRecords(records []testsuiteoptimizerapi.ExecutionRecord) error {
	var errs []error
	for i, record := range records {
		if err := ValidateRecord(record); err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i+1, err))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	aggregate := utilerrors.NewAggregate(errs)
	return results.ForReason(results.ReasonMalformedRecord).WithError(aggregate).Errorf("%d of %d execution records are malformed: %v", len(errs), len(records), aggregate)
}

func ValidateRecord(record testsuiteoptimizerapi.ExecutionRecord) error {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	var errs []error
	for _, fieldErr := range validationErrors {
		errs = append(errs, fieldError(fieldErr))
	}
	return utilerrors.NewAggregate(errs)
}

func fieldError(fieldErr validator.FieldError) error {
	column := columnForField[fieldErr.StructField()]
	switch fieldErr.Tag() {
	case "required":
		return fmt.Errorf("%s is empty", column)
	case "oneof":
		return fmt.Errorf("%s must be one of [%s], got %v", column, fieldErr.Param(), fieldErr.Value())
	default:
		return fmt.Errorf("%s failed %s validation", column, fieldErr.Tag())
	}
}

var columnForField = map[string]string{
	"BuildNumber": testsuiteoptimizerapi.BuildNumberColumn,
	"Failed":      testsuiteoptimizerapi.FailedColumn,
	"TestName":    testsuiteoptimizerapi.TestNameColumn,
	"Passed":      testsuiteoptimizerapi.PassedColumn,
	"SuiteName":   testsuiteoptimizerapi.SuiteNameColumn,
}
