package testsuiteoptimizerlib

import (
	"context"

	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer/testsuiteoptimizerapi"
)

//go:generate mockgen -source=source.go -destination=source_mock.go -package=testsuiteoptimizerlib

// ExecutionRecordSource yields the full set of execution records for one analysis.
type ExecutionRecordSource interface {
	ListExecutionRecords(ctx context.Context) ([]testsuiteoptimizerapi.ExecutionRecord, error)
}
