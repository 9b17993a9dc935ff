package testsuiteoptimizerlib

import (
	"context"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/util/retry"

	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer/testsuiteoptimizerapi"
)

type retryingSource struct {
	delegate    ExecutionRecordSource
	backoff     wait.Backoff
	isRetriable func(error) bool
}

var _ ExecutionRecordSource = &retryingSource{}

// NewRetryingSource retries the delegate with a slow backoff for as long as
// isRetriable accepts the error.
func NewRetryingSource(delegate ExecutionRecordSource, isRetriable func(error) bool) ExecutionRecordSource {
	return &retryingSource{
		delegate:    delegate,
		backoff:     slowBackoff,
		isRetriable: isRetriable,
	}
}

func (s *retryingSource) ListExecutionRecords(ctx context.Context) ([]testsuiteoptimizerapi.ExecutionRecord, error) {
	var ret []testsuiteoptimizerapi.ExecutionRecord
	err := retry.OnError(s.backoff, s.isRetriable, func() error {
		var innerErr error
		ret, innerErr = s.delegate.ListExecutionRecords(ctx)
		return innerErr
	})
	return ret, err
}

var slowBackoff = wait.Backoff{
	Steps:    4,
	Duration: 10 * time.Second,
	Factor:   2.0,
	Jitter:   0.1,
	Cap:      200 * time.Second,
}
