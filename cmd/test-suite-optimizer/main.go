// The purpose of this tool is to reduce a test suite to the test cases whose
// execution history says the most about the system under test.
package main

import (
	goflag "flag"
	"os"

	"github.com/spf13/pflag"

	"github.com/openshift/test-suite-optimizer/pkg/testsuiteoptimizer"
)

func main() {
	cmd := testsuiteoptimizer.NewTestSuiteOptimizerCommand()
	pflag.CommandLine.AddGoFlagSet(goflag.CommandLine)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
