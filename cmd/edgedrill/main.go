// Command edgedrill converts panel drawings into horizontal drilling programs.
package main

import (
	"fmt"
	"os"

	"edgedrill/pkg/fault"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for configuration problems and 1 for everything else.
func exitCode(err error) int {
	if fault.IsKind(err, fault.KindConfiguration) {
		return 2
	}
	return 1
}
