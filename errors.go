// errors.go - error taxonomy. Plain wrapped stdlib errors distinguishing
// configuration, format, resource and execution faults; fatal() reports and
// exits for faults that abort the whole run.

package main

import (
	"errors"
	"fmt"
	"os"
)

var (
	errConfiguration = errors.New("configuration error")
	errFormat        = errors.New("format error")
	errResource      = errors.New("resource error")
	errExecution     = errors.New("execution error")
)

// fatal writes a one-line diagnostic to stderr and exits with a non-zero
// status, the propagation policy for configuration/format/resource/execution
// errors described in §7.
func fatal(err error) {
	fmt.Fprintf(os.Stderr, "pasm: %v\n", err)
	os.Exit(1)
}
