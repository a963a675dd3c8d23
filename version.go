package main

import (
	"fmt"

	"github.com/dalil-edge/dalil-edge/internal/version"
)

// printVersion writes the injected version + commit information.
func printVersion() {
	fmt.Fprintln(stdOut, version.Full())
}
