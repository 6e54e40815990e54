package main

import (
	"fmt"
	"os"

	"github.com/temirov/spinline/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the spinline command-line application.
func main() {
	executionError := cli.Execute()
	exitCode, printError := cli.ExitStatus(executionError)
	if printError {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
	}
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
