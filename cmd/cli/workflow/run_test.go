package workflow_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	workflowcmd "github.com/temirov/spinline/cmd/cli/workflow"
	"github.com/temirov/spinline/internal/execshell"
	"github.com/temirov/spinline/internal/indicator"
	"github.com/temirov/spinline/internal/indicator/testsupport"
	"github.com/temirov/spinline/internal/runner"
)

const (
	workflowFileNameConstant    = "workflow.yaml"
	workflowFileContentConstant = "steps:\n  - name: build\n    command: [make, build]\n  - label: Testing\n    command: [make, test]\n"
	workflowDryRunPlanConstant  = "1. build: make build\n2. make test: make test\n"
)

type stubCommandRunner struct {
	commands []execshell.ShellCommand
	results  map[string]execshell.ExecutionResult
}

func (stub *stubCommandRunner) Run(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	stub.commands = append(stub.commands, command)
	return stub.results[command.Label()], nil
}

func executeWorkflowCommand(testInstance *testing.T, configuration workflowcmd.CommandConfiguration, commandRunner *stubCommandRunner, arguments ...string) (*testsupport.RecordingStream, string, error) {
	testInstance.Helper()

	stream := testsupport.NewRecordingStream(false)
	builder := workflowcmd.CommandBuilder{
		ConfigurationProvider: func() workflowcmd.CommandConfiguration {
			return configuration
		},
		RunConfigurationProvider: func() runner.Configuration {
			return runner.Configuration{ShowElapsed: false}
		},
		IndicatorConfigurationProvider: func() indicator.Configuration {
			return indicator.Configuration{Animation: "line", LabelSeparator: " "}
		},
		Runner:                commandRunner,
		IndicatorDependencies: indicator.Dependencies{Stream: stream, Scheduler: testsupport.NewManualScheduler()},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	var output bytes.Buffer
	command.SetOut(&output)
	command.SetErr(&bytes.Buffer{})
	command.SetArgs(arguments)
	executionError := command.Execute()
	return stream, output.String(), executionError
}

func writeWorkflowFile(testInstance *testing.T) string {
	testInstance.Helper()

	workflowPath := filepath.Join(testInstance.TempDir(), workflowFileNameConstant)
	require.NoError(testInstance, os.WriteFile(workflowPath, []byte(workflowFileContentConstant), 0o600))
	return workflowPath
}

func TestWorkflowCommandRunsSteps(testInstance *testing.T) {
	commandRunner := &stubCommandRunner{results: map[string]execshell.ExecutionResult{
		"make build": {StandardOutput: "built\n"},
		"make test":  {StandardOutput: "ok\n"},
	}}

	stream, output, executionError := executeWorkflowCommand(testInstance, workflowcmd.CommandConfiguration{}, commandRunner, writeWorkflowFile(testInstance))
	require.NoError(testInstance, executionError)
	require.Len(testInstance, commandRunner.commands, 2)
	require.Equal(testInstance, "built\nok\n", output)
	require.Equal(testInstance, []string{"- [1/2] build", "- [2/2] Testing"}, stream.Renders())
}

func TestWorkflowCommandStopsAtFailingStep(testInstance *testing.T) {
	commandRunner := &stubCommandRunner{results: map[string]execshell.ExecutionResult{
		"make build": {ExitCode: 2},
	}}

	_, _, executionError := executeWorkflowCommand(testInstance, workflowcmd.CommandConfiguration{}, commandRunner, writeWorkflowFile(testInstance))

	var failedCommand execshell.CommandFailedError
	require.ErrorAs(testInstance, executionError, &failedCommand)
	require.Equal(testInstance, 2, failedCommand.Result.ExitCode)
	require.Len(testInstance, commandRunner.commands, 1)
}

func TestWorkflowCommandDryRunPrecedence(testInstance *testing.T) {
	testCases := []struct {
		name          string
		configuration workflowcmd.CommandConfiguration
		arguments     []string
		expectDryRun  bool
	}{
		{
			name:          "configuration_enables_dry_run",
			configuration: workflowcmd.CommandConfiguration{DryRun: true},
			expectDryRun:  true,
		},
		{
			name:         "flag_enables_dry_run",
			arguments:    []string{"--dry-run"},
			expectDryRun: true,
		},
		{
			name:          "flag_overrides_configuration",
			configuration: workflowcmd.CommandConfiguration{DryRun: true},
			arguments:     []string{"--dry-run=false"},
			expectDryRun:  false,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			commandRunner := &stubCommandRunner{}
			arguments := append([]string{writeWorkflowFile(testInstance)}, testCase.arguments...)

			_, output, executionError := executeWorkflowCommand(testInstance, testCase.configuration, commandRunner, arguments...)
			require.NoError(testInstance, executionError)

			if testCase.expectDryRun {
				require.Equal(testInstance, workflowDryRunPlanConstant, output)
				require.Empty(testInstance, commandRunner.commands)
				return
			}
			require.Len(testInstance, commandRunner.commands, 2)
		})
	}
}

func TestWorkflowCommandRequiresFile(testInstance *testing.T) {
	_, _, missingArgumentError := executeWorkflowCommand(testInstance, workflowcmd.CommandConfiguration{}, &stubCommandRunner{})
	require.Error(testInstance, missingArgumentError)

	_, _, missingFileError := executeWorkflowCommand(testInstance, workflowcmd.CommandConfiguration{}, &stubCommandRunner{}, filepath.Join(testInstance.TempDir(), workflowFileNameConstant))
	require.ErrorIs(testInstance, missingFileError, os.ErrNotExist)
}
