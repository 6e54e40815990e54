package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	commandLabelSeparatorConstant             = " "
	commandFailedErrorTemplateConstant        = "%s exited with code %d"
	commandExecutionErrorTemplateConstant     = "%s could not run: %v"
	loggerNotConfiguredMessageConstant        = "shell executor requires a logger"
	commandRunnerNotConfiguredMessageConstant = "shell executor requires a command runner"
	commandNameRequiredMessageConstant        = "command name must be provided"
)

// ErrLoggerNotConfigured reports a ShellExecutor built without a logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrCommandRunnerNotConfigured reports a ShellExecutor built without a runner.
var ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)

// ErrCommandNameRequired reports a ShellCommand without an executable name.
var ErrCommandNameRequired = errors.New(commandNameRequiredMessageConstant)

// CommandName identifies the executable to invoke.
type CommandName string

// CommandDetails carries the invocation parameters of a command.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand pairs an executable with its invocation parameters.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// Label renders the command as it would be typed in a shell.
func (command ShellCommand) Label() string {
	commandParts := append([]string{string(command.Name)}, command.Details.Arguments...)
	return strings.Join(commandParts, commandLabelSeparatorConstant)
}

// ExecutionResult captures the observable outcome of a finished command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
	Duration       time.Duration
}

// CommandRunner executes a ShellCommand.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandFailedError reports a command that ran but exited with a non-zero code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

func (failure CommandFailedError) Error() string {
	return fmt.Sprintf(commandFailedErrorTemplateConstant, failure.Command.Label(), failure.Result.ExitCode)
}

// CommandExecutionError reports a command that could not be run at all.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, failure.Command.Label(), failure.Cause)
}

// Unwrap exposes the underlying cause.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}
