package execshell

import (
	"context"

	"go.uber.org/zap"
)

const (
	executingCommandMessageConstant       = "executing command"
	commandCompletedMessageConstant       = "command completed"
	commandExecutionFailedMessageConstant = "command execution failed"
	logFieldCommandConstant               = "command"
	logFieldWorkingDirectoryConstant      = "working_directory"
	logFieldExitCodeConstant              = "exit_code"
	logFieldDurationConstant              = "duration"
)

// ShellExecutor runs commands through a CommandRunner while logging and notifying an observer.
type ShellExecutor struct {
	logger   *zap.Logger
	runner   CommandRunner
	observer CommandEventObserver
}

// NewShellExecutor validates dependencies and constructs an executor. A nil observer discards events.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner, observer CommandEventObserver) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	if observer == nil {
		observer = noopCommandEventObserver{}
	}
	return &ShellExecutor{logger: logger, runner: runner, observer: observer}, nil
}

// Execute runs command. Non-zero exit codes return the result together with a CommandFailedError;
// runner failures return a CommandExecutionError.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.logger.Debug(
		executingCommandMessageConstant,
		zap.String(logFieldCommandConstant, command.Label()),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	)
	executor.observer.CommandStarted(command)

	result, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		executor.logger.Debug(
			commandExecutionFailedMessageConstant,
			zap.String(logFieldCommandConstant, command.Label()),
			zap.Error(runError),
		)
		executor.observer.CommandExecutionFailed(command, runError)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.logger.Debug(
		commandCompletedMessageConstant,
		zap.String(logFieldCommandConstant, command.Label()),
		zap.Int(logFieldExitCodeConstant, result.ExitCode),
		zap.Duration(logFieldDurationConstant, result.Duration),
	)
	executor.observer.CommandCompleted(command, result)

	if result.ExitCode != 0 {
		return result, CommandFailedError{Command: command, Result: result}
	}
	return result, nil
}
