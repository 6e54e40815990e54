package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/spinline/internal/execshell"
	"github.com/temirov/spinline/internal/runner"
)

const (
	stepLabelTemplateConstant            = "[%d/%d] %s"
	planLineTemplateConstant             = "%d. %s: %s\n"
	planWorkingDirectoryTemplateConstant = " (in %s)"
	stepFailedErrorTemplateConstant      = "workflow step %d (%s) failed: %v"
	stepRunnerMissingMessageConstant     = "workflow executor requires a step runner"
	stepFailureIgnoredMessageConstant    = "workflow step failed; continuing"
	stepCompletedMessageConstant         = "workflow step completed"
	logFieldStepConstant                 = "step"
	logFieldStepNameConstant             = "step_name"
	logFieldDurationConstant             = "duration"
)

// ErrStepRunnerNotConfigured reports an Executor built without a StepRunner.
var ErrStepRunnerNotConfigured = errors.New(stepRunnerMissingMessageConstant)

// StepRunner executes a single command under the status indicator.
type StepRunner interface {
	Run(executionContext context.Context, options runner.Options) (execshell.ExecutionResult, error)
}

// StepFailedError reports the step that stopped the workflow.
type StepFailedError struct {
	StepNumber int
	StepName   string
	Cause      error
}

func (failure StepFailedError) Error() string {
	return fmt.Sprintf(stepFailedErrorTemplateConstant, failure.StepNumber, failure.StepName, failure.Cause)
}

// Unwrap exposes the underlying command error.
func (failure StepFailedError) Unwrap() error {
	return failure.Cause
}

// Dependencies configures collaborators for workflow execution.
type Dependencies struct {
	Logger     *zap.Logger
	StepRunner StepRunner
	Output     io.Writer
	Errors     io.Writer
}

// RuntimeOptions captures user-provided execution modifiers.
type RuntimeOptions struct {
	DryRun         bool
	ShowElapsed    bool
	ElapsedRefresh time.Duration
}

// Executor runs workflow steps in order.
type Executor struct {
	steps        []StepConfiguration
	dependencies Dependencies
}

// NewExecutor constructs an Executor instance.
func NewExecutor(configuration Configuration, dependencies Dependencies) (*Executor, error) {
	if dependencies.StepRunner == nil {
		return nil, ErrStepRunnerNotConfigured
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	return &Executor{steps: append([]StepConfiguration{}, configuration.Steps...), dependencies: dependencies}, nil
}

// Execute runs every step. A failing step stops the workflow unless it continues on error.
// In dry-run mode the plan is printed and nothing runs.
func (executor *Executor) Execute(executionContext context.Context, runtimeOptions RuntimeOptions) error {
	if runtimeOptions.DryRun {
		return executor.printPlan()
	}

	stepCount := len(executor.steps)
	for stepIndex, step := range executor.steps {
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}

		stepNumber := stepIndex + 1
		command := step.ShellCommand()
		label := step.Label
		if len(label) == 0 {
			label = step.DisplayName()
		}

		result, runError := executor.dependencies.StepRunner.Run(executionContext, runner.Options{
			Command:        command,
			Label:          fmt.Sprintf(stepLabelTemplateConstant, stepNumber, stepCount, label),
			ShowElapsed:    runtimeOptions.ShowElapsed,
			ElapsedRefresh: runtimeOptions.ElapsedRefresh,
			StandardOutput: executor.dependencies.Output,
			StandardError:  executor.dependencies.Errors,
		})
		if runError == nil {
			executor.dependencies.Logger.Debug(
				stepCompletedMessageConstant,
				zap.Int(logFieldStepConstant, stepNumber),
				zap.String(logFieldStepNameConstant, step.DisplayName()),
				zap.Duration(logFieldDurationConstant, result.Duration),
			)
			continue
		}

		if step.ContinueOnError && executionContext.Err() == nil {
			executor.dependencies.Logger.Warn(
				stepFailureIgnoredMessageConstant,
				zap.Int(logFieldStepConstant, stepNumber),
				zap.String(logFieldStepNameConstant, step.DisplayName()),
				zap.Error(runError),
			)
			continue
		}

		return StepFailedError{StepNumber: stepNumber, StepName: step.DisplayName(), Cause: runError}
	}

	return nil
}

func (executor *Executor) printPlan() error {
	if executor.dependencies.Output == nil {
		return nil
	}
	for stepIndex, step := range executor.steps {
		command := step.ShellCommand()
		commandDescription := command.Label()
		if len(command.Details.WorkingDirectory) > 0 {
			commandDescription += fmt.Sprintf(planWorkingDirectoryTemplateConstant, command.Details.WorkingDirectory)
		}
		if _, writeError := fmt.Fprintf(executor.dependencies.Output, planLineTemplateConstant, stepIndex+1, step.DisplayName(), commandDescription); writeError != nil {
			return writeError
		}
	}
	return nil
}
