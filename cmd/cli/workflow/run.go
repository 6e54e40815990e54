package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/spinline/internal/execshell"
	"github.com/temirov/spinline/internal/indicator"
	"github.com/temirov/spinline/internal/runner"
	"github.com/temirov/spinline/internal/utils"
	"github.com/temirov/spinline/internal/workflow"
)

const (
	commandUseConstant                       = "workflow <file>"
	commandShortDescriptionConstant          = "Run the command steps defined in a workflow file"
	commandLongDescriptionConstant           = "workflow executes the steps defined in a YAML or JSON file in order, animating the status indicator while each step runs."
	dryRunFlagNameConstant                   = "dry-run"
	dryRunFlagDescriptionConstant            = "Print the steps without running them"
	configurationPathRequiredMessageConstant = "workflow file required; provide it as a positional argument"
	loadConfigurationErrorTemplateConstant   = "unable to load workflow configuration: %w"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the workflow command.
type CommandBuilder struct {
	LoggerProvider                 LoggerProvider
	ConsoleLoggerProvider          LoggerProvider
	ConfigurationProvider          func() CommandConfiguration
	RunConfigurationProvider       func() runner.Configuration
	IndicatorConfigurationProvider func() indicator.Configuration
	Runner                         execshell.CommandRunner
	IndicatorDependencies          indicator.Dependencies
}

// Build constructs the workflow command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	command.Flags().Bool(dryRunFlagNameConstant, false, dryRunFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configurationPath := ""
	if len(arguments) > 0 {
		configurationPath = strings.TrimSpace(arguments[0])
	}
	if len(configurationPath) == 0 {
		if helpError := command.Help(); helpError != nil {
			return helpError
		}
		return errors.New(configurationPathRequiredMessageConstant)
	}

	workflowConfiguration, configurationError := workflow.LoadConfiguration(configurationPath)
	if configurationError != nil {
		return fmt.Errorf(loadConfigurationErrorTemplateConstant, configurationError)
	}

	commandConfiguration := builder.resolveConfiguration()
	dryRun := commandConfiguration.DryRun
	if command.Flags().Changed(dryRunFlagNameConstant) {
		dryRun, _ = command.Flags().GetBool(dryRunFlagNameConstant)
	}

	logger := resolveLogger(builder.LoggerProvider)
	stepRunner, stepRunnerError := builder.buildStepRunner(logger)
	if stepRunnerError != nil {
		return stepRunnerError
	}

	executor, executorError := workflow.NewExecutor(workflowConfiguration, workflow.Dependencies{
		Logger:     logger,
		StepRunner: stepRunner,
		Output:     utils.NewFlushingWriter(command.OutOrStdout()),
		Errors:     utils.NewFlushingWriter(command.ErrOrStderr()),
	})
	if executorError != nil {
		return executorError
	}

	runConfiguration := builder.resolveRunConfiguration()
	return executor.Execute(command.Context(), workflow.RuntimeOptions{
		DryRun:         dryRun,
		ShowElapsed:    runConfiguration.ShowElapsed,
		ElapsedRefresh: runConfiguration.ElapsedRefresh,
	})
}

func (builder *CommandBuilder) buildStepRunner(logger *zap.Logger) (*runner.Service, error) {
	indicatorConfiguration := indicator.DefaultConfiguration()
	if builder.IndicatorConfigurationProvider != nil {
		indicatorConfiguration = builder.IndicatorConfigurationProvider()
	}

	indicatorDependencies := builder.IndicatorDependencies
	indicatorDependencies.Logger = logger
	statusIndicator, indicatorError := indicator.NewFromConfiguration(indicatorConfiguration, indicatorDependencies)
	if indicatorError != nil {
		return nil, indicatorError
	}

	commandRunner := builder.Runner
	if commandRunner == nil {
		commandRunner = execshell.NewOSCommandRunner()
	}

	return runner.NewService(runner.Dependencies{
		Logger:        logger,
		ConsoleLogger: resolveLogger(builder.ConsoleLoggerProvider),
		Runner:        commandRunner,
		Indicator:     statusIndicator,
	})
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveRunConfiguration() runner.Configuration {
	if builder.RunConfigurationProvider == nil {
		return runner.DefaultConfiguration()
	}
	return builder.RunConfigurationProvider().Sanitize()
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
