package runner

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/spinline/internal/execshell"
	"github.com/temirov/spinline/internal/indicator"
)

const (
	commandUseConstant                      = "run [flags] [--] <command> [arguments...]"
	commandShortDescriptionConstant         = "Run a command while a status indicator animates"
	commandLongDescriptionConstant          = "run executes an external command, animates a status indicator on the terminal until it exits, and then prints the captured output. The exit code of the command becomes the exit code of spinline."
	missingCommandMessageConstant           = "run requires a command to execute"
	flagLabelNameConstant                   = "label"
	flagLabelDescriptionConstant            = "Label displayed next to the indicator instead of \"Running <command>\""
	flagAnimationNameConstant               = "animation"
	flagAnimationDescriptionConstant        = "Animation name from the catalog (see \"spinline animations list\")"
	flagWorkingDirectoryNameConstant        = "workdir"
	flagWorkingDirectoryDescriptionConstant = "Directory to run the command in"
	flagNoElapsedNameConstant               = "no-elapsed"
	flagNoElapsedDescriptionConstant        = "Do not append the elapsed time to the label"
)

var errMissingCommand = errors.New(missingCommandMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the run command configuration.
type ConfigurationProvider func() Configuration

// IndicatorConfigurationProvider returns the indicator configuration.
type IndicatorConfigurationProvider func() indicator.Configuration

// CommandBuilder assembles the Cobra command for running a command under an indicator.
type CommandBuilder struct {
	LoggerProvider                 LoggerProvider
	ConsoleLoggerProvider          LoggerProvider
	ConfigurationProvider          ConfigurationProvider
	IndicatorConfigurationProvider IndicatorConfigurationProvider
	Runner                         execshell.CommandRunner
	IndicatorDependencies          indicator.Dependencies
}

// Build constructs the run command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().SetInterspersed(false)
	command.Flags().String(flagLabelNameConstant, "", flagLabelDescriptionConstant)
	command.Flags().String(flagAnimationNameConstant, "", flagAnimationDescriptionConstant)
	command.Flags().String(flagWorkingDirectoryNameConstant, "", flagWorkingDirectoryDescriptionConstant)
	command.Flags().Bool(flagNoElapsedNameConstant, false, flagNoElapsedDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	options, optionsError := builder.parseOptions(command, arguments)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger(builder.LoggerProvider)

	indicatorConfiguration := builder.resolveIndicatorConfiguration()
	if command.Flags().Changed(flagAnimationNameConstant) {
		animationName, _ := command.Flags().GetString(flagAnimationNameConstant)
		indicatorConfiguration.Animation = animationName
		indicatorConfiguration.Frames = nil
	}

	indicatorDependencies := builder.IndicatorDependencies
	indicatorDependencies.Logger = logger
	statusIndicator, indicatorError := indicator.NewFromConfiguration(indicatorConfiguration, indicatorDependencies)
	if indicatorError != nil {
		return indicatorError
	}

	commandRunner := builder.Runner
	if commandRunner == nil {
		commandRunner = execshell.NewOSCommandRunner()
	}

	service, serviceError := NewService(Dependencies{
		Logger:        logger,
		ConsoleLogger: builder.resolveLogger(builder.ConsoleLoggerProvider),
		Runner:        commandRunner,
		Indicator:     statusIndicator,
	})
	if serviceError != nil {
		return serviceError
	}

	_, runError := service.Run(command.Context(), options)
	return runError
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, arguments []string) (Options, error) {
	if len(arguments) == 0 || len(strings.TrimSpace(arguments[0])) == 0 {
		return Options{}, errMissingCommand
	}

	configuration := builder.resolveConfiguration()

	labelValue, _ := command.Flags().GetString(flagLabelNameConstant)
	workingDirectoryValue, _ := command.Flags().GetString(flagWorkingDirectoryNameConstant)
	noElapsedValue, _ := command.Flags().GetBool(flagNoElapsedNameConstant)

	return Options{
		Command: execshell.ShellCommand{
			Name: execshell.CommandName(arguments[0]),
			Details: execshell.CommandDetails{
				Arguments:        arguments[1:],
				WorkingDirectory: strings.TrimSpace(workingDirectoryValue),
			},
		},
		Label:          strings.TrimSpace(labelValue),
		ShowElapsed:    configuration.ShowElapsed && !noElapsedValue,
		ElapsedRefresh: configuration.ElapsedRefresh,
		StandardOutput: command.OutOrStdout(),
		StandardError:  command.ErrOrStderr(),
	}, nil
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	if builder.ConfigurationProvider == nil {
		return DefaultConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveIndicatorConfiguration() indicator.Configuration {
	if builder.IndicatorConfigurationProvider == nil {
		return indicator.DefaultConfiguration()
	}
	return builder.IndicatorConfigurationProvider()
}

func (builder *CommandBuilder) resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}

	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}
