package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	workflowcmd "github.com/temirov/spinline/cmd/cli/workflow"
	"github.com/temirov/spinline/internal/animations"
	"github.com/temirov/spinline/internal/execshell"
	"github.com/temirov/spinline/internal/indicator"
	"github.com/temirov/spinline/internal/runner"
	"github.com/temirov/spinline/internal/utils"
	flagutils "github.com/temirov/spinline/internal/utils/flags"
)

const (
	applicationNameConstant                    = "spinline"
	applicationShortDescriptionConstant        = "Terminal status indicator for long-running commands"
	applicationLongDescriptionConstant         = "spinline animates a single-line status indicator on the terminal while a command runs and reports the outcome when it finishes."
	configFileFlagNameConstant                 = "config"
	configFileFlagUsageConstant                = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                   = "log-level"
	logLevelFlagUsageConstant                  = "Override the configured log level."
	logFormatFlagNameConstant                  = "log-format"
	logFormatFlagUsageConstant                 = "Override the configured log format"
	commonConfigurationKeyConstant             = "common"
	commonLogLevelConfigKeyConstant            = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant           = commonConfigurationKeyConstant + ".log_format"
	indicatorConfigurationKeyConstant          = "indicator"
	runConfigurationKeyConstant                = "run"
	workflowConfigurationKeyConstant           = "workflow"
	environmentPrefixConstant                  = "SPINLINE"
	configurationSearchPathEnvironmentConstant = environmentPrefixConstant + "_CONFIG_SEARCH_PATH"
	configurationNameConstant                  = "config"
	configurationTypeConstant                  = "yaml"
	configurationInitializedMessageConstant    = "configuration initialized"
	configurationLogLevelFieldConstant         = "log_level"
	configurationLogFormatFieldConstant        = "log_format"
	configurationFileFieldConstant             = "config_file"
	configurationLoadErrorTemplateConstant     = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant        = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant            = "unable to flush logger: %w"
	rootCommandDebugMessageConstant            = "spinline CLI diagnostics"
	logFieldCommandNameConstant                = "command_name"
	logFieldArgumentsConstant                  = "arguments"
	loggerNotInitializedMessageConstant        = "logger not initialized"
	failureExitCodeConstant                    = 1
	applicationVersionDefaultConstant          = "dev"
	commandBuildFailedTemplateConstant         = "unable to build %s command: %w"
	runCommandNameConstant                     = "run"
	animationsCommandNameConstant              = "animations"
	workflowCommandNameConstant                = "workflow"
)

// Version is the reported application version; release builds override it through -ldflags.
var Version = applicationVersionDefaultConstant

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common    ApplicationCommonConfiguration   `mapstructure:"common"`
	Indicator indicator.Configuration          `mapstructure:"indicator"`
	Run       runner.Configuration             `mapstructure:"run"`
	Workflow  workflowcmd.CommandConfiguration `mapstructure:"workflow"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	consoleLogger         *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() (*Application, error) {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		configurationSearchPaths(),
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactory(),
		logger:              zap.NewNop(),
		consoleLogger:       zap.NewNop(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(
		&application.logFormatFlagValue,
		logFormatFlagNameConstant,
		"",
		flagutils.FormatChoiceUsage(string(utils.LogFormatConsole), utils.LogFormatChoices, logFormatFlagUsageConstant),
	)

	runBuilder := runner.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConsoleLoggerProvider: func() *zap.Logger {
			return application.consoleLogger
		},
		ConfigurationProvider: func() runner.Configuration {
			return application.configuration.Run
		},
		IndicatorConfigurationProvider: func() indicator.Configuration {
			return application.configuration.Indicator
		},
	}
	runCommand, runBuildError := runBuilder.Build()
	if runBuildError != nil {
		return nil, fmt.Errorf(commandBuildFailedTemplateConstant, runCommandNameConstant, runBuildError)
	}
	cobraCommand.AddCommand(runCommand)

	animationsBuilder := animations.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		IndicatorConfigurationProvider: func() indicator.Configuration {
			return application.configuration.Indicator
		},
	}
	animationsCommand, animationsBuildError := animationsBuilder.Build()
	if animationsBuildError != nil {
		return nil, fmt.Errorf(commandBuildFailedTemplateConstant, animationsCommandNameConstant, animationsBuildError)
	}
	cobraCommand.AddCommand(animationsCommand)

	workflowBuilder := workflowcmd.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConsoleLoggerProvider: func() *zap.Logger {
			return application.consoleLogger
		},
		ConfigurationProvider: func() workflowcmd.CommandConfiguration {
			return application.configuration.Workflow
		},
		RunConfigurationProvider: func() runner.Configuration {
			return application.configuration.Run
		},
		IndicatorConfigurationProvider: func() indicator.Configuration {
			return application.configuration.Indicator
		},
	}
	workflowCommand, workflowBuildError := workflowBuilder.Build()
	if workflowBuildError != nil {
		return nil, fmt.Errorf(commandBuildFailedTemplateConstant, workflowCommandNameConstant, workflowBuildError)
	}
	cobraCommand.AddCommand(workflowCommand)

	application.rootCommand = cobraCommand

	return application, nil
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
// An interrupt or termination signal cancels the running command.
func (application *Application) Execute() error {
	signalContext, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	executionError := application.rootCommand.ExecuteContext(signalContext)
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	application, creationError := NewApplication()
	if creationError != nil {
		return creationError
	}
	return application.Execute()
}

// ExitStatus maps an execution error onto the process exit code. The boolean reports whether the
// error still needs printing; command failures were already reported on the console.
func ExitStatus(executionError error) (int, bool) {
	if executionError == nil {
		return 0, false
	}

	var commandFailedError execshell.CommandFailedError
	if errors.As(executionError, &commandFailedError) && commandFailedError.Result.ExitCode != 0 {
		return commandFailedError.Result.ExitCode, false
	}

	var commandExecutionError execshell.CommandExecutionError
	if errors.As(executionError, &commandExecutionError) {
		return failureExitCodeConstant, false
	}

	return failureExitCodeConstant, true
}

func configurationSearchPaths() []string {
	searchPathOverride := strings.TrimSpace(os.Getenv(configurationSearchPathEnvironmentConstant))
	if len(searchPathOverride) > 0 {
		return filepath.SplitList(searchPathOverride)
	}
	return utils.DefaultConfigurationSearchPaths(applicationNameConstant)
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelWarn),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatConsole),
	}
	for configurationKey, configurationValue := range indicator.DefaultConfigurationValues(indicatorConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}
	for configurationKey, configurationValue := range runner.DefaultConfigurationValues(runConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}
	for configurationKey, configurationValue := range workflowcmd.DefaultConfigurationValues(workflowConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration
	application.configuration.Indicator = application.configuration.Indicator.Sanitize()
	application.configuration.Run = application.configuration.Run.Sanitize()

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	normalizedLogFormat, logFormatError := flagutils.NormalizeChoice(logFormatFlagNameConstant, application.configuration.Common.LogFormat, utils.LogFormatChoices)
	if logFormatError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, logFormatError)
	}
	application.configuration.Common.LogFormat = normalizedLogFormat

	loggerOutputs, loggerCreationError := application.loggerFactory.CreateLoggerOutputs(
		utils.LogLevel(strings.ToLower(strings.TrimSpace(application.configuration.Common.LogLevel))),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = loggerOutputs.DiagnosticLogger
	application.consoleLogger = loggerOutputs.ConsoleLogger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Strings(logFieldArgumentsConstant, arguments),
	)

	return command.Help()
}

func (application *Application) flushLogger() error {
	for _, logger := range []*zap.Logger{application.logger, application.consoleLogger} {
		if syncError := application.syncLoggerInstance(logger); syncError != nil {
			return syncError
		}
	}
	return nil
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
