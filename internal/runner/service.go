package runner

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/spinline/internal/execshell"
	"github.com/temirov/spinline/internal/ui"
)

const (
	indicatorNotConfiguredMessageConstant = "status indicator not configured"
	relayOutputFailedMessageConstant      = "failed to relay command output"
	logFieldStreamConstant                = "stream"
	standardOutputStreamNameConstant      = "stdout"
	standardErrorStreamNameConstant       = "stderr"
)

// ErrIndicatorNotConfigured reports a Service built without a status indicator.
var ErrIndicatorNotConfigured = errors.New(indicatorNotConfiguredMessageConstant)

// Dependencies enumerates collaborators required by Service.
type Dependencies struct {
	Logger        *zap.Logger
	ConsoleLogger *zap.Logger
	Runner        execshell.CommandRunner
	Indicator     ui.StatusIndicator
	Now           func() time.Time
	NewTicker     TickerFactory
}

// Options configures a single run.
type Options struct {
	Command        execshell.ShellCommand
	Label          string
	ShowElapsed    bool
	ElapsedRefresh time.Duration
	StandardOutput io.Writer
	StandardError  io.Writer
}

// Service executes a command while animating the status indicator.
type Service struct {
	logger        *zap.Logger
	consoleLogger *zap.Logger
	runner        execshell.CommandRunner
	indicator     ui.StatusIndicator
	now           func() time.Time
	newTicker     TickerFactory
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Indicator == nil {
		return nil, ErrIndicatorNotConfigured
	}
	if dependencies.Runner == nil {
		return nil, execshell.ErrCommandRunnerNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	consoleLogger := dependencies.ConsoleLogger
	if consoleLogger == nil {
		consoleLogger = zap.NewNop()
	}

	return &Service{
		logger:        logger,
		consoleLogger: consoleLogger,
		runner:        dependencies.Runner,
		indicator:     dependencies.Indicator,
		now:           dependencies.Now,
		newTicker:     dependencies.NewTicker,
	}, nil
}

// Run executes the command described by options. The captured output is relayed once the
// indicator has stopped. A non-zero exit code yields execshell.CommandFailedError.
func (service *Service) Run(executionContext context.Context, options Options) (execshell.ExecutionResult, error) {
	statusIndicator := service.indicator
	if options.ShowElapsed {
		refreshInterval := options.ElapsedRefresh
		if refreshInterval <= 0 {
			refreshInterval = defaultElapsedRefreshConstant
		}
		statusIndicator = newElapsedLabelIndicator(statusIndicator, refreshInterval, service.now, service.newTicker)
	}

	observer := ui.NewIndicatorCommandEventObserver(statusIndicator, service.consoleLogger, options.Label)
	executor, executorError := execshell.NewShellExecutor(service.logger, service.runner, observer)
	if executorError != nil {
		return execshell.ExecutionResult{}, executorError
	}

	result, executionError := executor.Execute(executionContext, options.Command)
	service.relay(standardOutputStreamNameConstant, options.StandardOutput, result.StandardOutput)
	service.relay(standardErrorStreamNameConstant, options.StandardError, result.StandardError)

	return result, executionError
}

func (service *Service) relay(streamName string, destination io.Writer, content string) {
	if destination == nil || len(content) == 0 {
		return
	}
	if _, writeError := io.WriteString(destination, content); writeError != nil {
		service.logger.Warn(relayOutputFailedMessageConstant, zap.String(logFieldStreamConstant, streamName), zap.Error(writeError))
	}
}
