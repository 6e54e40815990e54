package ui

import (
	"go.uber.org/zap"

	"github.com/temirov/spinline/internal/execshell"
)

// StatusIndicator is the subset of indicator.Indicator driven by command events.
type StatusIndicator interface {
	Start(label string)
	Stop()
}

// IndicatorCommandEventObserver animates a status indicator while a command runs and reports
// the outcome on the console once the indicator line has been released.
type IndicatorCommandEventObserver struct {
	statusIndicator StatusIndicator
	consoleLogger   *ConsoleCommandEventLogger
	formatter       CommandEventFormatter
	label           string
}

// NewIndicatorCommandEventObserver constructs an observer. An empty label shows "Running <command>".
func NewIndicatorCommandEventObserver(statusIndicator StatusIndicator, consoleLogger *zap.Logger, label string) *IndicatorCommandEventObserver {
	return &IndicatorCommandEventObserver{
		statusIndicator: statusIndicator,
		consoleLogger:   NewConsoleCommandEventLogger(consoleLogger),
		formatter:       CommandEventFormatter{},
		label:           label,
	}
}

// StartedLabel returns the label displayed while command runs.
func (observer *IndicatorCommandEventObserver) StartedLabel(command execshell.ShellCommand) string {
	if len(observer.label) > 0 {
		return observer.label
	}
	return observer.formatter.BuildStartedMessage(command)
}

// CommandStarted starts the indicator.
func (observer *IndicatorCommandEventObserver) CommandStarted(command execshell.ShellCommand) {
	observer.statusIndicator.Start(observer.StartedLabel(command))
}

// CommandCompleted stops the indicator and reports the exit status.
func (observer *IndicatorCommandEventObserver) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	observer.statusIndicator.Stop()
	observer.consoleLogger.CommandCompleted(command, result)
}

// CommandExecutionFailed stops the indicator and reports the failure.
func (observer *IndicatorCommandEventObserver) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	observer.statusIndicator.Stop()
	observer.consoleLogger.CommandExecutionFailed(command, failure)
}
