package utils

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logLevelDebugStringConstant          = "debug"
	logLevelInfoStringConstant           = "info"
	logLevelWarnStringConstant           = "warn"
	logLevelErrorStringConstant          = "error"
	logFormatStructuredStringConstant    = "structured"
	logFormatConsoleStringConstant       = "console"
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
)

// LogLevel enumerates supported logging granularities.
type LogLevel string

// Exported log level constants for reuse across packages.
const (
	LogLevelDebug LogLevel = LogLevel(logLevelDebugStringConstant)
	LogLevelInfo  LogLevel = LogLevel(logLevelInfoStringConstant)
	LogLevelWarn  LogLevel = LogLevel(logLevelWarnStringConstant)
	LogLevelError LogLevel = LogLevel(logLevelErrorStringConstant)
)

// LogFormat enumerates supported logger output encodings.
type LogFormat string

// Exported log format constants for reuse across packages.
const (
	LogFormatStructured LogFormat = LogFormat(logFormatStructuredStringConstant)
	LogFormatConsole    LogFormat = LogFormat(logFormatConsoleStringConstant)
)

// LogFormatChoices lists the accepted log format names.
var LogFormatChoices = []string{logFormatStructuredStringConstant, logFormatConsoleStringConstant}

var logLevelMapping = map[LogLevel]zapcore.Level{
	LogLevelDebug: zapcore.DebugLevel,
	LogLevelInfo:  zapcore.InfoLevel,
	LogLevelWarn:  zapcore.WarnLevel,
	LogLevelError: zapcore.ErrorLevel,
}

// LoggerOutputs groups the loggers an application writes through.
type LoggerOutputs struct {
	// DiagnosticLogger carries leveled diagnostics in the configured format.
	DiagnosticLogger *zap.Logger
	// ConsoleLogger prints bare human-readable messages.
	ConsoleLogger *zap.Logger
}

// LoggerFactory builds zap.Logger instances with consistent configuration.
type LoggerFactory struct {
	output zapcore.WriteSyncer
}

// NewLoggerFactory constructs a logger factory writing to standard error.
func NewLoggerFactory() *LoggerFactory {
	return NewLoggerFactoryWithOutput(SharedFlushingWriter(os.Stderr))
}

// NewLoggerFactoryWithOutput constructs a logger factory writing to output.
func NewLoggerFactoryWithOutput(output io.Writer) *LoggerFactory {
	if output == nil {
		output = io.Discard
	}
	return &LoggerFactory{output: zapcore.AddSync(output)}
}

// CreateLogger produces a zap.Logger honoring the requested log level and format.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	zapLogLevel, levelExists := logLevelMapping[requestedLogLevel]
	if !levelExists {
		return nil, fmt.Errorf(unsupportedLogLevelTemplateConstant, requestedLogLevel)
	}

	var encoder zapcore.Encoder
	switch requestedLogFormat {
	case LogFormatStructured:
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	case LogFormatConsole:
		encoderConfiguration := zap.NewDevelopmentEncoderConfig()
		encoderConfiguration.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		encoder = zapcore.NewConsoleEncoder(encoderConfiguration)
	default:
		return nil, fmt.Errorf(unsupportedLogFormatTemplateConstant, requestedLogFormat)
	}

	core := zapcore.NewCore(encoder, factory.output, zap.NewAtomicLevelAt(zapLogLevel))
	return zap.New(core), nil
}

// CreateConsoleLogger produces a logger that prints only messages, one per line.
func (factory *LoggerFactory) CreateConsoleLogger() *zap.Logger {
	encoderConfiguration := zapcore.EncoderConfig{
		MessageKey:     "message",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfiguration), factory.output, zap.NewAtomicLevelAt(zapcore.InfoLevel))
	return zap.New(core)
}

// CreateLoggerOutputs builds both the diagnostic and console loggers.
func (factory *LoggerFactory) CreateLoggerOutputs(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (LoggerOutputs, error) {
	diagnosticLogger, creationError := factory.CreateLogger(requestedLogLevel, requestedLogFormat)
	if creationError != nil {
		return LoggerOutputs{}, creationError
	}
	return LoggerOutputs{
		DiagnosticLogger: diagnosticLogger,
		ConsoleLogger:    factory.CreateConsoleLogger(),
	}, nil
}
