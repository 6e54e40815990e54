// Package utils exposes reusable helpers consumed by multiple commands.
//
// It houses the ConfigurationLoader, which layers embedded defaults, configuration
// files, and environment variables through Viper, the LoggerFactory building zap
// loggers, and the FlushingWriter shared by every writer targeting the same
// process stream.
package utils
