package workflow

const (
	configurationDryRunKeyConstant    = "dry_run"
	configurationKeySeparatorConstant = "."
)

// CommandConfiguration captures configuration values for workflow.
type CommandConfiguration struct {
	DryRun bool `mapstructure:"dry_run"`
}

// DefaultCommandConfiguration provides default workflow command settings.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{DryRun: false}
}

// DefaultConfigurationValues exposes default settings keyed under prefix for the configuration loader.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		prefix + configurationKeySeparatorConstant + configurationDryRunKeyConstant: defaults.DryRun,
	}
}
