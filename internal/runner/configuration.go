package runner

import "time"

const (
	configurationShowElapsedKeyConstant    = "show_elapsed"
	configurationElapsedRefreshKeyConstant = "elapsed_refresh"
	configurationKeySeparatorConstant      = "."
	defaultElapsedRefreshConstant          = time.Second
)

// Configuration captures settings for the run command.
type Configuration struct {
	ShowElapsed    bool          `mapstructure:"show_elapsed"`
	ElapsedRefresh time.Duration `mapstructure:"elapsed_refresh"`
}

// DefaultConfiguration provides baseline run command settings.
func DefaultConfiguration() Configuration {
	return Configuration{
		ShowElapsed:    true,
		ElapsedRefresh: defaultElapsedRefreshConstant,
	}
}

// DefaultConfigurationValues exposes default settings keyed under prefix for the configuration loader.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		prefix + configurationKeySeparatorConstant + configurationShowElapsedKeyConstant:    defaults.ShowElapsed,
		prefix + configurationKeySeparatorConstant + configurationElapsedRefreshKeyConstant: defaults.ElapsedRefresh.String(),
	}
}

// Sanitize replaces a non-positive refresh interval with the default.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	if sanitized.ElapsedRefresh <= 0 {
		sanitized.ElapsedRefresh = defaultElapsedRefreshConstant
	}
	return sanitized
}
