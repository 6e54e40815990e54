package cli

import _ "embed"

//go:embed default_config.yaml
var embeddedDefaultConfigurationContent []byte

// EmbeddedDefaultConfiguration returns a copy of the built-in configuration merged beneath
// user configuration files, together with its format.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	duplicatedContent := make([]byte, len(embeddedDefaultConfigurationContent))
	copy(duplicatedContent, embeddedDefaultConfigurationContent)
	return duplicatedContent, configurationTypeConstant
}
