package indicator

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	customAnimationNameConstant            = "custom"
	streamStandardErrorConstant            = "stderr"
	streamStandardOutputConstant           = "stdout"
	defaultLabelSeparatorConstant          = " "
	unsupportedStreamErrorTemplateConstant = "unsupported indicator stream: %s"
	configurationAnimationKeyConstant      = "animation"
	configurationFramesKeyConstant         = "frames"
	configurationIntervalKeyConstant       = "interval"
	configurationLabelSeparatorKeyConstant = "label_separator"
	configurationStreamKeyConstant         = "stream"
	configurationClearLineKeyConstant      = "clear_line"
	configurationClearOnStopKeyConstant    = "clear_on_stop"
	configurationAnimationsFileKeyConstant = "animations_file"
	configurationKeySeparatorConstant      = "."
)

// StreamChoices lists the supported output stream names.
var StreamChoices = []string{streamStandardErrorConstant, streamStandardOutputConstant}

// Configuration captures indicator settings loaded from configuration files and flags.
type Configuration struct {
	Animation      string        `mapstructure:"animation"`
	Frames         []string      `mapstructure:"frames"`
	Interval       time.Duration `mapstructure:"interval"`
	LabelSeparator string        `mapstructure:"label_separator"`
	Stream         string        `mapstructure:"stream"`
	ClearLine      bool          `mapstructure:"clear_line"`
	ClearOnStop    bool          `mapstructure:"clear_on_stop"`
	AnimationsFile string        `mapstructure:"animations_file"`
}

// DefaultConfiguration provides baseline indicator settings.
func DefaultConfiguration() Configuration {
	return Configuration{
		Animation:      DefaultAnimationName,
		Frames:         nil,
		Interval:       0,
		LabelSeparator: defaultLabelSeparatorConstant,
		Stream:         streamStandardErrorConstant,
		ClearLine:      true,
		ClearOnStop:    true,
		AnimationsFile: "",
	}
}

// DefaultConfigurationValues exposes default settings keyed under prefix for the configuration loader.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultConfiguration()
	keyFor := func(key string) string {
		if len(prefix) == 0 {
			return key
		}
		return prefix + configurationKeySeparatorConstant + key
	}
	return map[string]any{
		keyFor(configurationAnimationKeyConstant):      defaults.Animation,
		keyFor(configurationFramesKeyConstant):         []string{},
		keyFor(configurationIntervalKeyConstant):       defaults.Interval.String(),
		keyFor(configurationLabelSeparatorKeyConstant): defaults.LabelSeparator,
		keyFor(configurationStreamKeyConstant):         defaults.Stream,
		keyFor(configurationClearLineKeyConstant):      defaults.ClearLine,
		keyFor(configurationClearOnStopKeyConstant):    defaults.ClearOnStop,
		keyFor(configurationAnimationsFileKeyConstant): defaults.AnimationsFile,
	}
}

// Sanitize trims textual values and drops blank frames. A frame list made only of blank
// frames is kept as configured so that ResolveAnimation can reject it.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.Animation = strings.TrimSpace(configuration.Animation)
	sanitized.Stream = strings.ToLower(strings.TrimSpace(configuration.Stream))
	sanitized.AnimationsFile = strings.TrimSpace(configuration.AnimationsFile)

	nonBlank := nonBlankFrames(configuration.Frames)
	if len(nonBlank) > 0 || len(configuration.Frames) == 0 {
		sanitized.Frames = nonBlank
	}
	return sanitized
}

func nonBlankFrames(frames []string) []string {
	filtered := make([]string, 0, len(frames))
	for _, frame := range frames {
		if len(frame) == 0 {
			continue
		}
		filtered = append(filtered, frame)
	}
	return filtered
}

// BuildCatalog returns the built-in catalog extended with animations from AnimationsFile.
func (configuration Configuration) BuildCatalog() (*Catalog, error) {
	catalog := NewCatalog()
	if len(configuration.AnimationsFile) == 0 {
		return catalog, nil
	}

	loadedAnimations, loadError := LoadAnimationsFile(configuration.AnimationsFile)
	if loadError != nil {
		return nil, loadError
	}
	for _, animation := range loadedAnimations {
		if registerError := catalog.Register(animation); registerError != nil {
			return nil, registerError
		}
	}
	return catalog, nil
}

// ResolveAnimation selects the animation described by the configuration.
// Explicit frames take precedence over the named animation; a positive interval overrides the animation interval.
// Configured frames that are all blank yield ErrAnimationFramesRequired.
func (configuration Configuration) ResolveAnimation(catalog *Catalog) (Animation, error) {
	if len(configuration.Frames) > 0 {
		interval := configuration.Interval
		if interval <= 0 {
			interval = DefaultAnimation().Interval
		}
		return NewAnimation(customAnimationNameConstant, nonBlankFrames(configuration.Frames), interval)
	}

	if catalog == nil {
		catalog = NewCatalog()
	}

	animationName := configuration.Animation
	if len(animationName) == 0 {
		animationName = DefaultAnimationName
	}

	animation, lookupError := catalog.Lookup(animationName)
	if lookupError != nil {
		return Animation{}, lookupError
	}

	if configuration.Interval > 0 {
		animation = animation.WithInterval(configuration.Interval)
	}
	return animation, nil
}

// OutputFile maps the configured stream name onto the process stream.
func (configuration Configuration) OutputFile() (*os.File, error) {
	switch configuration.Stream {
	case "", streamStandardErrorConstant:
		return os.Stderr, nil
	case streamStandardOutputConstant:
		return os.Stdout, nil
	default:
		return nil, fmt.Errorf(unsupportedStreamErrorTemplateConstant, configuration.Stream)
	}
}

// Options converts the configuration into indicator rendering options.
func (configuration Configuration) Options(animation Animation) Options {
	return Options{
		Animation:      &animation,
		LabelSeparator: configuration.LabelSeparator,
		ClearLine:      configuration.ClearLine,
		ClearOnStop:    configuration.ClearOnStop,
	}
}

// NewFromConfiguration resolves the configured animation and stream and constructs an idle Indicator.
// A stream supplied in dependencies takes precedence over the configured one.
func NewFromConfiguration(configuration Configuration, dependencies Dependencies) (*Indicator, error) {
	sanitized := configuration.Sanitize()

	catalog, catalogError := sanitized.BuildCatalog()
	if catalogError != nil {
		return nil, catalogError
	}

	animation, animationError := sanitized.ResolveAnimation(catalog)
	if animationError != nil {
		return nil, animationError
	}

	if dependencies.Stream == nil {
		outputFile, outputError := sanitized.OutputFile()
		if outputError != nil {
			return nil, outputError
		}
		dependencies.Stream = NewFileStream(outputFile)
	}

	return New(dependencies, sanitized.Options(animation))
}
