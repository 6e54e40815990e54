package indicator_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/spinline/internal/indicator"
	"github.com/temirov/spinline/internal/indicator/testsupport"
)

func TestConfigurationResolveAnimation(testInstance *testing.T) {
	testCases := []struct {
		name             string
		configuration    indicator.Configuration
		expectedName     string
		expectedFrames   []string
		expectedInterval time.Duration
		expectedErrorIs  error
	}{
		{
			name:             "default_animation",
			configuration:    indicator.DefaultConfiguration(),
			expectedName:     indicator.DefaultAnimationName,
			expectedInterval: 80 * time.Millisecond,
		},
		{
			name:             "named_animation",
			configuration:    indicator.Configuration{Animation: "line"},
			expectedName:     "line",
			expectedFrames:   []string{"-", "\\", "|", "/"},
			expectedInterval: 130 * time.Millisecond,
		},
		{
			name:             "interval_override",
			configuration:    indicator.Configuration{Animation: "line", Interval: 10 * time.Millisecond},
			expectedName:     "line",
			expectedFrames:   []string{"-", "\\", "|", "/"},
			expectedInterval: 10 * time.Millisecond,
		},
		{
			name:             "custom_frames",
			configuration:    indicator.Configuration{Animation: "line", Frames: []string{"x", "y"}, Interval: 20 * time.Millisecond},
			expectedName:     "custom",
			expectedFrames:   []string{"x", "y"},
			expectedInterval: 20 * time.Millisecond,
		},
		{
			name:             "custom_frames_default_interval",
			configuration:    indicator.Configuration{Frames: []string{"x"}},
			expectedName:     "custom",
			expectedFrames:   []string{"x"},
			expectedInterval: 80 * time.Millisecond,
		},
		{
			name:            "blank_custom_frames",
			configuration:   indicator.Configuration{Animation: "line", Frames: []string{"", ""}},
			expectedErrorIs: indicator.ErrAnimationFramesRequired,
		},
		{
			name:            "unknown_animation",
			configuration:   indicator.Configuration{Animation: "missing"},
			expectedErrorIs: indicator.ErrAnimationNotFound,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			animation, resolveError := testCase.configuration.Sanitize().ResolveAnimation(nil)
			if testCase.expectedErrorIs != nil {
				require.ErrorIs(testInstance, resolveError, testCase.expectedErrorIs)
				return
			}

			require.NoError(testInstance, resolveError)
			require.Equal(testInstance, testCase.expectedName, animation.Name)
			require.Equal(testInstance, testCase.expectedInterval, animation.Interval)
			if testCase.expectedFrames != nil {
				require.Equal(testInstance, testCase.expectedFrames, animation.Frames)
			}
		})
	}
}

func TestConfigurationBuildCatalogWithAnimationsFile(testInstance *testing.T) {
	filePath := filepath.Join(testInstance.TempDir(), testAnimationsFileNameConstant)
	require.NoError(testInstance, os.WriteFile(filePath, []byte(testValidAnimationsFileConstant), 0o600))

	configuration := indicator.Configuration{Animation: "pulse", AnimationsFile: filePath}
	catalog, catalogError := configuration.BuildCatalog()
	require.NoError(testInstance, catalogError)

	animation, resolveError := configuration.ResolveAnimation(catalog)
	require.NoError(testInstance, resolveError)
	require.Equal(testInstance, "pulse", animation.Name)
	require.Equal(testInstance, 120*time.Millisecond, animation.Interval)

	overriddenLine, lineError := catalog.Lookup("line")
	require.NoError(testInstance, lineError)
	require.Equal(testInstance, []string{"a", "b"}, overriddenLine.Frames)

	_, missingFileError := indicator.Configuration{AnimationsFile: filepath.Join(testInstance.TempDir(), "missing.yaml")}.BuildCatalog()
	require.Error(testInstance, missingFileError)
}

func TestConfigurationSanitize(testInstance *testing.T) {
	sanitized := indicator.Configuration{
		Animation:      "  line ",
		Frames:         []string{"", "a", "", "b"},
		Stream:         " STDOUT ",
		AnimationsFile: " ",
	}.Sanitize()

	require.Equal(testInstance, "line", sanitized.Animation)
	require.Equal(testInstance, []string{"a", "b"}, sanitized.Frames)
	require.Equal(testInstance, "stdout", sanitized.Stream)
	require.Empty(testInstance, sanitized.AnimationsFile)

	blankFrames := indicator.Configuration{Frames: []string{"", ""}}.Sanitize().Sanitize()
	require.Equal(testInstance, []string{"", ""}, blankFrames.Frames)
}

func TestConfigurationOutputFile(testInstance *testing.T) {
	standardErrorFile, standardErrorError := indicator.Configuration{Stream: "stderr"}.OutputFile()
	require.NoError(testInstance, standardErrorError)
	require.Equal(testInstance, os.Stderr, standardErrorFile)

	standardOutputFile, standardOutputError := indicator.Configuration{Stream: "stdout"}.OutputFile()
	require.NoError(testInstance, standardOutputError)
	require.Equal(testInstance, os.Stdout, standardOutputFile)

	defaultFile, defaultError := indicator.Configuration{}.OutputFile()
	require.NoError(testInstance, defaultError)
	require.Equal(testInstance, os.Stderr, defaultFile)

	_, unsupportedError := indicator.Configuration{Stream: "printer"}.OutputFile()
	require.Error(testInstance, unsupportedError)
}

func TestDefaultConfigurationValues(testInstance *testing.T) {
	values := indicator.DefaultConfigurationValues("indicator")

	require.Equal(testInstance, indicator.DefaultAnimationName, values["indicator.animation"])
	require.Equal(testInstance, "stderr", values["indicator.stream"])
	require.Equal(testInstance, " ", values["indicator.label_separator"])
	require.Equal(testInstance, true, values["indicator.clear_on_stop"])
	require.Contains(testInstance, values, "indicator.interval")

	unprefixedValues := indicator.DefaultConfigurationValues("")
	require.Contains(testInstance, unprefixedValues, "animation")
}

func TestNewFromConfiguration(testInstance *testing.T) {
	scheduler := testsupport.NewManualScheduler()
	stream := testsupport.NewRecordingStream(false)

	configuredIndicator, creationError := indicator.NewFromConfiguration(
		indicator.Configuration{Animation: "line", Interval: testIntervalConstant, LabelSeparator: " "},
		indicator.Dependencies{Stream: stream, Scheduler: scheduler},
	)
	require.NoError(testInstance, creationError)
	require.Equal(testInstance, "line", configuredIndicator.Animation().Name)

	configuredIndicator.Start("building")
	configuredIndicator.Stop()
	require.Equal(testInstance, []string{"- building"}, stream.Renders())

	_, unknownAnimationError := indicator.NewFromConfiguration(indicator.Configuration{Animation: "missing"}, indicator.Dependencies{})
	require.ErrorIs(testInstance, unknownAnimationError, indicator.ErrAnimationNotFound)

	_, blankFramesError := indicator.NewFromConfiguration(indicator.Configuration{Frames: []string{""}}, indicator.Dependencies{Stream: stream})
	require.ErrorIs(testInstance, blankFramesError, indicator.ErrAnimationFramesRequired)

	_, unsupportedStreamError := indicator.NewFromConfiguration(indicator.Configuration{Stream: "printer"}, indicator.Dependencies{})
	require.Error(testInstance, unsupportedStreamError)
}
