package animations

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/spinline/internal/indicator"
)

const (
	commandUseConstant                         = "animations"
	commandShortDescriptionConstant            = "Inspect the available indicator animations"
	listCommandUseConstant                     = "list"
	listCommandShortDescriptionConstant        = "List animations with their interval and frames"
	previewCommandUseConstant                  = "preview [name]"
	previewCommandShortDescriptionConstant     = "Animate the indicator on the terminal for a while"
	previewLabelTemplateConstant               = "Previewing %s"
	listLineTemplateConstant                   = "%s\t%s\t%s\n"
	frameSeparatorConstant                     = " "
	flagDurationNameConstant                   = "duration"
	flagDurationDescriptionConstant            = "How long the preview animates"
	flagLabelNameConstant                      = "label"
	flagLabelDescriptionConstant               = "Label displayed next to the indicator"
	defaultPreviewDurationConstant             = 3 * time.Second
	previewStartedMessageConstant              = "animation preview started"
	logFieldAnimationConstant                  = "animation"
	logFieldDurationConstant                   = "duration"
	listWriteErrorTemplateConstant             = "failed to print animation %s: %w"
	unsupportedPreviewDurationTemplateConstant = "preview duration must be positive: %s"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// IndicatorConfigurationProvider returns the indicator configuration.
type IndicatorConfigurationProvider func() indicator.Configuration

// CommandBuilder assembles the animations command group.
type CommandBuilder struct {
	LoggerProvider                 LoggerProvider
	IndicatorConfigurationProvider IndicatorConfigurationProvider
	IndicatorDependencies          indicator.Dependencies
}

// Build constructs the animations command with its list and preview subcommands.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Args:  cobra.NoArgs,
	}

	listCommand := &cobra.Command{
		Use:   listCommandUseConstant,
		Short: listCommandShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.runList,
	}

	previewCommand := &cobra.Command{
		Use:   previewCommandUseConstant,
		Short: previewCommandShortDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.runPreview,
	}
	previewCommand.Flags().Duration(flagDurationNameConstant, defaultPreviewDurationConstant, flagDurationDescriptionConstant)
	previewCommand.Flags().String(flagLabelNameConstant, "", flagLabelDescriptionConstant)

	command.AddCommand(listCommand, previewCommand)
	return command, nil
}

func (builder *CommandBuilder) runList(command *cobra.Command, arguments []string) error {
	catalog, catalogError := builder.resolveIndicatorConfiguration().BuildCatalog()
	if catalogError != nil {
		return catalogError
	}
	return writeCatalog(command.OutOrStdout(), catalog)
}

func writeCatalog(output io.Writer, catalog *indicator.Catalog) error {
	for _, name := range catalog.Names() {
		animation, lookupError := catalog.Lookup(name)
		if lookupError != nil {
			return lookupError
		}
		frames := strings.Join(animation.Frames, frameSeparatorConstant)
		if _, writeError := fmt.Fprintf(output, listLineTemplateConstant, animation.Name, animation.Interval, frames); writeError != nil {
			return fmt.Errorf(listWriteErrorTemplateConstant, animation.Name, writeError)
		}
	}
	return nil
}

func (builder *CommandBuilder) runPreview(command *cobra.Command, arguments []string) error {
	duration, _ := command.Flags().GetDuration(flagDurationNameConstant)
	if duration <= 0 {
		return fmt.Errorf(unsupportedPreviewDurationTemplateConstant, duration)
	}
	labelValue, _ := command.Flags().GetString(flagLabelNameConstant)

	configuration := builder.resolveIndicatorConfiguration()
	if len(arguments) == 1 {
		configuration.Animation = arguments[0]
		configuration.Frames = nil
	}

	logger := builder.resolveLogger()
	dependencies := builder.IndicatorDependencies
	dependencies.Logger = logger

	statusIndicator, indicatorError := indicator.NewFromConfiguration(configuration, dependencies)
	if indicatorError != nil {
		return indicatorError
	}

	animationName := statusIndicator.Animation().Name
	label := strings.TrimSpace(labelValue)
	if len(label) == 0 {
		label = fmt.Sprintf(previewLabelTemplateConstant, animationName)
	}

	logger.Debug(previewStartedMessageConstant, zap.String(logFieldAnimationConstant, animationName), zap.Duration(logFieldDurationConstant, duration))
	return preview(command.Context(), statusIndicator, label, duration)
}

// preview animates statusIndicator until duration elapses or previewContext is cancelled.
// Cancellation ends the preview without an error.
func preview(previewContext context.Context, statusIndicator *indicator.Indicator, label string, duration time.Duration) error {
	statusIndicator.Start(label)
	defer statusIndicator.Stop()

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-previewContext.Done():
	case <-timer.C:
	}
	return nil
}

func (builder *CommandBuilder) resolveIndicatorConfiguration() indicator.Configuration {
	if builder.IndicatorConfigurationProvider == nil {
		return indicator.DefaultConfiguration()
	}
	return builder.IndicatorConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}
