package workflow

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/temirov/spinline/internal/execshell"
)

const (
	configurationLoadErrorTemplateConstant   = "failed to load workflow configuration: %w"
	configurationParseErrorTemplateConstant  = "failed to parse workflow configuration: %w"
	configurationPathRequiredMessageConstant = "workflow configuration path must be provided"
	configurationEmptyStepsMessageConstant   = "workflow configuration must define at least one step"
	configurationStepInvalidTemplateConstant = "workflow step %d: %w"
	stepCommandMissingMessageConstant        = "missing command"
)

// ErrStepCommandMissing reports a step without an executable.
var ErrStepCommandMissing = errors.New(stepCommandMissingMessageConstant)

// Configuration describes the ordered workflow steps loaded from YAML or JSON.
type Configuration struct {
	Steps []StepConfiguration `yaml:"steps" json:"steps"`
}

// StepConfiguration describes a single command run by the workflow.
type StepConfiguration struct {
	Name             string            `yaml:"name" json:"name"`
	Label            string            `yaml:"label" json:"label"`
	Command          []string          `yaml:"command" json:"command"`
	WorkingDirectory string            `yaml:"workdir" json:"workdir"`
	Environment      map[string]string `yaml:"environment" json:"environment"`
	ContinueOnError  bool              `yaml:"continue_on_error" json:"continue_on_error"`
}

// LoadConfiguration reads the workflow definition from disk and performs basic validation.
// Steps may sit at the document root or beneath a top-level workflow key. Relative working
// directories resolve against the directory containing the file.
func LoadConfiguration(filePath string) (Configuration, error) {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return Configuration{}, errors.New(configurationPathRequiredMessageConstant)
	}

	contentBytes, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return Configuration{}, fmt.Errorf(configurationLoadErrorTemplateConstant, readError)
	}

	var configuration Configuration
	if unmarshalError := yaml.Unmarshal(contentBytes, &configuration); unmarshalError != nil {
		return Configuration{}, fmt.Errorf(configurationParseErrorTemplateConstant, unmarshalError)
	}

	if len(configuration.Steps) == 0 {
		var wrapper struct {
			Workflow Configuration `yaml:"workflow" json:"workflow"`
		}
		if nestedError := yaml.Unmarshal(contentBytes, &wrapper); nestedError == nil {
			configuration = wrapper.Workflow
		}
	}

	if len(configuration.Steps) == 0 {
		return Configuration{}, errors.New(configurationEmptyStepsMessageConstant)
	}

	baseDirectory := filepath.Dir(trimmedPath)
	for stepIndex := range configuration.Steps {
		sanitized, sanitizeError := configuration.Steps[stepIndex].sanitize(baseDirectory)
		if sanitizeError != nil {
			return Configuration{}, fmt.Errorf(configurationStepInvalidTemplateConstant, stepIndex+1, sanitizeError)
		}
		configuration.Steps[stepIndex] = sanitized
	}

	return configuration, nil
}

func (step StepConfiguration) sanitize(baseDirectory string) (StepConfiguration, error) {
	sanitized := step
	sanitized.Name = strings.TrimSpace(step.Name)
	sanitized.Label = strings.TrimSpace(step.Label)
	sanitized.WorkingDirectory = strings.TrimSpace(step.WorkingDirectory)

	if len(step.Command) == 0 || len(strings.TrimSpace(step.Command[0])) == 0 {
		return StepConfiguration{}, ErrStepCommandMissing
	}
	sanitized.Command = append([]string{strings.TrimSpace(step.Command[0])}, step.Command[1:]...)

	if len(sanitized.WorkingDirectory) > 0 && !filepath.IsAbs(sanitized.WorkingDirectory) {
		sanitized.WorkingDirectory = filepath.Join(baseDirectory, sanitized.WorkingDirectory)
	}
	return sanitized, nil
}

// ShellCommand converts the step into an executable command.
func (step StepConfiguration) ShellCommand() execshell.ShellCommand {
	var environmentVariables map[string]string
	if len(step.Environment) > 0 {
		environmentVariables = make(map[string]string, len(step.Environment))
		for key, value := range step.Environment {
			environmentVariables[key] = value
		}
	}

	var arguments []string
	if len(step.Command) > 1 {
		arguments = append([]string{}, step.Command[1:]...)
	}

	return execshell.ShellCommand{
		Name: execshell.CommandName(step.Command[0]),
		Details: execshell.CommandDetails{
			Arguments:            arguments,
			WorkingDirectory:     step.WorkingDirectory,
			EnvironmentVariables: environmentVariables,
		},
	}
}

// DisplayName returns the name used in plans and errors.
func (step StepConfiguration) DisplayName() string {
	if len(step.Name) > 0 {
		return step.Name
	}
	return step.ShellCommand().Label()
}
