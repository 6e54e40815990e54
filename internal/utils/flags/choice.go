// Package flags provides helpers for describing and validating enumerated Cobra flag values.
package flags

import (
	"fmt"
	"strings"
)

const (
	choicePlaceholderPrefix        = "<"
	choicePlaceholderSuffix        = ">"
	choiceSeparatorLiteral         = "|"
	choiceUsageEmptyTemplate       = "`%s`"
	choiceUsageFullTemplate        = "`%s` %s"
	unsupportedChoiceErrorTemplate = "unsupported value %q for --%s; expected one of %s"
	supportedChoicesJoinSeparator  = ", "
)

// FormatChoiceUsage builds a usage string where the default option is capitalized inside a placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	placeholder := choicePlaceholderPrefix + strings.Join(highlightDefaultChoice(defaultChoice, choices), choiceSeparatorLiteral) + choicePlaceholderSuffix
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplate, placeholder, description)
}

// NormalizeChoice returns the canonical spelling of value among choices, matching case-insensitively.
func NormalizeChoice(flagName string, value string, choices []string) (string, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(value))
	for _, choice := range uniqueChoices(choices) {
		if strings.ToLower(choice) == normalizedValue {
			return choice, nil
		}
	}
	return "", fmt.Errorf(unsupportedChoiceErrorTemplate, value, flagName, strings.Join(uniqueChoices(choices), supportedChoicesJoinSeparator))
}

func highlightDefaultChoice(defaultChoice string, choices []string) []string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	highlighted := uniqueChoices(choices)
	for choiceIndex, choice := range highlighted {
		if len(normalizedDefault) > 0 && strings.ToLower(choice) == normalizedDefault {
			highlighted[choiceIndex] = strings.ToUpper(choice)
		}
	}
	return highlighted
}

func uniqueChoices(choices []string) []string {
	unique := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		if len(trimmedChoice) == 0 {
			continue
		}
		normalizedChoice := strings.ToLower(trimmedChoice)
		if _, exists := seen[normalizedChoice]; exists {
			continue
		}
		seen[normalizedChoice] = struct{}{}
		unique = append(unique, trimmedChoice)
	}
	return unique
}
