// Package flags formats and validates enumerated command-line flag values.
package flags

import (
	"fmt"
	"strings"
)

const (
	choicePlaceholderPrefix       = "<"
	choicePlaceholderSuffix       = ">"
	choiceSeparatorLiteral        = "|"
	choiceUsageEmptyTemplate      = "`%s`"
	choiceUsageFullTemplate       = "`%s` %s"
	unsupportedChoiceErrorMessage = "unsupported %s %q (expected one of %s)"
)

// UnsupportedChoiceError reports a flag value outside its allowed set.
type UnsupportedChoiceError struct {
	FlagName string
	Value    string
	Choices  []string
}

// Error describes the rejected value and the accepted ones.
func (choiceError UnsupportedChoiceError) Error() string {
	return fmt.Sprintf(unsupportedChoiceErrorMessage, choiceError.FlagName, choiceError.Value, strings.Join(choiceError.Choices, ", "))
}

// FormatChoiceUsage builds a usage string where the default option is capitalized inside a placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	placeholder := choicePlaceholderPrefix + strings.Join(highlightDefaultChoice(defaultChoice, choices), choiceSeparatorLiteral) + choicePlaceholderSuffix
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplate, placeholder, description)
}

// NormalizeChoice returns the canonical spelling of value among choices,
// ignoring case and surrounding whitespace.
func NormalizeChoice(flagName string, value string, choices []string) (string, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(value))
	for _, choice := range choices {
		if strings.ToLower(strings.TrimSpace(choice)) == normalizedValue {
			return strings.TrimSpace(choice), nil
		}
	}
	return "", UnsupportedChoiceError{FlagName: flagName, Value: value, Choices: append([]string{}, choices...)}
}

func highlightDefaultChoice(defaultChoice string, choices []string) []string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	highlighted := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))

	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		normalizedChoice := strings.ToLower(trimmedChoice)
		if len(normalizedChoice) == 0 {
			continue
		}
		if _, exists := seen[normalizedChoice]; exists {
			continue
		}
		seen[normalizedChoice] = struct{}{}

		if normalizedChoice == normalizedDefault {
			trimmedChoice = strings.ToUpper(trimmedChoice)
		}
		highlighted = append(highlighted, trimmedChoice)
	}

	return highlighted
}
