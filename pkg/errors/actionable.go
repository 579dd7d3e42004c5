// Package errors turns scan and path errors into messages with suggestions.
//
// The enricher classifies an error (permission, missing path, not a
// directory, descriptor limit, bad path argument, remote session) and
// attaches suggestions that name the affected path:
//
//	_, err := fsys.Scan("/restricted")
//	if err != nil {
//	    enriched := errors.NewEnricher().Enrich(err)
//	    fmt.Fprintln(os.Stderr, enriched)
//	    fmt.Fprintln(os.Stderr, errors.FormatSuggestions(enriched))
//	}
package errors

import (
	"errors"
	"strings"
)

// Exported constants.
const (
	CategoryHandleLimit     ErrorCategory = "handle_limit"
	CategoryInvalidArgument ErrorCategory = "invalid_argument"
	CategoryNotDirectory    ErrorCategory = "not_directory"
	CategoryNotFound        ErrorCategory = "not_found"
	CategoryPermission      ErrorCategory = "permission"
	CategoryRemote          ErrorCategory = "remote"
	CategoryUnknown         ErrorCategory = "unknown"
)

// ActionableError represents an error with actionable suggestions for the user.
type ActionableError interface {
	error
	Unwrap() error
	Category() ErrorCategory
	Suggestions() []string
	AffectedPath() string
}

// NewActionableError creates a new ActionableError wrapping err.
func NewActionableError(
	err error,
	category ErrorCategory,
	suggestions []string,
	affectedPath string,
) ActionableError {
	return &actionableError{
		err:          err,
		category:     category,
		suggestions:  suggestions,
		affectedPath: affectedPath,
	}
}

// ErrorCategory represents the type of error that occurred.
type ErrorCategory string

// FormatSuggestions formats the suggestions from an ActionableError as a bulleted list.
// Returns empty string if the error is nil or has no suggestions.
func FormatSuggestions(err error) string {
	var actionable ActionableError
	if !errors.As(err, &actionable) {
		return ""
	}

	suggestions := actionable.Suggestions()
	if len(suggestions) == 0 {
		return ""
	}

	var builder strings.Builder
	builder.WriteString("Try these solutions:")
	for _, suggestion := range suggestions {
		builder.WriteString("\n  • ")
		builder.WriteString(suggestion)
	}

	return builder.String()
}

// actionableError is the concrete implementation of ActionableError.
type actionableError struct {
	err          error
	category     ErrorCategory
	suggestions  []string
	affectedPath string
}

// AffectedPath returns the path affected by this error.
func (e *actionableError) AffectedPath() string {
	return e.affectedPath
}

// Category returns the error category.
func (e *actionableError) Category() ErrorCategory {
	return e.category
}

// Error returns the original error message.
func (e *actionableError) Error() string {
	return e.err.Error()
}

// Suggestions returns the list of actionable suggestions.
func (e *actionableError) Suggestions() []string {
	return e.suggestions
}

// Unwrap returns the original error.
func (e *actionableError) Unwrap() error {
	return e.err
}
