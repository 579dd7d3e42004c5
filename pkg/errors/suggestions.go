package errors

import "fmt"

// SuggestionGenerator generates actionable suggestions based on error category.
type SuggestionGenerator interface {
	Generate(category ErrorCategory, affectedPath string) []string
}

// NewSuggestionGenerator creates a new SuggestionGenerator.
func NewSuggestionGenerator() SuggestionGenerator {
	return &suggestionGenerator{}
}

// suggestionGenerator is the concrete implementation of SuggestionGenerator.
type suggestionGenerator struct{}

// Generate returns actionable suggestions based on the error category and affected path.
func (g *suggestionGenerator) Generate(category ErrorCategory, affectedPath string) []string {
	switch category {
	case CategoryPermission:
		return g.generatePermissionSuggestions(affectedPath)
	case CategoryNotFound:
		return g.generateNotFoundSuggestions(affectedPath)
	case CategoryNotDirectory:
		return g.generateNotDirectorySuggestions(affectedPath)
	case CategoryHandleLimit:
		return g.generateHandleLimitSuggestions()
	case CategoryInvalidArgument:
		return g.generateInvalidArgumentSuggestions()
	case CategoryRemote:
		return g.generateRemoteSuggestions()
	case CategoryUnknown:
		return g.generateUnknownSuggestions(affectedPath)
	default:
		return g.generateUnknownSuggestions(affectedPath)
	}
}

func (g *suggestionGenerator) generateHandleLimitSuggestions() []string {
	return []string{
		"Close scans you no longer need before opening new ones",
		"Check the descriptor limit with 'ulimit -n'",
		"Raise the limit for this shell with 'ulimit -n <count>'",
	}
}

func (g *suggestionGenerator) generateInvalidArgumentSuggestions() []string {
	return []string{
		"The base path must be absolute (start with '/')",
		"The path to append must be relative (must not start with '/')",
		"Use '..' as the relative part to go to the parent directory",
	}
}

func (g *suggestionGenerator) generateNotDirectorySuggestions(path string) []string {
	suggestions := []string{
		"Only directories can be scanned",
	}

	if path != "" {
		suggestions = append(suggestions,
			fmt.Sprintf("Check what %s is with 'ls -ld %s'", path, path),
			"Scan the parent directory instead: "+path+"/..",
		)
	}

	return suggestions
}

func (g *suggestionGenerator) generateNotFoundSuggestions(path string) []string {
	suggestions := []string{
		"Verify the path exists and is spelled correctly",
	}

	if path != "" {
		suggestions = append(suggestions, "Check if the path exists: "+path)
		suggestions = append(suggestions, "Ensure all parent directories exist for "+path)
	} else {
		suggestions = append(suggestions, "Ensure all parent directories exist")
	}

	return suggestions
}

func (g *suggestionGenerator) generatePermissionSuggestions(path string) []string {
	suggestions := []string{
		"Ensure you have read and execute permission on the directory",
	}

	if path != "" {
		suggestions = append(suggestions, fmt.Sprintf("Check permissions with 'ls -ld %s'", path))
	} else {
		suggestions = append(suggestions, "Check permissions with 'ls -ld' on the affected path")
	}

	suggestions = append(suggestions, "Try running as a user that can read the directory")

	return suggestions
}

func (g *suggestionGenerator) generateRemoteSuggestions() []string {
	return []string{
		"Check that the SSH server is reachable and accepts SFTP sessions",
		"Verify your SSH agent is running or a default key exists in ~/.ssh",
		"Try connecting manually with 'sftp user@host'",
	}
}

func (g *suggestionGenerator) generateUnknownSuggestions(path string) []string {
	suggestions := []string{
		"Check the error message for more details",
		"Run again with --log-level debug",
	}

	if path != "" {
		suggestions = append(suggestions, "Verify the path is accessible: "+path)
	}

	return suggestions
}
