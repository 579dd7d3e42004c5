package errors

import (
	"errors"
	"regexp"
	"strings"

	"github.com/joe/posixfs/pkg/filesystem"
	"github.com/joe/posixfs/pkg/posixpath"
)

// Enricher enriches errors with a category and actionable suggestions.
type Enricher interface {
	Enrich(err error) error
}

// NewEnricher creates a new Enricher with the default classifier and suggestion generator.
func NewEnricher() Enricher {
	return &enricher{
		classifier: NewClassifier(),
		generator:  NewSuggestionGenerator(),
	}
}

//nolint:gochecknoglobals // Compiled once, shared across enricher instances
var pathExtractionPattern = regexp.MustCompile(`\b\w+\s+(/[^\s:]*):`)

// enricher is the concrete implementation of Enricher.
type enricher struct {
	classifier Classifier
	generator  SuggestionGenerator
}

// Enrich wraps err in an ActionableError. Nil stays nil, and an error that
// is already actionable is returned unchanged.
func (e *enricher) Enrich(err error) error {
	if err == nil {
		return nil
	}

	var actionableErr ActionableError
	if errors.As(err, &actionableErr) {
		return actionableErr
	}

	category := e.classifier.Classify(err)
	path := affectedPath(err)

	return NewActionableError(err, category, e.generator.Generate(category, path), path)
}

// affectedPath takes the path from a typed error, or failing that from an
// "op /path: reason" message.
func affectedPath(err error) string {
	var openErr *filesystem.OpenError
	if errors.As(err, &openErr) {
		return openErr.Path
	}

	var argErr *posixpath.InvalidArgumentError
	if errors.As(err, &argErr) {
		return argErr.Value
	}

	if matches := pathExtractionPattern.FindStringSubmatch(err.Error()); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	return ""
}
