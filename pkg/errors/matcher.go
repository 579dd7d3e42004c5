package errors

import (
	"errors"
	"io/fs"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/joe/posixfs/pkg/posixpath"
)

// Classifier maps an error to a category.
type Classifier interface {
	Classify(err error) ErrorCategory
}

// NewClassifier creates a Classifier that checks error identity first and
// falls back to message patterns for errors that only carry text, such as
// SFTP status messages.
func NewClassifier() Classifier {
	return &classifier{
		patterns: map[ErrorCategory][]string{
			CategoryPermission: {
				"permission denied",
				"access denied",
				"operation not permitted",
			},
			CategoryNotFound: {
				"no such file or directory",
				"file does not exist",
			},
			CategoryNotDirectory: {
				"not a directory",
			},
			CategoryHandleLimit: {
				"too many open files",
			},
			CategoryRemote: {
				"ssh:",
				"sftp:",
				"pool is closed",
				"connection lost",
			},
		},
	}
}

// classifier is the concrete implementation of Classifier.
type classifier struct {
	patterns map[ErrorCategory][]string
}

// patternOrder keeps message matching deterministic.
//
//nolint:gochecknoglobals // Fixed precedence shared by all classifiers
var patternOrder = []ErrorCategory{
	CategoryPermission,
	CategoryNotFound,
	CategoryNotDirectory,
	CategoryHandleLimit,
	CategoryRemote,
}

// Classify returns the category of err.
func (c *classifier) Classify(err error) ErrorCategory {
	switch {
	case err == nil:
		return CategoryUnknown
	case errors.Is(err, posixpath.ErrInvalidArgument):
		return CategoryInvalidArgument
	case errors.Is(err, fs.ErrPermission):
		return CategoryPermission
	case errors.Is(err, fs.ErrNotExist):
		return CategoryNotFound
	case errors.Is(err, unix.ENOTDIR):
		return CategoryNotDirectory
	case errors.Is(err, unix.EMFILE), errors.Is(err, unix.ENFILE):
		return CategoryHandleLimit
	}

	lowerMsg := strings.ToLower(err.Error())
	for _, category := range patternOrder {
		for _, pattern := range c.patterns[category] {
			if strings.Contains(lowerMsg, pattern) {
				return category
			}
		}
	}

	return CategoryUnknown
}
