// Package posixpath composes POSIX absolute paths one step at a time.
package posixpath

import (
	"errors"
	"fmt"
	"strings"
)

const (
	separator = "/"
	parent    = ".."
)

// ErrInvalidArgument is matched by every *InvalidArgumentError.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgumentError reports a Join argument that breaks its precondition.
type InvalidArgumentError struct {
	Arg    string
	Value  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s %q: %s", e.Arg, e.Value, e.Reason)
}

// Is reports whether target is ErrInvalidArgument.
func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// Join appends tail to the absolute path base.
//
// If tail is "..", base loses its last segment instead ("/" stays "/").
// Otherwise the two are joined with exactly one separator and a single
// trailing separator is dropped. Tail is not otherwise interpreted.
//
// base must start with "/" and tail must not.
func Join(base, tail string) (string, error) {
	if !strings.HasPrefix(base, separator) {
		return "", &InvalidArgumentError{Arg: "base", Value: base, Reason: "must be an absolute path"}
	}

	if strings.HasPrefix(tail, separator) {
		return "", &InvalidArgumentError{Arg: "tail", Value: tail, Reason: "must be a relative path"}
	}

	if tail == parent {
		return trim(base), nil
	}

	var b strings.Builder
	b.WriteString(base)

	if !strings.HasSuffix(base, separator) {
		b.WriteString(separator)
	}

	b.WriteString(tail)

	joined := strings.TrimSuffix(b.String(), separator)
	if joined == "" {
		// Join("/", "") is still the root.
		return separator, nil
	}

	return joined, nil
}

// MustJoin is like Join but panics if the arguments are invalid.
func MustJoin(base, tail string) string {
	joined, err := Join(base, tail)
	if err != nil {
		panic(err)
	}

	return joined
}

// trim drops the last segment of base, ignoring one trailing separator.
func trim(base string) string {
	if base == separator {
		return separator
	}

	end := len(base)
	if strings.HasSuffix(base, separator) {
		end--
	}

	cut := strings.LastIndex(base[:end], separator)
	if cut <= 0 {
		return separator
	}

	return base[:cut]
}
