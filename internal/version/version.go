package version

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFormat indicates a version whose body is not digits and dots.
var ErrInvalidFormat = errors.New("version: invalid format")

// Tag is a canonical release version, always carrying the leading "v".
// Two tags are equal iff their string forms are equal.
type Tag string

func (t Tag) String() string { return string(t) }

// Bare returns the tag without the leading "v".
func (t Tag) Bare() string { return strings.TrimPrefix(string(t), "v") }

// Normalize converts user input into a canonical Tag. A missing "v"
// prefix is prepended. After prefix handling the remainder must be
// non-empty and contain only digits and dots; anything else fails with
// ErrInvalidFormat. No semver ordering or range checks are performed.
func Normalize(input string) (Tag, error) {
	s := strings.TrimSpace(input)
	if !strings.HasPrefix(s, "v") {
		s = "v" + s
	}
	body := s[1:]
	if body == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, input)
	}
	for i := 0; i < len(body); i++ {
		c := body[i]
		if (c < '0' || c > '9') && c != '.' {
			return "", fmt.Errorf("%w: %q (want digits and dots, e.g. 1.2.3)", ErrInvalidFormat, input)
		}
	}
	return Tag(s), nil
}
