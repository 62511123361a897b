package sanitize

import (
	"strings"
	"unicode/utf8"

	"github.com/shandysiswandi/sectools/internal/pkg/goerror"
)

// IsSQLSafe reports whether r may appear in a sanitized literal: an ASCII
// letter, an ASCII digit, an apostrophe or a space.
func IsSQLSafe(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '\'', r == ' ':
		return true
	default:
		return false
	}
}

// SQLLiteral filters input down to IsSQLSafe runes and then doubles every
// apostrophe. A run of k apostrophes becomes a run of 2k.
func SQLLiteral(input string, maxLength int) (string, error) {
	filtered, err := Filter(input, maxLength, IsSQLSafe)
	if err != nil {
		return "", err
	}

	return strings.ReplaceAll(filtered, "'", "''"), nil
}

// Filter keeps the runes of input for which keep returns true, in order.
//
// Input longer than maxLength runes fails with LengthExceeded before anything
// else is looked at. Blank input, or input left blank after filtering, fails
// with InvalidArgument.
func Filter(input string, maxLength int, keep func(rune) bool) (string, error) {
	if maxLength < 1 {
		return "", goerror.NewInvalidArgument("max length must be 1 or greater")
	}
	if keep == nil {
		return "", goerror.NewInvalidArgument("filter predicate must not be nil")
	}
	if utf8.RuneCountInString(input) > maxLength {
		return "", goerror.NewLengthExceeded(maxLength)
	}
	if strings.TrimSpace(input) == "" {
		return "", goerror.NewInvalidArgument("input must not be empty")
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if keep(r) {
			b.WriteRune(r)
		}
	}

	out := b.String()
	if strings.TrimSpace(out) == "" {
		return "", goerror.NewInvalidArgument("input had only unsafe characters")
	}

	return out, nil
}
