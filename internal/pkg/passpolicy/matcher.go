package passpolicy

import (
	"regexp"

	"github.com/samber/lo"
	"github.com/shandysiswandi/sectools/internal/pkg/goerror"
)

// Matcher is a predicate over a whole password. *regexp.Regexp satisfies it.
type Matcher interface {
	MatchString(s string) bool
}

// MatcherFunc adapts a plain function to Matcher.
type MatcherFunc func(s string) bool

// MatchString calls f(s).
func (f MatcherFunc) MatchString(s string) bool {
	return f(s)
}

// Compile builds a Matcher from an RE2 pattern.
func Compile(pattern string) (Matcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, goerror.WrapInvalidConfiguration(err, "password pattern does not compile: "+pattern)
	}

	return re, nil
}

// isNil treats typed nils (a nil *regexp.Regexp or MatcherFunc) like a nil interface.
func isNil(m Matcher) bool {
	return lo.IsNil(m)
}
