package passpolicy

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shandysiswandi/sectools/internal/pkg/goerror"
)

// Violation codes reported by Violations.
const (
	ViolationEmpty               = "empty"
	ViolationTooShort            = "too_short"
	ViolationDisallowedCharacter = "disallowed_character"
	ViolationLetterRequired      = "letter_required"
	ViolationLetterForbidden     = "letter_forbidden"
	ViolationDigitRequired       = "digit_required"
	ViolationDigitForbidden      = "digit_forbidden"
	ViolationSpecialRequired     = "special_required"
)

const defaultMinLength = 8

var (
	defaultDisallowed = regexp.MustCompile(`[^a-zA-Z0-9]`)
	letterPattern     = regexp.MustCompile(`[a-zA-Z]`)
	digitPattern      = regexp.MustCompile(`[0-9]`)
)

// Config is the rule set a Policy is built from.
type Config struct {
	// MinLength is counted in runes and must be at least 1.
	MinLength int

	RequireDigit   bool
	RequireLetter  bool
	RequireSpecial bool

	// Allowed is the special-character whitelist. It must be set exactly when
	// RequireSpecial is true.
	Allowed Matcher

	// Disallowed is the blacklist. It defaults to anything outside [A-Za-z0-9],
	// but must be given explicitly whenever Allowed is.
	Disallowed Matcher
}

// DefaultConfig returns length >= 8, digit and letter required, no specials.
func DefaultConfig() Config {
	return Config{
		MinLength:     defaultMinLength,
		RequireDigit:  true,
		RequireLetter: true,
	}
}

// Policy is an immutable, validated password rule set. It is safe for
// concurrent use.
type Policy struct {
	minLength      int
	requireDigit   bool
	requireLetter  bool
	requireSpecial bool
	allowed        Matcher
	disallowed     Matcher
}

// Default returns the policy built from DefaultConfig.
func Default() *Policy {
	p, err := New(DefaultConfig())
	if err != nil {
		panic(err) // unreachable: DefaultConfig satisfies every invariant
	}

	return p
}

// New validates cfg and returns the policy, or a configuration error.
func New(cfg Config) (*Policy, error) {
	hasAllowed := !isNil(cfg.Allowed)
	hasDisallowed := !isNil(cfg.Disallowed)

	if cfg.MinLength < 1 {
		return nil, goerror.NewInvalidConfiguration("password minimum length must be 1 or greater",
			"min_length", "must be 1 or greater")
	}
	if !cfg.RequireDigit && !cfg.RequireLetter && !cfg.RequireSpecial {
		return nil, goerror.NewInvalidConfiguration("password policy must require at least one of digit, letter or special")
	}
	if cfg.RequireSpecial && !hasAllowed {
		return nil, goerror.NewInvalidArgument("special characters are required but no allowed pattern was given")
	}
	if !cfg.RequireSpecial && hasAllowed {
		return nil, goerror.NewInvalidArgument("an allowed pattern was given but special characters are not required")
	}
	if hasAllowed && !hasDisallowed {
		return nil, goerror.NewInvalidArgument("an allowed pattern cannot be combined with the default disallowed pattern")
	}

	p := &Policy{
		minLength:      cfg.MinLength,
		requireDigit:   cfg.RequireDigit,
		requireLetter:  cfg.RequireLetter,
		requireSpecial: cfg.RequireSpecial,
		allowed:        cfg.Allowed,
		disallowed:     cfg.Disallowed,
	}
	if !hasDisallowed {
		p.disallowed = defaultDisallowed
	}

	return p, nil
}

// MinLength returns the minimum password length in runes.
func (p *Policy) MinLength() int {
	return p.minLength
}

// IsAcceptable reports whether password satisfies every rule.
func (p *Policy) IsAcceptable(password string) bool {
	return len(p.Violations(password)) == 0
}

// Violations returns the codes of every rule password breaks, in a stable
// order. An empty or too-short password, or one matching the blacklist, stops
// evaluation early.
//
// Letter and digit rules are symmetric: when a class is not required, its
// presence is a violation. The special rule is one-sided.
func (p *Policy) Violations(password string) []string {
	if strings.TrimSpace(password) == "" {
		return []string{ViolationEmpty}
	}
	if utf8.RuneCountInString(password) < p.minLength {
		return []string{ViolationTooShort}
	}
	if p.disallowed.MatchString(password) {
		return []string{ViolationDisallowedCharacter}
	}

	var out []string

	hasLetter := letterPattern.MatchString(password)
	switch {
	case p.requireLetter && !hasLetter:
		out = append(out, ViolationLetterRequired)
	case !p.requireLetter && hasLetter:
		out = append(out, ViolationLetterForbidden)
	}

	hasDigit := digitPattern.MatchString(password)
	switch {
	case p.requireDigit && !hasDigit:
		out = append(out, ViolationDigitRequired)
	case !p.requireDigit && hasDigit:
		out = append(out, ViolationDigitForbidden)
	}

	if p.requireSpecial && !p.allowed.MatchString(password) {
		out = append(out, ViolationSpecialRequired)
	}

	return out
}
