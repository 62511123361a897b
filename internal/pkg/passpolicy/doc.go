// Package passpolicy checks candidate passwords against a validated rule set.
//
// A Policy is built once with New, which rejects contradictory configurations,
// and is then immutable and safe for concurrent use.
package passpolicy
