// Package clock provides a tiny time abstraction.
//
// Time-dependent checks such as TOTP validation take a Clocker instead of
// calling time.Now directly, so tests can pin the instant with Fixed.
package clock
