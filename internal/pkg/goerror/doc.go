// Package goerror defines the error taxonomy shared by the toolkit packages.
//
// Every failure is surfaced to the immediate caller as an *Error carrying a
// Type, a stable Code and a message. None of the toolkit operations downgrade
// these to a boolean result: a malformed hash record is an ErrFormat, not a
// failed verification.
package goerror
