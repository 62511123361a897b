// Package sanitize prepares untrusted text for embedding inside a single-quoted
// SQL literal.
//
// The caller supplies the surrounding quotes. This is a fallback for places where
// bound parameters are not available; prefer bound parameters whenever they are.
package sanitize
