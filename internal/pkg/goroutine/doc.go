// Package goroutine runs tasks concurrently under a fixed limit and gathers
// their errors.
package goroutine
