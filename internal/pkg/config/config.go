package config

import (
	"io"
	"time"
)

// Config defines a set of methods for retrieving configuration values.
//
// Implementations merge built-in defaults, an optional file and environment
// overrides. A key missing from every source returns the type's zero value.
type Config interface {
	io.Closer

	// GetInt retrieves the value associated with key as an int.
	GetInt(key string) int

	// GetBool retrieves the value associated with key as a bool.
	GetBool(key string) bool

	// GetString retrieves the value associated with key as a string.
	GetString(key string) string

	// GetFloat64 retrieves the value associated with key as a float64.
	GetFloat64(key string) float64

	// GetSecond retrieves the value associated with key as a number of seconds.
	GetSecond(key string) time.Duration

	// GetArray retrieves the value associated with key as a slice of strings.
	// A scalar value is split on commas.
	GetArray(key string) []string

	// Values returns the requested keys and their values rendered as strings.
	// Every requested key is present in the result; unset keys map to "".
	Values(keys ...string) map[string]string

	// Unmarshal decodes the merged configuration into out using mapstructure tags.
	Unmarshal(out any) error
}
