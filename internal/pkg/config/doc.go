// Package config loads settings from built-in defaults, an optional YAML (or
// any Viper-supported) file and environment variables, in increasing order of
// precedence.
package config
