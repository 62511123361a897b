package config

// Option configures a Viper at construction.
type Option func(*options)

type options struct {
	envPrefix string
	defaults  map[string]any
	onChange  func()
}

// WithEnvPrefix enables environment overrides. A key such as "hash.iterations"
// is read from PREFIX_HASH_ITERATIONS.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// WithDefaults registers values used when no other source sets a key.
func WithDefaults(defaults map[string]any) Option {
	return func(o *options) {
		o.defaults = defaults
	}
}

// WithWatch re-reads the config file when it changes and calls fn after a
// successful reload. It has no effect without a file. The watcher runs for the
// rest of the process, Close does not stop it.
func WithWatch(fn func()) Option {
	return func(o *options) {
		if fn == nil {
			fn = func() {}
		}
		o.onChange = fn
	}
}
