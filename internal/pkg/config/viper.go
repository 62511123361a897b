package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/shandysiswandi/sectools/internal/pkg/goerror"
	"github.com/spf13/viper"
)

// Viper is a Config implementation backed by github.com/spf13/viper.
type Viper struct {
	v *viper.Viper
}

var _ Config = (*Viper)(nil)

// NewViper builds a Config from defaults, an optional file and the environment.
//
// pathFile may be empty, in which case only defaults and the environment are
// consulted. The config file type is inferred by Viper from the filename
// extension.
func NewViper(pathFile string, opts ...Option) (*Viper, error) {
	o := apply(opts)
	v := newViper(o)

	if strings.TrimSpace(pathFile) == "" {
		return &Viper{v: v}, nil
	}

	filename := path.Base(pathFile)
	filePath := path.Dir(pathFile)

	configName := path.Base(filename[:len(filename)-len(path.Ext(filename))])

	v.AddConfigPath(filePath)
	v.SetConfigName(configName)
	if ext := strings.TrimPrefix(path.Ext(filename), "."); ext != "" {
		v.SetConfigType(ext)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, goerror.WrapInvalidConfiguration(err, fmt.Sprintf("failed to read config file %s", pathFile))
	}

	if o.onChange != nil {
		v.OnConfigChange(func(_ fsnotify.Event) {
			if err := v.ReadInConfig(); err != nil {
				slog.Error("config reload failed", "path", pathFile, "err", err)
				return
			}
			slog.Info("config success reloaded", "path", pathFile)
			o.onChange()
		})
		v.WatchConfig()
	}

	return &Viper{v: v}, nil
}

// NewViperFromBytes loads configuration from memory and returns a Viper-backed Config.
// configType should be a format supported by Viper (e.g. "yaml", "json", "toml").
func NewViperFromBytes(configType string, data []byte, opts ...Option) (*Viper, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, goerror.NewInvalidConfiguration("config type is required")
	}

	v := newViper(apply(opts))
	v.SetConfigType(configType)

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, goerror.WrapInvalidConfiguration(err, "failed to parse config")
	}

	return &Viper{v: v}, nil
}

func apply(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

func newViper(o options) *viper.Viper {
	v := viper.New()

	for key, value := range o.defaults {
		v.SetDefault(key, value)
	}

	if o.envPrefix != "" {
		v.SetEnvPrefix(o.envPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	return v
}

// GetInt returns the value for key as int.
func (vc *Viper) GetInt(key string) int {
	return vc.v.GetInt(key)
}

// GetBool returns the value for key as bool.
func (vc *Viper) GetBool(key string) bool {
	return vc.v.GetBool(key)
}

// GetString returns the value for key as string.
func (vc *Viper) GetString(key string) string {
	return vc.v.GetString(key)
}

// GetFloat64 returns the value for key as float64.
func (vc *Viper) GetFloat64(key string) float64 {
	return vc.v.GetFloat64(key)
}

// GetSecond returns the value for key as seconds.
func (vc *Viper) GetSecond(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * time.Second
}

// GetArray returns the value for key as a string slice.
func (vc *Viper) GetArray(key string) []string {
	if s, ok := vc.v.Get(key).(string); ok {
		if s == "" {
			return nil
		}
		return strings.Split(s, ",")
	}

	return vc.v.GetStringSlice(key)
}

// Values returns the requested keys rendered as strings.
func (vc *Viper) Values(keys ...string) map[string]string {
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		value := vc.v.Get(key)
		switch t := value.(type) {
		case nil:
			out[key] = ""
		case []any, []string:
			out[key] = strings.Join(vc.v.GetStringSlice(key), ",")
		case map[string]any:
			out[key] = fmt.Sprint(t)
		default:
			out[key] = vc.v.GetString(key)
		}
	}

	return out
}

// Unmarshal decodes the merged configuration into out.
func (vc *Viper) Unmarshal(out any) error {
	if err := vc.v.Unmarshal(out); err != nil {
		return goerror.WrapInvalidConfiguration(err, "failed to decode config")
	}

	return nil
}

// Close implements io.Closer for interface compatibility.
func (vc *Viper) Close() error {
	// No resources to close for Viper; this is just for interface completeness.
	return nil
}
