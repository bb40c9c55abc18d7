package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/teranos/picadata/errors"
	"github.com/teranos/picadata/logger"
)

// Source tells where a configuration value came from
type Source string

const (
	SourceDefault     Source = "default"
	SourceFile        Source = "file"        // picadata.toml in a search directory or --config
	SourceEnvironment Source = "environment" // PICADATA_* env vars
	SourceFlag        Source = "flag"
)

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source Source
	Path   string // file path, environment variable or flag name
}

// Loader merges the configuration sources of one invocation
type Loader struct {
	v       *viper.Viper
	flags   *pflag.FlagSet
	sources map[string]SourceInfo
	files   []string
}

// SearchPaths returns the config files consulted when no explicit file is
// given, lowest precedence first.
var SearchPaths = func() []string {
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "picadata", FileName))
	} else if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "picadata", FileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".picadata", FileName))
	}
	return append(paths, FileName)
}

// NewLoader reads the config files and binds environment and flags.
// With configFile set, only that file is read and it must exist. flags may
// be nil.
func NewLoader(configFile string, flags *pflag.FlagSet) (*Loader, error) {
	l := &Loader{
		v:       viper.New(),
		flags:   flags,
		sources: make(map[string]SourceInfo),
	}
	v := l.v

	SetDefaults(v)

	if configFile != "" {
		if err := l.merge(configFile); err != nil {
			return nil, errors.WithHint(err, "check the path given to --config")
		}
	} else {
		for _, path := range SearchPaths() {
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if err := l.merge(path); err != nil {
				return nil, err
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagNames {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Mark(errors.Wrapf(err, "binding flag --%s", name), errors.ErrInvalidConfig)
				}
			}
		}
	}
	return l, nil
}

// merge layers one TOML file over the settings read so far
func (l *Loader) merge(path string) error {
	tmp := viper.New()
	tmp.SetConfigFile(path)
	tmp.SetConfigType("toml")
	if err := tmp.ReadInConfig(); err != nil {
		return errors.Mark(errors.Wrapf(err, "reading config file %s", path), errors.ErrInvalidConfig)
	}
	if err := l.v.MergeConfigMap(tmp.AllSettings()); err != nil {
		return errors.Mark(errors.Wrapf(err, "merging config file %s", path), errors.ErrInvalidConfig)
	}
	for _, key := range tmp.AllKeys() {
		l.sources[key] = SourceInfo{Source: SourceFile, Path: path}
	}
	l.files = append(l.files, path)
	logger.Debugw("Merged config file", logger.FieldFile, path)
	return nil
}

// Load unmarshals and validates the merged settings
func (l *Loader) Load() (*Config, error) {
	var c Config
	if err := l.v.Unmarshal(&c); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to unmarshal config"), errors.ErrInvalidConfig)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Files returns the config files that were merged, in order
func (l *Loader) Files() []string {
	return l.files
}

// Source reports where the effective value of key came from
func (l *Loader) Source(key string) SourceInfo {
	if l.flags != nil {
		if f := l.flags.Lookup(flagNames[key]); f != nil && f.Changed {
			return SourceInfo{Source: SourceFlag, Path: "--" + f.Name}
		}
	}
	envKey := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	if _, ok := os.LookupEnv(envKey); ok {
		return SourceInfo{Source: SourceEnvironment, Path: envKey}
	}
	if si, ok := l.sources[key]; ok {
		return si
	}
	return SourceInfo{Source: SourceDefault, Path: "built-in default"}
}

// Viper returns the underlying instance for advanced access
func (l *Loader) Viper() *viper.Viper {
	return l.v
}
