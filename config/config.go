// Package config loads picadata settings from defaults, config files,
// PICADATA_* environment variables and command-line flags, in that order of
// precedence.
package config

// Config holds the merged settings of one invocation
type Config struct {
	From    string    `mapstructure:"from" toml:"from"`
	To      string    `mapstructure:"to" toml:"to"`
	Schema  string    `mapstructure:"schema" toml:"schema"`
	Path    string    `mapstructure:"path" toml:"path"`
	Unknown bool      `mapstructure:"unknown" toml:"unknown"`
	Count   bool      `mapstructure:"count" toml:"count"`
	Log     LogConfig `mapstructure:"log" toml:"log"`
}

// LogConfig configures diagnostics on stderr
type LogConfig struct {
	JSON      bool `mapstructure:"json" toml:"json"`
	Verbosity int  `mapstructure:"verbosity" toml:"verbosity"` // 0 warn, 1 info, 2+ debug
}

// SameAsInput as the output type writes records in the input type.
// It is what a bare --to resolves to.
const SameAsInput = "same"

// FileName is the config file looked up in the search directories
const FileName = "picadata.toml"

// EnvPrefix prefixes environment overrides, e.g. PICADATA_LOG_VERBOSITY
const EnvPrefix = "PICADATA"

// DefaultFilePermissions for config files written by Save
const DefaultFilePermissions = 0o644

// Writes reports whether records are serialized to the output
func (c *Config) Writes() bool {
	return c.To != ""
}
