package config

import (
	"github.com/spf13/viper"
)

// flagNames maps config keys to the command-line flags that override them
var flagNames = map[string]string{
	"from":          "from",
	"to":            "to",
	"schema":        "schema",
	"path":          "path",
	"unknown":       "unknown",
	"count":         "count",
	"log.json":      "log-json",
	"log.verbosity": "verbose",
}

// SetDefaults configures default values for all configuration options.
// Every key needs a default so environment overrides are unmarshalled.
func SetDefaults(v *viper.Viper) {
	// Input type is guessed from the file extension when empty
	v.SetDefault("from", "")
	// Empty means records are not written
	v.SetDefault("to", "")
	v.SetDefault("schema", "")
	v.SetDefault("path", "")
	v.SetDefault("unknown", false)
	v.SetDefault("count", false)

	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)
}

// Keys lists every configuration key, sorted
func Keys() []string {
	return []string{"count", "from", "log.json", "log.verbosity", "path", "schema", "to", "unknown"}
}
