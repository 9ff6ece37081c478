// This file contains environment variable overrides for the configuration.

package config

import (
	"strconv"
	"strings"
	"time"
)

// envOverride declares a single environment variable override. envKey is
// the variable name without EnvPrefix.
type envOverride struct {
	envKey string
	apply  func(*AppConfig, string)
}

// envOverrides is the declarative table of all environment variable
// overrides. Values that fail to parse leave the field unchanged.
var envOverrides = []envOverride{
	// Numeric overrides
	{"CACHE_SIZE", func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.CacheSize = parsed
		}
	}},
	{"CONCURRENCY", func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Concurrency = parsed
		}
	}},

	// Duration overrides
	{"TIMEOUT", func(c *AppConfig, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.Timeout = parsed
		}
	}},

	// String overrides
	{"LOG_LEVEL", func(c *AppConfig, v string) { c.LogLevel = v }},
	{"LOG_FORMAT", func(c *AppConfig, v string) { c.LogFormat = v }},
	{"LANGUAGE", func(c *AppConfig, v string) { c.Language = v }},
	{"PROFILE", func(c *AppConfig, v string) { c.ProfilePath = v }},
	{"STYLESHEET", func(c *AppConfig, v string) { c.StylesheetPath = v }},
	{"SASS_BINARY", func(c *AppConfig, v string) { c.SassBinary = v }},

	// Boolean overrides
	{"FUSE_EDITS", func(c *AppConfig, v string) {
		c.FuseEdits = parseBoolEnv(v, c.FuseEdits)
	}},
	{"PREFER_LITERALS", func(c *AppConfig, v string) {
		c.PreferLiterals = parseBoolEnv(v, c.PreferLiterals)
	}},
	{"ALLOW_SYNTAX_ERRORS", func(c *AppConfig, v string) {
		c.AllowSyntaxErrors = parseBoolEnv(v, c.AllowSyntaxErrors)
	}},
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
// Returns defaultVal if the value is not recognized.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies every non-empty SITTERDIFF_ variable found by
// lookup to the configuration.
func applyEnvOverrides(config *AppConfig, lookup func(string) (string, bool)) {
	for _, o := range envOverrides {
		if val, ok := lookup(EnvPrefix + o.envKey); ok && val != "" {
			o.apply(config, val)
		}
	}
}
