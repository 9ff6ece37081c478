// Package config loads sitterdiff settings from defaults, an optional YAML
// file and SITTERDIFF_ environment variables.
package config
