// Package config holds the runtime configuration of the crontab CLI and the
// test-environment harness.
//
// Values come from built-in defaults, an optional YAML file and environment
// variables, in that order of precedence. Command-line flags override the
// result.
package config
