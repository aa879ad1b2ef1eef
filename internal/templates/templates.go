// Package templates provides the starter YAML shown in the CronTab YAML editor.
package templates

import (
	_ "embed"
	"strings"
)

//go:embed crontab.yaml
var defaultCronTabYAML string

// DefaultCronTabYAML returns the default CronTab template, trimmed of
// surrounding whitespace.
func DefaultCronTabYAML() string {
	return strings.TrimSpace(defaultCronTabYAML)
}
