package handlers

import (
	"fmt"
	"io"

	"github.com/imamik/crontab-plugin/internal/templates"
)

// Template writes the default CronTab YAML to w.
func Template(w io.Writer) error {
	_, err := fmt.Fprintln(w, templates.DefaultCronTabYAML())
	return err
}
