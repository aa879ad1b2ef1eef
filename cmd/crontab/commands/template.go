package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/crontab-plugin/cmd/crontab/handlers"
)

// Template returns the command that prints the default CronTab YAML.
func Template() *cobra.Command {
	return &cobra.Command{
		Use:   "template",
		Short: "Print the default CronTab YAML template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Template(cmd.OutOrStdout())
		},
	}
}
