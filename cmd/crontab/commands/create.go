package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/crontab-plugin/cmd/crontab/handlers"
)

// Create returns the command for creating a CronTab.
//
// The CronTab is described either by flags (--name, --schedule, --image,
// --replicas) or by a YAML document (--file). When required input is missing
// and the terminal is interactive, a form is shown instead.
func Create(globals *globalFlags) *cobra.Command {
	opts := handlers.CreateOptions{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a CronTab",
		Long: `Create a CronTab (stable.example.com/v1) in the active namespace.

The CronTab is created from flags, from a YAML document, or interactively.
Name, schedule and image are required; replicas defaults to 0.

With --file, the document must include metadata.name (or
metadata.generateName) and spec. Schedule, image and replicas given as flags
override the document's values.

Examples:
  # Create from flags
  crontab create --name nightly --schedule "0 2 * * *" --image busybox --replicas 1

  # Create from a YAML document
  crontab template > crontab.yaml
  crontab create -f crontab.yaml

  # Interactive form, starting in the YAML editor
  crontab create --yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.ConfigPath = globals.configPath
			opts.Lang = globals.lang
			opts.ReplicasSet = cmd.Flags().Changed("replicas")
			return handlers.Create(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "CronTab name")
	cmd.Flags().StringVar(&opts.Schedule, "schedule", "", "Cron schedule (spec.cronSpec), e.g. \"*/5 * * * *\"")
	cmd.Flags().StringVar(&opts.Image, "image", "", "Container image (spec.image)")
	cmd.Flags().IntVar(&opts.Replicas, "replicas", 0, "Number of replicas (spec.replicas)")
	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "Create from a YAML document (\"-\" reads stdin)")
	cmd.Flags().BoolVar(&opts.YAML, "yaml", false, "Start the interactive form in the YAML editor")
	cmd.Flags().StringVarP(&opts.Namespace, "namespace", "n", "", "Namespace (default: kubeconfig context namespace)")
	cmd.Flags().StringVar(&opts.Kubeconfig, "kubeconfig", "", "Path to kubeconfig (default: $KUBECONFIG or ~/.kube/config)")
	cmd.Flags().StringVar(&opts.Context, "context", "", "Kubeconfig context")
	cmd.Flags().StringVar(&opts.ConsoleURL, "console-url", "", "Console base URL (default: $BRIDGE_BASE_ADDRESS)")
	cmd.Flags().StringVar(&opts.PushGateway, "pushgateway", "", "Push submission metrics to this Prometheus Pushgateway URL (default: $CRONTAB_PUSHGATEWAY_URL)")

	return cmd
}
