package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/crontab-plugin/cmd/crontab/handlers"
)

// TestEnv returns the command group that installs and removes the plugin's
// helm chart for end-to-end runs.
//
// Environment variables:
//
//	BRIDGE_BASE_ADDRESS: console URL; a localhost address skips both steps
//	CRONTAB_PLUGIN_PULL_SPEC: plugin image passed as plugin.image
//	CRONTAB_HELM_BACKEND: cli (default) or sdk
func TestEnv(globals *globalFlags) *cobra.Command {
	opts := handlers.TestEnvOptions{}

	cmd := &cobra.Command{
		Use:   "testenv",
		Short: "Install or remove the plugin chart for end-to-end tests",
	}

	cmd.PersistentFlags().StringVar(&opts.Kubeconfig, "kubeconfig", "", "Path to kubeconfig (default: $KUBECONFIG or ~/.kube/config)")
	cmd.PersistentFlags().StringVar(&opts.Context, "context", "", "Kubeconfig context")
	cmd.PersistentFlags().StringVar(&opts.BaseAddress, "base-address", "", "Console base URL (default: $BRIDGE_BASE_ADDRESS)")
	cmd.PersistentFlags().StringVar(&opts.PluginImage, "plugin-image", "", "Plugin image (default: $CRONTAB_PLUGIN_PULL_SPEC)")
	cmd.PersistentFlags().StringVar(&opts.HelmBackend, "helm-backend", "", "Helm backend: cli or sdk (default: $CRONTAB_HELM_BACKEND or cli)")

	setup := &cobra.Command{
		Use:   "setup",
		Short: "Download helm, install the plugin chart and wait for the console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.ConfigPath = globals.configPath
			return handlers.TestEnvSetup(cmd.Context(), opts)
		},
	}

	teardown := &cobra.Command{
		Use:   "teardown",
		Short: "Uninstall the plugin chart and delete its namespace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.ConfigPath = globals.configPath
			return handlers.TestEnvTeardown(cmd.Context(), opts)
		},
	}

	cmd.AddCommand(setup, teardown)
	return cmd
}
